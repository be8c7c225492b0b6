package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/impact"
	"github.com/rshade/regenesis/internal/logging"
	"github.com/rshade/regenesis/internal/refdata"
	"github.com/rshade/regenesis/internal/roadmap"
	"github.com/rshade/regenesis/internal/scoring"
)

// Error kinds reported in ErrorResponse.Kind.
const (
	KindUnknownCategory = "unknown_category"
	KindInvalidQuantity = "invalid_quantity"
	KindUnknownScenario = "unknown_scenario"
	KindUnknownFormat   = "unknown_format"
	KindInvalidRequest  = "invalid_request"
	KindValidation      = "validation"
	KindNotLoaded       = "not_loaded"
	KindDataLoad        = "data_load"
	KindInternal        = "internal"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Details any    `json:"details,omitempty"`
}

// classify maps err to an HTTP status and error kind.
func classify(err error) (int, string) {
	var (
		unknownCat *scoring.UnknownCategoryError
		badQty     *scoring.InvalidQuantityError
		loadErr    *refdata.DataLoadError
		valErrs    validator.ValidationErrors
	)
	switch {
	case errors.As(err, &unknownCat):
		return http.StatusNotFound, KindUnknownCategory
	case errors.As(err, &badQty):
		return http.StatusBadRequest, KindInvalidQuantity
	case errors.Is(err, impact.ErrUnknownScenario):
		return http.StatusBadRequest, KindUnknownScenario
	case errors.Is(err, roadmap.ErrUnknownFormat):
		return http.StatusBadRequest, KindUnknownFormat
	case errors.As(err, &valErrs), errors.Is(err, engine.ErrBatchTooLarge):
		return http.StatusBadRequest, KindValidation
	case errors.Is(err, refdata.ErrNotLoaded):
		return http.StatusServiceUnavailable, KindNotLoaded
	case errors.As(err, &loadErr):
		return http.StatusInternalServerError, KindDataLoad
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

func writeError(c *gin.Context, err error) {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).Error().
			Ctx(ctx).
			Str("operation", "http_error").
			Str("kind", kind).
			Err(err).
			Msg("request failed")
	}
	resp := ErrorResponse{Error: err.Error(), Kind: kind}
	var unknownCat *scoring.UnknownCategoryError
	if errors.As(err, &unknownCat) {
		resp.Details = gin.H{"known_categories": unknownCat.Known}
	}
	c.AbortWithStatusJSON(status, resp)
}

func writeBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error: "invalid request body: " + err.Error(),
		Kind:  KindInvalidRequest,
	})
}
