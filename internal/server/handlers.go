package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/roadmap"
	"github.com/rshade/regenesis/internal/scoring"
)

// AssessRequest is the JSON body of /assess and /roadmap/export.
// QuantityKg is a pointer so a missing field is told apart from zero; range
// checks are left to the scoring package so they report invalid_quantity.
type AssessRequest struct {
	WasteType  string   `json:"waste_type"  validate:"required"`
	QuantityKg *float64 `json:"quantity_kg" validate:"required"`
	Country    string   `json:"country"`
	Scenario   string   `json:"scenario"`
	Weeks      int      `json:"weeks"       validate:"gte=0"`
	Narrative  bool     `json:"narrative"`
}

func (r AssessRequest) toEngine() engine.Request {
	return engine.Request{
		WasteType:  r.WasteType,
		QuantityKg: *r.QuantityKg,
		Country:    r.Country,
		Scenario:   r.Scenario,
		Weeks:      r.Weeks,
		Narrative:  r.Narrative,
	}
}

// BatchRequest is the JSON body of /assess/batch.
type BatchRequest struct {
	Requests []AssessRequest `json:"requests" validate:"required,min=1,max=1000,dive"`
}

// BatchResponse is the reply to /assess/batch.
type BatchResponse struct {
	Summary engine.BatchSummary `json:"summary"`
	Items   []engine.BatchItem  `json:"items"`
}

// ReferenceList is the reply to the reference listing endpoints.
type ReferenceList struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// ReloadResponse is the reply to /reference/reload.
type ReloadResponse struct {
	Categories int       `json:"categories"`
	Countries  int       `json:"countries"`
	LoadedAt   time.Time `json:"loaded_at"`
}

func (s *Server) handleHealth(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if _, err := s.engine.Store().Snapshot(); err != nil {
		status = "reference data not loaded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status})
}

func (s *Server) handleCategories(c *gin.Context) {
	items, err := s.engine.Categories()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReferenceList{Items: items, Count: len(items)})
}

func (s *Server) handleCountries(c *gin.Context) {
	items, err := s.engine.Countries()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReferenceList{Items: items, Count: len(items)})
}

func (s *Server) handleReload(c *gin.Context) {
	snap, err := s.engine.Reload(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReloadResponse{
		Categories: snap.Market.Len(),
		Countries:  snap.Country.Len(),
		LoadedAt:   snap.LoadedAt,
	})
}

func (s *Server) handleExplain(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"lines": scoring.Explain(s.engine.ScoringParams())})
}

func (s *Server) bindAssess(c *gin.Context) (engine.Request, bool) {
	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return engine.Request{}, false
	}
	if err := s.val.Struct(req); err != nil {
		writeError(c, err)
		return engine.Request{}, false
	}
	return req.toEngine(), true
}

func (s *Server) handleAssess(c *gin.Context) {
	req, ok := s.bindAssess(c)
	if !ok {
		return
	}
	a, err := s.engine.Assess(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleAssessBatch(c *gin.Context) {
	var body BatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return
	}
	if err := s.val.Struct(body); err != nil {
		writeError(c, err)
		return
	}

	reqs := make([]engine.Request, len(body.Requests))
	for i, r := range body.Requests {
		reqs[i] = r.toEngine()
	}
	items, err := s.engine.AssessBatch(c.Request.Context(), reqs, engine.BatchOptions{Concurrency: s.cfg.BatchConcurrency})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchResponse{Summary: engine.Summarize(items), Items: items})
}

func (s *Server) handleRoadmapExport(c *gin.Context) {
	format, err := roadmap.ParseFormat(c.Query("format"))
	if err != nil {
		writeError(c, err)
		return
	}
	req, ok := s.bindAssess(c)
	if !ok {
		return
	}
	doc, err := s.engine.Roadmap(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := roadmap.Export(&buf, doc, format); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="roadmap-%s%s"`, doc.ID, format.Extension()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
