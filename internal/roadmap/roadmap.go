// Package roadmap builds the phased weekly action plan that accompanies a
// feasibility assessment, and exports it as Markdown, HTML or JSON.
//
// Generation is fully deterministic: the same inputs always produce the same
// tasks and the same document ID.
package roadmap

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/rshade/regenesis/internal/scoring"
)

// Phase names the stage a week belongs to.
type Phase string

// Phases in order.
const (
	PhaseDiscovery    Phase = "Discovery & Validation"
	PhasePrototype    Phase = "Prototype"
	PhasePilot        Phase = "Pilot"
	PhaseOptimization Phase = "Optimization"
	PhaseScale        Phase = "Scale"
)

// Duration bounds in weeks.
const (
	DefaultMinWeeks     = 1
	DefaultMaxWeeks     = 24
	DefaultDefaultWeeks = 12
	weeksPerPhase       = 4
)

type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrWeeksOutOfRange is returned by Bounds.Validate.
	ErrWeeksOutOfRange = constError("roadmap duration out of range")

	// ErrInvalidBounds is returned when Min/Max/Default are inconsistent.
	ErrInvalidBounds = constError("invalid roadmap bounds")

	// ErrUnknownFormat is returned for an unsupported export format.
	ErrUnknownFormat = constError("unknown roadmap format")
)

// Bounds is the accepted duration range.
type Bounds struct {
	Min     int `json:"min_weeks"     yaml:"min_weeks"`
	Max     int `json:"max_weeks"     yaml:"max_weeks"`
	Default int `json:"default_weeks" yaml:"default_weeks"`
}

// DefaultBounds returns 1-24 weeks with a 12 week default.
func DefaultBounds() Bounds {
	return Bounds{Min: DefaultMinWeeks, Max: DefaultMaxWeeks, Default: DefaultDefaultWeeks}
}

// Check reports whether the bounds themselves are usable.
func (b Bounds) Check() error {
	if b.Min < 1 || b.Max < b.Min || b.Default < b.Min || b.Default > b.Max {
		return fmt.Errorf("%w: min=%d max=%d default=%d", ErrInvalidBounds, b.Min, b.Max, b.Default)
	}
	return nil
}

// Clamp forces weeks into [Min, Max]. Zero means Default.
func (b Bounds) Clamp(weeks int) int {
	if weeks == 0 {
		return b.Default
	}
	return min(b.Max, max(b.Min, weeks))
}

// Validate rejects weeks outside [Min, Max].
func (b Bounds) Validate(weeks int) error {
	if weeks < b.Min || weeks > b.Max {
		return fmt.Errorf("%w: %d weeks (allowed %d-%d)", ErrWeeksOutOfRange, weeks, b.Min, b.Max)
	}
	return nil
}

// Task is one week of the plan.
type Task struct {
	Week  int    `json:"week"`
	Phase Phase  `json:"phase"`
	Title string `json:"title"`
}

// Header names the inputs the plan was generated for.
type Header struct {
	WasteType        string         `json:"waste_type"`
	Country          string         `json:"country"`
	FeasibilityScore float64        `json:"feasibility_score"`
	Status           scoring.Status `json:"status"`
	DurationWeeks    int            `json:"duration_weeks"`
	Focus            string         `json:"focus"`
}

// Document is a generated roadmap.
type Document struct {
	ID     string `json:"id"`
	Header Header `json:"header"`
	Tasks  []Task `json:"tasks"`
}

// PhaseSummary groups consecutive weeks of one phase.
type PhaseSummary struct {
	Phase     Phase    `json:"phase"`
	StartWeek int      `json:"start_week"`
	EndWeek   int      `json:"end_week"`
	Tasks     []string `json:"tasks"`
}

var phaseTasks = map[Phase][weeksPerPhase]string{ //nolint:gochecknoglobals // Constant lookup table
	PhaseDiscovery: {
		"Map local waste sources and collection partners",
		"Interview buyers and confirm demand for recycled output",
		"Audit permits, zoning and compliance requirements",
		"Validate unit economics against local market prices",
	},
	PhasePrototype: {
		"Source or lease sorting and shredding equipment",
		"Run small test batches and measure yield",
		"Define quality grades for recycled material",
		"Refine the collection route and logistics plan",
	},
	PhasePilot: {
		"Launch a pilot with one collection partner",
		"Sign the first offtake agreement",
		"Track throughput, contamination and cost per kg",
		"Review pilot results and adjust pricing",
	},
	PhaseOptimization: {
		"Automate sorting bottlenecks found in the pilot",
		"Negotiate volume discounts with suppliers",
		"Train staff on safety and quality procedures",
		"Set up monthly reporting on revenue and diversion",
	},
	PhaseScale: {
		"Add collection partners in neighbouring districts",
		"Raise working capital for expanded capacity",
		"Pursue certification for recycled-content buyers",
		"Evaluate a second processing site",
	},
}

// PhaseForWeek returns the phase of a 1-based week.
func PhaseForWeek(week int) Phase {
	switch {
	case week <= 4:
		return PhaseDiscovery
	case week <= 8:
		return PhasePrototype
	case week <= 12:
		return PhasePilot
	case week <= 16:
		return PhaseOptimization
	default:
		return PhaseScale
	}
}

func phaseStart(p Phase) int {
	switch p {
	case PhaseDiscovery:
		return 1
	case PhasePrototype:
		return 5
	case PhasePilot:
		return 9
	case PhaseOptimization:
		return 13
	default:
		return 17
	}
}

// TaskForWeek returns the fixed task of a 1-based week.
func TaskForWeek(week int) Task {
	p := PhaseForWeek(week)
	tasks := phaseTasks[p]
	return Task{Week: week, Phase: p, Title: tasks[(week-phaseStart(p))%weeksPerPhase]}
}

// Focus is the one-line strategic emphasis for a status tier.
func Focus(s scoring.Status) string {
	switch s {
	case scoring.StatusHighRisk:
		return "Validate supply and buyers before committing capital; keep the pilot small."
	case scoring.StatusModerateOpportunity:
		return "Tighten unit economics and secure offtake agreements before scaling."
	default:
		return "Move quickly to lock in feedstock and buyers, and plan capacity for scale."
	}
}

// Generate builds a plan of weeks (clamped to b) for the given assessment.
func Generate(weeks int, score float64, wasteType, country string, b Bounds) (Document, error) {
	if err := b.Check(); err != nil {
		return Document{}, err
	}
	n := b.Clamp(weeks)
	status := scoring.ComputeStatus(score)

	doc := Document{
		Header: Header{
			WasteType:        wasteType,
			Country:          country,
			FeasibilityScore: score,
			Status:           status,
			DurationWeeks:    n,
			Focus:            Focus(status),
		},
		Tasks: make([]Task, 0, n),
	}
	for w := 1; w <= n; w++ {
		doc.Tasks = append(doc.Tasks, TaskForWeek(w))
	}
	doc.ID = documentID(doc.Header)
	return doc, nil
}

var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://regenesis.local/roadmap")) //nolint:gochecknoglobals // fixed namespace

func documentID(h Header) string {
	name := h.WasteType + "|" + h.Country + "|" +
		strconv.FormatFloat(h.FeasibilityScore, 'f', 2, 64) + "|" +
		strconv.Itoa(h.DurationWeeks)
	return uuid.NewSHA1(documentNamespace, []byte(name)).String()
}

// Phases groups the tasks by phase in order.
func (d Document) Phases() []PhaseSummary {
	var out []PhaseSummary
	for _, t := range d.Tasks {
		if n := len(out); n > 0 && out[n-1].Phase == t.Phase {
			out[n-1].EndWeek = t.Week
			out[n-1].Tasks = append(out[n-1].Tasks, t.Title)
			continue
		}
		out = append(out, PhaseSummary{Phase: t.Phase, StartWeek: t.Week, EndWeek: t.Week, Tasks: []string{t.Title}})
	}
	return out
}
