package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rshade/regenesis/internal/cli/pagination"
	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/greenops"
	"github.com/rshade/regenesis/internal/roadmap"
	"github.com/rshade/regenesis/internal/scoring"
)

// Layout constants for the styled assessment card.
const (
	defaultBoxWidth     = 64
	minBoxWidth         = 40
	boxPaddingWidth     = 4
	narrowTerminalWidth = 50
	layoutWidthPercent  = 0.8
	tabPadding          = 2
	roadmapPreviewWeeks = 4
)

func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }
func boxTitleColor() lipgloss.Color { return lipgloss.Color("39") }
func sectionColor() lipgloss.Color { return lipgloss.Color("33") }
func mutedColor() lipgloss.Color { return lipgloss.Color("246") }
func colorHighRisk() lipgloss.Color { return lipgloss.Color("196") }
func colorModerate() lipgloss.Color { return lipgloss.Color("214") }
func colorPotential() lipgloss.Color { return lipgloss.Color("42") }

// statusColor maps a status tier to its card colour.
func statusColor(s scoring.Status) lipgloss.Color {
	switch s {
	case scoring.StatusHighRisk:
		return colorHighRisk()
	case scoring.StatusModerateOpportunity:
		return colorModerate()
	default:
		return colorPotential()
	}
}

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
// Any other writer (bytes.Buffer in tests, pipes) gets plain output.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// getTerminalWidth returns the column count of w, or a fallback that fits
// the default card.
func getTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultBoxWidth + boxPaddingWidth
}

// calculateBoxWidth uses ~80% of the terminal, capped at defaultBoxWidth.
func calculateBoxWidth(termWidth int) int {
	if termWidth < narrowTerminalWidth {
		return minBoxWidth
	}
	boxWidth := int(float64(termWidth) * layoutWidthPercent)
	boxWidth = min(boxWidth, defaultBoxWidth)
	return max(boxWidth, minBoxWidth)
}

// assessmentView is the assessment plus presentation-only extras.
type assessmentView struct {
	*engine.Assessment

	Explain []string `json:"explain,omitempty"`
}

// renderAssessment writes view in the requested format.
func renderAssessment(w io.Writer, format string, view assessmentView, precision int) error {
	switch format {
	case outputJSON:
		return renderJSON(w, view)
	case outputNDJSON:
		return json.NewEncoder(w).Encode(view)
	default:
		if isWriterTerminal(w) {
			return renderStyledAssessment(w, view, precision)
		}
		return renderPlainAssessment(w, view, precision)
	}
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// assessmentSection is a titled group of label/value rows shared by the
// styled and plain renderers.
type assessmentSection struct {
	title string
	rows  [][2]string
}

func assessmentSections(view assessmentView, precision int) []assessmentSection {
	f := view.Feasibility
	im := view.Impact
	money := func(v float64) string { return f.Currency + " " + greenops.FormatFloat(v, precision) }

	country := f.Country
	if !f.CountryMatched {
		country = "not found (environmental factor omitted)"
	}

	return []assessmentSection{
		{
			title: "Venture",
			rows: [][2]string{
				{"Waste type", f.WasteType},
				{"Quantity", greenops.FormatFloat(f.QuantityKg, precision) + " kg"},
				{"Country", country},
				{"Market value", money(f.MarketValue)},
			},
		},
		{
			title: "Score drivers",
			rows: [][2]string{
				{"Price per kg", fmt.Sprintf("USD %.2f", f.PricePerKgUSD)},
				{"Demand score", fmt.Sprintf("%g", f.DemandScore)},
				{"Scale factor", fmt.Sprintf("%.2f", f.ScaleFactor)},
				{"Environmental factor", fmt.Sprintf("%.2f", f.MismanagedFactor)},
			},
		},
		{
			title: "Projected impact (" + string(im.Scenario) + ")",
			rows: [][2]string{
				{"Monthly revenue", money(im.MonthlyRevenue)},
				{"Six month revenue", money(im.SixMonthRevenue)},
				{"Scenario revenue", money(im.ScenarioRevenue)},
				{"CO2 saved", greenops.FormatFloat(im.CO2SavedKg, precision) + " kg"},
				{"Jobs created", greenops.FormatNumber(int64(im.JobsCreated))},
				{"Plastic diverted", greenops.FormatFloat(im.PlasticDivertedKg, precision) + " kg"},
			},
		},
	}
}

func renderStyledAssessment(w io.Writer, view assessmentView, precision int) error {
	boxWidth := calculateBoxWidth(getTerminalWidth(w))
	f := view.Feasibility

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(boxTitleColor())
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(sectionColor())
	mutedStyle := lipgloss.NewStyle().Italic(true).Foreground(mutedColor())
	scoreStyle := lipgloss.NewStyle().Bold(true).Foreground(statusColor(f.Status))
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(boxWidth)

	var content strings.Builder
	content.WriteString(titleStyle.Render("FEASIBILITY ASSESSMENT"))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", boxWidth-boxPaddingWidth))
	content.WriteString("\n\n")

	content.WriteString(scoreStyle.Render(fmt.Sprintf("%.2f / 100  %s", f.FeasibilityScore, f.Status.Label())))
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render(f.Status.Description()))
	content.WriteString("\n")

	for _, s := range assessmentSections(view, precision) {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render(s.title))
		content.WriteString("\n")
		for _, row := range s.rows {
			fmt.Fprintf(&content, "%-22s %s\n", row[0]+":", row[1])
		}
	}

	if eq := view.Impact.Equivalencies; !eq.IsEmpty && eq.DisplayText != "" {
		content.WriteString(mutedStyle.Render(eq.DisplayText))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(sectionStyle.Render(fmt.Sprintf("Roadmap (%d weeks)", view.Roadmap.Header.DurationWeeks)))
	content.WriteString("\n")
	content.WriteString(view.Roadmap.Header.Focus)
	content.WriteString("\n")
	for _, t := range roadmapPreview(view) {
		fmt.Fprintf(&content, "  Week %d: %s\n", t.Week, t.Title)
	}

	if view.Narrative != "" {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render("Narrative"))
		content.WriteString("\n")
		content.WriteString(view.Narrative)
		content.WriteString("\n")
	}

	if len(view.Explain) > 0 {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render("How the score is built"))
		content.WriteString("\n")
		for _, line := range view.Explain {
			content.WriteString("• " + line + "\n")
		}
	}

	_, err := fmt.Fprintln(w, borderStyle.Render(strings.TrimRight(content.String(), "\n")))
	return err
}

func renderPlainAssessment(w io.Writer, view assessmentView, precision int) error {
	f := view.Feasibility
	var b strings.Builder

	b.WriteString("FEASIBILITY ASSESSMENT\n")
	b.WriteString("======================\n")
	fmt.Fprintf(&b, "Score: %.2f / 100 (%s)\n", f.FeasibilityScore, f.Status.Label())
	fmt.Fprintf(&b, "%s\n", f.Status.Description())

	for _, s := range assessmentSections(view, precision) {
		fmt.Fprintf(&b, "\n%s\n", s.title)
		for _, row := range s.rows {
			fmt.Fprintf(&b, "  %-22s %s\n", row[0]+":", row[1])
		}
	}
	if eq := view.Impact.Equivalencies; !eq.IsEmpty && eq.DisplayText != "" {
		fmt.Fprintf(&b, "  %s\n", eq.DisplayText)
	}

	fmt.Fprintf(&b, "\nRoadmap (%d weeks)\n", view.Roadmap.Header.DurationWeeks)
	fmt.Fprintf(&b, "  Focus: %s\n", view.Roadmap.Header.Focus)
	for _, t := range roadmapPreview(view) {
		fmt.Fprintf(&b, "  Week %d: %s\n", t.Week, t.Title)
	}

	if view.Narrative != "" {
		fmt.Fprintf(&b, "\nNarrative (%s)\n  %s\n", view.NarrativeProvider, view.Narrative)
	}
	if len(view.Explain) > 0 {
		b.WriteString("\nHow the score is built\n")
		for _, line := range view.Explain {
			fmt.Fprintf(&b, "  - %s\n", line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func roadmapPreview(view assessmentView) []roadmap.Task {
	tasks := view.Roadmap.Tasks
	return tasks[:min(len(tasks), roadmapPreviewWeeks)]
}

// batchOutput is the JSON document for a batch run.
type batchOutput struct {
	Summary    engine.BatchSummary `json:"summary"`
	Pagination *pagination.Meta    `json:"pagination,omitempty"`
	Items      []engine.BatchItem  `json:"items"`
}

// ndjsonBatchSummary is the first line of NDJSON batch output.
type ndjsonBatchSummary struct {
	Type string `json:"type"`
	engine.BatchSummary
}

// ndjsonBatchItem is every following line.
type ndjsonBatchItem struct {
	Type string `json:"type"`
	engine.BatchItem
}

// renderBatch writes batch results. summary always covers the whole batch;
// items may be a sorted window of it.
func renderBatch(
	w io.Writer,
	format string,
	summary engine.BatchSummary,
	items []engine.BatchItem,
	meta *pagination.Meta,
	precision int,
) error {
	switch format {
	case outputJSON:
		return renderJSON(w, batchOutput{Summary: summary, Pagination: meta, Items: items})
	case outputNDJSON:
		encoder := json.NewEncoder(w)
		if err := encoder.Encode(ndjsonBatchSummary{Type: "summary", BatchSummary: summary}); err != nil {
			return err
		}
		for _, it := range items {
			if err := encoder.Encode(ndjsonBatchItem{Type: "item", BatchItem: it}); err != nil {
				return err
			}
		}
		return nil
	default:
		return renderBatchTable(w, summary, items, precision)
	}
}

func renderBatchTable(w io.Writer, summary engine.BatchSummary, items []engine.BatchItem, precision int) error {
	fmt.Fprintf(w, "BATCH ASSESSMENT: %d total, %d succeeded, %d failed\n\n",
		summary.Total, summary.Succeeded, summary.Failed)

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ROW\tWASTE TYPE\tCOUNTRY\tQUANTITY (KG)\tSCORE\tSTATUS\tMONTHLY REVENUE")
	for _, it := range items {
		row := it.Index + 1
		if it.Assessment == nil {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t-\tERROR\t%s\n",
				row, it.Request.WasteType, it.Request.Country,
				greenops.FormatFloat(it.Request.QuantityKg, precision), it.Error)
			continue
		}
		f := it.Assessment.Feasibility
		country := f.Country
		if !f.CountryMatched {
			country = it.Request.Country + " (unmatched)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%s\t%s %s\n",
			row, f.WasteType, country,
			greenops.FormatFloat(f.QuantityKg, precision),
			f.FeasibilityScore, f.Status.Label(),
			f.Currency, greenops.FormatFloat(it.Assessment.Impact.MonthlyRevenue, precision))
	}
	return tw.Flush()
}

// renderList writes a list of names as a table or JSON.
func renderList(w io.Writer, format, header string, items []string) error {
	switch format {
	case outputJSON:
		return renderJSON(w, struct {
			Items []string `json:"items"`
			Count int      `json:"count"`
		}{Items: items, Count: len(items)})
	case outputNDJSON:
		encoder := json.NewEncoder(w)
		for _, it := range items {
			if err := encoder.Encode(struct {
				Name string `json:"name"`
			}{Name: it}); err != nil {
				return err
			}
		}
		return nil
	default:
		fmt.Fprintln(w, header)
		for _, it := range items {
			fmt.Fprintf(w, "  %s\n", it)
		}
		fmt.Fprintf(w, "\n%d total\n", len(items))
		return nil
	}
}
