package roadmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format is an export format.
type Format string

// Export formats.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown" (or "md"), "html" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: markdown, html, json)", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".json"
	default:
		return ".md"
	}
}

// Markdown renders the document as GitHub-flavoured Markdown.
func Markdown(d Document) string {
	var b strings.Builder
	h := d.Header

	fmt.Fprintf(&b, "# ReGenesis Roadmap: %s in %s\n\n", h.WasteType, displayCountry(h.Country))
	fmt.Fprintf(&b, "- **Feasibility score:** %.2f\n", h.FeasibilityScore)
	fmt.Fprintf(&b, "- **Status:** %s\n", h.Status.Label())
	fmt.Fprintf(&b, "- **Duration:** %d weeks\n", h.DurationWeeks)
	fmt.Fprintf(&b, "- **Focus:** %s\n", h.Focus)
	fmt.Fprintf(&b, "- **Document ID:** `%s`\n\n", d.ID)

	for _, p := range d.Phases() {
		if p.StartWeek == p.EndWeek {
			fmt.Fprintf(&b, "## %s (week %d)\n\n", p.Phase, p.StartWeek)
		} else {
			fmt.Fprintf(&b, "## %s (weeks %d-%d)\n\n", p.Phase, p.StartWeek, p.EndWeek)
		}
		b.WriteString("| Week | Task |\n|---:|---|\n")
		for i, task := range p.Tasks {
			fmt.Fprintf(&b, "| %d | %s |\n", p.StartWeek+i, task)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders the document as a standalone HTML page.
func HTML(d Document) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(d)), &body); err != nil {
		return nil, fmt.Errorf("rendering roadmap HTML: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>ReGenesis Roadmap: %s</title>\n", html.EscapeString(d.Header.WasteType))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Export writes d to w in the given format.
func Export(w io.Writer, d Document, f Format) error {
	switch f {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(d))
		return err
	case FormatHTML:
		out, err := HTML(d)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func displayCountry(c string) string {
	if c == "" {
		return "(unspecified country)"
	}
	return c
}
