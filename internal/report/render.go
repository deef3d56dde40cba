package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/KaramelBytes/sheetbrief/internal/keyword"
	"github.com/KaramelBytes/sheetbrief/internal/stats"
)

// Markdown renders components as a compact report: KPIs under [METRICS],
// every other component as its own section under [DETAILS].
func Markdown(name string, comps []Component) string {
	var b strings.Builder
	b.WriteString("[REPORT]\n")
	if name != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", name))
	}
	b.WriteString(fmt.Sprintf("Components: %d\n\n", len(comps)))

	var details []Component
	metrics := false
	for _, c := range comps {
		switch d := c.Data.(type) {
		case KPIData:
			if !metrics {
				b.WriteString("[METRICS]\n")
				metrics = true
			}
			b.WriteString(fmt.Sprintf("- %s: %d%s", safe(c.Title), d.Value, d.Unit))
			if d.Subtitle != "" {
				b.WriteString(fmt.Sprintf(" (%s)", d.Subtitle))
			}
			b.WriteString("\n")
		case ComparisonKPIData:
			if !metrics {
				b.WriteString("[METRICS]\n")
				metrics = true
			}
			b.WriteString(fmt.Sprintf("- %s: %d%s (%s %d%s, %s)\n",
				safe(c.Title), d.CurrentValue, d.Unit, d.PreviousLabel, d.PreviousValue, d.Unit, d.ChangeText))
		default:
			details = append(details, c)
		}
	}
	if len(details) == 0 {
		return b.String()
	}
	if metrics {
		b.WriteString("\n")
	}
	b.WriteString("[DETAILS]\n")
	for _, c := range details {
		b.WriteString(fmt.Sprintf("\n## %s\n\n", safe(c.Title)))
		writeDetail(&b, c.Data)
	}
	return b.String()
}

func writeDetail(b *strings.Builder, data any) {
	switch d := data.(type) {
	case ComparisonBarData:
		b.WriteString(fmt.Sprintf("| 항목 | %s | %s |\n|---|---:|---:|\n", d.CurrentLabel, d.PreviousLabel))
		for _, it := range d.Comparison {
			b.WriteString(fmt.Sprintf("| %s | %d | %d |\n", safe(it.Name), it.CurrentCount, it.PrevCount))
		}
	case []stats.CategoryCount:
		for _, it := range d {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safe(it.Name), it.Count))
		}
	case []keyword.KeywordCount:
		for _, it := range d {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safe(it.Name), it.Count))
		}
	case []stats.DayCount:
		for _, it := range d {
			b.WriteString(fmt.Sprintf("- %s: %d\n", it.Date, it.Count))
		}
	case SummaryData:
		for _, it := range d.Items {
			b.WriteString(fmt.Sprintf("- %s\n", safe(it)))
		}
	case CumulativeData:
		b.WriteString("| 월 | 합계 |\n|---|---:|\n")
		for i, l := range d.Labels {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", l, d.Values[i]))
		}
	default:
		b.WriteString(fmt.Sprintf("- %v\n", d))
	}
}

// HTML renders the Markdown report as an HTML fragment.
func HTML(name string, comps []Component) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(name, comps)), p, r)
}

func safe(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
