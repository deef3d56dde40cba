package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetbrief/internal/stats"
)

// Kind selects the report layout.
type Kind string

const (
	KindSingle     Kind = "single"
	KindComparison Kind = "comparison"
	KindCumulative Kind = "cumulative"
)

// ParseKind accepts a report kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSingle, KindComparison, KindCumulative:
		return k, nil
	case "":
		return KindSingle, nil
	}
	return "", fmt.Errorf("unknown report kind %q (use single, comparison or cumulative)", s)
}

// Component types.
const (
	TypeKPI                 = "kpi"
	TypeComparisonKPI       = "comparison_kpi"
	TypeBarChart            = "bar_chart"
	TypeComparisonBarChart  = "comparison_bar_chart"
	TypeDailyBreakdown      = "daily_breakdown"
	TypeSummary             = "summary"
	TypeMonthlyDistribution = "monthly_distribution"
	TypeCumulativeColumn    = "cumulative_column"
)

// Component is one display-ready unit. Icon and Color are presentation hints
// passed through unchanged. Data holds one of the payload types below, or a
// list of counts for chart components.
type Component struct {
	Type   string `json:"component_type" yaml:"component_type"`
	Title  string `json:"title" yaml:"title"`
	Source string `json:"source_column" yaml:"source_column"`
	Icon   string `json:"icon" yaml:"icon"`
	Color  string `json:"color" yaml:"color"`
	Data   any    `json:"data" yaml:"data"`
}

// KPIData is the payload of a single-value metric.
type KPIData struct {
	Value    int    `json:"value" yaml:"value"`
	Unit     string `json:"unit" yaml:"unit"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
}

// ComparisonKPIData is the payload of a two-period metric.
type ComparisonKPIData struct {
	CurrentValue  int          `json:"current_value" yaml:"current_value"`
	PreviousValue int          `json:"previous_value" yaml:"previous_value"`
	Unit          string       `json:"unit" yaml:"unit"`
	ChangeText    string       `json:"change_text" yaml:"change_text"`
	ChangeStatus  ChangeStatus `json:"change_status" yaml:"change_status"`
	ChangePercent int          `json:"change_percent" yaml:"change_percent"`
	CurrentLabel  string       `json:"current_label" yaml:"current_label"`
	PreviousLabel string       `json:"previous_label" yaml:"previous_label"`
}

// ComparisonItem pairs the counts of one categorical value.
type ComparisonItem struct {
	Name         string `json:"name" yaml:"name"`
	CurrentCount int    `json:"current_count" yaml:"current_count"`
	PrevCount    int    `json:"prev_count" yaml:"prev_count"`
}

// OthersData carries the values outside the top lists of both periods.
type OthersData struct {
	Current  []stats.CategoryCount `json:"current" yaml:"current"`
	Previous []stats.CategoryCount `json:"previous" yaml:"previous"`
}

// ComparisonBarData is the payload of a two-period distribution.
type ComparisonBarData struct {
	Comparison    []ComparisonItem `json:"comparison" yaml:"comparison"`
	CurrentLabel  string           `json:"current_label" yaml:"current_label"`
	PreviousLabel string           `json:"previous_label" yaml:"previous_label"`
	CurrentColor  string           `json:"current_color" yaml:"current_color"`
	PreviousColor string           `json:"previous_color" yaml:"previous_color"`
	Others        OthersData       `json:"others" yaml:"others"`
}

// SummaryData is the payload of a text summary.
type SummaryData struct {
	Items []string `json:"items" yaml:"items"`
}

// CumulativeData is one monthly series.
type CumulativeData struct {
	ColumnName string   `json:"column_name" yaml:"column_name"`
	Labels     []string `json:"labels" yaml:"labels"`
	Values     []int    `json:"values" yaml:"values"`
	ChartType  string   `json:"chart_type" yaml:"chart_type"`
}
