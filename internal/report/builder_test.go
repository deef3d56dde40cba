package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
	"github.com/KaramelBytes/sheetbrief/internal/stats"
)

func inquiries() *dataset.Dataset {
	return dataset.FromTable([]string{"접수일", "유형"}, [][]any{
		{"2024-03-01", "alpha"},
		{"2024-03-01", "alpha"},
		{"2024-03-02", "beta"},
		{"2024-02-10", "alpha"},
	})
}

var inquirySchema = schema.ColumnSchema{DateColumn: "접수일", CategoricalColumns: []string{"유형"}}

func march() dataset.Period { return dataset.Period{Year: 2024, Month: time.March} }

func types(comps []Component) []string {
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = c.Type
	}
	return out
}

func TestBuild_Single(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions(), nil)
	comps, err := b.Build(KindSingle, inquiries(), inquirySchema, march())
	require.NoError(t, err)
	assert.Equal(t, []string{TypeKPI, TypeKPI, TypeBarChart, TypeDailyBreakdown}, types(comps))

	assert.Equal(t, KPIData{Value: 3, Unit: "건"}, comps[0].Data)
	assert.Equal(t, KPIData{Value: 2, Unit: "건", Subtitle: "3월 1일"}, comps[1].Data)
	assert.Equal(t, "유형별 분포", comps[2].Title)
	assert.Equal(t, []stats.CategoryCount{{Name: "alpha", Count: 2}, {Name: "beta", Count: 1}}, comps[2].Data)
	assert.Equal(t, "3월 일자별 오류 현황", comps[3].Title)
	daily := comps[3].Data.([]stats.DayCount)
	require.Len(t, daily, 2)
	assert.Equal(t, "3월 1일 (금)", daily[0].Date)
	assert.Equal(t, "3월 2일 (토)", daily[1].Date)
}

func TestBuild_Comparison(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions(), nil)
	comps, err := b.Build(KindComparison, inquiries(), inquirySchema, march())
	require.NoError(t, err)
	assert.Equal(t, []string{TypeComparisonKPI, TypeComparisonKPI, TypeComparisonBarChart, TypeDailyBreakdown}, types(comps))

	total := comps[0].Data.(ComparisonKPIData)
	assert.Equal(t, 3, total.CurrentValue)
	assert.Equal(t, 1, total.PreviousValue)
	assert.Equal(t, StatusIncrease, total.ChangeStatus)
	assert.Equal(t, "200% 증가", total.ChangeText)
	assert.Equal(t, "3월", total.CurrentLabel)
	assert.Equal(t, "2월", total.PreviousLabel)

	peak := comps[1].Data.(ComparisonKPIData)
	assert.Equal(t, "3월 (3월 1일)", peak.CurrentLabel)
	assert.Equal(t, "2월 (2월 10일)", peak.PreviousLabel)

	bar := comps[2].Data.(ComparisonBarData)
	assert.Equal(t, []ComparisonItem{
		{Name: "alpha", CurrentCount: 2, PrevCount: 1},
		{Name: "beta", CurrentCount: 1, PrevCount: 0},
	}, bar.Comparison)
	assert.NotNil(t, bar.Others.Current)
	assert.NotNil(t, bar.Others.Previous)
}

func TestBuild_ComparisonFollowsCurrentTopList(t *testing.T) {
	d := dataset.FromTable([]string{"접수일", "유형"}, [][]any{
		{"2024-03-01", "alpha"},
		{"2024-03-01", "alpha"},
		{"2024-03-02", "beta"},
		{"2024-02-01", "beta"},
		{"2024-02-01", "beta"},
		{"2024-02-02", "beta"},
		{"2024-02-03", "delta"},
		{"2024-02-03", "delta"},
		{"2024-02-04", "gamma"},
		{"2024-02-05", "alpha"},
	})
	limits := stats.DefaultLimits()
	limits.MaxCategory = 2
	b := NewBuilder(stats.New(nil, nil, limits, nil), DefaultOptions(), nil)
	comps, err := b.Build(KindComparison, d, inquirySchema, march())
	require.NoError(t, err)

	bar := comps[2].Data.(ComparisonBarData)
	// alpha sits in February's others and still carries its count.
	assert.Equal(t, []ComparisonItem{
		{Name: "alpha", CurrentCount: 2, PrevCount: 1},
		{Name: "beta", CurrentCount: 1, PrevCount: 3},
	}, bar.Comparison)
	for _, item := range bar.Comparison {
		assert.NotEqual(t, "gamma", item.Name)
		assert.NotEqual(t, "delta", item.Name)
	}
	assert.Empty(t, bar.Others.Current)
	assert.Equal(t, []stats.CategoryCount{{Name: "gamma", Count: 1}, {Name: "alpha", Count: 1}}, bar.Others.Previous)
}

func TestBuild_FallsBackToLatestPeriod(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions(), nil)
	comps, err := b.Build(KindSingle, inquiries(), inquirySchema, dataset.Period{Year: 2024, Month: time.May})
	require.NoError(t, err)
	assert.Equal(t, KPIData{Value: 3, Unit: "건"}, comps[0].Data)
	assert.Equal(t, "3월 일자별 오류 현황", comps[len(comps)-1].Title)
}

func TestBuild_NoDateColumnForcesSingle(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions(), nil)
	sch := schema.ColumnSchema{CategoricalColumns: []string{"유형"}}
	comps, err := b.Build(KindComparison, inquiries(), sch, march())
	require.NoError(t, err)
	assert.Equal(t, []string{TypeKPI, TypeKPI, TypeBarChart}, types(comps))
	assert.Equal(t, KPIData{Value: 4, Unit: "건"}, comps[0].Data)
	assert.Equal(t, KPIData{Value: 0, Unit: "건", Subtitle: stats.NotAvailable}, comps[1].Data)
}

func TestBuild_EmptyDataset(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions(), nil)
	d := dataset.FromTable([]string{"접수일"}, nil)
	for _, k := range []Kind{KindSingle, KindComparison, KindCumulative} {
		comps, err := b.Build(k, d, schema.ColumnSchema{}, march())
		require.NoError(t, err)
		assert.NotNil(t, comps)
		assert.Empty(t, comps)
	}
}

func TestBuild_InvalidMonth(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions(), nil)
	_, err := b.Build(KindSingle, inquiries(), inquirySchema, dataset.Period{Year: 2024, Month: 13})
	assert.Error(t, err)
}

func TestBuild_TravelMonths(t *testing.T) {
	d := dataset.FromTable([]string{"접수일", "여행일"}, [][]any{
		{"2024-03-01", "2024-07-01"},
		{"2024-03-01", "2024-08-15"},
		{"2024-03-02", "2024-07-20"},
		{"2024-03-02", "2025-01-05"},
		{"2024-03-03", "2025-01-06"},
		{"2024-03-03", "미정"},
	})
	b := NewBuilder(nil, DefaultOptions(), nil)
	comps, err := b.Build(KindSingle, d, schema.ColumnSchema{DateColumn: "접수일"}, march())
	require.NoError(t, err)
	last := comps[len(comps)-1]
	assert.Equal(t, TypeMonthlyDistribution, last.Type)
	assert.Equal(t, "여행일", last.Source)
	assert.Equal(t, []stats.CategoryCount{
		{Name: "1월", Count: 2},
		{Name: "7월", Count: 2},
		{Name: "8월", Count: 1},
	}, last.Data)
}

func TestBuild_TravelMonthsUnparseableIsOmitted(t *testing.T) {
	d := dataset.FromTable([]string{"접수일", "여행일"}, [][]any{
		{"2024-03-01", "미정"},
		{"2024-03-02", "추후 안내"},
		{"2024-03-02", nil},
	})
	b := NewBuilder(nil, DefaultOptions(), nil)
	comps, err := b.Build(KindSingle, d, schema.ColumnSchema{DateColumn: "접수일"}, march())
	require.NoError(t, err)
	require.NotEmpty(t, comps)
	assert.NotContains(t, types(comps), TypeMonthlyDistribution)
}

func TestBuild_Cumulative(t *testing.T) {
	d := dataset.FromTable([]string{"월", "매출", "메모"}, [][]any{
		{"2024-01-15", 100, "first"},
		{"2024-03-02", 250.5, "third"},
		{"2024-03-20", "30", ""},
		{"2024-04-01", 50, "after target"},
	})
	b := NewBuilder(nil, DefaultOptions(), nil)
	comps, err := b.Build(KindCumulative, d, schema.ColumnSchema{}, march())
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, TypeCumulativeColumn, comps[0].Type)
	assert.Equal(t, "indigo", comps[0].Color)
	assert.Equal(t, CumulativeData{
		ColumnName: "매출",
		Labels:     []string{"2024-01", "2024-02", "2024-03"},
		Values:     []int{100, 0, 280},
		ChartType:  "bar",
	}, comps[0].Data)
}

func TestBuild_CumulativeTargetBeforeData(t *testing.T) {
	d := dataset.FromTable([]string{"월", "매출", "메모"}, [][]any{
		{"2024-01-15", 100, "first"},
		{"2024-02-02", 250.5, "second"},
	})
	b := NewBuilder(nil, DefaultOptions(), nil)
	comps, err := b.Build(KindCumulative, d, schema.ColumnSchema{}, dataset.Period{Year: 2023, Month: time.December})
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, CumulativeData{
		ColumnName: "매출",
		Labels:     []string{},
		Values:     []int{},
		ChartType:  "bar",
	}, comps[0].Data)
}

func TestBuild_CumulativeErrors(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions(), nil)

	_, err := b.Build(KindCumulative, dataset.FromTable([]string{"메모"}, [][]any{{"hello"}}), schema.ColumnSchema{}, march())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDateAxis))
	var axisErr *AxisError
	require.True(t, errors.As(err, &axisErr))
	assert.Contains(t, axisErr.Message, "날짜")

	d := dataset.FromTable([]string{"월", "메모"}, [][]any{{"2024-01-15", "hello"}, {"2024-02-01", "world"}})
	_, err = b.Build(KindCumulative, d, schema.ColumnSchema{}, march())
	assert.True(t, errors.Is(err, ErrNoNumericColumns))
}

func TestRender(t *testing.T) {
	b := NewBuilder(nil, DefaultOptions(), nil)
	comps, err := b.Build(KindComparison, inquiries(), inquirySchema, march())
	require.NoError(t, err)

	md := Markdown("inquiries.csv", comps)
	assert.True(t, strings.HasPrefix(md, "[REPORT]\n"))
	assert.Contains(t, md, "Source: inquiries.csv")
	assert.Contains(t, md, "[METRICS]\n- 총 문의 수 비교: 3건 (2월 1건, 200% 증가)\n")
	assert.Contains(t, md, "[DETAILS]")
	assert.Contains(t, md, "## 유형별 비교")
	assert.Contains(t, md, "| alpha | 2 | 1 |")

	html := string(HTML("inquiries.csv", comps))
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "<table>")
}
