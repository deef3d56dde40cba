package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
)

func TestCompute_Scenario(t *testing.T) {
	d := dataset.FromTable([]string{"date", "category"}, [][]any{
		{"2024-01-01", "A"},
		{"2024-01-01", "A"},
		{"2024-01-02", "B"},
	})
	c := New(nil, nil, DefaultLimits(), nil)
	ps := c.Compute(d, schema.ColumnSchema{DateColumn: "date", CategoricalColumns: []string{"category"}})
	if ps == nil {
		t.Fatalf("expected stats")
	}
	if ps.TotalCount != 3 {
		t.Fatalf("total=%d", ps.TotalCount)
	}
	if ps.PeakDay.Count != 2 || ps.PeakDay.Day != "2024-01-01" || ps.PeakDay.Date != "1월 1일" {
		t.Fatalf("peak=%+v", ps.PeakDay)
	}
	want := []DayCount{
		{Date: "1월 1일 (월)", Count: 2, Day: "2024-01-01"},
		{Date: "1월 2일 (화)", Count: 1, Day: "2024-01-02"},
	}
	if !reflect.DeepEqual(ps.Daily, want) {
		t.Fatalf("daily=%+v", ps.Daily)
	}
	dist, ok := ps.Distribution("category")
	if !ok {
		t.Fatalf("missing distribution")
	}
	if !reflect.DeepEqual(dist.Top, []CategoryCount{{"A", 2}, {"B", 1}}) || len(dist.Others) != 0 {
		t.Fatalf("distribution=%+v", dist)
	}
}

func TestCompute_EmptySliceIsNil(t *testing.T) {
	c := New(nil, nil, DefaultLimits(), nil)
	if ps := c.Compute(dataset.FromTable([]string{"a"}, nil), schema.ColumnSchema{}); ps != nil {
		t.Fatalf("expected nil, got %+v", ps)
	}
}

func TestCompute_NoDatesGivesSentinel(t *testing.T) {
	d := dataset.FromTable([]string{"date", "kind"}, [][]any{{"bad", "x"}, {nil, "y"}})
	c := New(nil, nil, DefaultLimits(), nil)
	ps := c.Compute(d, schema.ColumnSchema{DateColumn: "date", CategoricalColumns: []string{"kind", "absent"}})
	if ps.PeakDay.Date != NotAvailable || ps.PeakDay.Count != 0 || len(ps.Daily) != 0 {
		t.Fatalf("expected sentinel peak, got %+v / %+v", ps.PeakDay, ps.Daily)
	}
	absent, ok := ps.Distribution("absent")
	if !ok || len(absent.Top) != 0 || len(absent.Others) != 0 {
		t.Fatalf("absent column should give empty distribution, got %+v", absent)
	}
}

func TestCompute_DistributionCompleteness(t *testing.T) {
	values := []string{"SNS", "sns", " 에스엔에스 ", "지인 추천", "지인추천", "광고(네이버)", "광고(구글)", "기타", "포털 검색", "블로그", "카페", "카페", "", "유튜브"}
	rows := make([][]any, 0, len(values)+1)
	for _, v := range values {
		rows = append(rows, []any{v})
	}
	rows = append(rows, []any{nil})
	d := dataset.FromTable([]string{"channel"}, rows)
	c := New(nil, nil, DefaultLimits(), nil)
	ps := c.Compute(d, schema.ColumnSchema{CategoricalColumns: []string{"channel"}})
	dist, _ := ps.Distribution("channel")
	sum := 0
	for _, cc := range dist.Top {
		sum += cc.Count
	}
	for _, cc := range dist.Others {
		sum += cc.Count
	}
	if sum != ps.TotalCount {
		t.Fatalf("top+others=%d want %d", sum, ps.TotalCount)
	}
	if len(dist.Top) != 5 {
		t.Fatalf("top should be capped at 5, got %d", len(dist.Top))
	}
	wantTop := []CategoryCount{{"SNS", 3}, {"지인추천", 2}, {"광고", 2}, {"카페", 2}, {"", 2}}
	if !reflect.DeepEqual(dist.Top, wantTop) {
		t.Fatalf("top=%+v", dist.Top)
	}
}

func TestCompute_DailyCapAndTieOrder(t *testing.T) {
	var rows [][]any
	for day := 1; day <= 12; day++ {
		rows = append(rows, []any{time.Date(2024, 3, day, 9, 0, 0, 0, time.UTC)})
	}
	rows = append(rows, []any{"2024-03-05"})
	d := dataset.FromTable([]string{"when"}, rows)
	lim := DefaultLimits()
	lim.MaxDaily = 3
	ps := New(nil, nil, lim, nil).Compute(d, schema.ColumnSchema{DateColumn: "when"})
	if ps.PeakDay.Day != "2024-03-05" || ps.PeakDay.Count != 2 {
		t.Fatalf("peak=%+v", ps.PeakDay)
	}
	got := []string{ps.Daily[0].Day, ps.Daily[1].Day, ps.Daily[2].Day}
	if !reflect.DeepEqual(got, []string{"2024-03-05", "2024-03-01", "2024-03-02"}) {
		t.Fatalf("daily order=%v", got)
	}
}

func TestCompute_Summary(t *testing.T) {
	d := dataset.FromTable([]string{"body"}, [][]any{
		{"로그인 실패"}, {"로그인 안됨"}, {"결제 실패"}, {nil},
	})
	ps := New(nil, nil, DefaultLimits(), nil).Compute(d, schema.ColumnSchema{TextColumn: "body"})
	want := []string{"[로그인 오류] 2건", "[결제/환불 오류] 1건"}
	if !reflect.DeepEqual(ps.Summary, want) {
		t.Fatalf("summary=%v", ps.Summary)
	}
}

func TestWeekdayName(t *testing.T) {
	if got := WeekdayName(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)); got != "일" {
		t.Fatalf("sunday=%q", got)
	}
}
