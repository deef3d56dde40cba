package schema

import (
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
)

func TestDetect_Empty(t *testing.T) {
	s := Detect(dataset.New(nil), DefaultOptions())
	if s.DateColumn != "" || s.TextColumn != "" || len(s.CategoricalColumns) != 0 {
		t.Fatalf("expected empty schema, got %+v", s)
	}
	s = Detect(dataset.FromTable([]string{"a", "b"}, nil), DefaultOptions())
	if s.DateColumn != "" || len(s.CategoricalColumns) != 0 {
		t.Fatalf("header-only dataset should give empty schema, got %+v", s)
	}
}

func TestDetect_PreferredNames(t *testing.T) {
	long := strings.Repeat("가", 5)
	d := dataset.FromTable([]string{"채널", "날짜", "내용", "접수일"}, [][]any{
		{"SNS", "not a date", long, "2024-01-01"},
	})
	s := Detect(d, DefaultOptions())
	if s.DateColumn != "날짜" {
		t.Fatalf("preferred date name should win without parsing, got %q", s.DateColumn)
	}
	if s.TextColumn != "내용" {
		t.Fatalf("preferred text name should win regardless of length, got %q", s.TextColumn)
	}
	if want := []string{"채널", "접수일"}; !reflect.DeepEqual(s.CategoricalColumns, want) {
		t.Fatalf("categorical=%v want %v", s.CategoricalColumns, want)
	}
}

func TestDetect_ByContent(t *testing.T) {
	longA := "예약 확정 버튼이 눌리지 않아요 확인 부탁드립니다"
	longB := "결제 후 환불 처리가 지연되고 있어 연락드립니다 빠른 처리 바랍니다"
	d := dataset.FromTable([]string{"id", "when", "created", "note", "body", "kind"}, [][]any{
		{1.0, "2024-01-01", "2024-01-01", longA, longB, "A"},
		{2.0, "2024-01-02", "bad", longA, longB, "B"},
		{3.0, "bad", "bad", longA, longB, "A"},
		{4.0, "2024-01-04", "2024-02-01", longA, longB, "B"},
	})
	s := Detect(d, DefaultOptions())
	if s.DateColumn != "when" {
		t.Fatalf("date column=%q want when", s.DateColumn)
	}
	if s.TextColumn != "body" {
		t.Fatalf("text column=%q want body (longest)", s.TextColumn)
	}
	if want := []string{"id", "created", "note", "kind"}; !reflect.DeepEqual(s.CategoricalColumns, want) {
		t.Fatalf("categorical=%v want %v", s.CategoricalColumns, want)
	}
}

func TestDetect_TiesPickFirstColumn(t *testing.T) {
	d := dataset.FromTable([]string{"a", "b"}, [][]any{
		{"2024-01-01", "2024-03-01"},
		{"x", "y"},
	})
	s := Detect(d, DefaultOptions())
	if s.DateColumn != "a" {
		t.Fatalf("tie should resolve to first column, got %q", s.DateColumn)
	}
}

func TestDetect_Thresholds(t *testing.T) {
	d := dataset.FromTable([]string{"maybe", "short"}, [][]any{
		{"2024-01-01", "abc"},
		{"x", "def"},
		{"y", "ghi"},
	})
	s := Detect(d, DefaultOptions())
	if s.DateColumn != "" {
		t.Fatalf("ratio 1/3 below 0.5 should not qualify, got %q", s.DateColumn)
	}
	if s.TextColumn != "" {
		t.Fatalf("short strings should not qualify as text, got %q", s.TextColumn)
	}
	opt := DefaultOptions()
	opt.DateMinRatio = 0.3
	opt.TextMinAvgLength = 3
	s = Detect(d, opt)
	if s.DateColumn != "maybe" || s.TextColumn != "short" {
		t.Fatalf("lowered thresholds: %+v", s)
	}
}

func TestDetect_ExclusiveRoles(t *testing.T) {
	long := strings.Repeat("텍스트", 10)
	d := dataset.FromTable([]string{"date", "content"}, [][]any{{"2024-05-05", long}})
	s := Detect(d, DefaultOptions())
	if s.DateColumn == s.TextColumn {
		t.Fatalf("date and text must differ: %+v", s)
	}
	for _, c := range s.CategoricalColumns {
		if c == s.DateColumn || c == s.TextColumn {
			t.Fatalf("categorical contains role column %q", c)
		}
	}
}
