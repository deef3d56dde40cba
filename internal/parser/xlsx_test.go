package parser_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/sheetbrief/internal/parser"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "요약"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := f.SetSheetRow("요약", "A1", &[]any{"항목"}); err != nil {
		t.Fatalf("row: %v", err)
	}
	if _, err := f.NewSheet("문의"); err != nil {
		t.Fatalf("sheet: %v", err)
	}
	rows := [][]any{
		{" 접수일 ", "유형", "건수"},
		{"2024-03-01", "환불", 3},
		{"2024-03-02", "예약"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("문의", cell, &r); err != nil {
			t.Fatalf("row: %v", err)
		}
	}
	p := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	return p
}

func TestLoadXLSX_SheetSelection(t *testing.T) {
	p := writeWorkbook(t)

	first, err := parser.LoadFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("load first: %v", err)
	}
	if first.Name != "book.xlsx" || first.Data.Len() != 0 {
		t.Fatalf("first sheet: name=%q rows=%d", first.Name, first.Data.Len())
	}

	for _, opt := range []parser.Options{{SheetName: "문의"}, {SheetIndex: 2}} {
		tab, err := parser.LoadFile(p, opt)
		if err != nil {
			t.Fatalf("load %+v: %v", opt, err)
		}
		if !strings.Contains(tab.Name, "sheet: 문의") {
			t.Fatalf("name = %q", tab.Name)
		}
		d := tab.Data
		if d.Len() != 2 || !d.Has("접수일") {
			t.Fatalf("columns=%v rows=%d", d.Columns(), d.Len())
		}
		if v := d.Value(0, "건수"); v != 3.0 {
			t.Fatalf("count = %#v", v)
		}
		if v := d.Value(1, "건수"); v != nil {
			t.Fatalf("short row should pad with nil, got %#v", v)
		}
	}
}

func TestLoadXLSX_MissingSheet(t *testing.T) {
	p := writeWorkbook(t)
	_, err := parser.LoadFile(p, parser.Options{SheetName: "없음"})
	if err == nil || !strings.Contains(err.Error(), "Available sheets: 요약, 문의") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := parser.LoadFile(p, parser.Options{SheetIndex: 5}); err == nil {
		t.Fatalf("expected out of range error")
	}
}
