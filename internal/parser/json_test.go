package parser_test

import (
	"reflect"
	"testing"

	"github.com/KaramelBytes/sheetbrief/internal/parser"
)

func TestLoadJSON_ArrayKeepsKeyOrder(t *testing.T) {
	p := writeFile(t, "rows.json", `[
		{"접수일": "2024-03-01", "유형": "환불", "금액": 12},
		{"유형": "예약", "비고": null, "접수일": "2024-03-02"}
	]`)
	tab, err := parser.LoadFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := tab.Data
	if got, want := d.Columns(), []string{"접수일", "유형", "금액", "비고"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	if v := d.Value(0, "금액"); v != 12.0 {
		t.Fatalf("number = %#v", v)
	}
	if d.Value(1, "금액") != nil || d.Value(1, "비고") != nil {
		t.Fatalf("missing values should be nil")
	}
	if tab.Year != 0 || tab.Month != 0 || tab.Kind != "" {
		t.Fatalf("array input should carry no defaults: %+v", tab)
	}
}

func TestLoadJSON_Envelope(t *testing.T) {
	p := writeFile(t, "req.json", `{
		"year": 2024, "month": "3", "reportType": "comparison",
		"meta": {"ignored": [1, 2]},
		"rows": [{"a": 1}, {"a": 2}]
	}`)
	tab, err := parser.LoadFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tab.Year != 2024 || tab.Month != 3 || tab.Kind != "comparison" {
		t.Fatalf("envelope = %+v", tab)
	}
	if tab.Data.Len() != 2 {
		t.Fatalf("rows = %d", tab.Data.Len())
	}
}

func TestLoadJSON_Errors(t *testing.T) {
	cases := map[string]string{
		"scalar.json":  `42`,
		"badrow.json":  `[1, 2]`,
		"badyear.json": `{"year": 2024.5, "rows": []}`,
		"broken.json":  `[{"a": }]`,
	}
	for name, body := range cases {
		if _, err := parser.LoadFile(writeFile(t, name, body), parser.Options{}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
