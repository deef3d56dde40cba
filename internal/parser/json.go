package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/scalar"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

// Load accepts either an array of row objects or a request envelope
// {"rows": [...], "year": Y, "month": M, "reportType": K}. Object key order
// is preserved as column order.
func (jsonLoader) Load(path string, _ Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	switch tok {
	case json.Delim('['):
		recs, err := readRows(dec)
		if err != nil {
			return nil, err
		}
		return &Table{Data: dataset.New(recs)}, nil
	case json.Delim('{'):
		return readEnvelope(dec)
	}
	return nil, fmt.Errorf("read json: expected an array of rows or an object with \"rows\"")
}

func readEnvelope(dec *json.Decoder) (*Table, error) {
	t := &Table{Data: dataset.New(nil)}
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		switch key {
		case "rows":
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("read rows: %w", err)
			}
			if tok == nil {
				continue
			}
			if tok != json.Delim('[') {
				return nil, fmt.Errorf("read rows: expected an array")
			}
			recs, err := readRows(dec)
			if err != nil {
				return nil, err
			}
			t.Data = dataset.New(recs)
		case "year", "month":
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("read %s: %w", key, err)
			}
			if v == nil {
				continue
			}
			n, ok := scalar.ToNumber(v)
			if !ok || n != float64(int(n)) {
				return nil, fmt.Errorf("%s must be an integer, got %v", key, v)
			}
			if key == "year" {
				t.Year = int(n)
			} else {
				t.Month = int(n)
			}
		case "reportType":
			var v *string
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("read reportType: %w", err)
			}
			if v != nil {
				t.Kind = *v
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("read %s: %w", key, err)
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	return t, nil
}

// readRows reads row objects up to the closing bracket of an array whose
// opening bracket was already consumed.
func readRows(dec *json.Decoder) ([]dataset.Record, error) {
	var recs []dataset.Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(recs)+1, err)
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("read row %d: not an object", len(recs)+1)
		}
		var rec dataset.Record
		for dec.More() {
			key, err := objectKey(dec)
			if err != nil {
				return nil, err
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("read row %d field %q: %w", len(recs)+1, key, err)
			}
			rec = append(rec, dataset.Field{Name: key, Value: jsonValue(v)})
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(recs)+1, err)
		}
		recs = append(recs, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return recs, nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("read json: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("read json: unexpected token %v", tok)
	}
	return key, nil
}

func jsonValue(v any) any {
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	}
	return v
}
