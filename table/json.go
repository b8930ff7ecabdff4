package table

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultJSONPath selects the elements of a top level array.
const DefaultJSONPath = "$[*]"

// ReadJSON reads a table from a JSON document. The JSONPath expression path
// selects the rows, each a JSON object; the header is the sorted union of
// their keys. Numbers are kept verbatim so that large quantities survive.
//
// For instance "$.positions[*]" reads
//
//	{"positions": [{"ticker": "AAPL", "qty": 10}, {"ticker": "MSFT", "qty": 3}]}
func ReadJSON(r io.Reader, name, path string) (*Table, error) {
	if path == "" {
		path = DefaultJSONPath
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode json %q: %w", name, err)
	}

	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q in %q: %w", path, name, err)
	}
	// jsonpath returns a single value or a list depending on the expression.
	items, ok := selected.([]any)
	if !ok {
		items = []any{selected}
	}

	var objects []map[string]any
	seen := make(map[string]bool)
	var keys []string
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d selected by %q in %q is not an object", i, path, name)
		}
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		objects = append(objects, obj)
	}
	slices.Sort(keys)

	t := &Table{Name: name, Rows: [][]string{keys}}
	for _, obj := range objects {
		row := make([]string, len(keys))
		for j, k := range keys {
			row[j] = jsonCell(obj[k])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func jsonCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
