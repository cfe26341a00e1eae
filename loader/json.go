package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/warp/insurance-dashboard/table"
)

// =============================================================================
// ORDERED JSON - keeps object key order, which becomes column order
// =============================================================================

type nodeKind int

const (
	scalarNode nodeKind = iota
	objectNode
	arrayNode
)

type node struct {
	kind  nodeKind
	cell  table.Cell
	keys  []string // object keys, aligned with items
	items []*node
}

func (n *node) get(key string) *node {
	for i, k := range n.keys {
		if k == key {
			return n.items[i]
		}
	}
	return nil
}

func decodeNode(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := &node{kind: objectNode}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				child, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.keys = append(n.keys, key)
				n.items = append(n.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &node{kind: arrayNode}
			for dec.More() {
				child, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.items = append(n.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, err
		}
		return &node{cell: table.Number(d)}, nil
	case string:
		return &node{cell: table.Text(v)}, nil
	case bool:
		return &node{cell: table.Text(fmt.Sprint(v))}, nil
	case nil:
		return &node{cell: table.Null()}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// =============================================================================
// ORIENTS
// =============================================================================

func readJSONFile(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// ParseJSON reads a table written by pandas DataFrame.to_json in records,
// columns or split orient. Column order follows the document.
func ParseJSON(data []byte) (*table.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeNode(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after table")
	}

	switch root.kind {
	case arrayNode:
		return fromRecords(root)
	case objectNode:
		if cols, data := root.get("columns"), root.get("data"); cols != nil && data != nil &&
			cols.kind == arrayNode && data.kind == arrayNode {
			return fromSplit(cols, data)
		}
		return fromColumns(root)
	}
	return nil, errors.New("document is not a table")
}

// fromRecords handles [{"Date": ..., "Total": ...}, ...]. Keys missing from
// a record are null.
func fromRecords(root *node) (*table.Table, error) {
	var columns []string
	index := make(map[string]int)
	for i, rec := range root.items {
		if rec.kind != objectNode {
			return nil, fmt.Errorf("record %d is not an object", i)
		}
		for _, k := range rec.keys {
			if _, ok := index[k]; !ok {
				index[k] = len(columns)
				columns = append(columns, k)
			}
		}
	}

	rows := make([][]table.Cell, len(root.items))
	for i, rec := range root.items {
		row := make([]table.Cell, len(columns))
		for j, k := range rec.keys {
			v := rec.items[j]
			if v.kind != scalarNode {
				return nil, fmt.Errorf("record %d field %q is not a scalar", i, k)
			}
			row[index[k]] = v.cell
		}
		rows[i] = row
	}
	return table.New(columns, rows)
}

// fromColumns handles {"Date": {"0": ..., "1": ...}, ...} and
// {"Date": [...], ...}. Row order is the first-seen order of index labels.
func fromColumns(root *node) (*table.Table, error) {
	var labels []string
	pos := make(map[string]int)
	values := make([]map[string]table.Cell, len(root.keys))

	for j, col := range root.items {
		values[j] = make(map[string]table.Cell)
		switch col.kind {
		case objectNode:
			for i, label := range col.keys {
				if col.items[i].kind != scalarNode {
					return nil, fmt.Errorf("column %q row %q is not a scalar", root.keys[j], label)
				}
				if _, ok := pos[label]; !ok {
					pos[label] = len(labels)
					labels = append(labels, label)
				}
				values[j][label] = col.items[i].cell
			}
		case arrayNode:
			for i, item := range col.items {
				if item.kind != scalarNode {
					return nil, fmt.Errorf("column %q row %d is not a scalar", root.keys[j], i)
				}
				label := fmt.Sprint(i)
				if _, ok := pos[label]; !ok {
					pos[label] = len(labels)
					labels = append(labels, label)
				}
				values[j][label] = item.cell
			}
		default:
			return nil, fmt.Errorf("column %q is not an object or array", root.keys[j])
		}
	}

	rows := make([][]table.Cell, len(labels))
	for i, label := range labels {
		row := make([]table.Cell, len(root.keys))
		for j := range root.keys {
			row[j] = values[j][label]
		}
		rows[i] = row
	}
	return table.New(root.keys, rows)
}

// fromSplit handles {"columns": [...], "index": [...], "data": [[...], ...]}.
func fromSplit(cols, data *node) (*table.Table, error) {
	columns := make([]string, len(cols.items))
	for i, c := range cols.items {
		if c.kind != scalarNode {
			return nil, fmt.Errorf("column name %d is not a scalar", i)
		}
		columns[i] = c.cell.String()
	}
	rows := make([][]table.Cell, len(data.items))
	for i, r := range data.items {
		if r.kind != arrayNode || len(r.items) != len(columns) {
			return nil, fmt.Errorf("data row %d does not have %d values", i, len(columns))
		}
		row := make([]table.Cell, len(columns))
		for j, v := range r.items {
			if v.kind != scalarNode {
				return nil, fmt.Errorf("data row %d value %d is not a scalar", i, j)
			}
			row[j] = v.cell
		}
		rows[i] = row
	}
	return table.New(columns, rows)
}
