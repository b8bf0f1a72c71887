package sqlite

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// maxLineSize bounds one JSONL line; a record with many long cells can
// exceed bufio's 64 KiB default.
const maxLineSize = 16 << 20

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		// Encode terminates each value with a newline.
		if err := enc.Encode(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// JSONL file names used by ExportJSONL and ImportJSONL.
const (
	categoriesJSONL = "categories.jsonl"
	recordsJSONL    = "records.jsonl"
)

// categoryJSON is one line of categories.jsonl.
type categoryJSON struct {
	CategoryID string   `json:"category_id"`
	Name       string   `json:"name"`
	Icon       string   `json:"icon"`
	Position   int      `json:"position"`
	Fields     []string `json:"fields"`
}

// recordJSON is one line of records.jsonl.
type recordJSON struct {
	CategoryID string      `json:"category_id"`
	RecordID   string      `json:"record_id"`
	Seq        int         `json:"seq"`
	Values     []valueJSON `json:"values"`
}

// valueJSON mirrors a record_values row.
type valueJSON struct {
	FieldID   string `json:"field_id"`
	ValueType string `json:"value_type"`
	Value     string `json:"value"`
}

// ExportJSONL writes snap to dir as categories.jsonl and records.jsonl.
// Each file is replaced atomically; dir is created if needed.
func ExportJSONL(dir string, snap types.Snapshot) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	var cats, recs []any
	for pos, cs := range snap.Categories {
		c := cs.Category
		fields := make([]string, len(c.Schema.Fields))
		for i, f := range c.Schema.Fields {
			fields[i] = string(f)
		}
		cats = append(cats, categoryJSON{CategoryID: c.ID, Name: c.Name, Icon: c.Icon, Position: pos, Fields: fields})

		for seq, rec := range cs.Records {
			line := recordJSON{CategoryID: c.ID, RecordID: rec.ID, Seq: seq, Values: []valueJSON{}}
			for _, field := range sortedKeys(rec.Values) {
				v := rec.Values[field]
				if v == nil {
					continue
				}
				vt, text, err := encodeValue(v)
				if err != nil {
					return fmt.Errorf("record %q field %q: %w", rec.ID, field, err)
				}
				line.Values = append(line.Values, valueJSON{FieldID: string(field), ValueType: vt, Value: text})
			}
			recs = append(recs, line)
		}
	}

	if err := writeJSONL(filepath.Join(dir, categoriesJSONL), cats); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(dir, recordsJSONL), recs)
}

// ImportJSONL reads a snapshot written by ExportJSONL. Malformed lines,
// lines with unknown value types and records of unknown categories are
// skipped. A missing records.jsonl yields categories without records.
func ImportJSONL(dir string) (types.Snapshot, error) {
	catLines, err := readJSONL(filepath.Join(dir, categoriesJSONL))
	if err != nil {
		return types.Snapshot{}, err
	}

	var cats []categoryJSON
	for _, line := range catLines {
		var c categoryJSON
		if err := json.Unmarshal(line, &c); err != nil || c.CategoryID == "" {
			continue
		}
		cats = append(cats, c)
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Position < cats[j].Position })

	snap := types.Snapshot{Categories: make([]types.CategorySnapshot, 0, len(cats))}
	index := make(map[string]int, len(cats))
	for _, c := range cats {
		if _, dup := index[c.CategoryID]; dup {
			continue
		}
		var schema types.Schema
		for _, f := range c.Fields {
			schema.Fields = append(schema.Fields, types.FieldID(f))
		}
		index[c.CategoryID] = len(snap.Categories)
		snap.Categories = append(snap.Categories, types.CategorySnapshot{
			Category: types.Category{ID: c.CategoryID, Name: c.Name, Icon: c.Icon, Schema: schema},
			Records:  []types.Record{},
		})
	}

	recLines, err := readJSONL(filepath.Join(dir, recordsJSONL))
	if errors.Is(err, os.ErrNotExist) {
		return snap, nil
	}
	if err != nil {
		return types.Snapshot{}, err
	}

	var recs []recordJSON
	for _, line := range recLines {
		var r recordJSON
		if err := json.Unmarshal(line, &r); err != nil || r.RecordID == "" {
			continue
		}
		if _, ok := index[r.CategoryID]; !ok {
			continue
		}
		recs = append(recs, r)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })

	for _, r := range recs {
		values, ok := decodeValues(r.Values)
		if !ok {
			continue
		}
		cs := &snap.Categories[index[r.CategoryID]]
		cs.Records = append(cs.Records, types.Record{ID: r.RecordID, Values: values})
	}
	return snap, nil
}

func decodeValues(in []valueJSON) (types.Values, bool) {
	out := make(types.Values, len(in))
	for _, v := range in {
		decoded, err := decodeValue(v.ValueType, v.Value)
		if err != nil {
			return nil, false
		}
		out[types.FieldID(v.FieldID)] = decoded
	}
	return out, true
}

func sortedKeys(values types.Values) []types.FieldID {
	keys := make([]types.FieldID, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
