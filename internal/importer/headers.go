package importer

import (
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// inferHeaders turns a header row into display labels and unique field ids.
// Blank or symbol-only labels become column<N> (1-based position). A label
// whose id is already taken, or is the reserved "id", gets the smallest
// numeric suffix from 2 up that is free: name, name2, name3.
func inferHeaders(row []string) ([]string, []types.FieldID) {
	labels := make([]string, len(row))
	ids := make([]types.FieldID, len(row))
	used := map[types.FieldID]bool{types.ReservedField: true}

	for i, cell := range row {
		label := strings.TrimSpace(cell)
		base := types.NormalizeField(label)
		if base == "" {
			base = types.FieldID("column" + strconv.Itoa(i+1))
		}
		if label == "" {
			label = types.FieldLabel(base)
		}
		id := base
		for n := 2; used[id]; n++ {
			id = base + types.FieldID(strconv.Itoa(n))
		}
		used[id] = true
		labels[i] = label
		ids[i] = id
	}
	return labels, ids
}

// toRecords maps grid rows onto headers by position. Cells past the last
// header are dropped, blank cells are omitted and blank rows are skipped.
func toRecords(headers []types.FieldID, grid [][]string) []types.RawRecord {
	rows := make([]types.RawRecord, 0, len(grid))
	for _, line := range grid {
		rec := make(types.RawRecord, len(headers))
		for i, cell := range line {
			if i >= len(headers) {
				break
			}
			if v, ok := CellValue(cell); ok {
				rec[headers[i]] = v
			}
		}
		if len(rec) == 0 {
			continue
		}
		rows = append(rows, rec)
	}
	return rows
}

// CellValue converts spreadsheet or command-line text to a record value.
// Numbers become float64; other text is kept as a trimmed string. Blank
// cells report false.
func CellValue(cell string) (any, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil, false
	}
	if f, ok := parseNumber(s); ok {
		return f, true
	}
	return s, true
}

// parseNumber accepts plain decimal numbers. Hex, Inf, NaN and integers
// with a leading zero (postcodes, phone extensions) stay text.
func parseNumber(s string) (float64, bool) {
	digits := strings.TrimLeft(s, "+-")
	if digits == "" || !(digits[0] >= '0' && digits[0] <= '9' || digits[0] == '.') {
		return 0, false
	}
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return 0, false
	}
	if strings.ContainsAny(digits, "xX_pP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
