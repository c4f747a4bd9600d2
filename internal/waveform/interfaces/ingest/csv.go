// Package ingest converts uploaded CSV, pasted text, and XLSX payloads into
// waveform samples.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	waveform "flicker-cloud/internal/waveform/domain"
)

// ErrNoData is returned when a payload contains no usable numeric rows.
var ErrNoData = errors.New("ingest: no usable data rows")

var (
	timeAliases  = []string{"time", "t", "x", "seconds", "s"}
	valueAliases = []string{"voltage", "value", "light", "y", "v", "intensity"}
)

// ParseCSV converts CSV content (file upload or pasted text) into samples
// sorted by time. Column headers are matched against common oscilloscope
// export names; headerless two-column files are accepted as (time, value).
// Rows with non-numeric fields are dropped.
func ParseCSV(content string) ([]waveform.Sample, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: csv parse error: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	timeCol, valueCol, start := resolveColumns(records[0])

	samples := make([]waveform.Sample, 0, len(records))
	for _, record := range records[start:] {
		if len(record) <= timeCol || len(record) <= valueCol {
			continue
		}
		t, errT := strconv.ParseFloat(strings.TrimSpace(record[timeCol]), 64)
		v, errV := strconv.ParseFloat(strings.TrimSpace(record[valueCol]), 64)
		if errT != nil || errV != nil {
			continue
		}
		samples = append(samples, waveform.Sample{T: t, V: v})
	}
	if len(samples) < 2 {
		return nil, ErrNoData
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].T < samples[j].T })
	return samples, nil
}

// resolveColumns picks the time and value columns from a header row. When
// the first row parses as numbers there is no header and the first two
// columns are used.
func resolveColumns(header []string) (timeCol, valueCol, firstDataRow int) {
	timeCol, valueCol = 0, 1

	numeric := len(header) >= 2
	for _, field := range header {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			numeric = false
			break
		}
	}
	if numeric {
		return timeCol, valueCol, 0
	}

	if col, ok := findColumn(header, timeAliases); ok {
		timeCol = col
	}
	if col, ok := findColumn(header, valueAliases); ok {
		valueCol = col
	}
	return timeCol, valueCol, 1
}

func findColumn(header []string, aliases []string) (int, bool) {
	normalized := make([]string, len(header))
	for i, field := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(field))
	}
	for _, alias := range aliases {
		for i, field := range normalized {
			if field == alias {
				return i, true
			}
		}
	}
	// Partial matches pick up headers such as "time (s)" or "ch1 voltage".
	for _, alias := range aliases {
		for i, field := range normalized {
			if strings.Contains(field, alias) {
				return i, true
			}
		}
	}
	return 0, false
}
