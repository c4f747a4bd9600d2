package ingest

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	waveform "flicker-cloud/internal/waveform/domain"
)

// ParseXLSX reads the first sheet of a workbook using the same column rules
// as ParseCSV.
func ParseXLSX(r io.Reader) ([]waveform.Sample, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: xlsx open error: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoData
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ingest: xlsx read error: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	timeCol, valueCol, start := resolveColumns(rows[0])

	samples := make([]waveform.Sample, 0, len(rows))
	for _, row := range rows[start:] {
		if len(row) <= timeCol || len(row) <= valueCol {
			continue
		}
		t, errT := strconv.ParseFloat(strings.TrimSpace(row[timeCol]), 64)
		v, errV := strconv.ParseFloat(strings.TrimSpace(row[valueCol]), 64)
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
