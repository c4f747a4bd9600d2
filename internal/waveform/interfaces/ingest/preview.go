package ingest

import (
	waveform "flicker-cloud/internal/waveform/domain"
)

// Preview summarizes imported samples for the upload response.
type Preview struct {
	TotalRows   int             `json:"total_rows"`
	PreviewRows int             `json:"preview_rows"`
	Data        []PreviewSample `json:"data"`
	TimeRange   Range           `json:"time_range"`
	ValueRange  Range           `json:"value_range"`
}

// PreviewSample is one previewed row.
type PreviewSample struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BuildPreview returns the first maxRows samples plus the time and value
// ranges of the whole import.
func BuildPreview(samples []waveform.Sample, maxRows int) Preview {
	if maxRows <= 0 {
		maxRows = 10
	}
	n := len(samples)
	rows := n
	if rows > maxRows {
		rows = maxRows
	}

	p := Preview{
		TotalRows:   n,
		PreviewRows: rows,
		Data:        make([]PreviewSample, rows),
	}
	for i := 0; i < rows; i++ {
		p.Data[i] = PreviewSample{Time: samples[i].T, Value: samples[i].V}
	}
	if n == 0 {
		return p
	}

	p.TimeRange = Range{Min: samples[0].T, Max: samples[n-1].T}
	vMin, vMax := samples[0].V, samples[0].V
	for _, s := range samples[1:] {
		if s.V < vMin {
			vMin = s.V
		}
		if s.V > vMax {
			vMax = s.V
		}
	}
	p.ValueRange = Range{Min: vMin, Max: vMax}
	return p
}
