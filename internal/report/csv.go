package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"flicker-cloud/internal/waveform/application"
)

// BuildCSV renders the session samples as a two-column CSV.
func BuildCSV(session *application.AnalysisSession, settings Settings) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"time", "value"}); err != nil {
		return nil, err
	}
	rows := len(session.Samples)
	if settings.MaxExportRows > 0 && rows > settings.MaxExportRows {
		rows = settings.MaxExportRows
	}
	for i := 0; i < rows; i++ {
		s := session.Samples[i]
		record := []string{
			strconv.FormatFloat(s.T, 'g', -1, 64),
			strconv.FormatFloat(s.V, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}
