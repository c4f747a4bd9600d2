package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"flicker-cloud/internal/waveform/application"
)

// BuildXLSX renders an analysis workbook: a summary sheet and a samples
// sheet.
func BuildXLSX(session *application.AnalysisSession, settings Settings) ([]byte, error) {
	result := session.Result

	f := excelize.NewFile()
	summarySheet := "summary"
	samplesSheet := "samples"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(samplesSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", settings.Title)
	_ = f.SetCellValue(summarySheet, "A3", "Waveform")
	_ = f.SetCellValue(summarySheet, "B3", session.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Frequency (Hz)")
	_ = f.SetCellValue(summarySheet, "B4", result.FrequencyHz)
	_ = f.SetCellValue(summarySheet, "A5", "Percent Flicker")
	_ = f.SetCellValue(summarySheet, "B5", result.PercentFlicker)
	_ = f.SetCellValue(summarySheet, "A6", "Flicker Index")
	_ = f.SetCellValue(summarySheet, "B6", result.FlickerIndex)
	_ = f.SetCellValue(summarySheet, "A7", "Period (s)")
	_ = f.SetCellValue(summarySheet, "B7", result.PeriodSeconds)
	_ = f.SetCellValue(summarySheet, "A8", "Frame Rate")
	_ = f.SetCellValue(summarySheet, "B8", result.FrameRate)
	_ = f.SetCellValue(summarySheet, "A9", "V min")
	_ = f.SetCellValue(summarySheet, "B9", result.VMin)
	_ = f.SetCellValue(summarySheet, "A10", "V max")
	_ = f.SetCellValue(summarySheet, "B10", result.VMax)
	_ = f.SetCellValue(summarySheet, "A11", "V avg")
	_ = f.SetCellValue(summarySheet, "B11", result.VAvg)
	_ = f.SetCellValue(summarySheet, "A12", "IEEE 1789-2015")
	_ = f.SetCellValue(summarySheet, "B12", string(result.Compliance.IEEE17892015))
	_ = f.SetCellValue(summarySheet, "A13", "California JA8 2019")
	_ = f.SetCellValue(summarySheet, "B13", passFail(result.Compliance.CaliforniaJA82019))
	_ = f.SetCellValue(summarySheet, "A14", "WELL v2 L07")
	_ = f.SetCellValue(summarySheet, "B14", passFail(result.Compliance.WELLStandardV2))

	_ = f.SetCellValue(samplesSheet, "A1", "Time (s)")
	_ = f.SetCellValue(samplesSheet, "B1", "Value")
	rows := len(session.Samples)
	if settings.MaxExportRows > 0 && rows > settings.MaxExportRows {
		rows = settings.MaxExportRows
	}
	for i := 0; i < rows; i++ {
		row := i + 2
		_ = f.SetCellValue(samplesSheet, fmt.Sprintf("A%d", row), session.Samples[i].T)
		_ = f.SetCellValue(samplesSheet, fmt.Sprintf("B%d", row), session.Samples[i].V)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
