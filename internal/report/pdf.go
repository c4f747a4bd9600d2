package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"flicker-cloud/internal/waveform/application"
	waveform "flicker-cloud/internal/waveform/domain"
)

func passFail(pass bool) string {
	if pass {
		return "Pass"
	}
	return "Fail"
}

// BuildPDF renders an analysis report: metrics summary, compliance verdicts,
// and a waveform plot of the first periods.
func BuildPDF(session *application.AnalysisSession, settings Settings) ([]byte, error) {
	result := session.Result

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, settings.Title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Waveform: %s", session.Name))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Analyzed: %s", session.CreatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Metric", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	metricRows := []struct {
		label string
		value string
	}{
		{"Frequency", fmt.Sprintf("%.1f Hz", result.FrequencyHz)},
		{"Percent Flicker", fmt.Sprintf("%.1f %%", result.PercentFlicker)},
		{"Flicker Index", fmt.Sprintf("%.3f", result.FlickerIndex)},
		{"Period", fmt.Sprintf("%.6f s", result.PeriodSeconds)},
		{"Frame Rate", fmt.Sprintf("%d samples/s", result.FrameRate)},
		{"V min", fmt.Sprintf("%.3f", result.VMin)},
		{"V max", fmt.Sprintf("%.3f", result.VMax)},
		{"V avg", fmt.Sprintf("%.3f", result.VAvg)},
		{"V peak-to-peak", fmt.Sprintf("%.3f", result.VPP)},
	}
	for _, row := range metricRows {
		pdf.CellFormat(60, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row.value, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Standard", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Verdict", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	verdictRows := []struct {
		label string
		value string
	}{
		{"IEEE 1789-2015", string(result.Compliance.IEEE17892015)},
		{"California JA8 2019", passFail(result.Compliance.CaliforniaJA82019)},
		{"WELL v2 L07", passFail(result.Compliance.WELLStandardV2)},
	}
	for _, row := range verdictRows {
		pdf.CellFormat(60, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row.value, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	drawWaveform(pdf, plotWindow(session, settings), result, settings)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plotWindow picks the samples to draw: the first MaxPeriods periods when
// the waveform still analyzes cleanly, otherwise the whole capture.
func plotWindow(session *application.AnalysisSession, settings Settings) []waveform.Sample {
	samples := session.Samples
	if settings.MaxPeriods > 0 {
		if w, err := waveform.New(session.Name, samples); err == nil {
			if window, err := w.NPeriods(settings.MaxPeriods); err == nil {
				samples = window
			}
		}
	}
	if settings.MaxPlotSamples > 0 && len(samples) > settings.MaxPlotSamples {
		stride := len(samples) / settings.MaxPlotSamples
		decimated := make([]waveform.Sample, 0, settings.MaxPlotSamples)
		for i := 0; i < len(samples); i += stride {
			decimated = append(decimated, samples[i])
		}
		samples = decimated
	}
	return samples
}

// drawWaveform renders a framed polyline plot of the samples.
func drawWaveform(pdf *gofpdf.Fpdf, samples []waveform.Sample, result application.AnalysisResult, settings Settings) {
	if len(samples) < 2 {
		return
	}

	const (
		plotX = 15.0
		plotW = 180.0
		plotH = 60.0
	)
	plotY := pdf.GetY()

	vLow := result.VMin
	vHigh := result.VMax
	if settings.FullHeight {
		vLow = 0
	}
	if vHigh == vLow {
		vHigh = vLow + 1
	}
	t0 := samples[0].T
	t1 := samples[len(samples)-1].T
	if t1 == t0 {
		return
	}

	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.2)
	pdf.Rect(plotX, plotY, plotW, plotH, "D")

	// Midpoint guide line.
	avgY := plotY + plotH - (result.VAvg-vLow)/(vHigh-vLow)*plotH
	if avgY >= plotY && avgY <= plotY+plotH {
		pdf.SetDrawColor(200, 120, 120)
		pdf.Line(plotX, avgY, plotX+plotW, avgY)
	}

	pdf.SetDrawColor(40, 80, 160)
	pdf.SetLineWidth(0.3)
	prevX := plotX
	prevY := plotY + plotH - (samples[0].V-vLow)/(vHigh-vLow)*plotH
	for _, s := range samples[1:] {
		x := plotX + (s.T-t0)/(t1-t0)*plotW
		y := plotY + plotH - (s.V-vLow)/(vHigh-vLow)*plotH
		pdf.Line(prevX, prevY, x, y)
		prevX, prevY = x, y
	}

	pdf.SetY(plotY + plotH + 4)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 4, fmt.Sprintf("%d samples, %.6fs to %.6fs", len(samples), t0, t1))
}
