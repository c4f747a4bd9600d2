// Package report renders analysis sessions into downloadable documents.
package report

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Settings controls report rendering.
type Settings struct {
	Title string `yaml:"title"`
	// MaxPeriods bounds how many detected periods the waveform plot shows.
	// Zero plots the whole capture (capped by MaxPlotSamples).
	MaxPeriods int `yaml:"max_periods"`
	// FullHeight pins the plot value axis to [0, vMax] instead of
	// [vMin, vMax].
	FullHeight bool `yaml:"full_height"`
	// MaxPlotSamples caps the number of polyline points drawn.
	MaxPlotSamples int `yaml:"max_plot_samples"`
	// MaxExportRows caps the rows written to XLSX/CSV sample sheets.
	MaxExportRows int `yaml:"max_export_rows"`
}

// DefaultSettings returns the built-in rendering defaults.
func DefaultSettings() Settings {
	return Settings{
		Title:          "Flicker Analysis Report",
		MaxPeriods:     4,
		MaxPlotSamples: 2000,
		MaxExportRows:  50000,
	}
}

// LoadSettings reads settings from the YAML file named by the REPORT_CONFIG
// environment variable, falling back to defaults when unset.
func LoadSettings() (Settings, error) {
	settings := DefaultSettings()
	path := os.Getenv("REPORT_CONFIG")
	if path == "" {
		return settings, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, err
	}
	if settings.MaxPlotSamples <= 0 {
		settings.MaxPlotSamples = 2000
	}
	if settings.MaxExportRows <= 0 {
		settings.MaxExportRows = 50000
	}
	return settings, nil
}
