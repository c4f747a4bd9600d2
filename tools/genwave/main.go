// Command genwave writes a synthetic flicker waveform CSV for demos and
// load tests.
package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"

	"flicker-cloud/internal/waveform/interfaces/ingest"
)

func main() {
	freq := flag.Float64("freq", 120, "flicker frequency in Hz")
	duration := flag.Float64("duration", 0.1, "capture duration in seconds")
	rate := flag.Int("rate", 10000, "sample rate in samples per second")
	pct := flag.Float64("pct", 10, "percent flicker")
	noise := flag.Float64("noise", 0.001, "gaussian noise standard deviation")
	out := flag.String("out", "waveform.csv", "output file path")
	flag.Parse()

	samples := ingest.Synthetic(ingest.SyntheticSpec{
		FrequencyHz:    *freq,
		Duration:       *duration,
		SampleRate:     *rate,
		PercentFlicker: *pct,
		NoiseStdDev:    *noise,
	})

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"time", "value"}); err != nil {
		log.Fatalf("write header: %v", err)
	}
	for _, s := range samples {
		record := []string{
			strconv.FormatFloat(s.T, 'g', -1, 64),
			strconv.FormatFloat(s.V, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			log.Fatalf("write row: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Fatalf("flush: %v", err)
	}

	log.Printf("wrote %d samples to %s", len(samples), *out)
}
