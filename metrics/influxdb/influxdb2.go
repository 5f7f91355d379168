// Package influxdb exports run statistics to an InfluxDB v2 Write API.
package influxdb

import (
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/rotblauer/av2kml/params"
)

// Measurement is the measurement name of every exported point.
const Measurement = "av2kml_run"

// Run is the outcome of one command.
type Run struct {
	Command string
	Time    time.Time

	// Tags are indexed, like the split or output format.
	Tags map[string]string

	// Fields are the counts.
	Fields map[string]any
}

// Export posts runs to the configured InfluxDB. It does nothing when no URL
// is configured. The Write API buffers and flushes; the last error
// encountered is returned.
func Export(cfg *params.InfluxConfig, runs ...Run) error {
	if cfg == nil || !cfg.Enabled() || len(runs) == 0 {
		return nil
	}
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)
	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	// Errors returns a channel for reading errors which occurs during async writes.
	// Must be called before performing any writes for errors to be collected.
	// The chan is unbuffered and must be drained or the writer will block.
	// https://github.com/influxdata/influxdb-client-go?tab=readme-ov-file#reading-async-errors
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	for _, run := range runs {
		tags := map[string]string{"command": run.Command}
		for k, v := range run.Tags {
			tags[k] = v
		}
		ts := run.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		writeAPI.WritePoint(influxdb2.NewPoint(Measurement, tags, run.Fields, ts))
	}
	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}
