package airdata

import (
	"log/slog"
	"sort"
)

// Processor merges and cleans raw readings from multiple collectors into a
// single hourly series suitable for feature engineering.
type Processor struct {
	logger *slog.Logger
}

func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: logger}
}

// Merge concatenates batches from different sources into one slice. Callers
// pass the per-source batches exactly as the collectors produced them.
func (p *Processor) Merge(batches ...[]Reading) []Reading {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	out := make([]Reading, 0, total)
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}

// Clean standardizes a merged batch: timestamps to UTC, duplicates by
// (timestamp, source) dropped keeping the first, rows sorted by time, rows
// carrying no critical metric removed, and remaining gaps forward then
// backward filled per metric.
func (p *Processor) Clean(readings []Reading) []Reading {
	if len(readings) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(readings))
	out := make([]Reading, 0, len(readings))
	for _, r := range readings {
		c := r.Clone()
		c.Timestamp = c.Timestamp.UTC()
		key := c.Timestamp.Format("2006-01-02T15:04:05") + "|" + c.Source
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	kept := out[:0]
	for _, r := range out {
		if r.hasAnyCritical() {
			kept = append(kept, r)
		}
	}
	out = kept

	for _, name := range NumericMetrics {
		fillForward(out, name)
		fillBackward(out, name)
	}

	if p.logger != nil {
		p.logger.Info("cleaned readings", "input", len(readings), "output", len(out))
	}
	return out
}

// FillMissingAQI derives AQI from PM2.5 for rows that have PM2.5 but no AQI.
func (p *Processor) FillMissingAQI(readings []Reading) []Reading {
	out := make([]Reading, 0, len(readings))
	filled := 0
	for _, r := range readings {
		c := r.Clone()
		if _, ok := c.Get(MetricAQI); !ok {
			if pm25, ok := c.Get(MetricPM25); ok {
				if aqi, valid := AQIFromPM25(pm25); valid {
					c.Set(MetricAQI, aqi)
					filled++
				}
			}
		}
		out = append(out, c)
	}
	if p.logger != nil && filled > 0 {
		p.logger.Info("filled missing aqi from pm2.5", "rows", filled)
	}
	return out
}

func fillForward(readings []Reading, name string) {
	var last float64
	have := false
	for i := range readings {
		if v, ok := readings[i].Get(name); ok {
			last, have = v, true
		} else if have {
			readings[i].Set(name, last)
		}
	}
}

func fillBackward(readings []Reading, name string) {
	var next float64
	have := false
	for i := len(readings) - 1; i >= 0; i-- {
		if v, ok := readings[i].Get(name); ok {
			next, have = v, true
		} else if have {
			readings[i].Set(name, next)
		}
	}
}
