package health

import (
	"sort"

	"github.com/priyadesai/airhealth/pkg/metrics"
)

// OutdoorWindow is the lowest-pollution contiguous slot found in an hourly
// forecast.
type OutdoorWindow struct {
	StartHour  int     `json:"start_hour"`
	AverageAQI float64 `json:"average_aqi"`
}

// BestOutdoorWindow finds the start hour whose duration-long window has the
// lowest average AQI. The second return is false when no full window exists.
func BestOutdoorWindow(hourlyAQI map[int]float64, duration int) (OutdoorWindow, bool) {
	if len(hourlyAQI) == 0 || duration < 1 {
		return OutdoorWindow{}, false
	}

	hours := make([]int, 0, len(hourlyAQI))
	for h := range hourlyAQI {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	best := OutdoorWindow{}
	found := false
	for _, start := range hours {
		sum := 0.0
		n := 0
		for _, h := range hours {
			if h >= start && h < start+duration {
				sum += hourlyAQI[h]
				n++
			}
		}
		if n != duration {
			continue
		}
		avg := sum / float64(n)
		if !found || avg < best.AverageAQI {
			best = OutdoorWindow{StartHour: start, AverageAQI: avg}
			found = true
		}
	}
	return best, found
}

// Exposure summarizes the pollution dose accumulated over the hours a person
// spends outdoors.
type Exposure struct {
	TotalExposure   float64 `json:"total_exposure"`
	AverageExposure float64 `json:"average_exposure"`
	PeakExposure    float64 `json:"peak_exposure"`
	HoursOutdoors   int     `json:"hours_outdoors"`
	Category        string  `json:"exposure_category"`
}

// DailyExposure computes total, average and peak AQI exposure for the given
// outdoor hours. Hours absent from the forecast count as zero exposure.
func DailyExposure(hourlyAQI map[int]float64, outdoorHours []int) Exposure {
	if len(outdoorHours) == 0 {
		return Exposure{Category: "Minimal"}
	}

	total := 0.0
	peak := 0.0
	for _, h := range outdoorHours {
		v := hourlyAQI[h]
		total += v
		if v > peak {
			peak = v
		}
	}
	avg := total / float64(len(outdoorHours))

	category := "Very High"
	switch {
	case avg <= 50:
		category = "Low"
	case avg <= 100:
		category = "Moderate"
	case avg <= 150:
		category = "High"
	}

	return Exposure{
		TotalExposure:   metrics.Round2(total),
		AverageExposure: metrics.Round2(avg),
		PeakExposure:    metrics.Round2(peak),
		HoursOutdoors:   len(outdoorHours),
		Category:        category,
	}
}
