package airdata

import "math"

// US EPA AQI breakpoints for PM2.5 concentration (µg/m³).
type pm25Breakpoint struct {
	cLow, cHigh   float64
	aqiLow, aqiHi float64
}

var pm25Breakpoints = []pm25Breakpoint{
	{0.0, 12.0, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 350.4, 301, 400},
	{350.5, 500.4, 401, 500},
}

// AQIFromPM25 converts a PM2.5 concentration to the US EPA AQI via linear
// interpolation within the matching breakpoint band. Concentrations above
// the top band clamp to 500. The second return is false for invalid input.
func AQIFromPM25(pm25 float64) (float64, bool) {
	if math.IsNaN(pm25) || pm25 < 0 {
		return 0, false
	}
	for _, bp := range pm25Breakpoints {
		if pm25 >= bp.cLow && pm25 <= bp.cHigh {
			aqi := ((bp.aqiHi-bp.aqiLow)/(bp.cHigh-bp.cLow))*(pm25-bp.cLow) + bp.aqiLow
			return math.Round(aqi), true
		}
	}
	if pm25 > 500.4 {
		return 500, true
	}
	// Gap values between bands (e.g. 12.05) snap to the nearest band below.
	for i := len(pm25Breakpoints) - 1; i >= 0; i-- {
		if pm25 > pm25Breakpoints[i].cHigh {
			return pm25Breakpoints[i].aqiHi, true
		}
	}
	return 0, true
}
