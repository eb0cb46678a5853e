package health

// Error codes surfaced by the engine. The HTTP layer maps both to client
// errors; neither is retryable.
const (
	CodeInvalidInput = "invalid_input"
	CodeUnknownGroup = "unknown_group"
)

// Category is one of the six US EPA AQI severity bands.
type Category string

const (
	CategoryGood               Category = "Good"
	CategoryModerate           Category = "Moderate"
	CategoryUnhealthySensitive Category = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy          Category = "Unhealthy"
	CategoryVeryUnhealthy      Category = "Very Unhealthy"
	CategoryHazardous          Category = "Hazardous"
)

// Index returns the ordinal position of the category, Good being 0.
func (c Category) Index() int {
	for i, candidate := range categoryOrder {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Color returns the EPA display color for dashboard annotation.
func (c Category) Color() string {
	return categoryColors[c]
}

// RiskLevel is the coarser severity label used for user-facing messaging.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
	RiskExtreme  RiskLevel = "Extreme"
)

// Rank returns the ordinal position of the risk level, Low being 0.
func (r RiskLevel) Rank() int {
	for i, candidate := range riskOrder {
		if candidate == r {
			return i
		}
	}
	return -1
}

// Group identifies a vulnerable population subgroup.
type Group string

const (
	GroupChildren     Group = "children"
	GroupElderly      Group = "elderly"
	GroupPregnant     Group = "pregnant_women"
	GroupAsthma       Group = "asthma_patients"
	GroupHeartDisease Group = "heart_disease_patients"
	GroupCOPD         Group = "copd_patients"
	GroupAthletes     Group = "athletes"
)

// Assessment is the full health-risk result for a single AQI value. It is
// assembled fresh per call and never shared or mutated afterwards.
type Assessment struct {
	AQI                     float64           `json:"aqi"`
	Category                Category          `json:"category"`
	CategoryColor           string            `json:"category_color"`
	RiskLevel               RiskLevel         `json:"risk_level"`
	HealthMessage           string            `json:"health_message"`
	Recommendations         []string          `json:"recommendations"`
	OutdoorActivityLevel    string            `json:"outdoor_activity_level"`
	MaskRecommendation      string            `json:"mask_recommendation"`
	VulnerableGroupWarnings map[string]string `json:"vulnerable_group_warnings"`
}

// GroupInfo pairs a group identifier with its human-readable description.
type GroupInfo struct {
	ID          Group  `json:"id"`
	Description string `json:"description"`
}
