package health

// Static lookup tables, US EPA breakpoints and messaging. All values are
// initialized once and never mutated, so the engine is safe for concurrent
// use without coordination.

type breakpoint struct {
	upper    float64
	category Category
}

// aqiBreakpoints lists inclusive upper bounds in ascending order; any value
// above the last bound is Hazardous.
var aqiBreakpoints = []breakpoint{
	{50, CategoryGood},
	{100, CategoryModerate},
	{150, CategoryUnhealthySensitive},
	{200, CategoryUnhealthy},
	{300, CategoryVeryUnhealthy},
}

var categoryOrder = []Category{
	CategoryGood,
	CategoryModerate,
	CategoryUnhealthySensitive,
	CategoryUnhealthy,
	CategoryVeryUnhealthy,
	CategoryHazardous,
}

var riskOrder = []RiskLevel{
	RiskLow,
	RiskModerate,
	RiskHigh,
	RiskVeryHigh,
	RiskExtreme,
}

var categoryRisk = map[Category]RiskLevel{
	CategoryGood:               RiskLow,
	CategoryModerate:           RiskLow,
	CategoryUnhealthySensitive: RiskModerate,
	CategoryUnhealthy:          RiskHigh,
	CategoryVeryUnhealthy:      RiskVeryHigh,
	CategoryHazardous:          RiskExtreme,
}

var categoryColors = map[Category]string{
	CategoryGood:               "#00E400",
	CategoryModerate:           "#FFFF00",
	CategoryUnhealthySensitive: "#FF7E00",
	CategoryUnhealthy:          "#FF0000",
	CategoryVeryUnhealthy:      "#8F3F97",
	CategoryHazardous:          "#7E0023",
}

var healthMessages = map[Category]string{
	CategoryGood:               "Air quality is satisfactory, and air pollution poses little or no risk.",
	CategoryModerate:           "Air quality is acceptable. However, there may be a risk for some people, particularly those who are unusually sensitive to air pollution.",
	CategoryUnhealthySensitive: "Members of sensitive groups may experience health effects. The general public is less likely to be affected.",
	CategoryUnhealthy:          "Some members of the general public may experience health effects; members of sensitive groups may experience more serious health effects.",
	CategoryVeryUnhealthy:      "Health alert: The risk of health effects is increased for everyone.",
	CategoryHazardous:          "Health warning of emergency conditions: everyone is more likely to be affected.",
}

var recommendations = map[Category][]string{
	CategoryGood: {
		"Enjoy outdoor activities!",
		"No precautions needed",
	},
	CategoryModerate: {
		"Outdoor activities are generally safe",
		"Sensitive individuals should watch for symptoms",
	},
	CategoryUnhealthySensitive: {
		"Sensitive groups should reduce prolonged outdoor exertion",
		"Keep windows closed to reduce indoor pollution",
	},
	CategoryUnhealthy: {
		"Everyone should reduce prolonged outdoor exertion",
		"Sensitive groups should avoid prolonged outdoor exertion",
		"Keep windows closed",
		"Use air purifiers indoors if available",
	},
	CategoryVeryUnhealthy: {
		"Everyone should avoid prolonged outdoor exertion",
		"Sensitive groups should remain indoors",
		"Keep windows and doors closed",
		"Use HEPA air purifiers",
		"Postpone outdoor activities",
	},
	CategoryHazardous: {
		"STAY INDOORS - Emergency conditions",
		"Keep all windows and doors closed",
		"Run air purifiers continuously",
		"Avoid all outdoor activities",
		"Vulnerable individuals should seek medical advice",
		"Use N95/N99 masks if you must go outside",
	},
}

var outdoorActivityLevels = map[Category]string{
	CategoryGood:               "Unrestricted",
	CategoryModerate:           "Generally Safe",
	CategoryUnhealthySensitive: "Reduce Prolonged Exertion",
	CategoryUnhealthy:          "Avoid Prolonged Exertion",
	CategoryVeryUnhealthy:      "Minimize Outdoor Activity",
	CategoryHazardous:          "Stay Indoors - Emergency",
}

var maskRecommendations = map[Category]string{
	CategoryGood:               "Not necessary",
	CategoryModerate:           "Not necessary",
	CategoryUnhealthySensitive: "Recommended for sensitive groups",
	CategoryUnhealthy:          "N95 mask recommended for everyone outdoors",
	CategoryVeryUnhealthy:      "N95/N99 mask required if going outdoors",
	CategoryHazardous:          "N95/N99 mask required if going outdoors",
}

// groupOrder is the documented stable ordering returned by Groups.
var groupOrder = []Group{
	GroupChildren,
	GroupElderly,
	GroupPregnant,
	GroupAsthma,
	GroupHeartDisease,
	GroupCOPD,
	GroupAthletes,
}

var groupDescriptions = map[Group]string{
	GroupChildren:     "Children under 18 years",
	GroupElderly:      "People aged 65 and above",
	GroupPregnant:     "Pregnant women",
	GroupAsthma:       "People with asthma",
	GroupHeartDisease: "People with heart disease",
	GroupCOPD:         "People with COPD",
	GroupAthletes:     "Athletes and people who exercise outdoors",
}

// groupWarnings only covers the four elevated categories; at Good and
// Moderate no special warnings apply.
var groupWarnings = map[Group]map[Category]string{
	GroupChildren: {
		CategoryUnhealthySensitive: "Children should reduce prolonged outdoor play. Watch for symptoms.",
		CategoryUnhealthy:          "Children should avoid prolonged outdoor activities. Indoor play recommended.",
		CategoryVeryUnhealthy:      "Keep children indoors. Schools may consider closure.",
		CategoryHazardous:          "CRITICAL: Keep children indoors at all times. Schools should close.",
	},
	GroupElderly: {
		CategoryUnhealthySensitive: "Seniors should limit time outdoors and reduce exertion.",
		CategoryUnhealthy:          "Seniors should stay indoors and minimize physical activity.",
		CategoryVeryUnhealthy:      "Seniors must stay indoors. Monitor for chest pain or breathing difficulty.",
		CategoryHazardous:          "CRITICAL: Seniors should remain indoors. Seek medical help if needed.",
	},
	GroupPregnant: {
		CategoryUnhealthySensitive: "Limit outdoor exposure to protect fetal health.",
		CategoryUnhealthy:          "Avoid outdoor activities. Indoor rest recommended.",
		CategoryVeryUnhealthy:      "Stay indoors. High pollution may affect pregnancy.",
		CategoryHazardous:          "CRITICAL: Remain indoors. Consult doctor if experiencing symptoms.",
	},
	GroupAsthma: {
		CategoryUnhealthySensitive: "Have quick-relief inhaler ready. Reduce outdoor activities.",
		CategoryUnhealthy:          "High risk of asthma attacks. Stay indoors. Keep medication close.",
		CategoryVeryUnhealthy:      "SEVERE RISK: Stay indoors. Monitor symptoms closely. Have emergency plan ready.",
		CategoryHazardous:          "CRITICAL: Extreme asthma risk. Stay indoors. Seek emergency care if symptoms worsen.",
	},
	GroupHeartDisease: {
		CategoryUnhealthySensitive: "Reduce physical exertion. Monitor for chest discomfort.",
		CategoryUnhealthy:          "Avoid all outdoor activities. Rest indoors. Watch for symptoms.",
		CategoryVeryUnhealthy:      "HIGH RISK: Stay indoors. Seek medical attention if experiencing chest pain.",
		CategoryHazardous:          "CRITICAL: Cardiovascular emergency risk. Stay indoors. Call doctor if symptoms appear.",
	},
	GroupCOPD: {
		CategoryUnhealthySensitive: "Use medications as prescribed. Limit outdoor exposure.",
		CategoryUnhealthy:          "High risk of exacerbation. Stay indoors. Keep oxygen therapy ready if applicable.",
		CategoryVeryUnhealthy:      "SEVERE RISK: Stay indoors. Monitor oxygen levels. Have emergency plan.",
		CategoryHazardous:          "CRITICAL: Extreme risk of respiratory failure. Stay indoors. Seek immediate care if worsening.",
	},
	GroupAthletes: {
		CategoryUnhealthySensitive: "Reduce intensity and duration of outdoor training.",
		CategoryUnhealthy:          "Move training indoors. High-intensity exercise is risky.",
		CategoryVeryUnhealthy:      "Cancel outdoor training. Indoor low-intensity only.",
		CategoryHazardous:          "CRITICAL: No training. Rest and recovery mode.",
	},
}
