package health

import (
	"fmt"
	"math"

	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

// Classify maps an AQI value to its EPA category. Upper bounds are
// inclusive, so an AQI of exactly 50 is Good. There is no ceiling: anything
// above 300 is Hazardous.
func Classify(aqi float64) (Category, error) {
	if err := validateAQI(aqi); err != nil {
		return "", err
	}
	for _, bp := range aqiBreakpoints {
		if aqi <= bp.upper {
			return bp.category, nil
		}
	}
	return CategoryHazardous, nil
}

// Assess builds the complete health-risk assessment for an AQI value and an
// optional set of vulnerable groups. Unknown group identifiers are rejected
// outright rather than skipped, naming the offending value.
func Assess(aqi float64, groups []Group) (Assessment, error) {
	category, err := Classify(aqi)
	if err != nil {
		return Assessment{}, err
	}
	for _, g := range groups {
		if _, ok := groupDescriptions[g]; !ok {
			return Assessment{}, apperrors.New(CodeUnknownGroup, fmt.Sprintf("unknown vulnerable group %q", string(g)))
		}
	}

	warnings := make(map[string]string, len(groups))
	for _, g := range groups {
		if text, ok := groupWarnings[g][category]; ok {
			warnings[string(g)] = text
		}
	}

	recs := recommendations[category]
	out := make([]string, len(recs))
	copy(out, recs)

	return Assessment{
		AQI:                     aqi,
		Category:                category,
		CategoryColor:           categoryColors[category],
		RiskLevel:               categoryRisk[category],
		HealthMessage:           healthMessages[category],
		Recommendations:         out,
		OutdoorActivityLevel:    outdoorActivityLevels[category],
		MaskRecommendation:      maskRecommendations[category],
		VulnerableGroupWarnings: warnings,
	}, nil
}

// Groups returns the closed set of supported vulnerable groups in stable
// order.
func Groups() []Group {
	out := make([]Group, len(groupOrder))
	copy(out, groupOrder)
	return out
}

// GroupCatalog returns the groups with their descriptions, in the same order
// as Groups.
func GroupCatalog() []GroupInfo {
	out := make([]GroupInfo, 0, len(groupOrder))
	for _, g := range groupOrder {
		out = append(out, GroupInfo{ID: g, Description: groupDescriptions[g]})
	}
	return out
}

// IsGroup reports whether id is a member of the closed group set.
func IsGroup(id string) bool {
	_, ok := groupDescriptions[Group(id)]
	return ok
}

func validateAQI(aqi float64) error {
	if math.IsNaN(aqi) || math.IsInf(aqi, 0) {
		return apperrors.New(CodeInvalidInput, "aqi must be a finite number")
	}
	if aqi < 0 {
		return apperrors.New(CodeInvalidInput, fmt.Sprintf("aqi cannot be negative, got %.2f", aqi))
	}
	return nil
}
