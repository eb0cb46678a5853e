package health

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		aqi  float64
		want Category
	}{
		{0, CategoryGood},
		{25, CategoryGood},
		{50, CategoryGood},
		{50.1, CategoryModerate},
		{100, CategoryModerate},
		{100.1, CategoryUnhealthySensitive},
		{150, CategoryUnhealthySensitive},
		{150.1, CategoryUnhealthy},
		{200, CategoryUnhealthy},
		{200.1, CategoryVeryUnhealthy},
		{300, CategoryVeryUnhealthy},
		{300.1, CategoryHazardous},
		{500, CategoryHazardous},
		{1000, CategoryHazardous},
	}
	for _, tc := range cases {
		got, err := Classify(tc.aqi)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "aqi=%v", tc.aqi)
	}
}

func TestClassifyPartitionsNonNegativeRange(t *testing.T) {
	// Sweep in 0.5 steps well past the top breakpoint; every value must map
	// to exactly one category and categories must never step backwards.
	lastIdx := -1
	for aqi := 0.0; aqi <= 600; aqi += 0.5 {
		cat, err := Classify(aqi)
		require.NoError(t, err)
		idx := cat.Index()
		require.GreaterOrEqual(t, idx, 0)
		require.GreaterOrEqual(t, idx, lastIdx, "category regressed at aqi=%v", aqi)
		lastIdx = idx
	}
}

func TestClassifyRejectsInvalidInput(t *testing.T) {
	for _, aqi := range []float64{-1, -0.001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Classify(aqi)
		require.Error(t, err, "aqi=%v", aqi)
		require.True(t, apperrors.IsCode(err, CodeInvalidInput), "aqi=%v", aqi)
	}
}

func TestRiskLevelMonotonic(t *testing.T) {
	lastRank := -1
	for aqi := 0.0; aqi <= 600; aqi += 1 {
		assessment, err := Assess(aqi, nil)
		require.NoError(t, err)
		rank := assessment.RiskLevel.Rank()
		require.GreaterOrEqual(t, rank, 0)
		require.GreaterOrEqual(t, rank, lastRank, "risk regressed at aqi=%v", aqi)
		lastRank = rank
	}
}

func TestAssessDeterministic(t *testing.T) {
	groups := []Group{GroupChildren, GroupCOPD}
	first, err := Assess(137.4, groups)
	require.NoError(t, err)
	second, err := Assess(137.4, groups)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, firstJSON, secondJSON)
}

func TestAssessRejectsNaN(t *testing.T) {
	_, err := Assess(math.NaN(), nil)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))
}

func TestAssessUnknownGroup(t *testing.T) {
	_, err := Assess(100, []Group{"unicorns"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeUnknownGroup))
	require.Contains(t, err.Error(), "unicorns")
}

func TestAssessGoodAir(t *testing.T) {
	assessment, err := Assess(25, nil)
	require.NoError(t, err)
	require.Equal(t, CategoryGood, assessment.Category)
	require.Equal(t, RiskLow, assessment.RiskLevel)
	require.Equal(t, "Unrestricted", assessment.OutdoorActivityLevel)
	require.Equal(t, "Not necessary", assessment.MaskRecommendation)
	require.LessOrEqual(t, len(assessment.Recommendations), 2)
	require.Empty(t, assessment.VulnerableGroupWarnings)
}

func TestAssessUnhealthyWithGroups(t *testing.T) {
	assessment, err := Assess(175, []Group{GroupChildren, GroupAsthma})
	require.NoError(t, err)
	require.Equal(t, CategoryUnhealthy, assessment.Category)
	require.Equal(t, RiskHigh, assessment.RiskLevel)
	require.Contains(t, assessment.Recommendations, "Everyone should reduce prolonged outdoor exertion")

	require.Len(t, assessment.VulnerableGroupWarnings, 2)
	for _, g := range []string{"children", "asthma_patients"} {
		require.Contains(t, assessment.VulnerableGroupWarnings, g)
		require.NotEmpty(t, assessment.VulnerableGroupWarnings[g])
	}
}

func TestAssessWarningsOnlyForRequestedGroups(t *testing.T) {
	assessment, err := Assess(250, []Group{GroupElderly})
	require.NoError(t, err)
	require.Len(t, assessment.VulnerableGroupWarnings, 1)
	require.Contains(t, assessment.VulnerableGroupWarnings, "elderly")
}

func TestAssessNoWarningsAtModerate(t *testing.T) {
	assessment, err := Assess(75, []Group{GroupChildren})
	require.NoError(t, err)
	require.Empty(t, assessment.VulnerableGroupWarnings)
}

func TestRecommendationsGrowWithSeverity(t *testing.T) {
	lastLen := 0
	for _, aqi := range []float64{25, 75, 125, 175, 250, 400} {
		assessment, err := Assess(aqi, nil)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(assessment.Recommendations), lastLen, "aqi=%v", aqi)
		lastLen = len(assessment.Recommendations)
	}
}

func TestGroupsStableOrder(t *testing.T) {
	want := []Group{
		GroupChildren,
		GroupElderly,
		GroupPregnant,
		GroupAsthma,
		GroupHeartDisease,
		GroupCOPD,
		GroupAthletes,
	}
	first := Groups()
	require.Equal(t, want, first)
	require.Len(t, first, 7)
	require.Equal(t, first, Groups())
}

func TestGroupCatalogMatchesGroups(t *testing.T) {
	catalog := GroupCatalog()
	require.Len(t, catalog, len(Groups()))
	for i, info := range catalog {
		require.Equal(t, Groups()[i], info.ID)
		require.NotEmpty(t, info.Description)
	}
}

func TestEveryGroupHasWarningsForElevatedCategories(t *testing.T) {
	elevated := []Category{
		CategoryUnhealthySensitive,
		CategoryUnhealthy,
		CategoryVeryUnhealthy,
		CategoryHazardous,
	}
	for _, g := range Groups() {
		for _, cat := range elevated {
			require.NotEmpty(t, groupWarnings[g][cat], "group=%s category=%s", g, cat)
		}
	}
}

func TestCategoryColors(t *testing.T) {
	require.Equal(t, "#00E400", CategoryGood.Color())
	require.Equal(t, "#7E0023", CategoryHazardous.Color())
}
