// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package nutrition

import (
	"math"
	"strings"

	"github.com/tomtom215/nutrimaster/internal/models"
)

// Named activity levels.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// DefaultActivityFactor applies when neither a factor nor a level is given.
const DefaultActivityFactor = 1.2

// KcalPerKgBodyWeight is the energy content of one kilogram of body weight
// used to turn a daily deficit into a weekly weight change.
const KcalPerKgBodyWeight = 7700.0

// Safe daily intake floors by sex.
const (
	MinimumKcalMale   = 1500.0
	MinimumKcalFemale = 1200.0
)

// ActivityLevel pairs a named level with its TDEE multiplier.
type ActivityLevel struct {
	Name   string
	Factor float64
}

// ActivityLevels lists the named levels from least to most active.
var ActivityLevels = []ActivityLevel{
	{ActivitySedentary, 1.2},
	{ActivityLight, 1.375},
	{ActivityModerate, 1.55},
	{ActivityActive, 1.725},
	{ActivityVeryActive, 1.9},
}

// Goal pairs a behavior tier with its daily calorie delta relative to TDEE.
type Goal struct {
	Tier      string
	DeltaKcal float64
}

// Goals lists the behavior tiers of the goal table in display order.
var Goals = []Goal{
	{"extreme_loss", -1000},
	{"loss", -500},
	{"mild_loss", -250},
	{"maintain", 0},
	{"mild_gain", 250},
	{"gain", 500},
}

// ActivityFactorFor returns the multiplier of a named level.
func ActivityFactorFor(level string) (float64, bool) {
	for _, l := range ActivityLevels {
		if l.Name == level {
			return l.Factor, true
		}
	}
	return 0, false
}

// MifflinStJeor returns BMR in kcal/day.
func MifflinStJeor(sex string, age int, heightCm, weightKg float64) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if isMale(sex) {
		return bmr + 5
	}
	return bmr - 161
}

// HarrisBenedict returns BMR in kcal/day using the Roza and Shizgal (1984)
// revision.
func HarrisBenedict(sex string, age int, heightCm, weightKg float64) float64 {
	a := float64(age)
	if isMale(sex) {
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*a
	}
	return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*a
}

func isMale(sex string) bool {
	return strings.EqualFold(sex, "male")
}

// MinimumKcal returns the safe daily intake floor for sex.
func MinimumKcal(sex string) float64 {
	if isMale(sex) {
		return MinimumKcalMale
	}
	return MinimumKcalFemale
}

// resolveActivity picks the factor and level name for req. An explicit factor
// wins; a factor equal to a named level reports that level.
func resolveActivity(req models.BMRRequest) (float64, string) {
	if req.ActivityFactor > 0 {
		for _, l := range ActivityLevels {
			if math.Abs(l.Factor-req.ActivityFactor) < 1e-9 {
				return req.ActivityFactor, l.Name
			}
		}
		return req.ActivityFactor, ""
	}
	if f, ok := ActivityFactorFor(req.ActivityLevel); ok {
		return f, req.ActivityLevel
	}
	return DefaultActivityFactor, ActivitySedentary
}

// CalculateBMR computes BMR, TDEE, BMI and the activity and goal tables. The
// request is assumed valid; Service.CalculateBMR validates before calling it.
// Calorie values are rounded to whole kcal, percents to one decimal.
func CalculateBMR(req models.BMRRequest) *models.BMRResult {
	formula := req.Formula
	if formula == "" {
		formula = models.FormulaMifflinStJeor
	}

	var bmr float64
	switch formula {
	case models.FormulaHarrisBenedict:
		bmr = HarrisBenedict(req.Sex, req.Age, req.HeightCm, req.WeightKg)
	default:
		formula = models.FormulaMifflinStJeor
		bmr = MifflinStJeor(req.Sex, req.Age, req.HeightCm, req.WeightKg)
	}
	bmr = math.Max(bmr, 0)

	factor, level := resolveActivity(req)
	tdee := bmr * factor
	minimum := MinimumKcal(req.Sex)
	bmi := BMI(req.HeightCm, req.WeightKg)

	res := &models.BMRResult{
		Formula:        formula,
		BMR:            round0(bmr),
		TDEE:           round0(tdee),
		ActivityFactor: factor,
		ActivityLevel:  level,
		BMI:            round1(bmi),
		BMICategory:    BMICategory(bmi),
		MinimumKcal:    minimum,
		ActivityTable:  make([]models.ActivityTier, 0, len(ActivityLevels)),
		GoalTable:      make([]models.GoalTier, 0, len(Goals)),
	}

	for _, l := range ActivityLevels {
		res.ActivityTable = append(res.ActivityTable, models.ActivityTier{
			Level:      l.Name,
			Factor:     l.Factor,
			KcalPerDay: round0(bmr * l.Factor),
			Selected:   l.Name == level,
		})
	}

	for _, g := range Goals {
		kcal := round0(math.Max(tdee+g.DeltaKcal, 0))
		var pct float64
		if tdee > 0 {
			pct = round1(kcal / tdee * 100)
		}
		res.GoalTable = append(res.GoalTable, models.GoalTier{
			Tier:           g.Tier,
			DeltaKcal:      g.DeltaKcal,
			KcalPerDay:     kcal,
			WeeklyChangeKg: round2(g.DeltaKcal * 7 / KcalPerKgBodyWeight),
			PercentOfTDEE:  pct,
			BelowMinimum:   kcal < minimum,
		})
	}

	return res
}
