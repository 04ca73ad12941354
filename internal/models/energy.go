// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package models

// Supported BMR formulas.
const (
	FormulaMifflinStJeor  = "mifflin_st_jeor"
	FormulaHarrisBenedict = "harris_benedict"
)

// BMRRequest carries the biometrics for a BMR/TDEE calculation. At most one of
// ActivityFactor and ActivityLevel may be set; with neither the sedentary
// factor applies.
type BMRRequest struct {
	Age            int     `json:"age" validate:"required,gte=1,lte=120"`
	Sex            string  `json:"sex" validate:"required,sex"`
	HeightCm       float64 `json:"height_cm" validate:"required,gte=50,lte=250"`
	WeightKg       float64 `json:"weight_kg" validate:"required,gte=10,lte=400"`
	ActivityFactor float64 `json:"activity_factor,omitempty" validate:"omitempty,gte=1,lte=2.5,excluded_with=ActivityLevel"`
	ActivityLevel  string  `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary light moderate active very_active"`
	Formula        string  `json:"formula,omitempty" validate:"omitempty,oneof=mifflin_st_jeor harris_benedict"`
}

// BMRResult is the calorie table for a BMRRequest.
type BMRResult struct {
	Formula        string         `json:"formula"`
	BMR            float64        `json:"bmr"`
	TDEE           float64        `json:"tdee"`
	ActivityFactor float64        `json:"activity_factor"`
	ActivityLevel  string         `json:"activity_level,omitempty"`
	BMI            float64        `json:"bmi"`
	BMICategory    string         `json:"bmi_category"`
	MinimumKcal    float64        `json:"minimum_kcal"`
	ActivityTable  []ActivityTier `json:"activity_table"`
	GoalTable      []GoalTier     `json:"goal_table"`
}

// ActivityTier is the maintenance intake at a named activity level.
type ActivityTier struct {
	Level      string  `json:"level"`
	Factor     float64 `json:"factor"`
	KcalPerDay float64 `json:"kcal_per_day"`
	Selected   bool    `json:"selected"`
}

// GoalTier is a daily intake target relative to TDEE.
type GoalTier struct {
	Tier           string  `json:"tier"`
	DeltaKcal      float64 `json:"delta_kcal"`
	KcalPerDay     float64 `json:"kcal_per_day"`
	WeeklyChangeKg float64 `json:"weekly_change_kg"`
	PercentOfTDEE  float64 `json:"percent_of_tdee"`
	BelowMinimum   bool    `json:"below_minimum"`
}
