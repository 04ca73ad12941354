// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package nutrition

import (
	"math"
	"testing"

	"github.com/tomtom215/nutrimaster/internal/models"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCalculateBMRFormulas(t *testing.T) {
	tests := []struct {
		name      string
		req       models.BMRRequest
		wantBMR   float64
		wantTDEE  float64
		wantLevel string
	}{
		{
			name:      "mifflin male moderate",
			req:       models.BMRRequest{Age: 30, Sex: "male", HeightCm: 180, WeightKg: 80, ActivityLevel: ActivityModerate},
			wantBMR:   1780,
			wantTDEE:  2759,
			wantLevel: ActivityModerate,
		},
		{
			name:      "mifflin female defaults to sedentary",
			req:       models.BMRRequest{Age: 25, Sex: "female", HeightCm: 165, WeightKg: 60},
			wantBMR:   1345,
			wantTDEE:  1614,
			wantLevel: ActivitySedentary,
		},
		{
			name:      "harris-benedict male",
			req:       models.BMRRequest{Age: 30, Sex: "male", HeightCm: 180, WeightKg: 80, ActivityFactor: 1.2, Formula: models.FormulaHarrisBenedict},
			wantBMR:   1854,
			wantTDEE:  2224,
			wantLevel: ActivitySedentary,
		},
		{
			name:      "harris-benedict female custom factor",
			req:       models.BMRRequest{Age: 25, Sex: "female", HeightCm: 165, WeightKg: 60, ActivityFactor: 1.3, Formula: models.FormulaHarrisBenedict},
			wantBMR:   1405,
			wantTDEE:  1827,
			wantLevel: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CalculateBMR(tt.req)
			if res.BMR != tt.wantBMR {
				t.Errorf("BMR = %v, want %v", res.BMR, tt.wantBMR)
			}
			if res.TDEE != tt.wantTDEE {
				t.Errorf("TDEE = %v, want %v", res.TDEE, tt.wantTDEE)
			}
			if res.ActivityLevel != tt.wantLevel {
				t.Errorf("ActivityLevel = %q, want %q", res.ActivityLevel, tt.wantLevel)
			}
			if len(res.ActivityTable) != len(ActivityLevels) || len(res.GoalTable) != len(Goals) {
				t.Errorf("tables have %d/%d rows", len(res.ActivityTable), len(res.GoalTable))
			}
		})
	}
}

func TestCalculateBMRDefaultFormula(t *testing.T) {
	res := CalculateBMR(models.BMRRequest{Age: 30, Sex: "male", HeightCm: 180, WeightKg: 80})
	if res.Formula != models.FormulaMifflinStJeor {
		t.Errorf("Formula = %q, want %q", res.Formula, models.FormulaMifflinStJeor)
	}
	if res.ActivityFactor != DefaultActivityFactor {
		t.Errorf("ActivityFactor = %v, want %v", res.ActivityFactor, DefaultActivityFactor)
	}
	if res.BMI != 24.7 || res.BMICategory != BMINormal {
		t.Errorf("BMI = %v %q, want 24.7 normal", res.BMI, res.BMICategory)
	}
}

func TestGoalTable(t *testing.T) {
	res := CalculateBMR(models.BMRRequest{Age: 30, Sex: "male", HeightCm: 180, WeightKg: 80, ActivityLevel: ActivityModerate})

	want := map[string]struct {
		kcal, weekly, pct float64
		below            bool
	}{
		"extreme_loss": {1759, -0.91, 63.8, false},
		"loss":         {2259, -0.45, 81.9, false},
		"mild_loss":    {2509, -0.23, 90.9, false},
		"maintain":     {2759, 0, 100, false},
		"mild_gain":    {3009, 0.23, 109.1, false},
		"gain":         {3259, 0.45, 118.1, false},
	}
	for _, g := range res.GoalTable {
		w, ok := want[g.Tier]
		if !ok {
			t.Errorf("unexpected tier %q", g.Tier)
			continue
		}
		if g.KcalPerDay != w.kcal || !approxEqual(g.WeeklyChangeKg, w.weekly) || !approxEqual(g.PercentOfTDEE, w.pct) || g.BelowMinimum != w.below {
			t.Errorf("%s = %+v, want kcal=%v weekly=%v pct=%v below=%v", g.Tier, g, w.kcal, w.weekly, w.pct, w.below)
		}
	}

	var selected int
	for _, a := range res.ActivityTable {
		if a.Selected {
			selected++
			if a.Level != ActivityModerate || a.KcalPerDay != 2759 {
				t.Errorf("selected tier = %+v", a)
			}
		}
	}
	if selected != 1 {
		t.Errorf("%d activity tiers selected, want 1", selected)
	}
}

func TestGoalTableMinimumFloor(t *testing.T) {
	res := CalculateBMR(models.BMRRequest{Age: 25, Sex: "female", HeightCm: 165, WeightKg: 60})
	if res.MinimumKcal != MinimumKcalFemale {
		t.Errorf("MinimumKcal = %v, want %v", res.MinimumKcal, MinimumKcalFemale)
	}

	below := map[string]bool{}
	for _, g := range res.GoalTable {
		below[g.Tier] = g.BelowMinimum
	}
	if !below["extreme_loss"] || !below["loss"] {
		t.Error("1614 kcal TDEE minus 500 or more should be below the 1200 kcal floor")
	}
	if below["mild_loss"] || below["maintain"] {
		t.Error("mild_loss and maintain should stay above the floor")
	}
}

func TestCalculateBMRNeverNegative(t *testing.T) {
	// Mifflin-St Jeor goes negative at the edge of the accepted ranges.
	res := CalculateBMR(models.BMRRequest{Age: 120, Sex: "female", HeightCm: 50, WeightKg: 10})
	if res.BMR != 0 || res.TDEE != 0 {
		t.Errorf("BMR/TDEE = %v/%v, want 0/0", res.BMR, res.TDEE)
	}
	for _, g := range res.GoalTable {
		if g.KcalPerDay < 0 {
			t.Errorf("%s target is negative: %v", g.Tier, g.KcalPerDay)
		}
		if g.PercentOfTDEE != 0 {
			t.Errorf("%s percent = %v, want 0 when TDEE is 0", g.Tier, g.PercentOfTDEE)
		}
	}
}

func TestActivityFactorFor(t *testing.T) {
	for _, l := range ActivityLevels {
		f, ok := ActivityFactorFor(l.Name)
		if !ok || f != l.Factor {
			t.Errorf("ActivityFactorFor(%q) = %v, %v", l.Name, f, ok)
		}
	}
	if _, ok := ActivityFactorFor("couch"); ok {
		t.Error("unknown level should not resolve")
	}
}

func TestBMICategory(t *testing.T) {
	tests := []struct {
		bmi  float64
		want string
	}{
		{17, BMIUnderweight},
		{18.5, BMINormal},
		{24.99, BMINormal},
		{25, BMIOverweight},
		{30, BMIObese1},
		{35, BMIObese2},
		{40, BMIObese3},
	}
	for _, tt := range tests {
		if got := BMICategory(tt.bmi); got != tt.want {
			t.Errorf("BMICategory(%v) = %q, want %q", tt.bmi, got, tt.want)
		}
	}
	if BMI(0, 70) != 0 {
		t.Error("BMI with zero height should be 0")
	}
}
