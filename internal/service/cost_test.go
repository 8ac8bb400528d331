package service

import (
	"testing"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

func TestCostPerDuration(t *testing.T) {
	tt := &model.TaskType{
		BillingType:       model.BillingPerDuration,
		BaseCostPerSecond: 10,
	}

	if got := Cost(tt, 12.5, 0); got != 125 {
		t.Fatalf("Cost = %d, want 125", got)
	}
	if got := Cost(tt, 0, 0); got != 0 {
		t.Fatalf("Cost with zero duration = %d, want 0", got)
	}
	if got := Cost(tt, -3, 0); got != 0 {
		t.Fatalf("Cost with negative duration = %d, want 0", got)
	}
}

func TestCostPerUnit(t *testing.T) {
	tt := &model.TaskType{
		BillingType: model.BillingPerUnit,
		UnitCost:    7,
	}

	if got := Cost(tt, 0, 4); got != 28 {
		t.Fatalf("Cost = %d, want 28", got)
	}
	if got := Cost(tt, 99, 0); got != 0 {
		t.Fatalf("Cost with zero units = %d, want 0", got)
	}
}

func TestCostFactorsApplied(t *testing.T) {
	tt := &model.TaskType{
		BillingType:       model.BillingPerDuration,
		BaseCostPerSecond: 10,
		CostFactors: map[string]float64{
			"resolution": 1.5,
			"priority":   2.0,
		},
	}

	// 10 * 10 * 2.0 * 1.5 = 300
	if got := Cost(tt, 10, 0); got != 300 {
		t.Fatalf("Cost = %d, want 300", got)
	}
}

func TestCostRoundsOnce(t *testing.T) {
	tt := &model.TaskType{
		BillingType: model.BillingPerUnit,
		UnitCost:    1,
		CostFactors: map[string]float64{"a": 0.5, "b": 0.9},
	}

	// 3 * 0.5 * 0.9 = 1.35; a per-factor rounding scheme would give 2.
	if got := Cost(tt, 0, 3); got != 1 {
		t.Fatalf("Cost = %d, want 1", got)
	}
}

func TestCostUnknownBillingType(t *testing.T) {
	tt := &model.TaskType{BillingType: "flat"}
	if got := Cost(tt, 10, 10); got != 0 {
		t.Fatalf("Cost = %d, want 0", got)
	}
}

func TestCostNeverNegative(t *testing.T) {
	tt := &model.TaskType{
		BillingType: model.BillingPerUnit,
		UnitCost:    10,
		CostFactors: map[string]float64{"discount": -1},
	}
	if got := Cost(tt, 0, 2); got != 0 {
		t.Fatalf("Cost = %d, want 0", got)
	}
}

func TestCostDeterministic(t *testing.T) {
	tt := &model.TaskType{
		BillingType:       model.BillingPerDuration,
		BaseCostPerSecond: 3,
		CostFactors: map[string]float64{
			"x": 1.1, "y": 0.7, "z": 1.3,
		},
	}

	first := Cost(tt, 17.3, 0)
	for i := 0; i < 50; i++ {
		if got := Cost(tt, 17.3, 0); got != first {
			t.Fatalf("Cost varied across calls: %d vs %d", got, first)
		}
	}
}
