package service

import (
	"math"
	"sort"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

// Cost computes the credit charge for a task given its catalog entry and
// measured usage. Pure: no clock reads, no storage access. Factors are
// applied in sorted key order before a single final rounding so the result
// is deterministic for a given input.
func Cost(tt *model.TaskType, durationSeconds float64, unitCount int) int64 {
	var raw float64
	switch tt.BillingType {
	case model.BillingPerDuration:
		if durationSeconds <= 0 {
			return 0
		}
		raw = float64(tt.BaseCostPerSecond) * durationSeconds
	case model.BillingPerUnit:
		if unitCount <= 0 {
			return 0
		}
		raw = float64(tt.UnitCost) * float64(unitCount)
	default:
		return 0
	}

	keys := make([]string, 0, len(tt.CostFactors))
	for k := range tt.CostFactors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		raw *= tt.CostFactors[k]
	}

	if raw <= 0 {
		return 0
	}
	return int64(math.Round(raw))
}
