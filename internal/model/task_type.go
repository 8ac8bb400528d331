package model

// Billing shapes for task types.
const (
	BillingPerDuration = "per_duration"
	BillingPerUnit     = "per_unit"
)

// TaskType represents a row in the billing catalog
type TaskType struct {
	ID                string             `json:"id" db:"id"`
	BillingType       string             `json:"billing_type" db:"billing_type"`
	BaseCostPerSecond int64              `json:"base_cost_per_second" db:"base_cost_per_second"`
	UnitCost          int64              `json:"unit_cost" db:"unit_cost"`
	CostFactors       map[string]float64 `json:"cost_factors,omitempty" db:"cost_factors"`
	RunType           string             `json:"run_type" db:"run_type"`
	IsActive          bool               `json:"is_active" db:"is_active"`
	CreatedAt         string             `json:"created_at" db:"created_at"`
	UpdatedAt         string             `json:"updated_at" db:"updated_at"`
}

// TaskTypeCreate represents a catalog entry creation request
type TaskTypeCreate struct {
	ID                string             `json:"id" binding:"required"`
	BillingType       string             `json:"billing_type" binding:"required"`
	BaseCostPerSecond int64              `json:"base_cost_per_second"`
	UnitCost          int64              `json:"unit_cost"`
	CostFactors       map[string]float64 `json:"cost_factors"`
	RunType           string             `json:"run_type" binding:"required"`
}

// TaskTypeUpdate represents a catalog entry update request
type TaskTypeUpdate struct {
	BaseCostPerSecond *int64             `json:"base_cost_per_second"`
	UnitCost          *int64             `json:"unit_cost"`
	CostFactors       map[string]float64 `json:"cost_factors"`
	IsActive          *bool              `json:"is_active"`
}
