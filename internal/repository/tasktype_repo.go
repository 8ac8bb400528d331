package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

// CreateTaskType inserts a billing catalog entry
func CreateTaskType(tt *model.TaskType) error {
	now := time.Now().UTC().Format(time.RFC3339)
	factorsJSON, _ := json.Marshal(tt.CostFactors)

	query := `
		INSERT INTO task_types (id, billing_type, base_cost_per_second, unit_cost, cost_factors, run_type, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
	`
	_, err := db.Exec(query, tt.ID, tt.BillingType, tt.BaseCostPerSecond, tt.UnitCost, string(factorsJSON), tt.RunType, now, now)
	if err != nil {
		return fmt.Errorf("failed to create task type: %w", err)
	}
	tt.IsActive = true
	tt.CreatedAt = now
	tt.UpdatedAt = now
	return nil
}

// GetTaskType returns a catalog entry by id, or nil when absent
func GetTaskType(id string) (*model.TaskType, error) {
	query := `
		SELECT id, billing_type, base_cost_per_second, unit_cost, cost_factors, run_type, is_active, created_at, updated_at
		FROM task_types WHERE id = ?
	`
	tt := &model.TaskType{}
	var factors sql.NullString

	err := db.QueryRow(query, id).Scan(
		&tt.ID, &tt.BillingType, &tt.BaseCostPerSecond, &tt.UnitCost,
		&factors, &tt.RunType, &tt.IsActive, &tt.CreatedAt, &tt.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if factors.Valid {
		json.Unmarshal([]byte(factors.String), &tt.CostFactors)
	}
	return tt, nil
}

// ListTaskTypes returns the catalog
func ListTaskTypes() ([]model.TaskType, error) {
	query := `
		SELECT id, billing_type, base_cost_per_second, unit_cost, cost_factors, run_type, is_active, created_at, updated_at
		FROM task_types ORDER BY id
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []model.TaskType
	for rows.Next() {
		var tt model.TaskType
		var factors sql.NullString
		if err := rows.Scan(&tt.ID, &tt.BillingType, &tt.BaseCostPerSecond, &tt.UnitCost,
			&factors, &tt.RunType, &tt.IsActive, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, err
		}
		if factors.Valid {
			json.Unmarshal([]byte(factors.String), &tt.CostFactors)
		}
		types = append(types, tt)
	}
	return types, rows.Err()
}

// UpdateTaskType applies a partial catalog update
func UpdateTaskType(id string, update *model.TaskTypeUpdate) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	setClause := "updated_at = ?"
	args := []interface{}{now}

	if update.BaseCostPerSecond != nil {
		setClause += ", base_cost_per_second = ?"
		args = append(args, *update.BaseCostPerSecond)
	}
	if update.UnitCost != nil {
		setClause += ", unit_cost = ?"
		args = append(args, *update.UnitCost)
	}
	if update.CostFactors != nil {
		factorsJSON, _ := json.Marshal(update.CostFactors)
		setClause += ", cost_factors = ?"
		args = append(args, string(factorsJSON))
	}
	if update.IsActive != nil {
		setClause += ", is_active = ?"
		args = append(args, *update.IsActive)
	}
	args = append(args, id)

	result, err := db.Exec(fmt.Sprintf("UPDATE task_types SET %s WHERE id = ?", setClause), args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
