package model

import "time"

// Worker health classes, derived from heartbeat age at read time.
const (
	WorkerHealthActive   = "active"
	WorkerHealthStale    = "stale"
	WorkerHealthInactive = "inactive"
)

// Worker represents a registered worker row
type Worker struct {
	ID             string                 `json:"id" db:"id"`
	InstanceType   string                 `json:"instance_type" db:"instance_type"`
	LastHeartbeat  string                 `json:"last_heartbeat" db:"last_heartbeat"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	DeregisteredAt string                 `json:"deregistered_at,omitempty" db:"deregistered_at"`
	CreatedAt      string                 `json:"created_at" db:"created_at"`

	// Health is computed from LastHeartbeat, never stored.
	Health string `json:"health,omitempty" db:"-"`
}

// ComputeHealth classifies a worker by heartbeat age against the two thresholds.
func (w *Worker) ComputeHealth(now time.Time, staleAfter, deadAfter time.Duration) string {
	if w.DeregisteredAt != "" {
		return WorkerHealthInactive
	}
	hb, err := time.Parse(time.RFC3339, w.LastHeartbeat)
	if err != nil {
		return WorkerHealthInactive
	}
	age := now.Sub(hb)
	switch {
	case age < staleAfter:
		return WorkerHealthActive
	case age < deadAfter:
		return WorkerHealthStale
	default:
		return WorkerHealthInactive
	}
}

// HeartbeatRequest reports worker liveness and optional utilization metrics
type HeartbeatRequest struct {
	WorkerID     string `json:"worker_id" binding:"required"`
	InstanceType string `json:"instance_type"`
	VRAMUsedMB   int    `json:"vram_used_mb"`
	VRAMTotalMB  int    `json:"vram_total_mb"`
}
