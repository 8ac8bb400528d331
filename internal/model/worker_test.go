package model

import (
	"testing"
	"time"
)

func TestComputeHealth(t *testing.T) {
	now := time.Now()
	staleAfter := time.Minute
	deadAfter := 5 * time.Minute

	hb := func(age time.Duration) string {
		return now.Add(-age).UTC().Format(time.RFC3339)
	}

	cases := []struct {
		name   string
		worker Worker
		want   string
	}{
		{"fresh", Worker{LastHeartbeat: hb(10 * time.Second)}, WorkerHealthActive},
		{"stale", Worker{LastHeartbeat: hb(2 * time.Minute)}, WorkerHealthStale},
		{"dead", Worker{LastHeartbeat: hb(time.Hour)}, WorkerHealthInactive},
		{"deregistered", Worker{LastHeartbeat: hb(time.Second), DeregisteredAt: hb(0)}, WorkerHealthInactive},
		{"unparseable", Worker{LastHeartbeat: "not-a-time"}, WorkerHealthInactive},
	}

	for _, tc := range cases {
		if got := tc.worker.ComputeHealth(now, staleAfter, deadAfter); got != tc.want {
			t.Errorf("%s: health = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsTerminalStatus(t *testing.T) {
	for _, s := range []string{TaskStatusComplete, TaskStatusFailed, TaskStatusCancelled} {
		if !IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{TaskStatusQueued, TaskStatusInProgress, ""} {
		if IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%q) = true, want false", s)
		}
	}
}
