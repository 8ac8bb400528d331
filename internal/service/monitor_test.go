package service

import (
	"strings"
	"testing"
	"time"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

func testMonitor() *Monitor {
	return NewMonitor(config.Get())
}

func TestSweepRequeuesOrphan(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	task := enqueue(t, userID, projectID)
	claimAs(t, "w1")

	backdateHeartbeat(t, "w1", time.Hour)
	testMonitor().Sweep()

	stored := mustGetTask(t, task.ID)
	if stored.Status != model.TaskStatusQueued {
		t.Fatalf("status = %q, want %q after sweep", stored.Status, model.TaskStatusQueued)
	}
	if stored.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", stored.Attempts)
	}
	if stored.WorkerID != "" {
		t.Fatalf("worker_id = %q, want cleared", stored.WorkerID)
	}
	if stored.GenerationStartedAt != "" {
		t.Fatalf("generation_started_at = %q, want cleared", stored.GenerationStartedAt)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	task := enqueue(t, userID, projectID)
	claimAs(t, "w1")
	backdateHeartbeat(t, "w1", time.Hour)

	m := testMonitor()
	m.Sweep()
	m.Sweep()

	stored := mustGetTask(t, task.ID)
	if stored.Attempts != 1 {
		t.Fatalf("attempts = %d after double sweep, want 1", stored.Attempts)
	}
	if stored.Status != model.TaskStatusQueued {
		t.Fatalf("status = %q, want %q", stored.Status, model.TaskStatusQueued)
	}
}

func TestSweepLeavesLiveWorkersAlone(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	task := enqueue(t, userID, projectID)
	claimAs(t, "w1")

	testMonitor().Sweep()

	stored := mustGetTask(t, task.ID)
	if stored.Status != model.TaskStatusInProgress {
		t.Fatalf("status = %q, a live worker's task must not be swept", stored.Status)
	}
	if stored.Attempts != 0 {
		t.Fatalf("attempts = %d, want 0", stored.Attempts)
	}
}

func TestSweepFailsExhaustedOrphan(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	task := enqueue(t, userID, projectID)
	claimAs(t, "w1")
	setAttempts(t, task.ID, 2)
	backdateHeartbeat(t, "w1", time.Hour)

	testMonitor().Sweep()

	stored := mustGetTask(t, task.ID)
	if stored.Status != model.TaskStatusFailed {
		t.Fatalf("status = %q, want %q", stored.Status, model.TaskStatusFailed)
	}
	if !strings.Contains(stored.ErrorMessage, "w1") {
		t.Fatalf("error_message = %q, want the dead worker named", stored.ErrorMessage)
	}

	// No charge for work that never finished.
	entries, err := repository.LedgerEntriesForTask(task.ID)
	if err != nil {
		t.Fatalf("LedgerEntriesForTask: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("ledger entries = %d, want 0", len(entries))
	}
}

func TestSweepHandlesDeregisteredWorker(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	task := enqueue(t, userID, projectID)
	claimAs(t, "w1")

	if _, err := repository.DeregisterWorker("w1"); err != nil {
		t.Fatalf("DeregisterWorker: %v", err)
	}
	testMonitor().Sweep()

	stored := mustGetTask(t, task.ID)
	if stored.Status != model.TaskStatusQueued {
		t.Fatalf("status = %q, want %q after owner deregistered", stored.Status, model.TaskStatusQueued)
	}
}

func TestRequeuedOrphanIsReclaimable(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	task := enqueue(t, userID, projectID)
	claimAs(t, "w1")
	backdateHeartbeat(t, "w1", time.Hour)
	testMonitor().Sweep()

	claimed, err := ClaimNext(serviceScope(), &model.ClaimRequest{WorkerID: "w2"})
	if err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}
	if claimed == nil || claimed.TaskID != task.ID {
		t.Fatalf("claimed %+v, want requeued task %s", claimed, task.ID)
	}

	stored := mustGetTask(t, task.ID)
	if stored.WorkerID != "w2" {
		t.Fatalf("worker_id = %q, want w2", stored.WorkerID)
	}
	if stored.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", stored.Attempts)
	}

	// The dead worker's late report must bounce.
	if err := CompleteTask(task.ID, &model.CompleteRequest{
		WorkerID:       "w1",
		OutputLocation: "s3://bucket/out",
		UnitCount:      1,
	}); err != ErrStaleOwnership {
		t.Fatalf("late report err = %v, want ErrStaleOwnership", err)
	}
}
