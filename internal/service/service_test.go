package service

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

func setupTest(t *testing.T) {
	t.Helper()

	config.Set(&config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Queue: config.QueueConfig{
			ClaimRetries:      3,
			MaxAttempts:       3,
			PollWindowSeconds: 10,
			PollMaxRequests:   30,
		},
		Worker: config.WorkerConfig{
			StaleAfterSeconds:    60,
			DeadAfterSeconds:     300,
			SweepIntervalSeconds: 60,
		},
	})

	if err := repository.InitDB(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
}

var seedSeq int

func seedUser(t *testing.T) int {
	t.Helper()
	seedSeq++
	id, err := repository.CreateUser(fmt.Sprintf("user-%d-%d", time.Now().UnixNano(), seedSeq), "hash", "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return id
}

func seedProject(t *testing.T, userID int) string {
	t.Helper()
	p := &model.Project{UserID: userID, Name: "test project"}
	if err := repository.CreateProject(p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p.ID
}

func seedTaskType(t *testing.T, tt *model.TaskType) {
	t.Helper()
	if err := repository.CreateTaskType(tt); err != nil {
		t.Fatalf("CreateTaskType: %v", err)
	}
}

func seedQueue(t *testing.T, userID int) (projectID string) {
	t.Helper()
	seedTaskType(t, &model.TaskType{
		ID:          "style-transfer",
		BillingType: model.BillingPerUnit,
		UnitCost:    5,
		RunType:     "gpu",
	})
	return seedProject(t, userID)
}

func enqueue(t *testing.T, userID int, projectID string) *model.Task {
	t.Helper()
	task, err := SubmitTask(userID, &model.TaskCreate{
		TaskType:  "style-transfer",
		ProjectID: projectID,
		Params:    map[string]interface{}{"prompt": "a lighthouse"},
	})
	if err != nil {
		t.Fatalf("SubmitTask: %v", err)
	}
	return task
}

// backdate rewrites a task's created_at so queue ordering is deterministic
// despite second-resolution timestamps.
func backdate(t *testing.T, taskID string, d time.Duration) {
	t.Helper()
	past := time.Now().Add(-d).UTC().Format(time.RFC3339)
	if _, err := repository.GetDB().Exec(`UPDATE tasks SET created_at = ? WHERE id = ?`, past, taskID); err != nil {
		t.Fatalf("backdate task: %v", err)
	}
}

func backdateHeartbeat(t *testing.T, workerID string, d time.Duration) {
	t.Helper()
	past := time.Now().Add(-d).UTC().Format(time.RFC3339)
	if _, err := repository.GetDB().Exec(`UPDATE workers SET last_heartbeat = ? WHERE id = ?`, past, workerID); err != nil {
		t.Fatalf("backdate heartbeat: %v", err)
	}
}

func setAttempts(t *testing.T, taskID string, attempts int) {
	t.Helper()
	if _, err := repository.GetDB().Exec(`UPDATE tasks SET attempts = ? WHERE id = ?`, attempts, taskID); err != nil {
		t.Fatalf("set attempts: %v", err)
	}
}

func mustGetTask(t *testing.T, taskID string) *model.Task {
	t.Helper()
	task, err := repository.GetTask(taskID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task == nil {
		t.Fatalf("task %s not found", taskID)
	}
	return task
}

func serviceScope() EligibilityFilter {
	return EligibilityFilter{Class: ServiceRole}
}

func userScope(userID int) EligibilityFilter {
	return EligibilityFilter{Class: UserSession, UserID: userID}
}
