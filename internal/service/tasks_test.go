package service

import (
	"testing"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

func TestSubmitValidation(t *testing.T) {
	setupTest(t)
	alice := seedUser(t)
	bob := seedUser(t)
	aliceProject := seedQueue(t, alice)

	if _, err := SubmitTask(alice, &model.TaskCreate{TaskType: "nope", ProjectID: aliceProject}); err != ErrUnknownTaskType {
		t.Fatalf("unknown type err = %v, want ErrUnknownTaskType", err)
	}

	if _, err := SubmitTask(bob, &model.TaskCreate{TaskType: "style-transfer", ProjectID: aliceProject}); err != ErrUnauthorized {
		t.Fatalf("foreign project err = %v, want ErrUnauthorized", err)
	}

	if _, err := SubmitTask(alice, &model.TaskCreate{
		TaskType:    "style-transfer",
		ProjectID:   aliceProject,
		DependantOn: "missing-task",
	}); err != ErrTaskNotFound {
		t.Fatalf("missing dependency err = %v, want ErrTaskNotFound", err)
	}
}

func TestSubmitRejectsInactiveTaskType(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)

	off := false
	updated, err := repository.UpdateTaskType("style-transfer", &model.TaskTypeUpdate{IsActive: &off})
	if err != nil || !updated {
		t.Fatalf("UpdateTaskType: %v updated=%v", err, updated)
	}

	if _, err := SubmitTask(userID, &model.TaskCreate{TaskType: "style-transfer", ProjectID: projectID}); err != ErrUnknownTaskType {
		t.Fatalf("inactive type err = %v, want ErrUnknownTaskType", err)
	}
}

func TestDeactivatedTaskTypeNotClaimable(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	enqueue(t, userID, projectID)

	off := false
	if _, err := repository.UpdateTaskType("style-transfer", &model.TaskTypeUpdate{IsActive: &off}); err != nil {
		t.Fatalf("UpdateTaskType: %v", err)
	}

	claimed, err := ClaimNext(serviceScope(), &model.ClaimRequest{WorkerID: "w1"})
	if err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}
	if claimed != nil {
		t.Fatalf("claimed %+v, deactivated type must not be handed out", claimed)
	}
}

func TestGetTaskForUser(t *testing.T) {
	setupTest(t)
	alice := seedUser(t)
	bob := seedUser(t)
	projectID := seedQueue(t, alice)
	task := enqueue(t, alice, projectID)

	got, err := GetTaskForUser(task.ID, alice)
	if err != nil {
		t.Fatalf("GetTaskForUser: %v", err)
	}
	if got.ID != task.ID {
		t.Fatalf("got task %s, want %s", got.ID, task.ID)
	}

	if _, err := GetTaskForUser(task.ID, bob); err != ErrUnauthorized {
		t.Fatalf("foreign read err = %v, want ErrUnauthorized", err)
	}
	if _, err := GetTaskForUser("missing", alice); err != ErrTaskNotFound {
		t.Fatalf("missing read err = %v, want ErrTaskNotFound", err)
	}
}

func TestAvailability(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	enqueue(t, userID, projectID)
	enqueue(t, userID, projectID)
	claimAs(t, "w1")

	avail, err := repository.Availability()
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if avail.Queued != 1 || avail.InProgress != 1 {
		t.Fatalf("availability = %+v, want 1 queued 1 in progress", avail)
	}
	if avail.ByRunType["gpu"] != 1 {
		t.Fatalf("by_run_type = %v, want gpu:1", avail.ByRunType)
	}
	if avail.ByTaskType["style-transfer"] != 1 {
		t.Fatalf("by_task_type = %v", avail.ByTaskType)
	}
}

func TestEstimateCost(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	seedQueue(t, userID)

	est, err := EstimateCost("style-transfer", 0, 6)
	if err != nil {
		t.Fatalf("EstimateCost: %v", err)
	}
	if est != 30 {
		t.Fatalf("estimate = %d, want 30", est)
	}

	if _, err := EstimateCost("nope", 10, 0); err != ErrUnknownTaskType {
		t.Fatalf("err = %v, want ErrUnknownTaskType", err)
	}
}
