package repository

import (
	"path/filepath"
	"testing"
	"time"
)

func setupRepoTest(t *testing.T) {
	t.Helper()
	if err := InitDB(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
}

func TestHeartbeatUpsert(t *testing.T) {
	setupRepoTest(t)

	if err := UpsertHeartbeat("gpu-1", "a100", map[string]interface{}{"vram_total_mb": 40960}); err != nil {
		t.Fatalf("UpsertHeartbeat: %v", err)
	}

	w, err := GetWorker("gpu-1")
	if err != nil {
		t.Fatalf("GetWorker: %v", err)
	}
	if w == nil || w.InstanceType != "a100" {
		t.Fatalf("worker = %+v", w)
	}
	firstBeat := w.LastHeartbeat

	// A touch without instance type keeps the registered one.
	if err := TouchHeartbeat("gpu-1"); err != nil {
		t.Fatalf("TouchHeartbeat: %v", err)
	}
	w, err = GetWorker("gpu-1")
	if err != nil {
		t.Fatalf("GetWorker: %v", err)
	}
	if w.InstanceType != "a100" {
		t.Fatalf("instance_type = %q, touch must not erase it", w.InstanceType)
	}
	if w.LastHeartbeat < firstBeat {
		t.Fatalf("heartbeat went backwards: %s -> %s", firstBeat, w.LastHeartbeat)
	}
}

func TestHeartbeatRevivesDeregisteredWorker(t *testing.T) {
	setupRepoTest(t)

	if err := TouchHeartbeat("gpu-1"); err != nil {
		t.Fatalf("TouchHeartbeat: %v", err)
	}
	ok, err := DeregisterWorker("gpu-1")
	if err != nil || !ok {
		t.Fatalf("DeregisterWorker: %v ok=%v", err, ok)
	}

	// Deregistering twice changes nothing.
	ok, err = DeregisterWorker("gpu-1")
	if err != nil {
		t.Fatalf("DeregisterWorker: %v", err)
	}
	if ok {
		t.Fatal("second deregister reported a change")
	}

	if err := TouchHeartbeat("gpu-1"); err != nil {
		t.Fatalf("TouchHeartbeat: %v", err)
	}
	w, err := GetWorker("gpu-1")
	if err != nil {
		t.Fatalf("GetWorker: %v", err)
	}
	if w.DeregisteredAt != "" {
		t.Fatalf("deregistered_at = %q, heartbeat must clear it", w.DeregisteredAt)
	}
}

func TestCountLive(t *testing.T) {
	setupRepoTest(t)

	if err := TouchHeartbeat("fresh"); err != nil {
		t.Fatalf("TouchHeartbeat: %v", err)
	}
	if err := TouchHeartbeat("old"); err != nil {
		t.Fatalf("TouchHeartbeat: %v", err)
	}
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	if _, err := GetDB().Exec(`UPDATE workers SET last_heartbeat = ? WHERE id = 'old'`, past); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	n, err := CountLive(time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("CountLive: %v", err)
	}
	if n != 1 {
		t.Fatalf("live = %d, want 1", n)
	}
}
