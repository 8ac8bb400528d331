package service

import (
	"testing"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

func TestAppendLedgerEntry(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)

	entry, err := AppendLedgerEntry(&model.LedgerAppend{
		UserID: userID,
		Amount: 500,
		Type:   model.EntryTypeManualGrant,
		Metadata: map[string]interface{}{
			"reason": "beta credit",
		},
	})
	if err != nil {
		t.Fatalf("AppendLedgerEntry: %v", err)
	}
	if entry.ID == "" || entry.CreatedAt == "" {
		t.Fatalf("entry not populated: %+v", entry)
	}

	balance, err := GetBalance(userID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Credits != 500 {
		t.Fatalf("balance = %d, want 500", balance.Credits)
	}
}

func TestBalanceSumsAllEntries(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)

	for _, e := range []struct {
		amount int64
		typ    string
	}{
		{1000, model.EntryTypePurchase},
		{250, model.EntryTypeAutoTopup},
		{-300, model.EntryTypeRefund},
	} {
		if _, err := AppendLedgerEntry(&model.LedgerAppend{UserID: userID, Amount: e.amount, Type: e.typ}); err != nil {
			t.Fatalf("AppendLedgerEntry(%s): %v", e.typ, err)
		}
	}

	balance, err := GetBalance(userID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Credits != 950 {
		t.Fatalf("balance = %d, want 950", balance.Credits)
	}

	entries, err := repository.LedgerEntriesForUser(userID)
	if err != nil {
		t.Fatalf("LedgerEntriesForUser: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
}

func TestAppendRejectsSpendType(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)

	// Spend entries are reserved for the completion transaction.
	_, err := AppendLedgerEntry(&model.LedgerAppend{
		UserID: userID,
		Amount: -100,
		Type:   model.EntryTypeSpend,
	})
	if err != ErrInvalidEntry {
		t.Fatalf("err = %v, want ErrInvalidEntry", err)
	}
}

func TestAppendRejectsBadInput(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)

	if _, err := AppendLedgerEntry(&model.LedgerAppend{UserID: userID, Amount: 10, Type: "gift"}); err != ErrInvalidEntry {
		t.Fatalf("unknown type err = %v, want ErrInvalidEntry", err)
	}
	if _, err := AppendLedgerEntry(&model.LedgerAppend{UserID: userID, Amount: 0, Type: model.EntryTypePurchase}); err != ErrInvalidEntry {
		t.Fatalf("zero amount err = %v, want ErrInvalidEntry", err)
	}
	if _, err := AppendLedgerEntry(&model.LedgerAppend{UserID: 9999, Amount: 10, Type: model.EntryTypePurchase}); err != ErrUserNotFound {
		t.Fatalf("unknown user err = %v, want ErrUserNotFound", err)
	}
	if _, err := AppendLedgerEntry(&model.LedgerAppend{
		UserID: userID, Amount: 10, Type: model.EntryTypeRefund, TaskID: "missing",
	}); err != ErrTaskNotFound {
		t.Fatalf("unknown task err = %v, want ErrTaskNotFound", err)
	}
}

func TestNegativeBalanceAllowed(t *testing.T) {
	setupTest(t)
	userID := seedUser(t)
	projectID := seedQueue(t, userID)
	task := enqueue(t, userID, projectID)
	claimAs(t, "w1")

	// No credits were ever granted; completion still charges.
	if err := CompleteTask(task.ID, &model.CompleteRequest{
		WorkerID:       "w1",
		OutputLocation: "s3://bucket/out",
		UnitCount:      2,
	}); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	balance, err := GetBalance(userID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Credits != -10 {
		t.Fatalf("balance = %d, want -10", balance.Credits)
	}
}
