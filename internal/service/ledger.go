package service

import (
	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

// AppendLedgerEntry validates and appends an operator-initiated credit
// movement (grants, recorded purchases, refunds, auto-topups). Spend entries
// are only ever written by the reconciler alongside a task completion, never
// through this path.
func AppendLedgerEntry(req *model.LedgerAppend) (*model.LedgerEntry, error) {
	if !model.ValidEntryType(req.Type) || req.Type == model.EntryTypeSpend {
		return nil, ErrInvalidEntry
	}
	if req.Amount == 0 {
		return nil, ErrInvalidEntry
	}

	user, err := repository.GetUserByID(req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.TaskID != "" {
		task, err := repository.GetTask(req.TaskID)
		if err != nil {
			return nil, err
		}
		if task == nil {
			return nil, ErrTaskNotFound
		}
	}

	entry := &model.LedgerEntry{
		UserID:   req.UserID,
		TaskID:   req.TaskID,
		Amount:   req.Amount,
		Type:     req.Type,
		Metadata: req.Metadata,
	}
	if err := repository.AppendLedgerEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetBalance derives a user's balance from the ledger
func GetBalance(userID int) (*model.Balance, error) {
	credits, err := repository.Balance(userID)
	if err != nil {
		return nil, err
	}
	return &model.Balance{UserID: userID, Credits: credits}, nil
}
