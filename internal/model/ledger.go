package model

// Ledger entry types. Entries are immutable once written; corrections are new
// entries (a refund never edits the spend it compensates).
const (
	EntryTypePurchase    = "purchase"
	EntryTypeManualGrant = "manual-grant"
	EntryTypeSpend       = "spend"
	EntryTypeRefund      = "refund"
	EntryTypeAutoTopup   = "auto-topup"
)

// ValidEntryType reports whether t is a known ledger entry type.
func ValidEntryType(t string) bool {
	switch t {
	case EntryTypePurchase, EntryTypeManualGrant, EntryTypeSpend, EntryTypeRefund, EntryTypeAutoTopup:
		return true
	}
	return false
}

// LedgerEntry represents a signed credit movement
type LedgerEntry struct {
	ID        string                 `json:"id" db:"id"`
	UserID    int                    `json:"user_id" db:"user_id"`
	TaskID    string                 `json:"task_id,omitempty" db:"task_id"`
	Amount    int64                  `json:"amount" db:"amount"`
	Type      string                 `json:"type" db:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt string                 `json:"created_at" db:"created_at"`
}

// LedgerAppend represents an operator ledger append request
type LedgerAppend struct {
	UserID   int                    `json:"user_id" binding:"required"`
	Amount   int64                  `json:"amount" binding:"required"`
	Type     string                 `json:"type" binding:"required"`
	TaskID   string                 `json:"task_id"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Balance is a derived aggregate over a user's ledger entries
type Balance struct {
	UserID  int   `json:"user_id"`
	Credits int64 `json:"credits"`
}
