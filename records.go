package vesting

import (
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

// Lifecycle records are emitted to plugins on every state transition so
// external observers can audit the ledger without reading its store.

// CreationRecord is emitted when a schedule is created.
type CreationRecord struct {
	ID          id.RecordID   `json:"id"`
	Schedule    id.ScheduleID `json:"schedule"`
	Beneficiary id.AccountID  `json:"beneficiary"`
	Index       int           `json:"index"`
	Total       types.Amount  `json:"total"`
	Start       time.Time     `json:"start"`
	Cliff       time.Time     `json:"cliff"`
	Duration    time.Duration `json:"duration"`
	Revocable   bool          `json:"revocable"`
}

// ReleaseRecord is emitted when vested funds are paid out.
type ReleaseRecord struct {
	ID          id.RecordID  `json:"id"`
	Beneficiary id.AccountID `json:"beneficiary"`
	Index       int          `json:"index"`
	Amount      types.Amount `json:"amount"`
	At          time.Time    `json:"at"`
}

// RevocationRecord is emitted when a schedule is revoked. ReleasedNow is
// the final accrued-but-unpaid slice settled to the beneficiary;
// Refunded is what went back to the treasury.
type RevocationRecord struct {
	ID          id.RecordID  `json:"id"`
	Beneficiary id.AccountID `json:"beneficiary"`
	Index       int          `json:"index"`
	ReleasedNow types.Amount `json:"released_now"`
	Refunded    types.Amount `json:"refunded"`
	At          time.Time    `json:"at"`
}

// RecoveryRecord is emitted when a foreign asset is reclaimed from the
// ledger's custody.
type RecoveryRecord struct {
	ID     id.RecordID  `json:"id"`
	Denom  string       `json:"denom"`
	To     id.AccountID `json:"to"`
	Amount types.Amount `json:"amount"`
	At     time.Time    `json:"at"`
}
