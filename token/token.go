// Package token defines the external asset-transfer collaborator the
// ledger delegates custody movement to. The ledger never mints or burns;
// it only moves balances it already holds.
//
// A Token implementation may invoke back into the ledger as a side
// effect of Transfer. The ledger's commit-before-transfer discipline is
// what makes that safe; implementations are not required to avoid it.
package token

import (
	"context"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

// Token is the fungible-asset interface the ledger moves custody through.
type Token interface {
	// Denom identifies the asset (e.g. "xrp", "credits"). The ledger
	// uses it to refuse emergency recovery of its own managed asset.
	Denom() string

	// Transfer moves amount from the ledger's custody to the given
	// account. A non-nil error means no balance moved.
	Transfer(ctx context.Context, to id.AccountID, amount types.Amount) error

	// BalanceOf reports the balance held by an account.
	BalanceOf(ctx context.Context, holder id.AccountID) (types.Amount, error)
}
