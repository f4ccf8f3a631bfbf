package token

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

// compile-time interface check
var _ Token = (*Memory)(nil)

// Memory is an in-process Token backed by a balance map. It is intended
// for tests and demos; production deployments wrap their real asset
// ledger instead.
type Memory struct {
	mu       sync.RWMutex
	denom    string
	source   id.AccountID
	balances map[string]types.Amount
}

// NewMemory creates an in-memory token. All transfers draw from the
// source account, which plays the role of the ledger's custody.
func NewMemory(denom string, source id.AccountID, funding types.Amount) *Memory {
	return &Memory{
		denom:    denom,
		source:   source,
		balances: map[string]types.Amount{source.String(): funding},
	}
}

// Denom implements Token.
func (m *Memory) Denom() string { return m.denom }

// Transfer implements Token. It fails when the source account holds less
// than amount; no balance moves on failure.
func (m *Memory) Transfer(_ context.Context, to id.AccountID, amount types.Amount) error {
	if amount.IsNegative() {
		return fmt.Errorf("token: negative transfer amount %s", amount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.balances[m.source.String()]
	if from < amount {
		return fmt.Errorf("token: insufficient balance: have %s, need %s", from, amount)
	}
	m.balances[m.source.String()] = from.Sub(amount)
	m.balances[to.String()] = m.balances[to.String()].Add(amount)
	return nil
}

// BalanceOf implements Token.
func (m *Memory) BalanceOf(_ context.Context, holder id.AccountID) (types.Amount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[holder.String()], nil
}

// Credit adds funds to an account directly, bypassing the source. Test
// helper only.
func (m *Memory) Credit(holder id.AccountID, amount types.Amount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[holder.String()] = m.balances[holder.String()].Add(amount)
}
