package vesting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/store/memory"
	"github.com/xraph/vesting/token"
	"github.com/xraph/vesting/types"
)

// fakeClock is a manually advanced ledger clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fixture wires a ledger against the in-memory store and token.
type fixture struct {
	ledger  *vesting.Ledger
	tok     *token.Memory
	clock   *fakeClock
	owner   id.AccountID
	alice   id.AccountID
	custody id.AccountID
}

func newFixture(t *testing.T, opts ...vesting.Option) *fixture {
	t.Helper()

	f := &fixture{
		clock:   &fakeClock{now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		owner:   id.NewAccountID(),
		alice:   id.NewAccountID(),
		custody: id.NewAccountID(),
	}
	f.tok = token.NewMemory("credits", f.custody, 10_000_000)

	opts = append([]vesting.Option{vesting.WithClock(f.clock.Now)}, opts...)
	f.ledger = vesting.New(memory.New(), f.tok, f.owner, opts...)

	if err := f.ledger.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = f.ledger.Stop()
	})

	return f
}

// standardGrant is the long grant used throughout: 1,000,000 units over
// two years with a 180 day cliff.
func standardGrant(f *fixture) vesting.Grant {
	return vesting.Grant{
		Beneficiary: f.alice,
		Start:       f.clock.Now(),
		CliffPeriod: 15_552_000 * time.Second,
		Duration:    63_072_000 * time.Second,
		Slice:       time.Second,
		Revocable:   true,
		Total:       1_000_000,
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("OwnerOnly", func(t *testing.T) {
		_, err := f.ledger.CreateSchedule(ctx, f.alice, standardGrant(f))
		if !errors.Is(err, vesting.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	cases := []struct {
		name   string
		mutate func(*vesting.Grant)
		want   error
		field  string
	}{
		{"NilBeneficiary", func(g *vesting.Grant) { g.Beneficiary = id.Nil }, vesting.ErrInvalidBeneficiary, "beneficiary"},
		{"ZeroDuration", func(g *vesting.Grant) { g.Duration = 0 }, vesting.ErrInvalidDuration, "duration"},
		{"NegativeDuration", func(g *vesting.Grant) { g.Duration = -time.Hour }, vesting.ErrInvalidDuration, "duration"},
		{"SubSecondDuration", func(g *vesting.Grant) { g.Duration = 500 * time.Millisecond }, vesting.ErrInvalidDuration, "duration"},
		{"ZeroTotal", func(g *vesting.Grant) { g.Total = 0 }, vesting.ErrInvalidAmount, "total"},
		{"NegativeTotal", func(g *vesting.Grant) { g.Total = -5 }, vesting.ErrInvalidAmount, "total"},
		{"NegativeCliff", func(g *vesting.Grant) { g.CliffPeriod = -time.Second }, vesting.ErrInvalidSchedule, "cliff"},
		{"ZeroStart", func(g *vesting.Grant) { g.Start = time.Time{} }, vesting.ErrInvalidStart, "start"},
		{"SubSecondSlice", func(g *vesting.Grant) { g.Slice = 500 * time.Millisecond }, vesting.ErrInvalidSlice, "slice"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := standardGrant(f)
			tc.mutate(&g)
			_, err := f.ledger.CreateSchedule(ctx, f.owner, g)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var verr vesting.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a ValidationError, got %T", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("validation field = %q, want %q", verr.Field, tc.field)
			}
		})
	}

	t.Run("OneSecondDurationAllowed", func(t *testing.T) {
		g := standardGrant(f)
		g.CliffPeriod = 0
		g.Duration = time.Second
		sched, err := f.ledger.CreateSchedule(ctx, f.owner, g)
		if err != nil {
			t.Fatal(err)
		}
		f.clock.Advance(time.Second)
		got, err := f.ledger.Releasable(ctx, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if got != g.Total {
			t.Fatalf("shortest grant after its window: releasable = %s, want %s", got, g.Total)
		}
	})

	t.Run("RetroactiveStartAllowed", func(t *testing.T) {
		g := standardGrant(f)
		g.Start = f.clock.Now().Add(-70_000_000 * time.Second) // past the full duration
		sched, err := f.ledger.CreateSchedule(ctx, f.owner, g)
		if err != nil {
			t.Fatal(err)
		}
		releasable, err := f.ledger.Releasable(ctx, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if releasable != g.Total {
			t.Fatalf("fully elapsed retroactive grant should be fully releasable, got %s", releasable)
		}
	})
}

func TestVestingTimeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("ZeroAtStart", func(t *testing.T) {
		got, err := f.ledger.Releasable(ctx, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if got != 0 {
			t.Fatalf("releasable at start = %s, want 0", got)
		}
	})

	t.Run("ZeroJustBeforeCliff", func(t *testing.T) {
		f.clock.Advance(15_552_000*time.Second - time.Second)
		got, err := f.ledger.Releasable(ctx, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if got != 0 {
			t.Fatalf("releasable before cliff = %s, want 0", got)
		}
	})

	t.Run("LinearAtCliff", func(t *testing.T) {
		f.clock.Advance(time.Second) // exactly the cliff instant
		got, err := f.ledger.Releasable(ctx, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		// floor(1_000_000 * 15_552_000 / 63_072_000)
		if got != 246_575 {
			t.Fatalf("releasable at cliff = %s, want 246575", got)
		}
	})

	t.Run("FullAtEnd", func(t *testing.T) {
		f.clock.Advance(47_520_000 * time.Second) // to start+duration
		got, err := f.ledger.Releasable(ctx, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if got != 1_000_000 {
			t.Fatalf("releasable at end = %s, want 1000000", got)
		}
	})
}

func TestRelease(t *testing.T) {
	t.Run("PartialThenRemainder", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}

		f.clock.Advance(31_536_000 * time.Second) // halfway
		first, err := f.ledger.Release(ctx, f.alice, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if first != 500_000 {
			t.Fatalf("halfway release = %s, want 500000", first)
		}

		f.clock.Advance(31_536_000 * time.Second) // end
		second, err := f.ledger.Release(ctx, f.alice, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if first.Add(second) != 1_000_000 {
			t.Fatalf("split releases sum to %s, want 1000000", first.Add(second))
		}

		balance, err := f.tok.BalanceOf(ctx, f.alice)
		if err != nil {
			t.Fatal(err)
		}
		if balance != 1_000_000 {
			t.Fatalf("beneficiary balance = %s, want 1000000", balance)
		}
	})

	t.Run("NothingToRelease", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}

		// Still before the cliff.
		_, err = f.ledger.Release(ctx, f.alice, f.alice, sched.Index)
		if !errors.Is(err, vesting.ErrNothingToRelease) {
			t.Fatalf("expected ErrNothingToRelease, got %v", err)
		}

		got, err := f.ledger.GetSchedule(ctx, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if got.Released != 0 {
			t.Fatalf("failed release mutated state: released = %s", got.Released)
		}
	})

	t.Run("StrangerDenied", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}
		f.clock.Advance(63_072_000 * time.Second)

		stranger := id.NewAccountID()
		if _, err := f.ledger.Release(ctx, stranger, f.alice, sched.Index); !errors.Is(err, vesting.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("StrangerDeniedBeforeRevocationCheck", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := f.ledger.Revoke(ctx, f.owner, f.alice, sched.Index); err != nil {
			t.Fatal(err)
		}

		// Unauthorized callers must not learn the schedule's state.
		stranger := id.NewAccountID()
		if _, err := f.ledger.Release(ctx, stranger, f.alice, sched.Index); !errors.Is(err, vesting.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("OwnerDeniedByDefault", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}
		f.clock.Advance(63_072_000 * time.Second)

		if _, err := f.ledger.Release(ctx, f.owner, f.alice, sched.Index); !errors.Is(err, vesting.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("OwnerAllowedWhenEnabled", func(t *testing.T) {
		f := newFixture(t, vesting.WithOwnerRelease(true))
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}
		f.clock.Advance(63_072_000 * time.Second)

		amount, err := f.ledger.Release(ctx, f.owner, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if amount != 1_000_000 {
			t.Fatalf("owner-triggered release = %s, want 1000000", amount)
		}

		// Funds still land with the beneficiary, not the owner.
		balance, err := f.tok.BalanceOf(ctx, f.alice)
		if err != nil {
			t.Fatal(err)
		}
		if balance != 1_000_000 {
			t.Fatalf("beneficiary balance = %s, want 1000000", balance)
		}
	})

	t.Run("UnknownIndex", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		if _, err := f.ledger.Release(ctx, f.alice, f.alice, 0); !errors.Is(err, vesting.ErrInvalidIndex) {
			t.Fatalf("expected ErrInvalidIndex, got %v", err)
		}
		if _, err := f.ledger.Releasable(ctx, f.alice, -1); !errors.Is(err, vesting.ErrInvalidIndex) {
			t.Fatalf("expected ErrInvalidIndex, got %v", err)
		}
	})
}

func TestRevoke(t *testing.T) {
	t.Run("SettlementAndRefund", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}

		// Release a quarter, then revoke at the halfway point.
		f.clock.Advance(15_768_000 * time.Second)
		releasedBefore, err := f.ledger.Release(ctx, f.alice, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}

		f.clock.Advance(15_768_000 * time.Second)
		releasedNow, refunded, err := f.ledger.Revoke(ctx, f.owner, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}

		if releasedBefore.Add(releasedNow).Add(refunded) != 1_000_000 {
			t.Fatalf("settlement does not cover the grant: %s + %s + %s != 1000000",
				releasedBefore, releasedNow, refunded)
		}
		if releasedNow != 250_000 {
			t.Fatalf("releasedNow = %s, want 250000", releasedNow)
		}
		if refunded != 500_000 {
			t.Fatalf("refunded = %s, want 500000", refunded)
		}

		aliceBalance, err := f.tok.BalanceOf(ctx, f.alice)
		if err != nil {
			t.Fatal(err)
		}
		if aliceBalance != releasedBefore.Add(releasedNow) {
			t.Fatalf("beneficiary balance = %s, want %s", aliceBalance, releasedBefore.Add(releasedNow))
		}

		// Treasury defaults to the owner.
		ownerBalance, err := f.tok.BalanceOf(ctx, f.owner)
		if err != nil {
			t.Fatal(err)
		}
		if ownerBalance != refunded {
			t.Fatalf("treasury balance = %s, want %s", ownerBalance, refunded)
		}

		allocated, err := f.ledger.Allocated(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if allocated != 0 {
			t.Fatalf("allocated after revoke = %s, want 0", allocated)
		}
	})

	t.Run("SeparateTreasury", func(t *testing.T) {
		treasury := id.NewAccountID()
		f := newFixture(t, vesting.WithTreasury(treasury))
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}

		_, refunded, err := f.ledger.Revoke(ctx, f.owner, f.alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if refunded != 1_000_000 {
			t.Fatalf("pre-cliff revoke refund = %s, want full total", refunded)
		}

		balance, err := f.tok.BalanceOf(ctx, treasury)
		if err != nil {
			t.Fatal(err)
		}
		if balance != refunded {
			t.Fatalf("treasury balance = %s, want %s", balance, refunded)
		}
	})

	t.Run("OwnerOnly", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := f.ledger.Revoke(ctx, f.alice, f.alice, sched.Index); !errors.Is(err, vesting.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("NotRevocable", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		g := standardGrant(f)
		g.Revocable = false
		sched, err := f.ledger.CreateSchedule(ctx, f.owner, g)
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := f.ledger.Revoke(ctx, f.owner, f.alice, sched.Index); !errors.Is(err, vesting.ErrNotRevocable) {
			t.Fatalf("expected ErrNotRevocable, got %v", err)
		}
	})

	t.Run("DoubleRevoke", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := f.ledger.Revoke(ctx, f.owner, f.alice, sched.Index); err != nil {
			t.Fatal(err)
		}
		if _, _, err := f.ledger.Revoke(ctx, f.owner, f.alice, sched.Index); !errors.Is(err, vesting.ErrScheduleRevoked) {
			t.Fatalf("expected ErrScheduleRevoked, got %v", err)
		}
	})

	t.Run("ReleaseOnRevoked", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		sched, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := f.ledger.Revoke(ctx, f.owner, f.alice, sched.Index); err != nil {
			t.Fatal(err)
		}

		f.clock.Advance(63_072_000 * time.Second)
		if _, err := f.ledger.Release(ctx, f.alice, f.alice, sched.Index); !errors.Is(err, vesting.ErrScheduleRevoked) {
			t.Fatalf("expected ErrScheduleRevoked, got %v", err)
		}
		if _, err := f.ledger.Releasable(ctx, f.alice, sched.Index); !errors.Is(err, vesting.ErrScheduleRevoked) {
			t.Fatalf("expected ErrScheduleRevoked, got %v", err)
		}
	})
}

// failingToken refuses every transfer.
type failingToken struct {
	denom string
}

func (ft *failingToken) Denom() string { return ft.denom }

func (ft *failingToken) Transfer(_ context.Context, _ id.AccountID, _ types.Amount) error {
	return errors.New("transport down")
}

func (ft *failingToken) BalanceOf(_ context.Context, _ id.AccountID) (types.Amount, error) {
	return 0, nil
}

func TestTransferFailureRollsBack(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	owner := id.NewAccountID()
	alice := id.NewAccountID()

	l := vesting.New(memory.New(), &failingToken{denom: "credits"}, owner,
		vesting.WithClock(clock.Now),
	)
	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	sched, err := l.CreateSchedule(ctx, owner, vesting.Grant{
		Beneficiary: alice,
		Start:       clock.Now(),
		Duration:    1000 * time.Second,
		Slice:       time.Second,
		Revocable:   true,
		Total:       1000,
	})
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(500 * time.Second)

	t.Run("Release", func(t *testing.T) {
		_, err := l.Release(ctx, alice, alice, sched.Index)
		if !errors.Is(err, vesting.ErrTransferFailed) {
			t.Fatalf("expected ErrTransferFailed, got %v", err)
		}

		got, err := l.GetSchedule(ctx, alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if got.Released != 0 {
			t.Fatalf("rollback left released = %s, want 0", got.Released)
		}

		allocated, err := l.Allocated(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if allocated != 1000 {
			t.Fatalf("rollback left allocated = %s, want 1000", allocated)
		}
	})

	t.Run("Revoke", func(t *testing.T) {
		_, _, err := l.Revoke(ctx, owner, alice, sched.Index)
		if !errors.Is(err, vesting.ErrTransferFailed) {
			t.Fatalf("expected ErrTransferFailed, got %v", err)
		}

		got, err := l.GetSchedule(ctx, alice, sched.Index)
		if err != nil {
			t.Fatal(err)
		}
		if got.Revoked {
			t.Fatal("rollback left schedule revoked")
		}
		if got.Released != 0 {
			t.Fatalf("rollback left released = %s, want 0", got.Released)
		}

		allocated, err := l.Allocated(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if allocated != 1000 {
			t.Fatalf("rollback left allocated = %s, want 1000", allocated)
		}
	})
}

// reentrantToken re-enters the ledger during Transfer, simulating an
// asset backend with callback hooks.
type reentrantToken struct {
	inner       *token.Memory
	ledger      *vesting.Ledger
	beneficiary id.AccountID
	index       int

	reentered   bool
	innerResult error
}

func (rt *reentrantToken) Denom() string { return rt.inner.Denom() }

func (rt *reentrantToken) Transfer(ctx context.Context, to id.AccountID, amount types.Amount) error {
	if !rt.reentered {
		rt.reentered = true
		_, rt.innerResult = rt.ledger.Release(ctx, rt.beneficiary, rt.beneficiary, rt.index)
	}
	return rt.inner.Transfer(ctx, to, amount)
}

func (rt *reentrantToken) BalanceOf(ctx context.Context, holder id.AccountID) (types.Amount, error) {
	return rt.inner.BalanceOf(ctx, holder)
}

func TestReentrantReleaseCannotDoublePay(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	owner := id.NewAccountID()
	alice := id.NewAccountID()
	custody := id.NewAccountID()

	rt := &reentrantToken{
		inner:       token.NewMemory("credits", custody, 1_000_000),
		beneficiary: alice,
	}
	l := vesting.New(memory.New(), rt, owner, vesting.WithClock(clock.Now))
	rt.ledger = l

	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	sched, err := l.CreateSchedule(ctx, owner, vesting.Grant{
		Beneficiary: alice,
		Start:       clock.Now(),
		Duration:    1000 * time.Second,
		Slice:       time.Second,
		Total:       1000,
	})
	if err != nil {
		t.Fatal(err)
	}
	rt.index = sched.Index

	clock.Advance(1000 * time.Second)

	amount, err := l.Release(ctx, alice, alice, sched.Index)
	if err != nil {
		t.Fatal(err)
	}
	if amount != 1000 {
		t.Fatalf("release = %s, want 1000", amount)
	}

	// The nested call saw the committed state and found nothing left.
	if !rt.reentered {
		t.Fatal("token never re-entered the ledger")
	}
	if !errors.Is(rt.innerResult, vesting.ErrNothingToRelease) {
		t.Fatalf("nested release: expected ErrNothingToRelease, got %v", rt.innerResult)
	}

	balance, err := rt.BalanceOf(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 1000 {
		t.Fatalf("beneficiary balance = %s, want 1000 (no double payment)", balance)
	}
}

func TestRecoverAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	strayCustody := id.NewAccountID()
	stray := token.NewMemory("stray", strayCustody, 5000)
	recipient := id.NewAccountID()

	t.Run("RefusesManagedDenom", func(t *testing.T) {
		managed := token.NewMemory("credits", strayCustody, 5000)
		err := f.ledger.RecoverAsset(ctx, f.owner, managed, recipient, 100)
		if !errors.Is(err, vesting.ErrProtectedAsset) {
			t.Fatalf("expected ErrProtectedAsset, got %v", err)
		}
	})

	t.Run("OwnerOnly", func(t *testing.T) {
		err := f.ledger.RecoverAsset(ctx, f.alice, stray, recipient, 100)
		if !errors.Is(err, vesting.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("RecoversForeignAsset", func(t *testing.T) {
		if err := f.ledger.RecoverAsset(ctx, f.owner, stray, recipient, 5000); err != nil {
			t.Fatal(err)
		}
		balance, err := stray.BalanceOf(ctx, recipient)
		if err != nil {
			t.Fatal(err)
		}
		if balance != 5000 {
			t.Fatalf("recovered balance = %s, want 5000", balance)
		}
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		err := f.ledger.RecoverAsset(ctx, f.owner, stray, recipient, 0)
		if !errors.Is(err, vesting.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestQueriesAndBookkeeping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.ledger.CreateSchedule(ctx, f.owner, standardGrant(f))
	if err != nil {
		t.Fatal(err)
	}

	g := standardGrant(f)
	g.Total = 250_000
	g.Revocable = false
	second, err := f.ledger.CreateSchedule(ctx, f.owner, g)
	if err != nil {
		t.Fatal(err)
	}

	if first.Index != 0 || second.Index != 1 {
		t.Fatalf("indices = %d, %d; want 0, 1", first.Index, second.Index)
	}

	count, err := f.ledger.ScheduleCount(ctx, f.alice)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("schedule count = %d, want 2", count)
	}

	list, err := f.ledger.ListSchedules(ctx, f.alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Index != 0 || list[1].Index != 1 {
		t.Fatalf("list misordered: %+v", list)
	}

	allocated, err := f.ledger.Allocated(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if allocated != 1_250_000 {
		t.Fatalf("allocated = %s, want 1250000", allocated)
	}

	// Releasing reduces the outstanding liability.
	f.clock.Advance(63_072_000 * time.Second)
	released, err := f.ledger.Release(ctx, f.alice, f.alice, first.Index)
	if err != nil {
		t.Fatal(err)
	}

	allocated, err = f.ledger.Allocated(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if allocated != types.Amount(1_250_000).Sub(released) {
		t.Fatalf("allocated after release = %s, want %s", allocated, types.Amount(1_250_000).Sub(released))
	}

	if _, err := f.ledger.GetSchedule(ctx, f.alice, 5); !errors.Is(err, vesting.ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}
