package vesting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/plugin"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/store"
	"github.com/xraph/vesting/token"
	"github.com/xraph/vesting/types"
)

// Ledger is the vesting engine. It tracks deferred entitlements of a
// single managed asset and disburses them as time elapses.
//
// All mutating operations commit store state before issuing the external
// asset transfer and never hold the ledger lock across that call. A
// token implementation that re-enters the ledger therefore observes
// already-committed state and cannot double-spend.
type Ledger struct {
	store   store.Store
	token   token.Token
	plugins *plugin.Registry
	logger  *slog.Logger

	owner    id.AccountID
	treasury id.AccountID

	now          func() time.Time
	ownerRelease bool

	// Serializes create/release/revoke accounting. Released before the
	// external transfer call.
	mu sync.Mutex
}

// New creates a new Ledger managing tok, governed by owner.
func New(s store.Store, tok token.Token, owner id.AccountID, opts ...Option) *Ledger {
	l := &Ledger{
		store:    s,
		token:    tok,
		plugins:  plugin.NewRegistry(),
		logger:   slog.Default(),
		owner:    owner,
		treasury: owner,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock overrides the ledger clock. Vesting math works at second
// precision, so the clock only needs second resolution.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithOwnerRelease allows the owner to trigger releases on behalf of
// beneficiaries. Disabled by default; releases are beneficiary-only.
func WithOwnerRelease(enabled bool) Option {
	return func(l *Ledger) {
		l.ownerRelease = enabled
	}
}

// WithTreasury sets the account that receives revocation refunds.
// Defaults to the owner.
func WithTreasury(treasury id.AccountID) Option {
	return func(l *Ledger) {
		l.treasury = treasury
	}
}

// Start migrates the store and initializes plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("vesting ledger started",
		"owner", l.owner,
		"denom", l.token.Denom(),
		"owner_release", l.ownerRelease,
	)

	return nil
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// Owner returns the governing account.
func (l *Ledger) Owner() id.AccountID { return l.owner }

// Treasury returns the account revocation refunds are sent to.
func (l *Ledger) Treasury() id.AccountID { return l.treasury }

// ──────────────────────────────────────────────────
// Schedule Creation
// ──────────────────────────────────────────────────

// Grant describes a vesting schedule to create. CliffPeriod and Duration
// are offsets from Start; Slice is the unlock granularity.
type Grant struct {
	Beneficiary id.AccountID
	Start       time.Time
	CliffPeriod time.Duration
	Duration    time.Duration
	Slice       time.Duration
	Revocable   bool
	Total       types.Amount
	Metadata    map[string]string
}

// CreateSchedule appends a new schedule to the beneficiary's sequence.
// Owner-only. The schedule index is the insertion order within the
// beneficiary's sequence; indices are stable and never reused. Start may
// lie in the past, which makes the grant partially vested on arrival.
func (l *Ledger) CreateSchedule(ctx context.Context, caller id.AccountID, g Grant) (*schedule.Schedule, error) {
	if caller != l.owner {
		return nil, ErrUnauthorized
	}
	if g.Beneficiary.IsNil() {
		return nil, ValidationError{Field: "beneficiary", Message: "must be a valid account", Err: ErrInvalidBeneficiary}
	}
	// Vesting math works in whole seconds, so a shorter duration has no
	// representable accrual window.
	if g.Duration < time.Second {
		return nil, ValidationError{Field: "duration", Message: "must be at least one second", Err: ErrInvalidDuration}
	}
	if !g.Total.IsPositive() {
		return nil, ValidationError{Field: "total", Message: "must be positive", Err: ErrInvalidAmount}
	}
	if g.CliffPeriod < 0 {
		return nil, ValidationError{Field: "cliff", Message: "cannot precede start", Err: ErrInvalidSchedule}
	}
	if g.Start.IsZero() {
		return nil, ValidationError{Field: "start", Message: "must be set", Err: ErrInvalidStart}
	}
	if g.Slice < time.Second {
		return nil, ValidationError{Field: "slice", Message: "must be at least one second", Err: ErrInvalidSlice}
	}

	l.mu.Lock()

	index, err := l.store.CountSchedules(ctx, g.Beneficiary)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}

	s := &schedule.Schedule{
		Entity:      types.NewEntity(),
		ID:          id.NewScheduleID(),
		Beneficiary: g.Beneficiary,
		Index:       index,
		Start:       g.Start,
		Cliff:       g.Start.Add(g.CliffPeriod),
		Duration:    g.Duration,
		Slice:       g.Slice,
		Total:       g.Total,
		Revocable:   g.Revocable,
		Metadata:    g.Metadata,
	}

	if err := l.store.AdjustAllocated(ctx, g.Total); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	if err := l.store.AppendSchedule(ctx, s); err != nil {
		// Undo the allocation bump; the schedule never existed.
		if rerr := l.store.AdjustAllocated(ctx, g.Total.Negate()); rerr != nil {
			l.logger.Error("allocation rollback failed after append failure",
				"beneficiary", g.Beneficiary,
				"error", rerr,
			)
		}
		l.mu.Unlock()
		return nil, err
	}

	l.mu.Unlock()

	l.plugins.EmitScheduleCreated(ctx, &CreationRecord{
		ID:          id.NewRecordID(),
		Schedule:    s.ID,
		Beneficiary: s.Beneficiary,
		Index:       s.Index,
		Total:       s.Total,
		Start:       s.Start,
		Cliff:       s.Cliff,
		Duration:    s.Duration,
		Revocable:   s.Revocable,
	})

	l.logger.Info("schedule created",
		"schedule", s.ID,
		"beneficiary", s.Beneficiary,
		"index", s.Index,
		"total", s.Total,
		"revocable", s.Revocable,
	)

	return s, nil
}

// ──────────────────────────────────────────────────
// Release
// ──────────────────────────────────────────────────

// Releasable reports the amount currently claimable on a schedule:
// vested minus already released at the ledger clock's now. Zero before
// the cliff; the full outstanding balance at or past the end.
func (l *Ledger) Releasable(ctx context.Context, beneficiary id.AccountID, index int) (types.Amount, error) {
	s, err := l.loadSchedule(ctx, beneficiary, index)
	if err != nil {
		return 0, err
	}
	if s.Revoked {
		return 0, ErrScheduleRevoked
	}
	return s.ReleasableAt(l.now()), nil
}

// Release pays out the claimable portion of a schedule to its
// beneficiary. The caller must be the beneficiary, or the owner when
// owner release is enabled.
//
// The released counter and allocation bookkeeping are committed before
// the transfer is issued; a failed transfer rolls both back and reports
// ErrTransferFailed, leaving no net effect.
func (l *Ledger) Release(ctx context.Context, caller id.AccountID, beneficiary id.AccountID, index int) (types.Amount, error) {
	l.mu.Lock()

	s, err := l.loadSchedule(ctx, beneficiary, index)
	if err != nil {
		l.mu.Unlock()
		return 0, err
	}
	if caller != s.Beneficiary && !(l.ownerRelease && caller == l.owner) {
		l.mu.Unlock()
		return 0, ErrUnauthorized
	}
	if s.Revoked {
		l.mu.Unlock()
		return 0, ErrScheduleRevoked
	}

	now := l.now()
	amount := s.ReleasableAt(now)
	if !amount.IsPositive() {
		l.mu.Unlock()
		return 0, ErrNothingToRelease
	}

	if err := l.commitRelease(ctx, s, amount); err != nil {
		l.mu.Unlock()
		return 0, err
	}

	l.mu.Unlock()

	if terr := l.token.Transfer(ctx, s.Beneficiary, amount); terr != nil {
		l.rollbackRelease(ctx, beneficiary, index, amount)
		l.plugins.EmitTransferFailed(ctx, beneficiary.String(), index, amount.Int64(), terr)
		l.logger.Warn("release transfer failed, state rolled back",
			"beneficiary", beneficiary,
			"index", index,
			"amount", amount,
			"error", terr,
		)
		return 0, fmt.Errorf("%w: %v", ErrTransferFailed, terr)
	}

	l.plugins.EmitReleased(ctx, &ReleaseRecord{
		ID:          id.NewRecordID(),
		Beneficiary: beneficiary,
		Index:       index,
		Amount:      amount,
		At:          now,
	})

	l.logger.Info("released",
		"beneficiary", beneficiary,
		"index", index,
		"amount", amount,
	)

	return amount, nil
}

// commitRelease records the payout in the store. Caller holds l.mu.
func (l *Ledger) commitRelease(ctx context.Context, s *schedule.Schedule, amount types.Amount) error {
	s.Released = s.Released.Add(amount)
	s.Touch()
	if err := l.store.UpdateSchedule(ctx, s); err != nil {
		return err
	}
	return l.store.AdjustAllocated(ctx, amount.Negate())
}

// rollbackRelease undoes a committed release after a failed transfer.
func (l *Ledger) rollbackRelease(ctx context.Context, beneficiary id.AccountID, index int, amount types.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.loadSchedule(ctx, beneficiary, index)
	if err != nil {
		l.logger.Error("release rollback failed: schedule lookup",
			"beneficiary", beneficiary,
			"index", index,
			"error", err,
		)
		return
	}

	s.Released = s.Released.Sub(amount)
	s.Touch()
	if err := l.store.UpdateSchedule(ctx, s); err != nil {
		l.logger.Error("release rollback failed: schedule update",
			"beneficiary", beneficiary,
			"index", index,
			"error", err,
		)
		return
	}
	if err := l.store.AdjustAllocated(ctx, amount); err != nil {
		l.logger.Error("release rollback failed: allocation restore",
			"beneficiary", beneficiary,
			"index", index,
			"error", err,
		)
	}
}

// ──────────────────────────────────────────────────
// Revocation
// ──────────────────────────────────────────────────

// Revoke terminates a revocable schedule. The accrued-but-unpaid slice
// is settled to the beneficiary and the unvested remainder refunded to
// the treasury. Owner-only.
//
// The settlement transfer happens before the refund transfer. If the
// settlement fails the whole revocation rolls back. If the refund fails
// after a successful settlement the settlement is kept as a recorded
// release and the revocation itself rolls back, so the schedule stays
// live and the revoke can be retried.
func (l *Ledger) Revoke(ctx context.Context, caller id.AccountID, beneficiary id.AccountID, index int) (releasedNow, refunded types.Amount, err error) {
	if caller != l.owner {
		return 0, 0, ErrUnauthorized
	}

	l.mu.Lock()

	s, err := l.loadSchedule(ctx, beneficiary, index)
	if err != nil {
		l.mu.Unlock()
		return 0, 0, err
	}
	if s.Revoked {
		l.mu.Unlock()
		return 0, 0, ErrScheduleRevoked
	}
	if !s.Revocable {
		l.mu.Unlock()
		return 0, 0, ErrNotRevocable
	}

	now := l.now()
	prevReleased := s.Released
	releasedNow = s.ReleasableAt(now)
	refunded = s.Total.Sub(prevReleased).Sub(releasedNow)
	outstanding := releasedNow.Add(refunded)

	s.Released = prevReleased.Add(releasedNow)
	s.Revoked = true
	s.RevokedAt = &now
	s.Touch()
	if uerr := l.store.UpdateSchedule(ctx, s); uerr != nil {
		l.mu.Unlock()
		return 0, 0, uerr
	}
	if aerr := l.store.AdjustAllocated(ctx, outstanding.Negate()); aerr != nil {
		s.Released = prevReleased
		s.Revoked = false
		s.RevokedAt = nil
		if uerr := l.store.UpdateSchedule(ctx, s); uerr != nil {
			l.logger.Error("revoke rollback failed: schedule restore",
				"beneficiary", beneficiary,
				"index", index,
				"error", uerr,
			)
		}
		l.mu.Unlock()
		return 0, 0, aerr
	}

	l.mu.Unlock()

	if releasedNow.IsPositive() {
		if terr := l.token.Transfer(ctx, s.Beneficiary, releasedNow); terr != nil {
			l.rollbackRevoke(ctx, beneficiary, index, prevReleased, outstanding)
			l.plugins.EmitTransferFailed(ctx, beneficiary.String(), index, releasedNow.Int64(), terr)
			l.logger.Warn("revoke settlement transfer failed, state rolled back",
				"beneficiary", beneficiary,
				"index", index,
				"amount", releasedNow,
				"error", terr,
			)
			return 0, 0, fmt.Errorf("%w: %v", ErrTransferFailed, terr)
		}
	}

	if refunded.IsPositive() {
		if terr := l.token.Transfer(ctx, l.treasury, refunded); terr != nil {
			// The settlement already paid out, so keep it recorded and
			// only un-revoke. The schedule stays live for a retry.
			l.rollbackRevoke(ctx, beneficiary, index, prevReleased.Add(releasedNow), refunded)
			l.plugins.EmitTransferFailed(ctx, l.treasury.String(), index, refunded.Int64(), terr)
			l.logger.Warn("revoke refund transfer failed, revocation rolled back",
				"beneficiary", beneficiary,
				"index", index,
				"refund", refunded,
				"error", terr,
			)
			return 0, 0, fmt.Errorf("%w: %v", ErrTransferFailed, terr)
		}
	}

	l.plugins.EmitRevoked(ctx, &RevocationRecord{
		ID:          id.NewRecordID(),
		Beneficiary: beneficiary,
		Index:       index,
		ReleasedNow: releasedNow,
		Refunded:    refunded,
		At:          now,
	})

	l.logger.Info("schedule revoked",
		"beneficiary", beneficiary,
		"index", index,
		"released_now", releasedNow,
		"refunded", refunded,
	)

	return releasedNow, refunded, nil
}

// rollbackRevoke restores a schedule to a live state after a failed
// revocation transfer. released is the counter value to restore;
// reclaimed is the allocation to put back.
func (l *Ledger) rollbackRevoke(ctx context.Context, beneficiary id.AccountID, index int, released, reclaimed types.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.loadSchedule(ctx, beneficiary, index)
	if err != nil {
		l.logger.Error("revoke rollback failed: schedule lookup",
			"beneficiary", beneficiary,
			"index", index,
			"error", err,
		)
		return
	}

	s.Released = released
	s.Revoked = false
	s.RevokedAt = nil
	s.Touch()
	if err := l.store.UpdateSchedule(ctx, s); err != nil {
		l.logger.Error("revoke rollback failed: schedule update",
			"beneficiary", beneficiary,
			"index", index,
			"error", err,
		)
		return
	}
	if err := l.store.AdjustAllocated(ctx, reclaimed); err != nil {
		l.logger.Error("revoke rollback failed: allocation restore",
			"beneficiary", beneficiary,
			"index", index,
			"error", err,
		)
	}
}

// ──────────────────────────────────────────────────
// Asset Recovery
// ──────────────────────────────────────────────────

// RecoverAsset reclaims a foreign asset mistakenly sent to the ledger's
// custody. It refuses to touch the managed asset, whose balance is
// claimed by outstanding schedules. Owner-only.
func (l *Ledger) RecoverAsset(ctx context.Context, caller id.AccountID, other token.Token, to id.AccountID, amount types.Amount) error {
	if caller != l.owner {
		return ErrUnauthorized
	}
	if other.Denom() == l.token.Denom() {
		return ErrProtectedAsset
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if err := other.Transfer(ctx, to, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	l.plugins.EmitAssetRecovered(ctx, &RecoveryRecord{
		ID:     id.NewRecordID(),
		Denom:  other.Denom(),
		To:     to,
		Amount: amount,
		At:     l.now(),
	})

	l.logger.Info("asset recovered",
		"denom", other.Denom(),
		"to", to,
		"amount", amount,
	)

	return nil
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// ScheduleCount returns the number of schedules held by a beneficiary.
func (l *Ledger) ScheduleCount(ctx context.Context, beneficiary id.AccountID) (int, error) {
	return l.store.CountSchedules(ctx, beneficiary)
}

// GetSchedule retrieves a single schedule by beneficiary and index.
func (l *Ledger) GetSchedule(ctx context.Context, beneficiary id.AccountID, index int) (*schedule.Schedule, error) {
	return l.loadSchedule(ctx, beneficiary, index)
}

// ListSchedules returns all schedules for a beneficiary in index order.
func (l *Ledger) ListSchedules(ctx context.Context, beneficiary id.AccountID) ([]*schedule.Schedule, error) {
	return l.store.ListSchedules(ctx, beneficiary)
}

// Allocated returns the total amount the ledger is still liable for
// across all live schedules.
func (l *Ledger) Allocated(ctx context.Context) (types.Amount, error) {
	return l.store.Allocated(ctx)
}

// loadSchedule fetches a schedule, mapping store-level not-found errors
// to ErrInvalidIndex.
func (l *Ledger) loadSchedule(ctx context.Context, beneficiary id.AccountID, index int) (*schedule.Schedule, error) {
	if index < 0 {
		return nil, ErrInvalidIndex
	}
	s, err := l.store.GetSchedule(ctx, beneficiary, index)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) || errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidIndex
		}
		return nil, err
	}
	return s, nil
}
