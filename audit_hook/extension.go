// Package audithook bridges Vesting lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin            = (*Extension)(nil)
	_ plugin.OnScheduleCreated = (*Extension)(nil)
	_ plugin.OnReleased        = (*Extension)(nil)
	_ plugin.OnRevoked         = (*Extension)(nil)
	_ plugin.OnTransferFailed  = (*Extension)(nil)
	_ plugin.OnAssetRecovered  = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly; callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Vesting lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Schedule lifecycle hooks
// ──────────────────────────────────────────────────

// OnScheduleCreated implements plugin.OnScheduleCreated.
func (e *Extension) OnScheduleCreated(ctx context.Context, record interface{}) error {
	r, ok := record.(*vesting.CreationRecord)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionScheduleCreated, SeverityInfo, OutcomeSuccess,
		ResourceSchedule, r.Schedule.String(), CategoryVesting, nil,
		"beneficiary", r.Beneficiary.String(),
		"index", r.Index,
		"total", r.Total.Int64(),
		"revocable", r.Revocable,
	)
}

// OnReleased implements plugin.OnReleased.
func (e *Extension) OnReleased(ctx context.Context, record interface{}) error {
	r, ok := record.(*vesting.ReleaseRecord)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionReleased, SeverityInfo, OutcomeSuccess,
		ResourceSchedule, r.Beneficiary.String(), CategoryPayment, nil,
		"beneficiary", r.Beneficiary.String(),
		"index", r.Index,
		"amount", r.Amount.Int64(),
	)
}

// OnRevoked implements plugin.OnRevoked.
func (e *Extension) OnRevoked(ctx context.Context, record interface{}) error {
	r, ok := record.(*vesting.RevocationRecord)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionScheduleRevoked, SeverityWarning, OutcomeSuccess,
		ResourceSchedule, r.Beneficiary.String(), CategoryGovernance, nil,
		"beneficiary", r.Beneficiary.String(),
		"index", r.Index,
		"released_now", r.ReleasedNow.Int64(),
		"refunded", r.Refunded.Int64(),
	)
}

// ──────────────────────────────────────────────────
// Failure and recovery hooks
// ──────────────────────────────────────────────────

// OnTransferFailed implements plugin.OnTransferFailed.
func (e *Extension) OnTransferFailed(ctx context.Context, beneficiary string, index int, amount int64, err error) error {
	return e.record(ctx, ActionTransferFailed, SeverityError, OutcomeFailure,
		ResourceTransfer, beneficiary, CategoryPayment, err,
		"beneficiary", beneficiary,
		"index", index,
		"amount", amount,
	)
}

// OnAssetRecovered implements plugin.OnAssetRecovered.
func (e *Extension) OnAssetRecovered(ctx context.Context, record interface{}) error {
	r, ok := record.(*vesting.RecoveryRecord)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionAssetRecovered, SeverityWarning, OutcomeSuccess,
		ResourceAsset, r.Denom, CategoryGovernance, nil,
		"denom", r.Denom,
		"to", r.To.String(),
		"amount", r.Amount.Int64(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
