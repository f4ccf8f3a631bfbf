// Package observability provides a metrics extension for Vesting that
// records lifecycle event counts and disbursed amounts.
package observability

import (
	"context"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin            = (*MetricsExtension)(nil)
	_ plugin.OnInit            = (*MetricsExtension)(nil)
	_ plugin.OnScheduleCreated = (*MetricsExtension)(nil)
	_ plugin.OnReleased        = (*MetricsExtension)(nil)
	_ plugin.OnRevoked         = (*MetricsExtension)(nil)
	_ plugin.OnTransferFailed  = (*MetricsExtension)(nil)
	_ plugin.OnAssetRecovered  = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Vesting plugin to automatically track ledger metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Schedule metrics
	ScheduleCreated Counter
	ScheduleRevoked Counter
	GrantTotal      Histogram

	// Disbursement metrics
	Released        Counter
	ReleasedAmount  Histogram
	RevokedRefund   Histogram
	TransferFailure Counter

	// Recovery metrics
	AssetRecovered Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Schedule metrics
		ScheduleCreated: factory.Counter("vesting.schedule.created"),
		ScheduleRevoked: factory.Counter("vesting.schedule.revoked"),
		GrantTotal:      factory.Histogram("vesting.schedule.total_amount"),

		// Disbursement metrics
		Released:        factory.Counter("vesting.release.count"),
		ReleasedAmount:  factory.Histogram("vesting.release.amount"),
		RevokedRefund:   factory.Histogram("vesting.revoke.refund_amount"),
		TransferFailure: factory.Counter("vesting.transfer.failures"),

		// Recovery metrics
		AssetRecovered: factory.Counter("vesting.recovery.count"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// OnScheduleCreated implements plugin.OnScheduleCreated.
func (m *MetricsExtension) OnScheduleCreated(_ context.Context, record interface{}) error {
	m.ScheduleCreated.Inc()
	if r, ok := record.(*vesting.CreationRecord); ok {
		m.GrantTotal.Observe(float64(r.Total.Int64()))
	}
	return nil
}

// OnReleased implements plugin.OnReleased.
func (m *MetricsExtension) OnReleased(_ context.Context, record interface{}) error {
	m.Released.Inc()
	if r, ok := record.(*vesting.ReleaseRecord); ok {
		m.ReleasedAmount.Observe(float64(r.Amount.Int64()))
	}
	return nil
}

// OnRevoked implements plugin.OnRevoked.
func (m *MetricsExtension) OnRevoked(_ context.Context, record interface{}) error {
	m.ScheduleRevoked.Inc()
	if r, ok := record.(*vesting.RevocationRecord); ok {
		m.RevokedRefund.Observe(float64(r.Refunded.Int64()))
	}
	return nil
}

// OnTransferFailed implements plugin.OnTransferFailed.
func (m *MetricsExtension) OnTransferFailed(_ context.Context, _ string, _ int, _ int64, _ error) error {
	m.TransferFailure.Inc()
	return nil
}

// OnAssetRecovered implements plugin.OnAssetRecovered.
func (m *MetricsExtension) OnAssetRecovered(_ context.Context, _ interface{}) error {
	m.AssetRecovered.Inc()
	return nil
}
