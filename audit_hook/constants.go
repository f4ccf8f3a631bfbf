package audithook

// Action constants for audit events.
const (
	// Schedule actions
	ActionScheduleCreated = "schedule.created"
	ActionScheduleRevoked = "schedule.revoked"

	// Disbursement actions
	ActionReleased       = "schedule.released"
	ActionTransferFailed = "transfer.failed"

	// Recovery actions
	ActionAssetRecovered = "asset.recovered"
)

// Resource constants for audit events.
const (
	ResourceSchedule = "schedule"
	ResourceTransfer = "transfer"
	ResourceAsset    = "asset"
)

// Category constants for audit events.
const (
	CategoryVesting    = "vesting"
	CategoryPayment    = "payment"
	CategoryGovernance = "governance"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
