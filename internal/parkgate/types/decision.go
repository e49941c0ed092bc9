package types

type Status string

const (
	StatusGranted Status = "granted"
	StatusDenied  Status = "denied"
	StatusError   Status = "error"
)

// Denial reasons form a closed set; they are what lands in the
// denial_incidents table and what the suppression window keys on.
const (
	ReasonUnpaidRecord    = "Unpaid parking record"
	ReasonCooldown        = "Cooldown period active"
	ReasonNoValidPayment  = "No valid payment"
	ReasonProcessingError = "Processing error"
)

// Decision is the outcome of one entry or exit attempt. A policy denial is
// StatusDenied with a Reason; StatusError means the attempt failed closed
// on an internal error and Detail says why. Callers must not confuse the
// two.
type Decision struct {
	Status   Status
	Reason   string
	Detail   string
	RecordID int64 // ledger row created on a granted entry
}

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

// Handshake failure reasons.
const (
	FailNoOpenRecord   = "no unpaid record"
	FailInsufficient   = "insufficient balance"
	FailNotReady       = "device not ready"
	FailConfirmTimeout = "confirmation timeout"
)

// PaymentResult is the outcome of one payment handshake.
type PaymentResult struct {
	Status     PaymentStatus
	Reason     string // failure reason, empty when paid
	AmountDue  int64
	NewBalance int64 // balance committed to the device, valid when paid
}
