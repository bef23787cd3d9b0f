package audit

import "time"

// Event is emitted from domain logic to capture verification workflow
// transitions. Keep it transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Email     string            `json:"email"`
	RequestID string            `json:"request_id,omitempty"`
	Action    string            `json:"action"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// Workflow actions recorded on the audit stream.
const (
	EventVerificationRequested = "verification_requested"
	EventVerificationResent    = "verification_resent"
	EventVerificationApproved  = "verification_approved"
	EventVerificationRejected  = "verification_rejected"
	EventVerificationExpired   = "verification_expired"
	EventVerificationCancelled = "verification_cancelled"
)
