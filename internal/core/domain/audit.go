package domain

import "time"

// AuditKind classifies a security-relevant event.
type AuditKind string

const (
	AuditSignup         AuditKind = "signup"
	AuditLoginSucceeded AuditKind = "login_succeeded"
	AuditLoginFailed    AuditKind = "login_failed"
	AuditLoginThrottled AuditKind = "login_throttled"
	AuditAccessDenied   AuditKind = "access_denied"
)

// AuditEvent is written to the audit trail and never read back by the core.
type AuditEvent struct {
	Kind       AuditKind `json:"kind" bson:"kind"`
	IdentityID string    `json:"identity_id,omitempty" bson:"identity_id,omitempty"`
	Email      string    `json:"email,omitempty" bson:"email,omitempty"`
	Resource   string    `json:"resource,omitempty" bson:"resource,omitempty"`
	Reason     string    `json:"reason,omitempty" bson:"reason,omitempty"`
	At         time.Time `json:"at" bson:"at"`
}
