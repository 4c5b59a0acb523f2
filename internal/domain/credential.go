package domain

import "time"

// CredentialState is decided once from configuration.
type CredentialState string

const (
	CredentialNone    CredentialState = "none"
	CredentialStatic  CredentialState = "static"
	CredentialSigning CredentialState = "signing"
)

// Credential describes a bearer token for inspection.
type Credential struct {
	Token     string
	State     CredentialState
	Signer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining returns the lifetime left at now; zero expiry means unknown.
func (c Credential) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt.IsZero() {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
