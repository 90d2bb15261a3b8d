package domain

import "time"

// ExchangeOutcomeGranted marks a successful exchange. Failed attempts record
// the error code returned to the client instead.
const ExchangeOutcomeGranted = "GRANTED"

// TokenExchange is one row of the exchange audit trail. The minted token is
// only kept as a fingerprint.
type TokenExchange struct {
	ID               string
	UserID           string
	TenantID         string
	Outcome          string
	Role             string // empty unless the role lookup succeeded
	TokenFingerprint string // empty unless a token was minted
	CreatedAt        time.Time
}
