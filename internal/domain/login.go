package domain

import "time"

// LoginAttempt is the transient record between login-start and login-finish.
// CodeHash must be presented back to Telegram together with the code, and
// SessionSnapshot pins the redemption to the connection that issued the code.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL; Telegram codes are
// short-lived, so a stale attempt past TTL simply forces a fresh start.
type LoginAttempt struct {
	Phone           string    `json:"phone" dynamodbav:"phone"`
	CodeHash        string    `json:"-" dynamodbav:"code_hash"`
	SessionSnapshot string    `json:"-" dynamodbav:"session_snapshot"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt       int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
