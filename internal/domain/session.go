package domain

import "time"

// UserSession is the finalized login record for one phone number.
// SessionString is the opaque Telegram session exported after a successful
// sign-in; the store is a pass-through, the value is never inspected.
type UserSession struct {
	Phone         string    `json:"phone" dynamodbav:"phone"`
	SessionString string    `json:"-" dynamodbav:"session_string"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
