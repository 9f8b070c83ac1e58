package domain

import "time"

// Alert is the audit record of one delivered emergency alert.
type Alert struct {
	AlertID      string    `json:"id" dynamodbav:"alert_id"`
	Phone        string    `json:"phone" dynamodbav:"phone"`
	ContactPhone string    `json:"contact_phone" dynamodbav:"contact_phone"`
	Message      string    `json:"message" dynamodbav:"message"`
	Latitude     float64   `json:"latitude" dynamodbav:"latitude"`
	Longitude    float64   `json:"longitude" dynamodbav:"longitude"`
	SMSCopy      bool      `json:"sms_copy" dynamodbav:"sms_copy"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}
