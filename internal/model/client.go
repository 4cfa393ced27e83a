package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a registered rider. Elderly and Ambulatory are tri-state: nil
// means the intake form never recorded the answer.
type Client struct {
	ID         uuid.UUID
	Name       string
	Address    string
	Phone      string
	Elderly    *bool
	Ambulatory *bool
	Staff      bool
}

// ClientPayment is a payment recorded independently of any ride, such as an
// advance payment mailed to the office. Amounts are integer cents.
type ClientPayment struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	ClientName string
	Date       time.Time
	CashCents  int64
	CheckCents int64
}
