package model

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusNormal   TripStatus = "NORMAL"
	TripStatusCanceled TripStatus = "CANCELED"
	TripStatusNoShow   TripStatus = "NO_SHOW"
)

// Trip is one scheduled ride with its own odometer/clock sub-log. Mileage
// strings follow the truncated-digit convention: drivers write only the
// trailing digits that changed since the shift's reference reading, so a
// trip's string may be shorter than the shift's. Monetary fields are
// integer cents.
type Trip struct {
	ID         uuid.UUID
	Date       time.Time
	DriverID   *uuid.UUID
	VehicleID  *uuid.UUID
	TripTypeID *uuid.UUID
	Driver     *Driver
	Vehicle    *Vehicle
	TripType   *TripType

	Status     TripStatus
	IsActivity bool

	Name        string
	Address     string
	Destination string
	Passengers  int
	Elderly     *bool
	Ambulatory  *bool

	StartMiles string
	StartTime  string
	EndMiles   string
	EndTime    string

	FareCents           int64
	CollectedCashCents  int64
	CollectedCheckCents int64
}

func (t *Trip) LogComplete() bool {
	return t.StartMiles != "" && t.StartTime != "" && t.EndMiles != "" && t.EndTime != ""
}

func (t *Trip) LogBlank() bool {
	return t.StartMiles == "" && t.StartTime == "" && t.EndMiles == "" && t.EndTime == ""
}

// HasMoney reports whether the driver collected any fare money on this trip.
func (t *Trip) HasMoney() bool {
	return t.CollectedCashCents > 0 || t.CollectedCheckCents > 0
}
