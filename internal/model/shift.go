package model

import (
	"time"

	"github.com/google/uuid"
)

// Shift is one driver/vehicle assignment for one day. The odometer and
// clock fields hold exactly what the driver wrote on the paper log:
// free-text digit strings and 12-hour clock times, validated nowhere before
// this point.
type Shift struct {
	ID        uuid.UUID
	Date      time.Time
	DriverID  *uuid.UUID
	VehicleID *uuid.UUID
	Driver    *Driver
	Vehicle   *Vehicle

	StartMiles string
	StartTime  string
	EndMiles   string
	EndTime    string
	Fuel       string

	Note string
}

// LogComplete reports whether all four odometer/clock fields were filled in.
func (s *Shift) LogComplete() bool {
	return s.StartMiles != "" && s.StartTime != "" && s.EndMiles != "" && s.EndTime != ""
}

// LogBlank reports whether none of the four odometer/clock fields were
// filled in. Blank logs are normal: most shifts are entered ahead of time
// and filled out later.
func (s *Shift) LogBlank() bool {
	return s.StartMiles == "" && s.StartTime == "" && s.EndMiles == "" && s.EndTime == ""
}
