package report

import (
	"time"

	"github.com/dialaride/reports-service/internal/model"
)

// TripLog is the reconciled, typed view of one raw trip. Shift is nil for
// trips that matched no shift; those are excluded from mileage and hour
// aggregation but still count for rider and fare tracking.
type TripLog struct {
	Trip *model.Trip

	StartMiles float64
	EndMiles   float64
	StartTime  time.Time
	EndTime    time.Time

	Shift *ShiftLog
}

// Miles returns the passenger distance covered by the trip.
func (t *TripLog) Miles() float64 {
	return t.EndMiles - t.StartMiles
}

// matchTrips pairs one day's completed trips with the day's shifts and
// expands their truncated odometer readings. Matched trips end up on their
// shift's Trips list.
func matchTrips(day time.Time, trips []*model.Trip, shifts []*ShiftLog, errs *errorList) {
	for _, trip := range trips {
		// Volunteer drivers run their own vehicles; their odometers are
		// not part of the tracked fleet.
		if trip.Driver != nil && !trip.Driver.Logged {
			continue
		}
		if trip.LogBlank() {
			continue
		}
		if !trip.LogComplete() {
			// Partial data with no assignment is presumed still pending
			// entry, not a mistake.
			if trip.Driver != nil && trip.Vehicle != nil {
				errs.add(day, ErrTripIncomplete, nil, trip)
			}
			continue
		}

		shift := findShift(trip, shifts)
		if shift == nil {
			// TRIP_NO_SHIFT is deliberately not surfaced; the trip is
			// dropped from shift-based aggregation without comment.
			continue
		}

		log := &TripLog{Trip: trip, Shift: shift}

		var ok bool
		startStr := expandMiles(shift.StartMilesRaw, trip.StartMiles)
		endStr := expandMiles(shift.StartMilesRaw, trip.EndMiles)
		if log.StartMiles, ok = parseMiles(startStr); !ok {
			errs.add(day, ErrTripParse, nil, trip)
		}
		if log.EndMiles, ok = parseMiles(endStr); !ok {
			errs.add(day, ErrTripParse, nil, trip)
		}
		if log.StartTime, ok = parseClock(trip.StartTime, day); !ok {
			errs.add(day, ErrTripParse, nil, trip)
		}
		if log.EndTime, ok = parseClock(trip.EndTime, day); !ok {
			errs.add(day, ErrTripParse, nil, trip)
		}

		if log.StartMiles < shift.StartMiles || log.EndMiles > shift.EndMiles {
			errs.add(day, ErrTripMilesOOB, shift.Shift, trip)
		}
		if log.StartTime.Before(shift.StartTime) || log.EndTime.After(shift.EndTime) {
			errs.add(day, ErrTripTimeOOB, shift.Shift, trip)
		}
		if log.StartMiles > log.EndMiles {
			errs.add(day, ErrTripMilesLess, nil, trip)
		}
		if log.StartTime.After(log.EndTime) {
			errs.add(day, ErrTripTimeLess, nil, trip)
		}

		shift.attach(log)
	}
}

// findShift picks the shift covering a trip: exact driver+vehicle match
// first, then any shift on the same vehicle.
func findShift(trip *model.Trip, shifts []*ShiftLog) *ShiftLog {
	if trip.VehicleID == nil {
		return nil
	}
	if trip.DriverID != nil {
		for _, shift := range shifts {
			if shift.Shift.DriverID != nil && *shift.Shift.DriverID == *trip.DriverID &&
				shift.Shift.VehicleID != nil && *shift.Shift.VehicleID == *trip.VehicleID {
				return shift
			}
		}
	}
	for _, shift := range shifts {
		if shift.Shift.VehicleID != nil && *shift.Shift.VehicleID == *trip.VehicleID {
			return shift
		}
	}
	return nil
}
