package report

import (
	"time"

	"github.com/dialaride/reports-service/internal/model"
)

// ShiftLog is the reconciled, typed view of one raw shift. StartMilesRaw
// keeps the original odometer string because trips expand their truncated
// readings against it, not against the parsed float.
type ShiftLog struct {
	Shift *model.Shift

	StartMilesRaw string
	StartMiles    float64
	EndMiles      float64
	StartTime     time.Time
	EndTime       time.Time
	Fuel          float64

	// Trips holds every trip matched to this shift, in input order.
	Trips []*TripLog

	// firstTrip/lastTrip track the matched trip with the lowest start
	// mileage and the highest end mileage; deadhead is measured against
	// them.
	firstTrip *TripLog
	lastTrip  *TripLog
}

// reconstructShifts turns one day's raw shifts into typed shift logs.
// Blank logs are skipped without comment, partial logs and logs with no
// driver or vehicle are flagged and skipped, and inverted ranges are
// flagged but kept: a shift with bad numbers still anchors its trips.
func reconstructShifts(day time.Time, shifts []*model.Shift, errs *errorList) []*ShiftLog {
	logs := make([]*ShiftLog, 0, len(shifts))
	for _, shift := range shifts {
		if shift.LogBlank() {
			continue
		}
		if !shift.LogComplete() || shift.Driver == nil || shift.Vehicle == nil {
			errs.add(day, ErrShiftIncomplete, shift, nil)
			continue
		}

		log := &ShiftLog{Shift: shift, StartMilesRaw: shift.StartMiles}

		var ok bool
		if log.StartMiles, ok = parseMiles(shift.StartMiles); !ok {
			errs.add(day, ErrShiftParse, shift, nil)
		}
		if log.EndMiles, ok = parseMiles(shift.EndMiles); !ok {
			errs.add(day, ErrShiftParse, shift, nil)
		}
		if log.StartTime, ok = parseClock(shift.StartTime, day); !ok {
			errs.add(day, ErrShiftParse, shift, nil)
		}
		if log.EndTime, ok = parseClock(shift.EndTime, day); !ok {
			errs.add(day, ErrShiftParse, shift, nil)
		}
		log.Fuel = parseFuel(shift.Fuel)

		if log.StartMiles > log.EndMiles {
			errs.add(day, ErrShiftMilesLess, shift, nil)
		}
		if log.StartTime.After(log.EndTime) {
			errs.add(day, ErrShiftTimeLess, shift, nil)
		}

		logs = append(logs, log)
	}
	return logs
}

// attach records a matched trip on the shift and advances the first/last
// trip pointers used for deadhead.
func (s *ShiftLog) attach(trip *TripLog) {
	s.Trips = append(s.Trips, trip)
	if s.firstTrip == nil || trip.StartMiles < s.firstTrip.StartMiles {
		s.firstTrip = trip
	}
	if s.lastTrip == nil || trip.EndMiles > s.lastTrip.EndMiles {
		s.lastTrip = trip
	}
}

// anchors returns the first and last trips for deadhead computation. A
// shift with no matched trips gets a synthetic zero-length trip at its own
// start and end so deadhead comes out zero instead of undefined.
func (s *ShiftLog) anchors() (*TripLog, *TripLog) {
	if s.firstTrip != nil && s.lastTrip != nil {
		return s.firstTrip, s.lastTrip
	}
	dummy := &TripLog{
		StartMiles: s.StartMiles,
		EndMiles:   s.EndMiles,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
	}
	return dummy, dummy
}
