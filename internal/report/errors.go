package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dialaride/reports-service/internal/model"
)

type ErrorCode string

const (
	ErrShiftIncomplete ErrorCode = "SHIFT_INCOMPLETE"
	ErrTripIncomplete  ErrorCode = "TRIP_INCOMPLETE"
	ErrTripNoShift     ErrorCode = "TRIP_NO_SHIFT"
	ErrTripMilesOOB    ErrorCode = "TRIP_MILES_OOB"
	ErrTripTimeOOB     ErrorCode = "TRIP_TIME_OOB"
	ErrShiftParse      ErrorCode = "SHIFT_PARSE"
	ErrTripParse       ErrorCode = "TRIP_PARSE"
	ErrShiftMilesLess  ErrorCode = "SHIFT_MILES_LESS"
	ErrShiftTimeLess   ErrorCode = "SHIFT_TIME_LESS"
	ErrTripMilesLess   ErrorCode = "TRIP_MILES_LESS"
	ErrTripTimeLess    ErrorCode = "TRIP_TIME_LESS"
)

// LogError records one classified data problem found while reconciling a
// day's logs. ShiftID and TripID point back at the offending records so a
// caller can deep-link to the edit screen. Errors are informational only:
// nothing here ever stops the report from being produced.
type LogError struct {
	Date    time.Time  `json:"date"`
	Code    ErrorCode  `json:"code"`
	ShiftID *uuid.UUID `json:"shift_id,omitempty"`
	TripID  *uuid.UUID `json:"trip_id,omitempty"`
	Message string     `json:"message"`
}

// errorList is the append-only collector shared by every stage of the
// pipeline. The zero value is ready to use.
type errorList struct {
	entries []LogError
}

func (l *errorList) add(date time.Time, code ErrorCode, shift *model.Shift, trip *model.Trip) {
	entry := LogError{
		Date:    date,
		Code:    code,
		Message: errorMessage(code, shift, trip),
	}
	if shift != nil {
		id := shift.ID
		entry.ShiftID = &id
	}
	if trip != nil {
		id := trip.ID
		entry.TripID = &id
	}
	l.entries = append(l.entries, entry)
}

// mark returns the current length of the list so a caller can later scope
// the entries added after it.
func (l *errorList) mark() int {
	return len(l.entries)
}

// scopeTo drops entries added since the mark unless they reference the
// given shift or one of the given trips. Used by the single-shift report
// scope, where the rest of the day's problems are another sheet's business.
func (l *errorList) scopeTo(mark int, shiftID uuid.UUID, tripIDs map[uuid.UUID]struct{}) {
	kept := l.entries[:mark]
	for _, entry := range l.entries[mark:] {
		if entry.ShiftID != nil && *entry.ShiftID == shiftID {
			kept = append(kept, entry)
			continue
		}
		if entry.TripID != nil {
			if _, ok := tripIDs[*entry.TripID]; ok {
				kept = append(kept, entry)
			}
		}
	}
	l.entries = kept
}

// errorMessage renders a display string from the code and the offending
// records. It is a pure function so the same entry always reads the same.
func errorMessage(code ErrorCode, shift *model.Shift, trip *model.Trip) string {
	switch code {
	case ErrShiftIncomplete:
		return fmt.Sprintf("shift for %s is missing log fields", shiftLabel(shift))
	case ErrTripIncomplete:
		return fmt.Sprintf("trip for %s has partial log data", tripLabel(trip))
	case ErrTripNoShift:
		return fmt.Sprintf("trip for %s has no matching shift", tripLabel(trip))
	case ErrTripMilesOOB:
		return fmt.Sprintf("trip mileage for %s falls outside its shift", tripLabel(trip))
	case ErrTripTimeOOB:
		return fmt.Sprintf("trip time for %s falls outside its shift", tripLabel(trip))
	case ErrShiftParse:
		return fmt.Sprintf("shift for %s has an unreadable log field", shiftLabel(shift))
	case ErrTripParse:
		return fmt.Sprintf("trip for %s has an unreadable log field", tripLabel(trip))
	case ErrShiftMilesLess:
		return fmt.Sprintf("shift for %s ends with fewer miles than it started", shiftLabel(shift))
	case ErrShiftTimeLess:
		return fmt.Sprintf("shift for %s ends before it starts", shiftLabel(shift))
	case ErrTripMilesLess:
		return fmt.Sprintf("trip for %s ends with fewer miles than it started", tripLabel(trip))
	case ErrTripTimeLess:
		return fmt.Sprintf("trip for %s ends before it starts", tripLabel(trip))
	default:
		return string(code)
	}
}

func shiftLabel(shift *model.Shift) string {
	if shift == nil {
		return "unknown shift"
	}
	driver := "unassigned"
	if shift.Driver != nil {
		driver = shift.Driver.Name
	}
	vehicle := "no vehicle"
	if shift.Vehicle != nil {
		vehicle = shift.Vehicle.Name
	}
	return fmt.Sprintf("%s / %s", driver, vehicle)
}

func tripLabel(trip *model.Trip) string {
	if trip == nil {
		return "unknown trip"
	}
	if trip.Name != "" {
		return trip.Name
	}
	return trip.ID.String()
}
