package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialaride/reports-service/internal/model"
)

type fakeSource struct {
	shifts   map[string][]*model.Shift
	trips    map[string][]*model.Trip
	payments map[string][]*model.ClientPayment
	clients  map[string][]*model.Client
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		shifts:   make(map[string][]*model.Shift),
		trips:    make(map[string][]*model.Trip),
		payments: make(map[string][]*model.ClientPayment),
		clients:  make(map[string][]*model.Client),
	}
}

func (f *fakeSource) ShiftsForDate(_ context.Context, date time.Time) ([]*model.Shift, error) {
	return f.shifts[date.Format("2006-01-02")], nil
}

func (f *fakeSource) TripsForDate(_ context.Context, date time.Time) ([]*model.Trip, error) {
	return f.trips[date.Format("2006-01-02")], nil
}

func (f *fakeSource) PaymentsForDate(_ context.Context, date time.Time) ([]*model.ClientPayment, error) {
	return f.payments[date.Format("2006-01-02")], nil
}

func (f *fakeSource) ClientsByName(_ context.Context, name string) ([]*model.Client, error) {
	return f.clients[normalizeName(name)], nil
}

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func testDriver(name string) *model.Driver {
	return &model.Driver{ID: uuid.New(), Name: name, Logged: true, Active: true}
}

func testVehicle(name string) *model.Vehicle {
	return &model.Vehicle{ID: uuid.New(), Name: name, Active: true}
}

func testShift(driver *model.Driver, vehicle *model.Vehicle, startMiles, startTime, endMiles, endTime string) *model.Shift {
	return &model.Shift{
		ID:         uuid.New(),
		Date:       testDay,
		DriverID:   &driver.ID,
		VehicleID:  &vehicle.ID,
		Driver:     driver,
		Vehicle:    vehicle,
		StartMiles: startMiles,
		StartTime:  startTime,
		EndMiles:   endMiles,
		EndTime:    endTime,
	}
}

func testTrip(driver *model.Driver, vehicle *model.Vehicle, name, startMiles, startTime, endMiles, endTime string) *model.Trip {
	trip := &model.Trip{
		ID:         uuid.New(),
		Date:       testDay,
		Status:     model.TripStatusNormal,
		Name:       name,
		Passengers: 1,
		StartMiles: startMiles,
		StartTime:  startTime,
		EndMiles:   endMiles,
		EndTime:    endTime,
	}
	if driver != nil {
		trip.DriverID = &driver.ID
		trip.Driver = driver
	}
	if vehicle != nil {
		trip.VehicleID = &vehicle.ID
		trip.Vehicle = vehicle
	}
	return trip
}

func runDay(t *testing.T, src *fakeSource) *Result {
	t.Helper()
	result, err := NewEngine(src).Run(context.Background(), Options{Start: testDay, End: testDay})
	require.NoError(t, err)
	return result
}

func TestRunRejectsInvertedRange(t *testing.T) {
	_, err := NewEngine(newFakeSource()).Run(context.Background(), Options{
		Start: testDay,
		End:   testDay.AddDate(0, 0, -1),
	})
	require.Error(t, err)
}

func TestUnparseableShiftMilesIsNonFatal(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "abc", "8:00 AM", "200", "5:00 PM")

	src := newFakeSource()
	src.shifts[testDay.Format("2006-01-02")] = []*model.Shift{shift}

	result := runDay(t, src)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrShiftParse, result.Errors[0].Code)
	require.NotNil(t, result.Errors[0].ShiftID)
	assert.Equal(t, shift.ID, *result.Errors[0].ShiftID)

	// The shift still aggregates, with the unreadable field read as zero.
	require.Len(t, result.Vehicles, 1)
	assert.Equal(t, 200.0, result.Vehicles[0].Summary.ServiceMiles)
}

func TestBlankVersusPartialTrip(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM")

	blank := testTrip(driver, vehicle, "Jane Doe", "", "", "", "")
	partial := testTrip(driver, vehicle, "John Smith", "120", "", "", "")
	// Partial data with no assignment is presumed pending entry.
	unassigned := testTrip(nil, nil, "Mo Green", "130", "", "", "")

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{blank, partial, unassigned}

	result := runDay(t, src)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrTripIncomplete, result.Errors[0].Code)
	require.NotNil(t, result.Errors[0].TripID)
	assert.Equal(t, partial.ID, *result.Errors[0].TripID)
}

func TestDeadheadComputation(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM")
	trip := testTrip(driver, vehicle, "Jane Doe", "120", "9:00 AM", "180", "3:00 PM")

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{trip}

	result := runDay(t, src)
	require.Empty(t, result.Errors)
	require.Len(t, result.Vehicles, 1)

	summary := result.Vehicles[0].Summary
	assert.Equal(t, 100.0, summary.ServiceMiles)
	assert.Equal(t, 40.0, summary.DeadheadMiles)
	assert.Equal(t, 140.0, summary.TotalMiles)
	assert.Equal(t, 9.0, summary.ServiceHours)
	assert.Equal(t, 3.0, summary.DeadheadHours)
	assert.Equal(t, 60.0, summary.PassengerMiles)
}

func TestShiftWithoutTripsHasNoDeadhead(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "150", "12:00 PM")

	src := newFakeSource()
	src.shifts[testDay.Format("2006-01-02")] = []*model.Shift{shift}

	result := runDay(t, src)
	require.Len(t, result.Vehicles, 1)

	summary := result.Vehicles[0].Summary
	assert.Equal(t, 50.0, summary.ServiceMiles)
	assert.Equal(t, 0.0, summary.DeadheadMiles)
	assert.Equal(t, 0.0, summary.PassengerMiles)
}

func TestTruncatedMileageExpandsAgainstShift(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "10100", "8:00 AM", "10200", "5:00 PM")
	trip := testTrip(driver, vehicle, "Jane Doe", "25", "9:00 AM", "90", "10:00 AM")

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{trip}

	result := runDay(t, src)
	require.Empty(t, result.Errors)

	require.Len(t, result.Days, 1)
	require.Len(t, result.Days[0].Shifts, 1)
	logs := result.Days[0].Shifts[0].Trips
	require.Len(t, logs, 1)
	assert.Equal(t, 10125.0, logs[0].StartMiles)
	assert.Equal(t, 10190.0, logs[0].EndMiles)
}

func TestTripOutsideShiftBoundsIsFlagged(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM")
	trip := testTrip(driver, vehicle, "Jane Doe", "90", "6:00 AM", "210", "6:00 PM")

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{trip}

	result := runDay(t, src)

	codes := make([]ErrorCode, 0, len(result.Errors))
	for _, entry := range result.Errors {
		codes = append(codes, entry.Code)
	}
	assert.Contains(t, codes, ErrTripMilesOOB)
	assert.Contains(t, codes, ErrTripTimeOOB)
}

func TestTripFallsBackToVehicleOnlyMatch(t *testing.T) {
	shiftDriver := testDriver("Pat Avery")
	tripDriver := testDriver("Sam Ochoa")
	vehicle := testVehicle("Bus 7")
	shift := testShift(shiftDriver, vehicle, "100", "8:00 AM", "200", "5:00 PM")
	trip := testTrip(tripDriver, vehicle, "Jane Doe", "120", "9:00 AM", "150", "10:00 AM")

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{trip}

	result := runDay(t, src)
	require.Empty(t, result.Errors)
	require.Len(t, result.Days[0].Shifts, 1)
	assert.Len(t, result.Days[0].Shifts[0].Trips, 1)
}

func TestNonLoggedDriverTripIsSkipped(t *testing.T) {
	volunteer := &model.Driver{ID: uuid.New(), Name: "Volunteer", Logged: false}
	vehicle := testVehicle("Bus 7")
	shiftDriver := testDriver("Pat Avery")
	shift := testShift(shiftDriver, vehicle, "100", "8:00 AM", "200", "5:00 PM")
	trip := testTrip(volunteer, vehicle, "Jane Doe", "120", "9:00 AM", "150", "10:00 AM")

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{trip}

	result := runDay(t, src)
	require.Empty(t, result.Errors)
	assert.Empty(t, result.Days[0].Shifts[0].Trips)
}

func TestEndToEndSingleDay(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM")

	first := testTrip(driver, vehicle, "Jane Doe", "110", "8:30 AM", "140", "10:00 AM")
	first.FareCents = 250
	first.CollectedCashCents = 250

	second := testTrip(driver, vehicle, "John Smith", "150", "11:00 AM", "190", "1:00 PM")
	second.FareCents = 250
	second.CollectedCheckCents = 250

	blank := testTrip(driver, vehicle, "Jane Doe", "", "", "", "")
	blank.FareCents = 250

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{first, second, blank}

	result := runDay(t, src)

	// The blank trip contributes no errors and no mileage.
	require.Empty(t, result.Errors)
	require.Len(t, result.Vehicles, 1)

	summary := result.Vehicles[0].Summary
	assert.Equal(t, 100.0, summary.ServiceMiles)
	assert.Equal(t, 40.0, summary.DeadheadMiles)
	assert.Equal(t, 70.0, summary.PassengerMiles)
	assert.Equal(t, int64(250), summary.CashCents)
	assert.Equal(t, int64(250), summary.CheckCents)

	// Two distinct names, two riders; the blank trip still counts as a
	// ride for its passenger.
	require.Len(t, result.Riders, 2)
	byName := make(map[string]Rider, 2)
	for _, rider := range result.Riders {
		byName[rider.Name] = rider
	}
	assert.Equal(t, 2, byName["Jane Doe"].TripCount)
	assert.Equal(t, int64(500), byName["Jane Doe"].TotalFaresCents)
	assert.Equal(t, int64(250), byName["Jane Doe"].CollectedCashCents)
	assert.Equal(t, 1, byName["John Smith"].TripCount)

	assert.Len(t, result.MoneyTrips, 2)
}

func TestPaymentsMergeAndOwedClamps(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM")

	trip := testTrip(driver, vehicle, "Jane Doe", "110", "8:30 AM", "140", "10:00 AM")
	trip.FareCents = 500

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{trip}
	src.payments[key] = []*model.ClientPayment{{
		ID:         uuid.New(),
		ClientID:   uuid.New(),
		ClientName: "Jane Doe",
		Date:       testDay,
		CashCents:  700,
	}}

	result := runDay(t, src)

	require.Len(t, result.Riders, 1)
	rider := result.Riders[0]
	assert.Equal(t, int64(500), rider.TotalFaresCents)
	assert.Equal(t, int64(700), rider.PaidCashCents)
	assert.Equal(t, int64(0), rider.TotalOwedCents)
	require.Len(t, result.Payments, 1)
}

func TestClientFlagsBackfilledByName(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM")
	trip := testTrip(driver, vehicle, "Jane Doe", "110", "8:30 AM", "140", "10:00 AM")

	yes, no := true, false
	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{trip}
	src.clients["jane doe"] = []*model.Client{{
		ID:         uuid.New(),
		Name:       "Jane Doe",
		Elderly:    &yes,
		Ambulatory: &no,
	}}

	result := runDay(t, src)

	require.Len(t, result.Riders, 1)
	require.NotNil(t, result.Riders[0].Elderly)
	assert.True(t, *result.Riders[0].Elderly)
	require.NotNil(t, result.Riders[0].Ambulatory)
	assert.False(t, *result.Riders[0].Ambulatory)
	assert.Equal(t, 1, result.Demographics.ElderlyNonAmbulatory)
}

func TestDriverFilter(t *testing.T) {
	keep := testDriver("Pat Avery")
	drop := testDriver("Sam Ochoa")
	busA := testVehicle("Bus 7")
	busB := testVehicle("Bus 9")

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{
		testShift(keep, busA, "100", "8:00 AM", "200", "5:00 PM"),
		testShift(drop, busB, "300", "8:00 AM", "400", "5:00 PM"),
	}
	src.trips[key] = []*model.Trip{
		testTrip(keep, busA, "Jane Doe", "110", "9:00 AM", "150", "10:00 AM"),
		testTrip(drop, busB, "John Smith", "310", "9:00 AM", "350", "10:00 AM"),
	}

	result, err := NewEngine(src).Run(context.Background(), Options{
		Start:    testDay,
		End:      testDay,
		DriverID: &keep.ID,
	})
	require.NoError(t, err)

	require.Len(t, result.Vehicles, 1)
	assert.Equal(t, "Bus 7", result.Vehicles[0].Vehicle.Name)
	require.Len(t, result.Riders, 1)
	assert.Equal(t, "Jane Doe", result.Riders[0].Name)
}

func TestMoneyOnlyFilter(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM")

	paying := testTrip(driver, vehicle, "Jane Doe", "110", "9:00 AM", "150", "10:00 AM")
	paying.CollectedCashCents = 300
	free := testTrip(driver, vehicle, "John Smith", "160", "11:00 AM", "180", "12:00 PM")

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{paying, free}

	result, err := NewEngine(src).Run(context.Background(), Options{
		Start:     testDay,
		End:       testDay,
		MoneyOnly: true,
	})
	require.NoError(t, err)

	require.Len(t, result.Riders, 1)
	assert.Equal(t, "Jane Doe", result.Riders[0].Name)
	require.Len(t, result.MoneyTrips, 1)
}

func TestShiftScopeExcludesOtherShiftsTrips(t *testing.T) {
	morningDriver := testDriver("Pat Avery")
	afternoonDriver := testDriver("Sam Ochoa")
	vehicle := testVehicle("Bus 7")

	morning := testShift(morningDriver, vehicle, "100", "8:00 AM", "150", "12:00 PM")
	afternoon := testShift(afternoonDriver, vehicle, "150", "12:00 PM", "200", "5:00 PM")
	trip := testTrip(afternoonDriver, vehicle, "Jane Doe", "160", "1:00 PM", "190", "2:00 PM")
	trip.CollectedCashCents = 250

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{morning, afternoon}
	src.trips[key] = []*model.Trip{trip}

	result, err := NewEngine(src).Run(context.Background(), Options{
		Start:   testDay,
		End:     testDay,
		ShiftID: &morning.ID,
	})
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	// The afternoon trip belongs to the afternoon shift; scoping to the
	// morning shift must not let the vehicle-only fallback claim it.
	require.Len(t, result.Days, 1)
	require.Len(t, result.Days[0].Shifts, 1)
	assert.Equal(t, morning.ID, result.Days[0].Shifts[0].Shift.ID)
	assert.Empty(t, result.Days[0].Shifts[0].Trips)

	require.Len(t, result.Vehicles, 1)
	assert.Equal(t, 50.0, result.Vehicles[0].Summary.ServiceMiles)
	assert.Equal(t, 0.0, result.Vehicles[0].Summary.PassengerMiles)
	assert.Empty(t, result.Riders)
	assert.Empty(t, result.MoneyTrips)
}

func TestShiftScopeKeepsOwnTrips(t *testing.T) {
	morningDriver := testDriver("Pat Avery")
	afternoonDriver := testDriver("Sam Ochoa")
	vehicle := testVehicle("Bus 7")

	morning := testShift(morningDriver, vehicle, "100", "8:00 AM", "150", "12:00 PM")
	afternoon := testShift(afternoonDriver, vehicle, "150", "12:00 PM", "200", "5:00 PM")
	trip := testTrip(afternoonDriver, vehicle, "Jane Doe", "160", "1:00 PM", "190", "2:00 PM")
	trip.CollectedCashCents = 250

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{morning, afternoon}
	src.trips[key] = []*model.Trip{trip}

	result, err := NewEngine(src).Run(context.Background(), Options{
		Start:   testDay,
		End:     testDay,
		ShiftID: &afternoon.ID,
	})
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	require.Len(t, result.Days[0].Shifts, 1)
	assert.Equal(t, afternoon.ID, result.Days[0].Shifts[0].Shift.ID)
	require.Len(t, result.Days[0].Shifts[0].Trips, 1)

	summary := result.Vehicles[0].Summary
	assert.Equal(t, 50.0, summary.ServiceMiles)
	assert.Equal(t, 20.0, summary.DeadheadMiles)
	assert.Equal(t, 30.0, summary.PassengerMiles)

	require.Len(t, result.Riders, 1)
	assert.Equal(t, "Jane Doe", result.Riders[0].Name)
	assert.Len(t, result.MoneyTrips, 1)
}

func TestMoneyTripWithoutNameIsListed(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	shift := testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM")

	trip := testTrip(driver, vehicle, "", "110", "9:00 AM", "150", "10:00 AM")
	trip.CollectedCashCents = 300

	key := testDay.Format("2006-01-02")
	src := newFakeSource()
	src.shifts[key] = []*model.Shift{shift}
	src.trips[key] = []*model.Trip{trip}

	result := runDay(t, src)

	// Cash was collected even though the passenger name was left blank:
	// the money must not vanish from the money-trip list.
	require.Len(t, result.MoneyTrips, 1)
	assert.Equal(t, int64(300), result.MoneyTrips[0].CashCents)
	assert.Empty(t, result.MoneyTrips[0].Name)
	assert.Empty(t, result.Riders)
}

func TestMultiDayAggregation(t *testing.T) {
	driver := testDriver("Pat Avery")
	vehicle := testVehicle("Bus 7")
	dayTwo := testDay.AddDate(0, 0, 1)

	src := newFakeSource()
	src.shifts[testDay.Format("2006-01-02")] = []*model.Shift{
		testShift(driver, vehicle, "100", "8:00 AM", "200", "5:00 PM"),
	}
	shiftTwo := testShift(driver, vehicle, "200", "8:00 AM", "260", "2:00 PM")
	shiftTwo.Date = dayTwo
	src.shifts[dayTwo.Format("2006-01-02")] = []*model.Shift{shiftTwo}

	result, err := NewEngine(src).Run(context.Background(), Options{Start: testDay, End: dayTwo})
	require.NoError(t, err)

	require.Len(t, result.Vehicles, 1)
	assert.Equal(t, 160.0, result.Vehicles[0].Summary.ServiceMiles)
	assert.Equal(t, 15.0, result.Vehicles[0].Summary.ServiceHours)
	assert.Equal(t, result.Vehicles[0].Summary, result.AllVehicles)
	require.Len(t, result.Days, 2)
}
