package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dialaride/reports-service/internal/model"
)

// DataSource is the read-only view of the domain the engine needs. The
// engine never writes anything; a half-written day read during concurrent
// edits yields a degraded report, not a failure.
type DataSource interface {
	ShiftsForDate(ctx context.Context, date time.Time) ([]*model.Shift, error)
	// TripsForDate returns only trips with normal status that are not
	// activity entries.
	TripsForDate(ctx context.Context, date time.Time) ([]*model.Trip, error)
	PaymentsForDate(ctx context.Context, date time.Time) ([]*model.ClientPayment, error)
	ClientsByName(ctx context.Context, name string) ([]*model.Client, error)
}

// Options select what one report invocation covers. Start and End are an
// inclusive date range; the remaining fields narrow the report.
type Options struct {
	Start time.Time
	End   time.Time

	// DriverID restricts shifts and trips to one driver.
	DriverID *uuid.UUID
	// ClientName restricts rider and fare tracking to one passenger name.
	ClientName string
	// MoneyOnly restricts rider and fare tracking to trips where the
	// driver collected money.
	MoneyOnly bool
	// ShiftID scopes the whole report to a single shift, for the daily
	// log print view.
	ShiftID *uuid.UUID
}

// VehicleTotal and DriverTotal pair a range-long summary with the entity it
// belongs to. Accumulation is keyed by entity ID internally; the entity is
// only carried for display.
type VehicleTotal struct {
	Vehicle model.Vehicle `json:"vehicle"`
	Summary Summary       `json:"summary"`
}

type DriverTotal struct {
	Driver  model.Driver `json:"driver"`
	Summary Summary      `json:"summary"`
}

// MoneyTrip is one trip on which the driver collected cash or a check.
type MoneyTrip struct {
	Date       time.Time `json:"date"`
	Name       string    `json:"name"`
	CashCents  int64     `json:"cash_cents"`
	CheckCents int64     `json:"check_cents"`
	TripID     uuid.UUID `json:"trip_id"`
}

// PaymentEntry is one office-recorded client payment inside the range.
type PaymentEntry struct {
	Date       time.Time `json:"date"`
	Name       string    `json:"name"`
	CashCents  int64     `json:"cash_cents"`
	CheckCents int64     `json:"check_cents"`
}

// DayLog keeps one day's reconciled shifts for callers that render the
// detail view, such as the daily log sheet.
type DayLog struct {
	Date   time.Time
	Shifts []*ShiftLog
}

// Result is the fully materialized report for one invocation.
type Result struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Vehicles    []VehicleTotal `json:"vehicles"`
	Drivers     []DriverTotal  `json:"drivers"`
	AllVehicles Summary        `json:"all_vehicles"`

	Riders       []Rider        `json:"riders"`
	Demographics Demographics   `json:"demographics"`
	MoneyTrips   []MoneyTrip    `json:"money_trips"`
	Payments     []PaymentEntry `json:"payments"`

	Days []DayLog `json:"-"`

	Errors []LogError `json:"errors"`
}

// Engine reconciles raw shift and trip logs over a date range. One Engine
// is safe for concurrent use; all mutable state lives inside Run.
type Engine struct {
	src DataSource
}

func NewEngine(src DataSource) *Engine {
	return &Engine{src: src}
}

// Run produces a report for the inclusive range in opts. The only errors
// returned are bad ranges and DataSource failures; bad log data comes back
// inside Result.Errors instead.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	start := dateOnly(opts.Start)
	end := dateOnly(opts.End)
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("report: start and end dates are required")
	}
	if start.After(end) {
		return nil, fmt.Errorf("report: start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	run := &reportRun{
		engine:   e,
		opts:     opts,
		errs:     &errorList{},
		riders:   newRiderRegistry(),
		vehicles: make(map[uuid.UUID]*vehicleAcc),
		drivers:  make(map[uuid.UUID]*driverAcc),
	}

	result := &Result{Start: start, End: end}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := run.processDay(ctx, day, result); err != nil {
			return nil, err
		}
	}

	run.finish(result)
	return result, nil
}

type vehicleAcc struct {
	vehicle model.Vehicle
	summary Summary
}

type driverAcc struct {
	driver  model.Driver
	summary Summary
}

type reportRun struct {
	engine *Engine
	opts   Options
	errs   *errorList
	riders *riderRegistry

	vehicles map[uuid.UUID]*vehicleAcc
	drivers  map[uuid.UUID]*driverAcc
	all      Summary
}

func (r *reportRun) processDay(ctx context.Context, day time.Time, result *Result) error {
	rawShifts, err := r.engine.src.ShiftsForDate(ctx, day)
	if err != nil {
		return fmt.Errorf("report: load shifts for %s: %w", day.Format("2006-01-02"), err)
	}
	rawTrips, err := r.engine.src.TripsForDate(ctx, day)
	if err != nil {
		return fmt.Errorf("report: load trips for %s: %w", day.Format("2006-01-02"), err)
	}
	rawShifts = r.filterShifts(rawShifts)
	rawTrips = r.filterTrips(rawTrips)

	// Reconstruction and matching always run over the whole day, even when
	// the report is scoped to one shift: trips must attach to their true
	// shift first, or a vehicle's other shifts would donate their trips to
	// the scoped one through the vehicle-only fallback.
	errMark := r.errs.mark()
	shifts := reconstructShifts(day, rawShifts, r.errs)
	matchTrips(day, rawTrips, shifts, r.errs)

	riderTrips := rawTrips
	if r.opts.ShiftID != nil {
		shifts = scopeShifts(shifts, *r.opts.ShiftID)
		riderTrips = attachedTrips(shifts)
		r.errs.scopeTo(errMark, *r.opts.ShiftID, tripIDSet(riderTrips))
	}

	for _, shift := range shifts {
		r.aggregateShift(shift)
	}
	for _, trip := range riderTrips {
		r.trackRider(ctx, day, trip, result)
	}

	// Office payments belong to the range report; a single-shift sheet has
	// no use for them.
	if r.opts.ShiftID == nil {
		payments, err := r.engine.src.PaymentsForDate(ctx, day)
		if err != nil {
			return fmt.Errorf("report: load payments for %s: %w", day.Format("2006-01-02"), err)
		}
		for _, payment := range payments {
			r.trackPayment(ctx, day, payment, result)
		}
	}

	result.Days = append(result.Days, DayLog{Date: day, Shifts: shifts})
	return nil
}

func (r *reportRun) filterShifts(shifts []*model.Shift) []*model.Shift {
	if r.opts.DriverID == nil {
		return shifts
	}
	out := shifts[:0]
	for _, shift := range shifts {
		if shift.DriverID == nil || *shift.DriverID != *r.opts.DriverID {
			continue
		}
		out = append(out, shift)
	}
	return out
}

func scopeShifts(shifts []*ShiftLog, id uuid.UUID) []*ShiftLog {
	out := make([]*ShiftLog, 0, 1)
	for _, shift := range shifts {
		if shift.Shift.ID == id {
			out = append(out, shift)
		}
	}
	return out
}

func attachedTrips(shifts []*ShiftLog) []*model.Trip {
	var out []*model.Trip
	for _, shift := range shifts {
		for _, trip := range shift.Trips {
			out = append(out, trip.Trip)
		}
	}
	return out
}

func tripIDSet(trips []*model.Trip) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(trips))
	for _, trip := range trips {
		set[trip.ID] = struct{}{}
	}
	return set
}

func (r *reportRun) filterTrips(trips []*model.Trip) []*model.Trip {
	if r.opts.DriverID == nil {
		return trips
	}
	out := trips[:0]
	for _, trip := range trips {
		if trip.DriverID == nil || *trip.DriverID != *r.opts.DriverID {
			continue
		}
		out = append(out, trip)
	}
	return out
}

// aggregateShift folds one reconciled shift into the vehicle, driver and
// fleet summaries.
func (r *reportRun) aggregateShift(shift *ShiftLog) {
	first, last := shift.anchors()

	summary := Summary{
		ServiceMiles: shift.EndMiles - shift.StartMiles,
		ServiceHours: shift.EndTime.Sub(shift.StartTime).Hours(),
		DeadheadMiles: (first.StartMiles - shift.StartMiles) +
			(shift.EndMiles - last.EndMiles),
		DeadheadHours: first.StartTime.Sub(shift.StartTime).Hours() +
			shift.EndTime.Sub(last.EndTime).Hours(),
		Fuel: shift.Fuel,
	}
	summary.TotalMiles = summary.ServiceMiles + summary.DeadheadMiles
	summary.TotalHours = summary.ServiceHours + summary.DeadheadHours

	for _, trip := range shift.Trips {
		summary.PassengerMiles += trip.Miles()
		summary.CashCents += trip.Trip.CollectedCashCents
		summary.CheckCents += trip.Trip.CollectedCheckCents
		typeName := "unclassified"
		if trip.Trip.TripType != nil {
			typeName = trip.Trip.TripType.Name
		}
		if summary.TripCounts == nil {
			summary.TripCounts = make(map[string]int)
		}
		summary.TripCounts[typeName]++
	}

	vehicle := shift.Shift.Vehicle
	if acc, ok := r.vehicles[vehicle.ID]; ok {
		acc.summary = acc.summary.Add(summary)
	} else {
		r.vehicles[vehicle.ID] = &vehicleAcc{vehicle: *vehicle, summary: summary}
	}

	driver := shift.Shift.Driver
	if acc, ok := r.drivers[driver.ID]; ok {
		acc.summary = acc.summary.Add(summary)
	} else {
		r.drivers[driver.ID] = &driverAcc{driver: *driver, summary: summary}
	}

	r.all = r.all.Add(summary)
}

// trackRider folds one raw trip into the rider registry. This runs for
// every trip in the range regardless of log completeness or shift match:
// a ride happened whether or not the odometer log was filled in.
func (r *reportRun) trackRider(ctx context.Context, day time.Time, trip *model.Trip, result *Result) {
	if r.opts.ClientName != "" &&
		normalizeName(trip.Name) != normalizeName(r.opts.ClientName) {
		return
	}
	if r.opts.MoneyOnly && !trip.HasMoney() {
		return
	}

	// Every trip that carried money makes the flat list, even when the
	// passenger name was left blank and no rider entry can be built.
	if trip.HasMoney() {
		result.MoneyTrips = append(result.MoneyTrips, MoneyTrip{
			Date:       day,
			Name:       trip.Name,
			CashCents:  trip.CollectedCashCents,
			CheckCents: trip.CollectedCheckCents,
			TripID:     trip.ID,
		})
	}

	if trip.Name == "" {
		return
	}

	rider, created := r.riders.lookup(trip.Name)
	rider.TripCount++
	rider.TotalFaresCents += trip.FareCents
	rider.CollectedCashCents += trip.CollectedCashCents
	rider.CollectedCheckCents += trip.CollectedCheckCents

	if trip.Elderly != nil {
		rider.Elderly = trip.Elderly
	}
	if trip.Ambulatory != nil {
		rider.Ambulatory = trip.Ambulatory
	}
	if created {
		r.backfillFlags(ctx, rider)
	}
}

// trackPayment merges an office-recorded payment into the rider registry by
// name. Advance payments for riders with no trips in the range still create
// a rider entry so the owed balance comes out right.
func (r *reportRun) trackPayment(ctx context.Context, day time.Time, payment *model.ClientPayment, result *Result) {
	if payment.ClientName == "" {
		return
	}
	if r.opts.ClientName != "" &&
		normalizeName(payment.ClientName) != normalizeName(r.opts.ClientName) {
		return
	}

	rider, created := r.riders.lookup(payment.ClientName)
	rider.PaidCashCents += payment.CashCents
	rider.PaidCheckCents += payment.CheckCents
	if created {
		r.backfillFlags(ctx, rider)
	}

	result.Payments = append(result.Payments, PaymentEntry{
		Date:       day,
		Name:       payment.ClientName,
		CashCents:  payment.CashCents,
		CheckCents: payment.CheckCents,
	})
}

// backfillFlags fills a rider's demographic flags from the first registered
// client sharing the name. Lookup failures are ignored: an unregistered
// passenger is a normal case, and demographics simply stay unknown.
func (r *reportRun) backfillFlags(ctx context.Context, rider *Rider) {
	clients, err := r.engine.src.ClientsByName(ctx, rider.Name)
	if err != nil || len(clients) == 0 {
		return
	}
	client := clients[0]
	if rider.Elderly == nil {
		rider.Elderly = client.Elderly
	}
	if rider.Ambulatory == nil {
		rider.Ambulatory = client.Ambulatory
	}
	rider.Staff = client.Staff
}

// finish settles rider balances, buckets demographics and orders the
// per-entity totals for display.
func (r *reportRun) finish(result *Result) {
	result.Riders = r.riders.riders()
	for _, rider := range result.Riders {
		result.Demographics.count(rider)
	}

	result.Vehicles = make([]VehicleTotal, 0, len(r.vehicles))
	for _, acc := range r.vehicles {
		result.Vehicles = append(result.Vehicles, VehicleTotal{Vehicle: acc.vehicle, Summary: acc.summary})
	}
	sort.Slice(result.Vehicles, func(i, j int) bool {
		return result.Vehicles[i].Vehicle.Name < result.Vehicles[j].Vehicle.Name
	})

	result.Drivers = make([]DriverTotal, 0, len(r.drivers))
	for _, acc := range r.drivers {
		result.Drivers = append(result.Drivers, DriverTotal{Driver: acc.driver, Summary: acc.summary})
	}
	sort.Slice(result.Drivers, func(i, j int) bool {
		return result.Drivers[i].Driver.Name < result.Drivers[j].Driver.Name
	})

	result.AllVehicles = r.all
	result.Errors = r.errs.entries
	if result.Errors == nil {
		result.Errors = []LogError{}
	}
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
