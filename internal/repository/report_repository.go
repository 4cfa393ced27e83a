package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dialaride/reports-service/internal/model"
)

// ReportRepository provides the read-only record access the report engine
// consumes. Queries load each day's records with their driver, vehicle and
// trip-type references already resolved so the engine never goes back to
// the database per record.
type ReportRepository struct {
	db           *gorm.DB
	tripStatuses []string
}

func NewReportRepository(db *gorm.DB, tripStatuses []string) *ReportRepository {
	if len(tripStatuses) == 0 {
		tripStatuses = []string{string(model.TripStatusNormal)}
	}
	return &ReportRepository{db: db, tripStatuses: tripStatuses}
}

type shiftRow struct {
	ID          uuid.UUID
	Date        time.Time
	DriverID    *uuid.UUID
	VehicleID   *uuid.UUID
	StartMiles  string
	StartTime   string
	EndMiles    string
	EndTime     string
	Fuel        string
	Note        string
	DriverName  *string
	IsLogged    *bool
	VehicleName *string
}

func (r *ReportRepository) ShiftsForDate(ctx context.Context, date time.Time) ([]*model.Shift, error) {
	var rows []shiftRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.date,
			s.driver_id,
			s.vehicle_id,
			s.start_miles,
			s.start_time,
			s.end_miles,
			s.end_time,
			s.fuel,
			s.note,
			d.name AS driver_name,
			d.is_logged,
			v.name AS vehicle_name
		FROM shifts s
		LEFT JOIN drivers d ON d.id = s.driver_id
		LEFT JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.date = ?
		ORDER BY s.start_time ASC, s.id ASC
	`, date.Format("2006-01-02")).Scan(&rows).Error; err != nil {
		return nil, err
	}

	shifts := make([]*model.Shift, 0, len(rows))
	for _, row := range rows {
		shift := &model.Shift{
			ID:         row.ID,
			Date:       row.Date,
			DriverID:   row.DriverID,
			VehicleID:  row.VehicleID,
			StartMiles: row.StartMiles,
			StartTime:  row.StartTime,
			EndMiles:   row.EndMiles,
			EndTime:    row.EndTime,
			Fuel:       row.Fuel,
			Note:       row.Note,
		}
		if row.DriverID != nil && row.DriverName != nil {
			logged := row.IsLogged == nil || *row.IsLogged
			shift.Driver = &model.Driver{ID: *row.DriverID, Name: *row.DriverName, Logged: logged}
		}
		if row.VehicleID != nil && row.VehicleName != nil {
			shift.Vehicle = &model.Vehicle{ID: *row.VehicleID, Name: *row.VehicleName}
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

type tripRow struct {
	ID                  uuid.UUID
	Date                time.Time
	DriverID            *uuid.UUID
	VehicleID           *uuid.UUID
	TripTypeID          *uuid.UUID
	Status              string
	Name                string
	Address             string
	Destination         string
	Passengers          int
	Elderly             *bool
	Ambulatory          *bool
	StartMiles          string
	StartTime           string
	EndMiles            string
	EndTime             string
	FareCents           int64
	CollectedCashCents  int64
	CollectedCheckCents int64
	DriverName          *string
	IsLogged            *bool
	VehicleName         *string
	TripTypeName        *string
}

func (r *ReportRepository) TripsForDate(ctx context.Context, date time.Time) ([]*model.Trip, error) {
	var rows []tripRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			t.id,
			t.date,
			t.driver_id,
			t.vehicle_id,
			t.trip_type_id,
			t.status,
			t.name,
			t.address,
			t.destination,
			t.passengers,
			t.elderly,
			t.ambulatory,
			t.start_miles,
			t.start_time,
			t.end_miles,
			t.end_time,
			t.fare_cents,
			t.collected_cash_cents,
			t.collected_check_cents,
			d.name AS driver_name,
			d.is_logged,
			v.name AS vehicle_name,
			tt.name AS trip_type_name
		FROM trips t
		LEFT JOIN drivers d ON d.id = t.driver_id
		LEFT JOIN vehicles v ON v.id = t.vehicle_id
		LEFT JOIN trip_types tt ON tt.id = t.trip_type_id
		WHERE t.date = ?
			AND t.status IN ?
			AND t.is_activity = FALSE
		ORDER BY t.start_time ASC, t.id ASC
	`, date.Format("2006-01-02"), r.tripStatuses).Scan(&rows).Error; err != nil {
		return nil, err
	}

	trips := make([]*model.Trip, 0, len(rows))
	for _, row := range rows {
		trip := &model.Trip{
			ID:                  row.ID,
			Date:                row.Date,
			DriverID:            row.DriverID,
			VehicleID:           row.VehicleID,
			TripTypeID:          row.TripTypeID,
			Status:              model.TripStatus(row.Status),
			Name:                row.Name,
			Address:             row.Address,
			Destination:         row.Destination,
			Passengers:          row.Passengers,
			Elderly:             row.Elderly,
			Ambulatory:          row.Ambulatory,
			StartMiles:          row.StartMiles,
			StartTime:           row.StartTime,
			EndMiles:            row.EndMiles,
			EndTime:             row.EndTime,
			FareCents:           row.FareCents,
			CollectedCashCents:  row.CollectedCashCents,
			CollectedCheckCents: row.CollectedCheckCents,
		}
		if row.DriverID != nil && row.DriverName != nil {
			logged := row.IsLogged == nil || *row.IsLogged
			trip.Driver = &model.Driver{ID: *row.DriverID, Name: *row.DriverName, Logged: logged}
		}
		if row.VehicleID != nil && row.VehicleName != nil {
			trip.Vehicle = &model.Vehicle{ID: *row.VehicleID, Name: *row.VehicleName}
		}
		if row.TripTypeID != nil && row.TripTypeName != nil {
			trip.TripType = &model.TripType{ID: *row.TripTypeID, Name: *row.TripTypeName}
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

type paymentRow struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	Date       time.Time
	CashCents  int64
	CheckCents int64
	ClientName string
}

func (r *ReportRepository) PaymentsForDate(ctx context.Context, date time.Time) ([]*model.ClientPayment, error) {
	var rows []paymentRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.client_id,
			p.date,
			p.cash_cents,
			p.check_cents,
			c.name AS client_name
		FROM client_payments p
		JOIN clients c ON c.id = p.client_id
		WHERE p.date = ?
		ORDER BY p.id ASC
	`, date.Format("2006-01-02")).Scan(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]*model.ClientPayment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, &model.ClientPayment{
			ID:         row.ID,
			ClientID:   row.ClientID,
			ClientName: row.ClientName,
			Date:       row.Date,
			CashCents:  row.CashCents,
			CheckCents: row.CheckCents,
		})
	}
	return payments, nil
}

func (r *ReportRepository) ClientsByName(ctx context.Context, name string) ([]*model.Client, error) {
	var clients []*model.Client
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, address, phone, elderly, ambulatory, is_staff AS staff
		FROM clients
		WHERE LOWER(name) = LOWER(?)
		ORDER BY id ASC
	`, name).Scan(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// DriverByID resolves the driver referenced by a report filter.
func (r *ReportRepository) DriverByID(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	var row struct {
		ID       uuid.UUID
		Name     string
		IsLogged bool
		IsActive bool
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, is_logged, is_active
		FROM drivers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.Driver{ID: row.ID, Name: row.Name, Logged: row.IsLogged, Active: row.IsActive}, nil
}

// ShiftByID resolves the shift named by a daily-log request, mainly to
// learn which date to report over.
func (r *ReportRepository) ShiftByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	var row shiftRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.date,
			s.driver_id,
			s.vehicle_id,
			s.start_miles,
			s.start_time,
			s.end_miles,
			s.end_time,
			s.fuel,
			s.note,
			d.name AS driver_name,
			d.is_logged,
			v.name AS vehicle_name
		FROM shifts s
		LEFT JOIN drivers d ON d.id = s.driver_id
		LEFT JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	shift := &model.Shift{
		ID:         row.ID,
		Date:       row.Date,
		DriverID:   row.DriverID,
		VehicleID:  row.VehicleID,
		StartMiles: row.StartMiles,
		StartTime:  row.StartTime,
		EndMiles:   row.EndMiles,
		EndTime:    row.EndTime,
		Fuel:       row.Fuel,
		Note:       row.Note,
	}
	if row.DriverID != nil && row.DriverName != nil {
		logged := row.IsLogged == nil || *row.IsLogged
		shift.Driver = &model.Driver{ID: *row.DriverID, Name: *row.DriverName, Logged: logged}
	}
	if row.VehicleID != nil && row.VehicleName != nil {
		shift.Vehicle = &model.Vehicle{ID: *row.VehicleID, Name: *row.VehicleName}
	}
	return shift, nil
}
