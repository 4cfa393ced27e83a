package model

import "github.com/google/uuid"

// Driver is a person who drives shifts. Volunteer drivers who operate
// outside the mileage-tracked fleet carry Logged=false and their trips are
// excluded from odometer reconciliation.
type Driver struct {
	ID     uuid.UUID
	Name   string
	Logged bool
	Active bool
}

type Vehicle struct {
	ID     uuid.UUID
	Name   string
	Active bool
}

type TripType struct {
	ID   uuid.UUID
	Name string
}
