package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryAddAssociative(t *testing.T) {
	a := Summary{
		ServiceMiles: 10, ServiceHours: 1, DeadheadMiles: 2, PassengerMiles: 8,
		Fuel: 3, CashCents: 150, CheckCents: 0,
		TripCounts: map[string]int{"medical": 1, "shopping": 2},
	}
	b := Summary{
		ServiceMiles: 20, ServiceHours: 2, DeadheadHours: 0.5, PassengerMiles: 15,
		Fuel: 0, CashCents: 0, CheckCents: 500,
		TripCounts: map[string]int{"medical": 3},
	}
	c := Summary{
		ServiceMiles: 5, TotalMiles: 5, CashCents: 25,
		TripCounts: map[string]int{"shopping": 1},
	}

	left := a.Add(b).Add(c)
	right := a.Add(b.Add(c))
	assert.Equal(t, left, right)

	// Commutativity, so daily pieces can be reduced in any order.
	assert.Equal(t, a.Add(b), b.Add(a))
}

func TestSummaryAddDoesNotShareMaps(t *testing.T) {
	a := Summary{TripCounts: map[string]int{"medical": 1}}
	b := Summary{TripCounts: map[string]int{"medical": 1}}

	sum := a.Add(b)
	sum.TripCounts["medical"] = 99

	assert.Equal(t, 1, a.TripCounts["medical"])
	assert.Equal(t, 1, b.TripCounts["medical"])
}

func TestRiderOwedClamped(t *testing.T) {
	reg := newRiderRegistry()
	rider, created := reg.lookup("Jane Doe")
	require.True(t, created)
	rider.TotalFaresCents = 500
	rider.PaidCashCents = 700

	riders := reg.riders()
	require.Len(t, riders, 1)
	assert.Equal(t, int64(0), riders[0].TotalOwedCents)
}

func TestRiderOwedBalance(t *testing.T) {
	reg := newRiderRegistry()
	rider, _ := reg.lookup("John Smith")
	rider.TotalFaresCents = 1000
	rider.CollectedCashCents = 250
	rider.PaidCheckCents = 250

	riders := reg.riders()
	require.Len(t, riders, 1)
	assert.Equal(t, int64(500), riders[0].TotalOwedCents)
}

func TestRiderRegistryNormalizesNames(t *testing.T) {
	reg := newRiderRegistry()
	first, created := reg.lookup("Jane  Doe")
	require.True(t, created)

	second, created := reg.lookup("jane doe")
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, "Jane Doe", first.Name)
}

func TestDemographicsBuckets(t *testing.T) {
	yes, no := true, false

	var d Demographics
	d.count(Rider{Elderly: &yes, Ambulatory: &yes})
	d.count(Rider{Elderly: &yes, Ambulatory: &no})
	d.count(Rider{Elderly: &no, Ambulatory: &yes})
	d.count(Rider{Elderly: &no, Ambulatory: &no})
	d.count(Rider{Elderly: &yes})
	d.count(Rider{})
	d.count(Rider{Elderly: &yes, Ambulatory: &yes, Staff: true})

	assert.Equal(t, 1, d.ElderlyAmbulatory)
	assert.Equal(t, 1, d.ElderlyNonAmbulatory)
	assert.Equal(t, 1, d.NonElderlyAmbulatory)
	assert.Equal(t, 1, d.NonElderlyNonAmbulatory)
	assert.Equal(t, 2, d.Unknown)
	assert.Equal(t, 1, d.Staff)
}
