package report

import "strings"

// Summary is one accumulated slice of the report: a vehicle over a day, a
// driver over the whole range, the fleet over everything. Summaries are
// value objects combined with Add, which is associative and commutative so
// daily pieces can be reduced in any order.
type Summary struct {
	ServiceMiles  float64 `json:"service_miles"`
	ServiceHours  float64 `json:"service_hours"`
	DeadheadMiles float64 `json:"deadhead_miles"`
	DeadheadHours float64 `json:"deadhead_hours"`
	TotalMiles    float64 `json:"total_miles"`
	TotalHours    float64 `json:"total_hours"`

	// PassengerMiles is PMT: the sum of trip-level distance.
	PassengerMiles float64 `json:"passenger_miles"`
	Fuel           float64 `json:"fuel"`

	TripCounts map[string]int `json:"trip_counts"`

	CashCents  int64 `json:"cash_cents"`
	CheckCents int64 `json:"check_cents"`
}

// Add combines two summaries into a new one. Neither receiver nor argument
// is modified; the trip-count map is copied, never shared.
func (s Summary) Add(o Summary) Summary {
	out := Summary{
		ServiceMiles:   s.ServiceMiles + o.ServiceMiles,
		ServiceHours:   s.ServiceHours + o.ServiceHours,
		DeadheadMiles:  s.DeadheadMiles + o.DeadheadMiles,
		DeadheadHours:  s.DeadheadHours + o.DeadheadHours,
		TotalMiles:     s.TotalMiles + o.TotalMiles,
		TotalHours:     s.TotalHours + o.TotalHours,
		PassengerMiles: s.PassengerMiles + o.PassengerMiles,
		Fuel:           s.Fuel + o.Fuel,
		CashCents:      s.CashCents + o.CashCents,
		CheckCents:     s.CheckCents + o.CheckCents,
	}
	if len(s.TripCounts) > 0 || len(o.TripCounts) > 0 {
		out.TripCounts = make(map[string]int, len(s.TripCounts)+len(o.TripCounts))
		for name, count := range s.TripCounts {
			out.TripCounts[name] += count
		}
		for name, count := range o.TripCounts {
			out.TripCounts[name] += count
		}
	}
	return out
}

// Rider is one distinct passenger name seen across the range. Drivers
// collect money on the road (CollectedCash/Check); the office records
// independent payments (PaidCash/Check). TotalOwed is fares minus every
// kind of payment, never negative.
type Rider struct {
	Name       string `json:"name"`
	TripCount  int    `json:"trip_count"`
	Elderly    *bool  `json:"elderly"`
	Ambulatory *bool  `json:"ambulatory"`
	Staff      bool   `json:"staff"`

	CollectedCashCents  int64 `json:"collected_cash_cents"`
	CollectedCheckCents int64 `json:"collected_check_cents"`
	PaidCashCents       int64 `json:"paid_cash_cents"`
	PaidCheckCents      int64 `json:"paid_check_cents"`
	TotalFaresCents     int64 `json:"total_fares_cents"`
	TotalOwedCents      int64 `json:"total_owed_cents"`
}

// riderRegistry joins trips and payments by passenger name. The join is
// intentionally name-based rather than client-ID-based, because many trips
// carry passengers who were never registered as clients; the price is that
// two different people sharing a name are counted as one rider.
type riderRegistry struct {
	byName map[string]*Rider
	order  []string
}

func newRiderRegistry() *riderRegistry {
	return &riderRegistry{byName: make(map[string]*Rider)}
}

// normalizeName folds case and collapses runs of whitespace so "Jane  Doe"
// and "jane doe" land on the same rider.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// lookup returns the rider for a name, creating it on first sight. The
// second return is true when the rider was just created.
func (r *riderRegistry) lookup(name string) (*Rider, bool) {
	key := normalizeName(name)
	if rider, ok := r.byName[key]; ok {
		return rider, false
	}
	rider := &Rider{Name: strings.Join(strings.Fields(name), " ")}
	r.byName[key] = rider
	r.order = append(r.order, key)
	return rider, true
}

// riders returns all riders in first-seen order with TotalOwed settled.
func (r *riderRegistry) riders() []Rider {
	out := make([]Rider, 0, len(r.order))
	for _, key := range r.order {
		rider := *r.byName[key]
		payments := rider.CollectedCashCents + rider.CollectedCheckCents +
			rider.PaidCashCents + rider.PaidCheckCents
		owed := rider.TotalFaresCents - payments
		if owed < 0 {
			owed = 0
		}
		rider.TotalOwedCents = owed
		out = append(out, rider)
	}
	return out
}

// Demographics buckets riders by the elderly/ambulatory combination.
// Riders missing either flag fall into Unknown; staff riders are kept out
// of the passenger buckets entirely.
type Demographics struct {
	ElderlyAmbulatory       int `json:"elderly_ambulatory"`
	ElderlyNonAmbulatory    int `json:"elderly_nonambulatory"`
	NonElderlyAmbulatory    int `json:"nonelderly_ambulatory"`
	NonElderlyNonAmbulatory int `json:"nonelderly_nonambulatory"`
	Unknown                 int `json:"unknown"`
	Staff                   int `json:"staff"`
}

func (d *Demographics) count(rider Rider) {
	if rider.Staff {
		d.Staff++
		return
	}
	switch {
	case rider.Elderly == nil || rider.Ambulatory == nil:
		d.Unknown++
	case *rider.Elderly && *rider.Ambulatory:
		d.ElderlyAmbulatory++
	case *rider.Elderly:
		d.ElderlyNonAmbulatory++
	case *rider.Ambulatory:
		d.NonElderlyAmbulatory++
	default:
		d.NonElderlyNonAmbulatory++
	}
}
