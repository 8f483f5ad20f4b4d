package scheduler

import "reservation-controller/models"

// DenyReason explains a denied request. It is empty for admitted ones.
type DenyReason string

const (
	ReasonInvalidParameters DenyReason = "invalid_parameters"
	ReasonNoCapacity        DenyReason = "no_capacity"
	ReasonNoCapacityLate    DenyReason = "no_capacity_late"
)

// Request is a reservation request as seen by the scheduler.
type Request struct {
	Family string
	Hour   int
	People int
}

// Decision is the result of Admit.
type Decision struct {
	Response       models.Response
	Reason         DenyReason
	Extemporaneous bool
	// Reservation is set when the request was committed.
	Reservation *models.Reservation
}

// Scheduler owns the ledger, the calendar and the counters of one run.
// It is not safe for concurrent use.
type Scheduler struct {
	ledger   *Ledger
	calendar *Calendar
	counters models.Counters
}

// New returns a scheduler over [minHour, maxHour] with capacity people per hour.
func New(minHour, maxHour, capacity int) *Scheduler {
	return &Scheduler{
		ledger:   NewLedger(minHour, maxHour, capacity),
		calendar: NewCalendar(),
	}
}

// Admit decides a request at currentHour and commits it when possible.
//
// Invalid parameters are denied outright. A request for the present or future
// is taken at its own hour when that block fits; otherwise, and always for
// extemporaneous requests, the earliest block starting at or after
// currentHour that fits is taken. The search may re-check the requested hour.
func (s *Scheduler) Admit(req Request, currentHour int) Decision {
	if !s.validParameters(req) {
		s.counters.Denied++
		return Decision{
			Response: denied(models.OutcomeDenied, req.Family),
			Reason:   ReasonInvalidParameters,
		}
	}

	late := req.Hour < currentHour

	if !late && s.ledger.Fits(req.Hour, req.People) {
		r := s.commit(req, req.Hour)
		s.counters.AcceptedExact++
		return Decision{
			Response:    respond(models.OutcomeAccepted, r),
			Reservation: &r,
		}
	}

	if start, ok := s.EarliestFit(req.People, currentHour); ok {
		r := s.commit(req, start)
		s.counters.Rescheduled++
		return Decision{
			Response:       respond(models.OutcomeRescheduled, r),
			Extemporaneous: late,
			Reservation:    &r,
		}
	}

	s.counters.Denied++
	if late {
		return Decision{
			Response:       denied(models.OutcomeDeniedLate, req.Family),
			Reason:         ReasonNoCapacityLate,
			Extemporaneous: true,
		}
	}
	return Decision{
		Response: denied(models.OutcomeDenied, req.Family),
		Reason:   ReasonNoCapacity,
	}
}

// EarliestFit scans start hours from currentHour up to maxHour-1 and returns
// the first one whose block fits.
func (s *Scheduler) EarliestFit(people, currentHour int) (int, bool) {
	for h := max(currentHour, s.ledger.MinHour()); h <= s.ledger.MaxHour()-1; h++ {
		if s.ledger.Fits(h, people) {
			return h, true
		}
	}
	return 0, false
}

func (s *Scheduler) validParameters(req Request) bool {
	if req.People <= 0 || req.People > s.ledger.Capacity() {
		return false
	}
	// The block's last hour must also fall inside the range.
	return req.Hour >= s.ledger.MinHour() && req.Hour+models.BlockHours-1 <= s.ledger.MaxHour()
}

func (s *Scheduler) commit(req Request, start int) models.Reservation {
	r := models.NewReservation(req.Family, req.People, start)
	s.ledger.Commit(start, req.People)
	s.calendar.Add(r)
	return r
}

// Transitions returns the exit and enter lists of hour.
func (s *Scheduler) Transitions(hour int) (exits, enters []models.Reservation) {
	return s.calendar.Transitions(hour)
}

// Occupancy returns the people committed to hour.
func (s *Scheduler) Occupancy(hour int) int {
	return s.ledger.Occupancy(hour)
}

// Reservations returns all admitted reservations in admission order.
func (s *Scheduler) Reservations() []models.Reservation {
	return s.calendar.Reservations()
}

// Stats snapshots occupancy and counters for the final report.
func (s *Scheduler) Stats() models.Stats {
	return models.Stats{
		MinHour:   s.ledger.MinHour(),
		MaxHour:   s.ledger.MaxHour(),
		Capacity:  s.ledger.Capacity(),
		Occupancy: s.ledger.Snapshot(),
		Counters:  s.counters,
	}
}

// Counters returns the current admission counters.
func (s *Scheduler) Counters() models.Counters {
	return s.counters
}

func respond(outcome models.Outcome, r models.Reservation) models.Response {
	return models.Response{Outcome: outcome, Family: r.Family, Start: r.Start, End: r.End}
}

func denied(outcome models.Outcome, family string) models.Response {
	return models.Response{Outcome: outcome, Family: family}
}
