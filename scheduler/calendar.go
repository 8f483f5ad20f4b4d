package scheduler

import "reservation-controller/models"

// Calendar records, per hour, the reservations that enter and leave.
// It is only read for reporting, never for admission decisions.
type Calendar struct {
	enters map[int][]models.Reservation
	exits  map[int][]models.Reservation
	all    []models.Reservation
}

func NewCalendar() *Calendar {
	return &Calendar{
		enters: make(map[int][]models.Reservation),
		exits:  make(map[int][]models.Reservation),
	}
}

// Add appends r to the enter list of its start hour and the exit list of its
// end hour.
func (c *Calendar) Add(r models.Reservation) {
	c.enters[r.Start] = append(c.enters[r.Start], r)
	c.exits[r.End] = append(c.exits[r.End], r)
	c.all = append(c.all, r)
}

// Transitions returns copies of the exit and enter lists for hour, in
// admission order.
func (c *Calendar) Transitions(hour int) (exits, enters []models.Reservation) {
	return clone(c.exits[hour]), clone(c.enters[hour])
}

// Reservations returns every admitted reservation in admission order.
func (c *Calendar) Reservations() []models.Reservation {
	return clone(c.all)
}

func clone(in []models.Reservation) []models.Reservation {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Reservation, len(in))
	copy(out, in)
	return out
}
