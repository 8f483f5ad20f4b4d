package scheduler

import "reservation-controller/models"

// Ledger tracks the number of people committed to each hour in
// [minHour, maxHour]. It is not safe for concurrent use; callers hold the
// controller lock.
type Ledger struct {
	minHour  int
	maxHour  int
	capacity int
	people   []int
}

// NewLedger returns an empty ledger over [minHour, maxHour].
func NewLedger(minHour, maxHour, capacity int) *Ledger {
	return &Ledger{
		minHour:  minHour,
		maxHour:  maxHour,
		capacity: capacity,
		people:   make([]int, maxHour-minHour+1),
	}
}

// Fits reports whether a block of people starting at hour stays inside the
// hour range and under capacity for every hour it covers.
func (l *Ledger) Fits(hour, people int) bool {
	last := hour + models.BlockHours - 1
	if hour < l.minHour || last > l.maxHour {
		return false
	}
	for h := hour; h <= last; h++ {
		if l.people[h-l.minHour]+people > l.capacity {
			return false
		}
	}
	return true
}

// Commit adds people to every hour of the block starting at hour.
// The caller must have checked Fits first.
func (l *Ledger) Commit(hour, people int) {
	for h := hour; h < hour+models.BlockHours; h++ {
		l.people[h-l.minHour] += people
	}
}

// Occupancy returns the people committed to hour, or 0 outside the range.
func (l *Ledger) Occupancy(hour int) int {
	if hour < l.minHour || hour > l.maxHour {
		return 0
	}
	return l.people[hour-l.minHour]
}

// Snapshot copies the ledger into an hour-keyed map.
func (l *Ledger) Snapshot() map[int]int {
	out := make(map[int]int, len(l.people))
	for i, p := range l.people {
		out[l.minHour+i] = p
	}
	return out
}

func (l *Ledger) Capacity() int { return l.capacity }
func (l *Ledger) MinHour() int  { return l.minHour }
func (l *Ledger) MaxHour() int  { return l.maxHour }
