// Package controller runs the reservation simulation: a shared state guarded
// by one lock, a clock that advances simulated hours, and a dispatcher that
// serves agent messages against that state.
package controller

import (
	"log/slog"
	"sync"
	"time"

	"reservation-controller/metrics"
	"reservation-controller/models"
	"reservation-controller/registry"
	"reservation-controller/scheduler"
)

// HourReporter receives the transitions of an hour right after the clock
// reaches it. It runs with the state lock held and must not block on agents.
type HourReporter func(hour int, exits, enters []models.Reservation)

// State is the single unit of mutable simulation state. Every method takes
// the lock for exactly one logical operation.
type State struct {
	mu sync.Mutex

	sched       *scheduler.Scheduler
	agents      *registry.Registry
	maxHour     int
	currentHour int
	terminated  bool
	done        chan struct{}
}

// NewState returns the state of a run over [minHour, maxHour], starting at
// minHour, with capacity people per hour.
func NewState(minHour, maxHour, capacity int) *State {
	metrics.ResetControllerGauges()
	metrics.CurrentHour.Set(float64(minHour))

	return &State{
		sched:       scheduler.New(minHour, maxHour, capacity),
		agents:      registry.New(),
		maxHour:     maxHour,
		currentHour: minHour,
		done:        make(chan struct{}),
	}
}

// Register records an agent and returns it with the hour to report back.
func (s *State) Register(name, address string) (info models.AgentInfo, created bool, hour int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, created = s.agents.Register(name, address)
	return info, created, s.currentHour
}

// Request decides one reservation request. ok is false when the agent is not
// registered; the request is then ignored and nothing changes.
func (s *State) Request(agentName string, req scheduler.Request) (agent models.AgentInfo, decision scheduler.Decision, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok = s.agents.Lookup(agentName)
	if !ok {
		return models.AgentInfo{}, scheduler.Decision{}, false
	}

	slog.Info("Request received",
		"agent", agentName,
		"family", req.Family,
		"hour", req.Hour,
		"people", req.People,
		"current_hour", s.currentHour,
	)

	start := time.Now()
	decision = s.sched.Admit(req, s.currentHour)
	metrics.DecisionDurationSeconds.Observe(time.Since(start).Seconds())

	if r := decision.Reservation; r != nil {
		for h := r.Start; h < r.End; h++ {
			metrics.SetOccupancy(h, s.sched.Occupancy(h))
		}
	}
	return agent, decision, true
}

// Advance moves the clock forward one hour and reports that hour's
// transitions before releasing the lock. It does nothing once the clock has
// reached maxHour.
func (s *State) Advance(report HourReporter) (hour int, advanced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentHour >= s.maxHour {
		return s.currentHour, false
	}
	s.currentHour++
	metrics.CurrentHour.Set(float64(s.currentHour))

	if report != nil {
		exits, enters := s.sched.Transitions(s.currentHour)
		report(s.currentHour, exits, enters)
	}
	return s.currentHour, true
}

// Terminate marks the simulation as finished and closes Done. Later calls do
// nothing.
func (s *State) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return
	}
	s.terminated = true
	close(s.done)
}

// Terminated reports whether the clock has finished.
func (s *State) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// Done is closed when the simulation terminates.
func (s *State) Done() <-chan struct{} {
	return s.done
}

func (s *State) CurrentHour() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentHour
}

func (s *State) MaxHour() int { return s.maxHour }

// Agents returns every registered agent in registration order.
func (s *State) Agents() []models.AgentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agents.All()
}

// Stats snapshots occupancy and counters.
func (s *State) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Stats()
}

// Reservations returns every admitted reservation in admission order.
func (s *State) Reservations() []models.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Reservations()
}
