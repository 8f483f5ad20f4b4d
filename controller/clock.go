package controller

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"reservation-controller/formatter"
	"reservation-controller/models"
)

// Clock advances the simulated hour once per period until it reaches the
// state's maxHour, then terminates the state. It cannot be stopped early.
type Clock struct {
	state  *State
	period time.Duration
	out    io.Writer

	// Sleep waits between ticks. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// NewClock returns a clock that prints each hour's transitions to out.
func NewClock(state *State, period time.Duration, out io.Writer) *Clock {
	return &Clock{
		state:  state,
		period: period,
		out:    out,
		Sleep:  time.Sleep,
	}
}

// Run ticks until the last hour, then marks the simulation terminated.
// The lock is never held while sleeping.
func (c *Clock) Run() {
	for c.state.CurrentHour() < c.state.MaxHour() {
		c.Sleep(c.period)
		hour, _ := c.state.Advance(c.report)
		slog.Debug("Clock tick", "hour", hour)
	}
	c.state.Terminate()
	slog.Info("Simulation clock finished", "hour", c.state.CurrentHour())
}

func (c *Clock) report(hour int, exits, enters []models.Reservation) {
	fmt.Fprint(c.out, formatter.FormatHour(hour, exits, enters))
}
