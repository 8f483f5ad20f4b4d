package controller

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	customerrors "reservation-controller/errors"
	"reservation-controller/formatter"
	"reservation-controller/metrics"
	"reservation-controller/models"
	"reservation-controller/parser"
	"reservation-controller/scheduler"
	"reservation-controller/transport"
)

// Dispatcher is the single consumer of the inbound stream. It routes
// registrations and requests to the state, replies to the agents and runs the
// shutdown sequence once the clock has finished.
type Dispatcher struct {
	state   *State
	inbound transport.Inbound
	sender  transport.Sender
	out     io.Writer
	format  string
}

// NewDispatcher wires a dispatcher. The final report is written to out in the
// given format (see formatter.FormatReport).
func NewDispatcher(state *State, inbound transport.Inbound, sender transport.Sender, out io.Writer, format string) *Dispatcher {
	return &Dispatcher{
		state:   state,
		inbound: inbound,
		sender:  sender,
		out:     out,
		format:  format,
	}
}

// Run serves messages until the simulation terminates, then drains the lines
// already delivered, sends END to every agent and writes the final report.
// If the inbound stream ends first, Run still waits for the clock.
func (d *Dispatcher) Run() models.Stats {
	d.consume()

	<-d.state.Done()
	d.drain()
	d.broadcastEnd()

	stats := d.state.Stats()
	fmt.Fprint(d.out, formatter.FormatReport(stats, d.format))
	return stats
}

func (d *Dispatcher) consume() {
	lines := d.inbound.Lines()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				slog.Warn("Inbound stream closed, waiting for the clock to finish")
				return
			}
			d.Handle(line)
			if d.state.Terminated() {
				return
			}
		case <-d.state.Done():
			return
		}
	}
}

func (d *Dispatcher) drain() {
	lines := d.inbound.Lines()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			d.Handle(line)
		default:
			return
		}
	}
}

// Handle processes one inbound line. Malformed lines are logged and dropped.
func (d *Dispatcher) Handle(line string) {
	msg, err := parser.Parse(line)
	if err != nil {
		if errors.Is(err, customerrors.ErrEmptyLine) {
			return
		}
		metrics.ProtocolErrorsTotal.WithLabelValues(errorType(err)).Inc()
		slog.Warn("Discarding malformed message", "error", err)
		return
	}

	switch msg.Type {
	case models.TypeRegister:
		d.register(msg)
	case models.TypeRequest:
		d.request(msg)
	}
}

func (d *Dispatcher) register(msg models.Message) {
	info, created, hour := d.state.Register(msg.Agent, msg.ReplyAddress)

	kind := "new"
	if !created {
		kind = "repeat"
	}
	metrics.RegistrationsTotal.WithLabelValues(kind).Inc()
	slog.Info("Agent registered",
		"agent", info.Name,
		"reply_address", info.ReplyAddress,
		"session", info.SessionID,
		"new", created,
	)

	d.send(info, models.TimeMessage(hour), models.TypeTime)
}

func (d *Dispatcher) request(msg models.Message) {
	agent, decision, ok := d.state.Request(msg.Agent, scheduler.Request{
		Family: msg.Family,
		Hour:   msg.Hour,
		People: msg.People,
	})
	if !ok {
		metrics.DroppedRequestsTotal.Inc()
		slog.Warn("Request from unregistered agent", "agent", msg.Agent, "family", msg.Family)
		return
	}

	resp := decision.Response
	metrics.RequestsTotal.WithLabelValues(string(resp.Outcome)).Inc()
	if decision.Reason != "" {
		metrics.DeniedTotal.WithLabelValues(string(decision.Reason)).Inc()
	}
	if decision.Reservation != nil {
		metrics.PeopleAdmittedTotal.Add(float64(decision.Reservation.People))
	}
	slog.Info("Request decided",
		"agent", agent.Name,
		"family", resp.Family,
		"outcome", resp.Outcome,
		"start", resp.Start,
		"end", resp.End,
		"extemporaneous", decision.Extemporaneous,
	)

	d.send(agent, resp.String(), models.TypeResponse)
}

func (d *Dispatcher) broadcastEnd() {
	agents := d.state.Agents()
	for _, agent := range agents {
		d.send(agent, models.EndOfSimulation, models.TypeEnd)
	}
	slog.Info("End of simulation sent", "agents", len(agents))
}

// send delivers one line outside the state lock. Failures only cost that
// agent the message.
func (d *Dispatcher) send(agent models.AgentInfo, line string, kind models.MessageType) {
	if err := d.sender.Send(agent.ReplyAddress, line); err != nil {
		metrics.TransportErrorsTotal.WithLabelValues(string(kind)).Inc()
		slog.Error("Cannot send message to agent",
			"agent", agent.Name,
			"reply_address", agent.ReplyAddress,
			"error", err,
		)
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, customerrors.ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, customerrors.ErrInvalidFieldCount):
		return "invalid_field_count"
	case errors.Is(err, customerrors.ErrInvalidNumber):
		return "invalid_number"
	default:
		return "other"
	}
}
