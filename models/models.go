package models

import "fmt"

// BlockHours is the fixed length of every reservation block.
const BlockHours = 2

// Reservation is an admitted block for one family. It is never mutated after
// admission.
type Reservation struct {
	Family string
	People int
	// Start is inclusive, End exclusive (Start + BlockHours).
	Start int
	End   int
}

// NewReservation builds a reservation covering [start, start+BlockHours).
func NewReservation(family string, people, start int) Reservation {
	return Reservation{
		Family: family,
		People: people,
		Start:  start,
		End:    start + BlockHours,
	}
}

// AgentInfo identifies a registered agent and where its replies go.
type AgentInfo struct {
	Name         string
	ReplyAddress string
	// SessionID is assigned on first registration and survives re-registration.
	SessionID string
}

// Outcome is the admission decision for a single request.
type Outcome string

const (
	OutcomeAccepted    Outcome = "OK"
	OutcomeRescheduled Outcome = "REPROG"
	OutcomeDenied      Outcome = "NEG"
	OutcomeDeniedLate  Outcome = "NEG_EXTEMP"
)

// Response is what the controller sends back for a REQ message.
type Response struct {
	Outcome Outcome
	Family  string
	Start   int
	End     int
}

// Admitted reports whether the response carries a committed block.
func (r Response) Admitted() bool {
	return r.Outcome == OutcomeAccepted || r.Outcome == OutcomeRescheduled
}

// String renders the response in wire form, without the trailing newline.
func (r Response) String() string {
	return fmt.Sprintf("RESP|%s|%s|%d|%d", r.Outcome, r.Family, r.Start, r.End)
}

// Counters are the run-wide admission statistics.
type Counters struct {
	AcceptedExact int `json:"accepted_exact"`
	Rescheduled   int `json:"rescheduled"`
	Denied        int `json:"denied"`
}

// Stats is the snapshot used by the final report.
type Stats struct {
	MinHour   int
	MaxHour   int
	Capacity  int
	Occupancy map[int]int
	Counters  Counters
}
