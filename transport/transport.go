// Package transport carries protocol lines between agents and the controller.
//
// All agents write to one shared inbound stream; each agent reads its replies
// from a private address. Every implementation delivers whole lines, in the
// order a single writer produced them.
package transport

// Inbound is the shared agent-to-controller stream.
type Inbound interface {
	// Lines yields inbound lines without their trailing newline. The channel
	// is closed once the stream ends or Close is called.
	Lines() <-chan string
	Close() error
}

// Sender delivers one line to an agent's reply address.
type Sender interface {
	Send(address, line string) error
}
