package transport

import (
	"fmt"
	"sync"

	"reservation-controller/errors"
)

// Memory is an in-process Inbound and Sender. Lines written with Write come
// out of Lines; lines sent to an address are kept in that address's outbox.
type Memory struct {
	// inMu guards closed. Writers hold it shared while sending so Close
	// never closes lines under them.
	inMu   sync.RWMutex
	closed bool
	lines  chan string

	mu      sync.Mutex
	outbox  map[string][]string
	failing map[string]bool
}

// NewMemory returns a Memory transport whose inbound stream buffers up to
// buffer lines.
func NewMemory(buffer int) *Memory {
	return &Memory{
		lines:   make(chan string, buffer),
		outbox:  make(map[string][]string),
		failing: make(map[string]bool),
	}
}

// Write puts a line on the inbound stream. It blocks while the buffer is
// full; Send and Received stay available meanwhile. Close waits for writes in
// flight, so the buffer must drain for Close to return.
func (m *Memory) Write(line string) error {
	m.inMu.RLock()
	defer m.inMu.RUnlock()
	if m.closed {
		return errors.ErrTransportClosed
	}
	m.lines <- line
	return nil
}

func (m *Memory) Lines() <-chan string {
	return m.lines
}

// Close ends the inbound stream. Lines already written are still delivered.
func (m *Memory) Close() error {
	m.inMu.Lock()
	defer m.inMu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.lines)
	}
	return nil
}

// Send appends line to the outbox of address.
func (m *Memory) Send(address, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing[address] {
		return fmt.Errorf("send to %s: %w", address, errors.ErrUnknownAddress)
	}
	m.outbox[address] = append(m.outbox[address], line)
	return nil
}

// Fail makes every later Send to address return an error.
func (m *Memory) Fail(address string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[address] = true
}

// Received returns a copy of the lines sent to address so far.
func (m *Memory) Received(address string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.outbox[address]))
	copy(out, m.outbox[address])
	return out
}
