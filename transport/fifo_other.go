//go:build !unix

package transport

import (
	"fmt"

	"reservation-controller/errors"
)

// FIFO is unavailable on this platform.
type FIFO struct{}

func OpenFIFO(path string) (*FIFO, error) {
	return nil, fmt.Errorf("named pipes are not supported on this platform: %w", errors.ErrTransportClosed)
}

func (f *FIFO) Lines() <-chan string { return nil }
func (f *FIFO) Close() error         { return nil }
func (f *FIFO) Path() string         { return "" }

type FIFOSender struct{}

func (FIFOSender) Send(address, line string) error {
	return fmt.Errorf("send to %s: %w", address, errors.ErrTransportClosed)
}
