//go:build unix

package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"reservation-controller/metrics"
)

// MaxLineLength is the longest inbound line accepted, newline included.
// Longer lines are discarded and reading continues with the next one.
const MaxLineLength = 64 * 1024

// FIFO is an Inbound backed by a named pipe. It holds a writer end of its own
// pipe so the stream does not end when the last agent disconnects; the stream
// only ends on Close.
type FIFO struct {
	path   string
	reader *os.File
	keep   *os.File
	lines  chan string
	done   chan struct{}
	once   sync.Once
}

// OpenFIFO creates the named pipe at path if it does not exist and starts
// reading lines from it.
func OpenFIFO(path string) (*FIFO, error) {
	if err := unix.Mkfifo(path, 0o666); err != nil && !errors.Is(err, unix.EEXIST) {
		return nil, fmt.Errorf("create fifo %s: %w", path, err)
	}

	// Non-blocking open so we do not wait for the first agent; reads still
	// park on the runtime poller.
	reader, err := os.OpenFile(path, os.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open fifo %s for reading: %w", path, err)
	}
	keep, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("open fifo %s for writing: %w", path, err)
	}

	f := &FIFO{
		path:   path,
		reader: reader,
		keep:   keep,
		lines:  make(chan string),
		done:   make(chan struct{}),
	}
	go f.read()
	return f, nil
}

func (f *FIFO) read() {
	defer close(f.lines)

	br := bufio.NewReaderSize(f.reader, MaxLineLength)
	for {
		line, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			// Drop the whole line and resume at the next newline.
			for errors.Is(err, bufio.ErrBufferFull) {
				_, err = br.ReadSlice('\n')
			}
			metrics.ProtocolErrorsTotal.WithLabelValues("line_too_long").Inc()
			slog.Warn("Discarding inbound line over the length limit", "path", f.path, "limit", MaxLineLength)
			if err != nil {
				f.finish(err)
				return
			}
			continue
		}
		if len(line) > 0 && !f.deliver(strings.TrimRight(string(line), "\r\n")) {
			return
		}
		if err != nil {
			f.finish(err)
			return
		}
	}
}

// deliver hands one line to the consumer. It reports false once Close was called.
func (f *FIFO) deliver(line string) bool {
	select {
	case f.lines <- line:
		return true
	case <-f.done:
		return false
	}
}

func (f *FIFO) finish(err error) {
	if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
		slog.Error("Inbound fifo read failed", "path", f.path, "error", err)
	}
}

func (f *FIFO) Lines() <-chan string {
	return f.lines
}

// Close stops reading and releases both pipe ends. The pipe file stays on disk.
func (f *FIFO) Close() error {
	var err error
	f.once.Do(func() {
		close(f.done)
		err = errors.Join(f.keep.Close(), f.reader.Close())
	})
	return err
}

// Path returns the filesystem path of the pipe.
func (f *FIFO) Path() string {
	return f.path
}

// FIFOSender writes replies to the agents' own named pipes.
type FIFOSender struct{}

// Send opens the agent's pipe without blocking, writes one line and closes it.
// It fails when no agent is reading the pipe.
func (FIFOSender) Send(address, line string) error {
	out, err := os.OpenFile(address, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("open reply fifo %s: %w", address, err)
	}
	defer out.Close()

	if _, err := out.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write reply fifo %s: %w", address, err)
	}
	return nil
}
