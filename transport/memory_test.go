package transport_test

import (
	"errors"
	"testing"
	"time"

	customerrors "reservation-controller/errors"
	"reservation-controller/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryInbound(t *testing.T) {
	m := transport.NewMemory(4)
	require.NoError(t, m.Write("REG|a|/tmp/a"))
	require.NoError(t, m.Write("REQ|a|Lopez|7|2"))
	require.NoError(t, m.Close())

	var got []string
	for line := range m.Lines() {
		got = append(got, line)
	}
	assert.Equal(t, []string{"REG|a|/tmp/a", "REQ|a|Lopez|7|2"}, got)

	err := m.Write("late")
	assert.True(t, errors.Is(err, customerrors.ErrTransportClosed))
	assert.NoError(t, m.Close(), "closing twice is harmless")
}

func TestMemorySend(t *testing.T) {
	m := transport.NewMemory(0)
	require.NoError(t, m.Send("/tmp/a", "TIME|7"))
	require.NoError(t, m.Send("/tmp/a", "RESP|OK|Lopez|7|9"))

	assert.Equal(t, []string{"TIME|7", "RESP|OK|Lopez|7|9"}, m.Received("/tmp/a"))
	assert.Empty(t, m.Received("/tmp/b"))

	m.Fail("/tmp/b")
	err := m.Send("/tmp/b", "TIME|7")
	assert.True(t, errors.Is(err, customerrors.ErrUnknownAddress))
	assert.Empty(t, m.Received("/tmp/b"))
}

func TestMemorySendWhileWriteBlocked(t *testing.T) {
	m := transport.NewMemory(1)
	require.NoError(t, m.Write("first"))

	blocked := make(chan error, 1)
	go func() { blocked <- m.Write("second") }()

	// The inbound buffer is full, replies must still go through.
	sent := make(chan error, 1)
	go func() { sent <- m.Send("/tmp/a", "TIME|7") }()
	select {
	case err := <-sent:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked behind a pending Write")
	}

	assert.Equal(t, "first", <-m.Lines())
	select {
	case err := <-blocked:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Write did not complete after the buffer drained")
	}
	assert.Equal(t, "second", <-m.Lines())
}
