package models

import "fmt"

// MessageType is the first field of every protocol line.
type MessageType string

const (
	TypeRegister MessageType = "REG"
	TypeRequest  MessageType = "REQ"
	TypeTime     MessageType = "TIME"
	TypeResponse MessageType = "RESP"
	TypeEnd      MessageType = "END"
)

// EndOfSimulation is the line broadcast to every agent at shutdown.
const EndOfSimulation = "END|FIN_SIMULACION"

// Message is a parsed inbound line. Only the fields of its Type are set.
type Message struct {
	Type MessageType

	// REG and REQ
	Agent string

	// REG
	ReplyAddress string

	// REQ
	Family string
	Hour   int
	People int
}

// TimeMessage renders the TIME reply sent on registration.
func TimeMessage(hour int) string {
	return fmt.Sprintf("%s|%d", TypeTime, hour)
}
