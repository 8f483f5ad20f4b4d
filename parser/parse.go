package parser

import (
	"fmt"
	"strconv"
	"strings"

	"reservation-controller/errors"
	"reservation-controller/models"
)

// Separator delimits the fields of a protocol line.
const Separator = "|"

// fieldCounts is the minimum number of fields (type included) per message type.
// Extra trailing fields are ignored.
var fieldCounts = map[models.MessageType]int{
	models.TypeRegister: 3, // REG|name|replyAddress
	models.TypeRequest:  5, // REQ|agent|family|hour|people
}

// Parse decodes one inbound protocol line.
// A trailing newline (and carriage return) is stripped before splitting.
// Text fields must be non-empty and numeric fields must be base-10 integers;
// anything else yields a *errors.ParseError wrapping one of the protocol
// sentinels so callers can classify it with errors.Is.
func Parse(line string) (models.Message, error) {
	trimmed := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(trimmed) == "" {
		return models.Message{}, &errors.ParseError{Line: trimmed, Err: errors.ErrEmptyLine}
	}

	fields := strings.Split(trimmed, Separator)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	msgType := models.MessageType(fields[0])
	want, known := fieldCounts[msgType]
	if !known {
		return models.Message{}, &errors.ParseError{
			Line:   trimmed,
			Fields: fields,
			Err:    fmt.Errorf("%w: %s", errors.ErrUnknownType, fields[0]),
		}
	}
	if len(fields) < want || hasEmpty(fields[1:want]) {
		return models.Message{}, &errors.ParseError{
			Line:   trimmed,
			Fields: fields,
			Err:    fmt.Errorf("%w: %s needs %d fields", errors.ErrInvalidFieldCount, msgType, want),
		}
	}

	msg := models.Message{Type: msgType, Agent: fields[1]}
	switch msgType {
	case models.TypeRegister:
		msg.ReplyAddress = fields[2]
	case models.TypeRequest:
		msg.Family = fields[2]

		hour, err := strconv.Atoi(fields[3])
		if err != nil {
			return models.Message{}, &errors.ParseError{
				Line:   trimmed,
				Fields: fields,
				Err:    fmt.Errorf("%w: hour: %v", errors.ErrInvalidNumber, err),
			}
		}
		people, err := strconv.Atoi(fields[4])
		if err != nil {
			return models.Message{}, &errors.ParseError{
				Line:   trimmed,
				Fields: fields,
				Err:    fmt.Errorf("%w: people: %v", errors.ErrInvalidNumber, err),
			}
		}
		msg.Hour = hour
		msg.People = people
	}

	return msg, nil
}

func hasEmpty(fields []string) bool {
	for _, f := range fields {
		if f == "" {
			return true
		}
	}
	return false
}
