package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/downfa11-org/go-eventfs/pkg/events"
	"github.com/downfa11-org/go-eventfs/pkg/metrics"
	"github.com/downfa11-org/go-eventfs/pkg/types"
)

const helpText = `Commands:
  APPEND <text>              append a message, prints its identifier
  READ <id>                  read one message
  RANGE <start> <count>      read a run of single-block messages
  HEIGHT                     print the persisted write height
  INFO                       print stream header and registry state
  CTRL-ADD <uuid>            record a controller-added event
  CTRL-DEL <uuid>            record a controller-removed event
  SUB-ADD <uuid> <offset>    record a subscriber-added event
  SUB-DEL <uuid>             record a subscriber-removed event
  SUB-OFFSET <uuid> <offset> record a subscriber-offset-modified event
  SNAPSHOT                   persist the registry into the snapshot slot
  RESTORE                    reload the registry from the snapshot slot
  EXIT`

func (s *session) handle(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	cmd := strings.ToUpper(fields[0])
	args := fields[1:]

	switch cmd {
	case "HELP":
		return helpText

	case "APPEND":
		if len(args) == 0 {
			return "usage: APPEND <text>"
		}
		trimmed := strings.TrimSpace(line)
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, fields[0]))
		return s.append(text)

	case "READ":
		if len(args) != 1 {
			return "usage: READ <id>"
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Sprintf("invalid identifier %q", args[0])
		}
		return s.read(id)

	case "RANGE":
		if len(args) != 2 {
			return "usage: RANGE <start> <count>"
		}
		start, err1 := strconv.ParseUint(args[0], 10, 64)
		count, err2 := strconv.ParseUint(args[1], 10, 64)
		if err1 != nil || err2 != nil {
			return "RANGE arguments must be unsigned integers"
		}
		return s.readRange(start, count)

	case "HEIGHT":
		h, err := s.engine.Height()
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return fmt.Sprintf("height: %d", h)

	case "INFO":
		return s.info()

	case "CTRL-ADD", "CTRL-DEL", "SUB-DEL":
		if len(args) != 1 {
			return fmt.Sprintf("usage: %s <uuid>", cmd)
		}
		actor, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Sprintf("invalid uuid %q", args[0])
		}
		return s.recordEvent(events.Event{Kind: kindOf(cmd), Actor: actor})

	case "SUB-ADD", "SUB-OFFSET":
		if len(args) != 2 {
			return fmt.Sprintf("usage: %s <uuid> <offset>", cmd)
		}
		actor, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Sprintf("invalid uuid %q", args[0])
		}
		offset, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Sprintf("invalid offset %q", args[1])
		}
		return s.recordEvent(events.Event{Kind: kindOf(cmd), Actor: actor, Offset: offset})

	case "SNAPSHOT":
		if err := s.reg.Save(s.engine); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		metrics.PushSnapshot()
		return "registry snapshot saved"

	case "RESTORE":
		if err := s.reg.Load(s.engine); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return "registry snapshot restored"

	default:
		return fmt.Sprintf("unknown command %q, type HELP", cmd)
	}
}

func kindOf(cmd string) events.Kind {
	switch cmd {
	case "CTRL-ADD":
		return events.ControllerAdded
	case "CTRL-DEL":
		return events.ControllerRemoved
	case "SUB-ADD":
		return events.SubscriberAdded
	case "SUB-DEL":
		return events.SubscriberRemoved
	default:
		return events.SubscriberOffsetModified
	}
}

// recordEvent appends the control event to the same log as ordinary
// messages, then folds it into the in-process registry.
func (s *session) recordEvent(ev events.Event) string {
	data, err := ev.Encode()
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}

	id, err := s.engine.Append(data)
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	s.reg.Apply(ev)
	return fmt.Sprintf("recorded %s as message %d", ev.Kind, id)
}

func (s *session) append(text string) string {
	start := time.Now()
	id, err := s.engine.Append(types.EncodeString(text))
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}

	height, err := s.engine.Height()
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	metrics.PushAppend(len(text), time.Since(start).Seconds(), height)
	return fmt.Sprintf("appended message %d", id)
}

func (s *session) read(id uint64) string {
	msg, err := s.engine.ReadOne(id)
	if err != nil {
		metrics.PushReadError()
		return fmt.Sprintf("❌ %v", err)
	}

	text, err := types.DecodeString(msg.Payload)
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	metrics.PushRead(1, len(msg.Payload))
	return fmt.Sprintf("[%d @ %d] %s", msg.ID, msg.Timestamp, text)
}

func (s *session) readRange(start, count uint64) string {
	messages, err := s.engine.ReadRange(start, count)
	if err != nil {
		metrics.PushReadError()
		return fmt.Sprintf("❌ %v", err)
	}

	var sb strings.Builder
	bytes := 0
	for _, msg := range messages {
		text, err := types.DecodeString(msg.Payload)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		bytes += len(msg.Payload)
		fmt.Fprintf(&sb, "[%d @ %d] %s\n", msg.ID, msg.Timestamp, text)
	}
	metrics.PushRead(len(messages), bytes)
	return strings.TrimRight(sb.String(), "\n")
}

func (s *session) info() string {
	header := s.engine.Header()
	height, err := s.engine.Height()
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "stream      : %s\n", header.EventStreamName)
	fmt.Fprintf(&sb, "version     : %d\n", header.BinaryVersion)
	fmt.Fprintf(&sb, "height      : %d\n", height)
	fmt.Fprintf(&sb, "controllers : %d\n", len(s.reg.Controllers()))
	fmt.Fprintf(&sb, "subscribers : %d", len(s.reg.Subscribers()))
	return sb.String()
}
