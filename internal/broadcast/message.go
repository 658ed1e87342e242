package broadcast

import (
	"encoding/json"
	"fmt"
)

// StreamMessageKind distinguishes the payloads carried on a stream.
type StreamMessageKind int

const (
	// KindDelta is a fragment of model-generated text.
	KindDelta StreamMessageKind = iota
	// KindProcedure is a progress note about an internal step, such as a
	// tool invocation.
	KindProcedure
)

// StreamMessage is one event published to stream subscribers. It serializes
// with a single short key so clients can tell the two kinds apart cheaply:
// deltas as {"d":...}, procedures as {"p":...}.
type StreamMessage struct {
	Kind StreamMessageKind
	Text string
}

// Delta creates a text fragment message.
func Delta(text string) StreamMessage {
	return StreamMessage{Kind: KindDelta, Text: text}
}

// Procedure creates a progress note message.
func Procedure(text string) StreamMessage {
	return StreamMessage{Kind: KindProcedure, Text: text}
}

func (m StreamMessage) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case KindDelta:
		return json.Marshal(map[string]string{"d": m.Text})
	case KindProcedure:
		return json.Marshal(map[string]string{"p": m.Text})
	default:
		return nil, fmt.Errorf("unknown stream message kind %d", m.Kind)
	}
}

func (m *StreamMessage) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if text, ok := raw["d"]; ok {
		m.Kind = KindDelta
		m.Text = text
		return nil
	}
	if text, ok := raw["p"]; ok {
		m.Kind = KindProcedure
		m.Text = text
		return nil
	}
	return fmt.Errorf("stream message has no recognized key")
}
