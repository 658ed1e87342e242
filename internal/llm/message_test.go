package llm

import (
	"encoding/json"
	"testing"
)

func TestExtendChunkAppendsArguments(t *testing.T) {
	call := ToolCallFromChunk(ChunkToolCall{
		ID:    "call_1",
		Index: 0,
		Function: ChunkToolFunction{
			Name:      "get_weather",
			Arguments: `{"city":`,
		},
	})

	call = call.ExtendChunk(ChunkToolCall{
		Index:    0,
		Function: ChunkToolFunction{Arguments: `"London"`},
	})
	call = call.ExtendChunk(ChunkToolCall{
		Index:    0,
		Function: ChunkToolFunction{Arguments: `}`},
	})

	if call.ID != "call_1" {
		t.Errorf("id = %q, want call_1", call.ID)
	}
	if call.Type != "function" {
		t.Errorf("type = %q, want function", call.Type)
	}
	if call.Function.Name != "get_weather" {
		t.Errorf("name = %q, want get_weather", call.Function.Name)
	}
	if call.Function.Arguments != `{"city":"London"}` {
		t.Errorf("arguments = %q", call.Function.Arguments)
	}
}

func TestExtendChunkLastNonEmptyWins(t *testing.T) {
	call := ToolCallFromChunk(ChunkToolCall{
		ID:       "call_a",
		Function: ChunkToolFunction{Name: "first"},
	})

	// Empty fields in later fragments must not clear earlier values.
	call = call.ExtendChunk(ChunkToolCall{})
	if call.ID != "call_a" || call.Function.Name != "first" {
		t.Errorf("empty fragment cleared fields: %+v", call)
	}

	call = call.ExtendChunk(ChunkToolCall{
		ID:       "call_b",
		Function: ChunkToolFunction{Name: "second"},
	})
	if call.ID != "call_b" {
		t.Errorf("id = %q, want call_b", call.ID)
	}
	if call.Function.Name != "second" {
		t.Errorf("name = %q, want second", call.Function.Name)
	}
}

func TestExtendChunkSplitAssociative(t *testing.T) {
	fragments := []ChunkToolCall{
		{ID: "c1", Function: ChunkToolFunction{Name: "calc", Arguments: `{"a"`}},
		{Function: ChunkToolFunction{Arguments: `:1,`}},
		{Function: ChunkToolFunction{Arguments: `"b":2}`}},
	}

	// Applying all fragments one at a time must equal merging the whole
	// payload at once.
	whole := ToolCallFromChunk(ChunkToolCall{
		ID:       "c1",
		Function: ChunkToolFunction{Name: "calc", Arguments: `{"a":1,"b":2}`},
	})

	got := ToolCallFromChunk(fragments[0])
	for _, f := range fragments[1:] {
		got = got.ExtendChunk(f)
	}

	if got != whole {
		t.Errorf("merged = %+v, want %+v", got, whole)
	}
}

func TestToolMessageShape(t *testing.T) {
	msg := ToolMessage(`{"temp":12}`, "call_9")

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["role"] != "tool" {
		t.Errorf("role = %v, want tool", decoded["role"])
	}
	if decoded["tool_call_id"] != "call_9" {
		t.Errorf("tool_call_id = %v, want call_9", decoded["tool_call_id"])
	}
	if _, present := decoded["tool_calls"]; present {
		t.Error("tool_calls should be omitted on tool messages")
	}
}

func TestAssistantMessageWithToolCall(t *testing.T) {
	call := ToolCall{
		ID:       "call_2",
		Type:     "function",
		Function: ToolFunction{Name: "now", Arguments: "{}"},
	}
	msg := AssistantMessage("").WithToolCall(call)

	if msg.Role != RoleAssistant {
		t.Errorf("role = %q", msg.Role)
	}
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].ID != "call_2" {
		t.Errorf("tool calls = %+v", msg.ToolCalls)
	}
}
