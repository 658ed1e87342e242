package llm

import (
	"context"
	"testing"

	"github.com/EluvK/ai-sketch/internal/broadcast"
)

// fakeStream replays a fixed chunk sequence.
type fakeStream struct {
	chunks []ChatMessageChunk
	pos    int
	err    error
}

func (s *fakeStream) Next() bool {
	if s.pos >= len(s.chunks) {
		return false
	}
	s.pos++
	return true
}

func (s *fakeStream) Current() ChatMessageChunk {
	return s.chunks[s.pos-1]
}

func (s *fakeStream) Err() error {
	return s.err
}

// fakeProvider returns one scripted stream per round.
type fakeProvider struct {
	rounds [][]ChatMessageChunk
	round  int
}

func (p *fakeProvider) ChatStream(ctx context.Context, messages []ChatMessage, tools []map[string]any) (ChunkStream, error) {
	if p.round >= len(p.rounds) {
		return &fakeStream{}, nil
	}
	chunks := p.rounds[p.round]
	p.round++
	return &fakeStream{chunks: chunks}, nil
}

func textChunk(text string) ChatMessageChunk {
	return ChatMessageChunk{Delta: ChatMessageDelta{Content: text}}
}

func toolChunk(fragments ...ChunkToolCall) ChatMessageChunk {
	return ChatMessageChunk{Delta: ChatMessageDelta{ToolCalls: fragments}}
}

func finishChunk(reason FinishReason) ChatMessageChunk {
	return ChatMessageChunk{FinishReason: reason}
}

func collect(sub <-chan broadcast.StreamMessage) []broadcast.StreamMessage {
	var out []broadcast.StreamMessage
	for msg := range sub {
		out = append(out, msg)
	}
	return out
}

func TestChatPlainText(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{{
		textChunk("Hel"),
		textChunk(""),
		textChunk("lo"),
		finishChunk(FinishStop),
	}}}

	out := broadcast.NewContext()
	sub, _ := out.Subscribe()

	messages := []ChatMessage{UserMessage("hi")}
	content, err := Chat(context.Background(), &messages, out, provider, nil)
	out.Close()
	if err != nil {
		t.Fatal(err)
	}
	if content != "Hello" {
		t.Errorf("content = %q", content)
	}

	published := collect(sub)
	// Empty deltas must not be published.
	if len(published) != 2 {
		t.Fatalf("published %d messages, want 2: %+v", len(published), published)
	}
	if published[0].Text != "Hel" || published[1].Text != "lo" {
		t.Errorf("published = %+v", published)
	}

	if len(messages) != 2 {
		t.Fatalf("messages = %+v", messages)
	}
	if messages[1].Role != RoleAssistant || messages[1].Content != "Hello" {
		t.Errorf("final assistant message = %+v", messages[1])
	}
}

func TestChatToolRoundTrip(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{
		{
			toolChunk(ChunkToolCall{
				ID:       "call_1",
				Index:    0,
				Function: ChunkToolFunction{Name: "get_weather", Arguments: `{"city":`},
			}),
			toolChunk(ChunkToolCall{
				Index:    0,
				Function: ChunkToolFunction{Arguments: `"Oslo"}`},
			}),
			finishChunk(FinishToolCalls),
		},
		{
			textChunk("Sunny."),
			finishChunk(FinishStop),
		},
	}}

	registry := NewToolRegistry()
	var gotCity string
	if err := RegisterTool(registry, "get_weather", "weather lookup", func(args weatherArgs) (any, error) {
		gotCity = args.City
		return "Sunny.", nil
	}); err != nil {
		t.Fatal(err)
	}

	out := broadcast.NewContext()
	sub, _ := out.Subscribe()

	messages := []ChatMessage{UserMessage("weather in Oslo?")}
	content, err := Chat(context.Background(), &messages, out, provider, registry)
	out.Close()
	if err != nil {
		t.Fatal(err)
	}
	if content != "Sunny." {
		t.Errorf("content = %q", content)
	}
	if gotCity != "Oslo" {
		t.Errorf("tool received city %q", gotCity)
	}

	published := collect(sub)
	if len(published) != 2 {
		t.Fatalf("published = %+v", published)
	}
	if published[0].Kind != broadcast.KindProcedure || published[0].Text != "Tools: get_weather" {
		t.Errorf("first message = %+v", published[0])
	}
	if published[1].Kind != broadcast.KindDelta || published[1].Text != "Sunny." {
		t.Errorf("second message = %+v", published[1])
	}

	// user, assistant+call, tool result, final assistant
	if len(messages) != 4 {
		t.Fatalf("messages = %+v", messages)
	}
	if len(messages[1].ToolCalls) != 1 || messages[1].ToolCalls[0].Function.Arguments != `{"city":"Oslo"}` {
		t.Errorf("assistant call turn = %+v", messages[1])
	}
	if messages[2].Role != RoleTool || messages[2].ToolCallID != "call_1" {
		t.Errorf("tool turn = %+v", messages[2])
	}
	if messages[2].Content != `"Sunny."` {
		t.Errorf("tool result = %q", messages[2].Content)
	}
}

func TestChatContentAccumulatesAcrossRounds(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{
		{
			textChunk("Let me check. "),
			toolChunk(ChunkToolCall{
				ID:       "call_1",
				Function: ChunkToolFunction{Name: "get_weather", Arguments: `{"city":"Oslo"}`},
			}),
			finishChunk(FinishToolCalls),
		},
		{
			textChunk("Sunny."),
			finishChunk(FinishStop),
		},
	}}

	registry := NewToolRegistry()
	if err := RegisterTool(registry, "get_weather", "", func(args weatherArgs) (any, error) {
		return "ok", nil
	}); err != nil {
		t.Fatal(err)
	}

	messages := []ChatMessage{UserMessage("weather?")}
	content, err := Chat(context.Background(), &messages, nil, provider, registry)
	if err != nil {
		t.Fatal(err)
	}

	// Text emitted before the tool call stays in the result.
	if content != "Let me check. Sunny." {
		t.Errorf("content = %q, want %q", content, "Let me check. Sunny.")
	}
	if len(messages) != 4 {
		t.Fatalf("messages = %+v", messages)
	}
	if messages[1].Content != "Let me check. " || len(messages[1].ToolCalls) != 1 {
		t.Errorf("assistant call turn = %+v", messages[1])
	}
	if messages[3].Content != "Sunny." {
		t.Errorf("final assistant turn = %+v", messages[3])
	}
}

func TestChatSequentialToolRounds(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{
		{
			toolChunk(ChunkToolCall{
				ID:       "call_1",
				Function: ChunkToolFunction{Name: "get_weather", Arguments: `{"city":"Oslo"}`},
			}),
			finishChunk(FinishToolCalls),
		},
		{
			textChunk("Now the time. "),
			toolChunk(ChunkToolCall{
				ID:       "call_2",
				Function: ChunkToolFunction{Name: "get_time"},
			}),
			finishChunk(FinishToolCalls),
		},
		{
			textChunk("All done."),
			finishChunk(FinishStop),
		},
	}}

	registry := NewToolRegistry()
	var order []string
	if err := RegisterTool(registry, "get_weather", "", func(args weatherArgs) (any, error) {
		order = append(order, "weather")
		return "ok", nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := RegisterTool(registry, "get_time", "", func(args struct{}) (any, error) {
		order = append(order, "time")
		return "12:00", nil
	}); err != nil {
		t.Fatal(err)
	}

	messages := []ChatMessage{UserMessage("weather then time")}
	content, err := Chat(context.Background(), &messages, nil, provider, registry)
	if err != nil {
		t.Fatal(err)
	}

	if len(order) != 2 || order[0] != "weather" || order[1] != "time" {
		t.Errorf("order = %v", order)
	}
	if content != "Now the time. All done." {
		t.Errorf("content = %q", content)
	}
	// user, two assistant+tool pairs, final assistant
	if len(messages) != 6 {
		t.Fatalf("messages = %d turns", len(messages))
	}
	if messages[1].ToolCalls[0].ID != "call_1" || messages[3].ToolCalls[0].ID != "call_2" {
		t.Errorf("call turns = %+v %+v", messages[1], messages[3])
	}
	if messages[3].Content != "Now the time. " {
		t.Errorf("second call turn = %+v", messages[3])
	}
	if messages[4].Role != RoleTool || messages[4].ToolCallID != "call_2" {
		t.Errorf("second tool turn = %+v", messages[4])
	}
	if messages[5].Content != "All done." {
		t.Errorf("final assistant turn = %+v", messages[5])
	}
}

func TestChatParallelToolCalls(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{
		{
			// Fragments for two calls interleaved on the same stream.
			toolChunk(
				ChunkToolCall{ID: "call_b", Index: 1, Function: ChunkToolFunction{Name: "get_weather", Arguments: `{"city":"B"`}},
				ChunkToolCall{ID: "call_a", Index: 0, Function: ChunkToolFunction{Name: "get_weather", Arguments: `{"city":"A"`}},
			),
			toolChunk(
				ChunkToolCall{Index: 0, Function: ChunkToolFunction{Arguments: `}`}},
				ChunkToolCall{Index: 1, Function: ChunkToolFunction{Arguments: `}`}},
			),
			finishChunk(FinishToolCalls),
		},
		{
			textChunk("done"),
			finishChunk(FinishStop),
		},
	}}

	registry := NewToolRegistry()
	var cities []string
	if err := RegisterTool(registry, "get_weather", "", func(args weatherArgs) (any, error) {
		cities = append(cities, args.City)
		return "ok", nil
	}); err != nil {
		t.Fatal(err)
	}

	messages := []ChatMessage{UserMessage("compare")}
	if _, err := Chat(context.Background(), &messages, nil, provider, registry); err != nil {
		t.Fatal(err)
	}

	// Calls run in index order regardless of fragment arrival order.
	if len(cities) != 2 || cities[0] != "A" || cities[1] != "B" {
		t.Errorf("cities = %v", cities)
	}
	// user, two assistant+tool pairs, final assistant
	if len(messages) != 6 {
		t.Errorf("messages = %d turns", len(messages))
	}
}

func TestChatUnknownTool(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{{
		toolChunk(ChunkToolCall{
			ID:       "call_1",
			Function: ChunkToolFunction{Name: "nope", Arguments: `{}`},
		}),
		finishChunk(FinishToolCalls),
	}}}

	registry := NewToolRegistry()
	messages := []ChatMessage{UserMessage("hi")}
	_, err := Chat(context.Background(), &messages, nil, provider, registry)
	if !IsKind(err, KindToolNotFound) {
		t.Fatalf("err = %v, want tool_not_found", err)
	}
	// The conversation must not carry a dangling call turn.
	if len(messages) != 1 {
		t.Errorf("messages = %+v", messages)
	}
}

func TestChatToolBadArguments(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{{
		toolChunk(ChunkToolCall{
			ID:       "call_1",
			Function: ChunkToolFunction{Name: "get_weather", Arguments: `{"city":`},
		}),
		finishChunk(FinishToolCalls),
	}}}

	registry := NewToolRegistry()
	if err := RegisterTool(registry, "get_weather", "", func(args weatherArgs) (any, error) {
		return nil, nil
	}); err != nil {
		t.Fatal(err)
	}

	messages := []ChatMessage{UserMessage("hi")}
	_, err := Chat(context.Background(), &messages, nil, provider, registry)
	if !IsKind(err, KindToolInput) {
		t.Fatalf("err = %v, want tool_input", err)
	}
	if len(messages) != 1 {
		t.Errorf("messages = %+v", messages)
	}
}

func TestChatEmptyArgumentsDefault(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{
		{
			toolChunk(ChunkToolCall{
				ID:       "call_1",
				Function: ChunkToolFunction{Name: "now"},
			}),
			finishChunk(FinishToolCalls),
		},
		{
			textChunk("noon"),
			finishChunk(FinishStop),
		},
	}}

	registry := NewToolRegistry()
	called := false
	if err := RegisterTool(registry, "now", "", func(args struct{}) (any, error) {
		called = true
		return "12:00", nil
	}); err != nil {
		t.Fatal(err)
	}

	messages := []ChatMessage{UserMessage("time?")}
	if _, err := Chat(context.Background(), &messages, nil, provider, registry); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("tool not invoked for call with no arguments")
	}
}

func TestChatPublishAfterClose(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{{
		textChunk("x"),
		finishChunk(FinishStop),
	}}}

	out := broadcast.NewContext()
	out.Close()

	messages := []ChatMessage{UserMessage("hi")}
	_, err := Chat(context.Background(), &messages, out, provider, nil)
	if !IsKind(err, KindChannel) {
		t.Errorf("err = %v, want channel", err)
	}
}

func TestChatCancelled(t *testing.T) {
	provider := &fakeProvider{rounds: [][]ChatMessageChunk{{
		textChunk("x"),
		textChunk("y"),
	}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	messages := []ChatMessage{UserMessage("hi")}
	_, err := Chat(ctx, &messages, nil, provider, nil)
	if !IsKind(err, KindTransport) {
		t.Errorf("err = %v, want transport", err)
	}
}
