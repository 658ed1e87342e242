package llm

// ChatMessageRole is the role tag carried by every conversation message.
type ChatMessageRole string

const (
	RoleUser      ChatMessageRole = "user"
	RoleAssistant ChatMessageRole = "assistant"
	RoleSystem    ChatMessageRole = "system"
	RoleTool      ChatMessageRole = "tool"
)

// ChatMessage is one turn in a conversation. A tool role message always
// carries ToolCallID, linking it back to the call that produced it, and only
// assistant messages ever carry ToolCalls.
type ChatMessage struct {
	Content    string          `json:"content"`
	Role       ChatMessageRole `json:"role"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall      `json:"tool_calls,omitempty"`
}

// UserMessage creates a user role message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Content: content, Role: RoleUser}
}

// AssistantMessage creates an assistant role message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Content: content, Role: RoleAssistant}
}

// SystemMessage creates a system role message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Content: content, Role: RoleSystem}
}

// ToolMessage creates a tool result message carrying the id of the call that
// produced the result.
func ToolMessage(content string, toolCallID string) ChatMessage {
	return ChatMessage{Content: content, Role: RoleTool, ToolCallID: toolCallID}
}

// WithToolCall returns a copy of the message with the tool call appended.
func (m ChatMessage) WithToolCall(call ToolCall) ChatMessage {
	m.ToolCalls = append(m.ToolCalls, call)
	return m
}

// ToolCall is a fully assembled request from the model to invoke a tool.
type ToolCall struct {
	ID       string       `json:"id"`
	Index    int          `json:"index"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction names the function to call and carries its arguments as a
// JSON encoded string, exactly as the provider supplies them.
type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChunkToolCall is a tool call fragment from a single streamed chunk. Every
// field except Index may be absent; Arguments is a partial slice of the
// arguments JSON string and is meaningless on its own.
type ChunkToolCall struct {
	ID       string            `json:"id,omitempty"`
	Index    int               `json:"index"`
	Type     string            `json:"type,omitempty"`
	Function ChunkToolFunction `json:"function"`
}

// ChunkToolFunction is the function part of a tool call fragment.
type ChunkToolFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments"`
}

// ToolCallFromChunk fills a ToolCall from a single fragment, substituting
// defaults for absent fields.
func ToolCallFromChunk(chunk ChunkToolCall) ToolCall {
	callType := chunk.Type
	if callType == "" {
		callType = "function"
	}
	return ToolCall{
		ID:    chunk.ID,
		Index: chunk.Index,
		Type:  callType,
		Function: ToolFunction{
			Name:      chunk.Function.Name,
			Arguments: chunk.Function.Arguments,
		},
	}
}

// ExtendChunk merges a fragment into the call. The id, type and function
// name are overwritten when the fragment carries them, the arguments are
// always appended. Fragments must be applied in arrival order.
func (tc ToolCall) ExtendChunk(chunk ChunkToolCall) ToolCall {
	if chunk.ID != "" {
		tc.ID = chunk.ID
	}
	if chunk.Type != "" {
		tc.Type = chunk.Type
	}
	if chunk.Function.Name != "" {
		tc.Function.Name = chunk.Function.Name
	}
	tc.Function.Arguments += chunk.Function.Arguments
	return tc
}

// FinishReason reports why the provider ended a streamed completion.
type FinishReason string

const (
	FinishStop                       FinishReason = "stop"
	FinishLength                     FinishReason = "length"
	FinishContentFilter              FinishReason = "content_filter"
	FinishToolCalls                  FinishReason = "tool_calls"
	FinishInsufficientSystemResource FinishReason = "insufficient_system_resource"
)

// ChatMessageDelta is the incremental payload of one streamed chunk, either
// a content fragment or one or more tool call fragments.
type ChatMessageDelta struct {
	Content   string          `json:"content,omitempty"`
	ToolCalls []ChunkToolCall `json:"tool_calls,omitempty"`
}

// HasToolCalls reports whether the delta carries tool call fragments.
func (d ChatMessageDelta) HasToolCalls() bool {
	return len(d.ToolCalls) > 0
}

// ChatMessageChunk is one normalized streamed event, provider details
// already folded into the common shape.
type ChatMessageChunk struct {
	ID           string           `json:"id"`
	Delta        ChatMessageDelta `json:"delta"`
	Created      int64            `json:"created"`
	Model        string           `json:"model"`
	FinishReason FinishReason     `json:"finish_reason,omitempty"`
	TotalTokens  int64            `json:"total_tokens,omitempty"`
}
