package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// ToolFunc executes a tool against raw JSON arguments and returns the raw
// JSON result.
type ToolFunc func(arguments json.RawMessage) (json.RawMessage, error)

type toolEntry struct {
	name        string
	description string
	parameters  map[string]any
	fn          ToolFunc
}

// ToolRegistry holds the callable tools for a chat run together with the
// parameter schemas advertised to the model. Safe for concurrent use.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*toolEntry
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]*toolEntry)}
}

// RegisterTool registers fn under name, deriving the parameter schema from
// the argument type T. Registering the same name again replaces the earlier
// entry.
func RegisterTool[T any](r *ToolRegistry, name string, description string, fn func(T) (any, error)) error {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return fmt.Errorf("derive schema for tool %s: %w", name, err)
	}
	parameters, err := schemaToMap(schema)
	if err != nil {
		return fmt.Errorf("render schema for tool %s: %w", name, err)
	}

	wrapped := func(arguments json.RawMessage) (json.RawMessage, error) {
		var input T
		if err := json.Unmarshal(arguments, &input); err != nil {
			return nil, NewToolInputError(name, err)
		}
		result, err := fn(input)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshal result of tool %s: %w", name, err)
		}
		return data, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = &toolEntry{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          wrapped,
	}
	return nil
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the tool function registered under name.
func (r *ToolRegistry) Get(name string) (ToolFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return entry.fn, true
}

// ExportTool renders the declaration of one tool in the provider wire
// format, or nil when the tool is not registered.
func (r *ToolRegistry) ExportTool(name string) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tools[name]
	if !ok {
		return nil
	}
	return exportEntry(entry)
}

// ExportAllTools renders every registered tool declaration for inclusion in
// a completion request. Returns nil when the registry is empty.
func (r *ToolRegistry) ExportAllTools() []map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.tools) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(r.tools))
	for _, entry := range r.tools {
		out = append(out, exportEntry(entry))
	}
	return out
}

func exportEntry(entry *toolEntry) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        entry.name,
			"description": entry.description,
			"parameters":  entry.parameters,
		},
	}
}
