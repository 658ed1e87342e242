package llm

import (
	"encoding/json"
	"testing"
)

type weatherArgs struct {
	City string `json:"city"`
}

func TestRegisterAndInvoke(t *testing.T) {
	registry := NewToolRegistry()
	err := RegisterTool(registry, "get_weather", "Look up current weather", func(args weatherArgs) (any, error) {
		return map[string]string{"forecast": "Sunny in " + args.City}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	fn, ok := registry.Get("get_weather")
	if !ok {
		t.Fatal("tool not found after registration")
	}

	result, err := fn(json.RawMessage(`{"city":"Paris"}`))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(result, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["forecast"] != "Sunny in Paris" {
		t.Errorf("forecast = %q", decoded["forecast"])
	}
}

func TestInvokeBadInput(t *testing.T) {
	registry := NewToolRegistry()
	if err := RegisterTool(registry, "get_weather", "", func(args weatherArgs) (any, error) {
		return nil, nil
	}); err != nil {
		t.Fatal(err)
	}

	fn, _ := registry.Get("get_weather")
	_, err := fn(json.RawMessage(`{"city":`))
	if err == nil {
		t.Fatal("expected error for malformed arguments")
	}
	if !IsKind(err, KindToolInput) {
		t.Errorf("kind = %v, want tool_input", err)
	}
}

func TestExportToolShape(t *testing.T) {
	registry := NewToolRegistry()
	if err := RegisterTool(registry, "get_weather", "Look up current weather", func(args weatherArgs) (any, error) {
		return nil, nil
	}); err != nil {
		t.Fatal(err)
	}

	decl := registry.ExportTool("get_weather")
	if decl == nil {
		t.Fatal("export returned nil")
	}
	if decl["type"] != "function" {
		t.Errorf("type = %v", decl["type"])
	}

	fn, ok := decl["function"].(map[string]any)
	if !ok {
		t.Fatalf("function = %T", decl["function"])
	}
	if fn["name"] != "get_weather" {
		t.Errorf("name = %v", fn["name"])
	}
	if fn["description"] != "Look up current weather" {
		t.Errorf("description = %v", fn["description"])
	}

	params, ok := fn["parameters"].(map[string]any)
	if !ok {
		t.Fatalf("parameters = %T", fn["parameters"])
	}
	if params["type"] != "object" {
		t.Errorf("parameters type = %v", params["type"])
	}
	props, ok := params["properties"].(map[string]any)
	if !ok || props["city"] == nil {
		t.Errorf("properties = %v", params["properties"])
	}
}

func TestExportUnknownTool(t *testing.T) {
	registry := NewToolRegistry()
	if decl := registry.ExportTool("missing"); decl != nil {
		t.Errorf("export of unknown tool = %v, want nil", decl)
	}
	if all := registry.ExportAllTools(); all != nil {
		t.Errorf("export of empty registry = %v, want nil", all)
	}
}

func TestRegisterReplaces(t *testing.T) {
	registry := NewToolRegistry()
	if err := RegisterTool(registry, "echo", "first", func(args weatherArgs) (any, error) {
		return "first", nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := RegisterTool(registry, "echo", "second", func(args weatherArgs) (any, error) {
		return "second", nil
	}); err != nil {
		t.Fatal(err)
	}

	fn, _ := registry.Get("echo")
	result, err := fn(json.RawMessage(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(result) != `"second"` {
		t.Errorf("result = %s, want second registration", result)
	}
	decl := registry.ExportTool("echo")
	fnDecl := decl["function"].(map[string]any)
	if fnDecl["description"] != "second" {
		t.Errorf("description = %v", fnDecl["description"])
	}
}
