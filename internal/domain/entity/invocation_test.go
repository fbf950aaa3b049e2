package entity

import "testing"

func TestInvocation_NewInvocation(t *testing.T) {
	t.Run("should replace nil arguments with empty map", func(t *testing.T) {
		inv := NewInvocation("ping", nil)
		if inv.Arguments == nil {
			t.Fatal("NewInvocation() arguments must never be nil")
		}
		if len(inv.Arguments) != 0 {
			t.Errorf("NewInvocation() arguments = %v, want empty", inv.Arguments)
		}
	})

	t.Run("should keep provided arguments", func(t *testing.T) {
		inv := NewInvocation("echo", map[string]any{"message": "hola"})
		if inv.Operation != "echo" {
			t.Errorf("NewInvocation() operation = %v, want echo", inv.Operation)
		}
		if inv.Arguments["message"] != "hola" {
			t.Errorf("NewInvocation() arguments = %v, want message preserved", inv.Arguments)
		}
	})
}

func TestInvocation_IsIntrospection(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		want      bool
	}{
		{name: "canonical reserved name", operation: "list_tools", want: true},
		{name: "camelCase reserved name", operation: "listTools", want: true},
		{name: "upper case reserved name", operation: "LIST_TOOLS", want: true},
		{name: "regular operation", operation: "search_candidate", want: false},
		{name: "empty operation", operation: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewInvocation(tt.operation, nil)
			if got := inv.IsIntrospection(); got != tt.want {
				t.Errorf("IsIntrospection() = %v, want %v", got, tt.want)
			}
		})
	}
}
