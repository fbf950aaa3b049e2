package console

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	signalhandler "viterbit-gateway/internal/infrastructure/signal"

	prompt "github.com/c-bata/go-prompt"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer, *gatewayStub) {
	t.Helper()
	stub := &gatewayStub{}
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)

	repl := NewREPL(NewClient(server.URL, ""), NewHistory("", 10), nil)
	out := &bytes.Buffer{}
	repl.out = out

	if err := repl.load(context.Background()); err != nil {
		t.Fatalf("load() error = %v", err)
	}
	return repl, out, stub
}

// docOf builds a prompt document with the cursor at the end of the text.
func docOf(text string) prompt.Document {
	buf := prompt.NewBuffer()
	buf.InsertText(text, false, true)
	return *buf.Document()
}

func suggestionTexts(suggestions []prompt.Suggest) []string {
	texts := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		texts = append(texts, s.Text)
	}
	return texts
}

func TestREPL_Execute(t *testing.T) {
	t.Run("should list tools", func(t *testing.T) {
		repl, out, _ := newTestREPL(t)

		repl.execute("tools")

		for _, want := range []string{"ping", "echo", "2 tools"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("should describe a tool with its schema", func(t *testing.T) {
		repl, out, _ := newTestREPL(t)

		repl.execute("describe ping")

		if !strings.Contains(out.String(), "Liveness check.") {
			t.Errorf("output missing description:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "Arguments:") {
			t.Errorf("output missing schema section:\n%s", out.String())
		}
	})

	t.Run("should report unknown tools on describe", func(t *testing.T) {
		repl, out, _ := newTestREPL(t)

		repl.execute("describe nope")

		if !strings.Contains(out.String(), `Unknown tool "nope"`) {
			t.Errorf("output = %s", out.String())
		}
	})

	t.Run("should dispatch a call with JSON arguments", func(t *testing.T) {
		repl, out, stub := newTestREPL(t)

		repl.execute(`call ping {"message": "hi"}`)

		if stub.lastBody["name"] != "ping" {
			t.Errorf("dispatched name = %v, want ping", stub.lastBody["name"])
		}
		arguments, ok := stub.lastBody["arguments"].(map[string]any)
		if !ok || arguments["message"] != "hi" {
			t.Errorf("dispatched arguments = %v", stub.lastBody["arguments"])
		}
		if !strings.Contains(out.String(), `"status": "ok"`) {
			t.Errorf("output missing result:\n%s", out.String())
		}
	})

	t.Run("should treat a bare tool name as a call", func(t *testing.T) {
		repl, _, stub := newTestREPL(t)

		repl.execute(`ping {"message": "hi"}`)

		if stub.lastBody["name"] != "ping" {
			t.Errorf("dispatched name = %v, want ping", stub.lastBody["name"])
		}
	})

	t.Run("should print envelope failures", func(t *testing.T) {
		repl, out, _ := newTestREPL(t)

		repl.execute("call bogus")

		if !strings.Contains(out.String(), "Error: Unknown tool: bogus") {
			t.Errorf("output = %s", out.String())
		}
	})

	t.Run("should reject invalid JSON arguments", func(t *testing.T) {
		repl, out, stub := newTestREPL(t)

		repl.execute("call ping {not json")

		if !strings.Contains(out.String(), "Invalid JSON arguments") {
			t.Errorf("output = %s", out.String())
		}
		if stub.lastBody != nil {
			t.Error("nothing should be dispatched for invalid arguments")
		}
	})

	t.Run("should print unknown commands", func(t *testing.T) {
		repl, out, _ := newTestREPL(t)

		repl.execute("frobnicate")

		if !strings.Contains(out.String(), `Unknown command "frobnicate"`) {
			t.Errorf("output = %s", out.String())
		}
	})

	t.Run("should report health", func(t *testing.T) {
		repl, out, _ := newTestREPL(t)

		repl.execute("health")

		if !strings.Contains(out.String(), "healthy, version 2.0.0, 2 tools") {
			t.Errorf("output = %s", out.String())
		}
	})

	t.Run("should show help", func(t *testing.T) {
		repl, out, _ := newTestREPL(t)

		repl.execute("help")

		if !strings.Contains(out.String(), "Commands:") {
			t.Errorf("output = %s", out.String())
		}
	})

	t.Run("should record history", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		repl.execute("tools")

		if repl.history.Size() != 1 {
			t.Errorf("history size = %d, want 1", repl.history.Size())
		}
	})

	t.Run("should ignore empty lines", func(t *testing.T) {
		repl, out, _ := newTestREPL(t)

		repl.execute("   ")

		if out.Len() != 0 {
			t.Errorf("output = %s, want none", out.String())
		}
		if repl.history.Size() != 0 {
			t.Errorf("history size = %d, want 0", repl.history.Size())
		}
	})
}

func TestREPL_Complete(t *testing.T) {
	t.Run("should suggest commands and tools for the first word", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		texts := suggestionTexts(repl.complete(docOf("")))

		for _, want := range []string{"tools", "describe", "call", "health", "help", "exit", "ping", "echo"} {
			found := false
			for _, text := range texts {
				if text == want {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("suggestions missing %q: %v", want, texts)
			}
		}
	})

	t.Run("should filter first-word suggestions by prefix", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		texts := suggestionTexts(repl.complete(docOf("he")))

		if len(texts) != 2 {
			t.Fatalf("suggestions = %v, want [health help]", texts)
		}
	})

	t.Run("should suggest tool names after call", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		texts := suggestionTexts(repl.complete(docOf("call p")))

		if len(texts) != 1 || texts[0] != "ping" {
			t.Errorf("suggestions = %v, want [ping]", texts)
		}
	})

	t.Run("should suggest every tool after describe with a space", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		texts := suggestionTexts(repl.complete(docOf("describe ")))

		if len(texts) != 2 {
			t.Errorf("suggestions = %v, want both tools", texts)
		}
	})

	t.Run("should stop suggesting once arguments begin", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		if got := repl.complete(docOf("call ping ")); got != nil {
			t.Errorf("suggestions = %v, want nil", got)
		}
	})
}

func TestREPL_ShouldExit(t *testing.T) {
	t.Run("should stay in the loop by default", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		if repl.shouldExit("", false) {
			t.Error("shouldExit() = true, want false")
		}
	})

	t.Run("should leave after exit", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		repl.execute("exit")

		if !repl.shouldExit("exit", true) {
			t.Error("shouldExit() = false, want true after exit")
		}
	})

	t.Run("should leave after a confirmed interrupt", func(t *testing.T) {
		repl, _, _ := newTestREPL(t)

		handler := signalhandler.NewInterruptHandler(time.Second)
		handler.Start()
		defer handler.Stop()
		repl.interrupt = handler

		handler.SimulateInterrupt()
		handler.SimulateInterrupt()

		if !repl.shouldExit("", false) {
			t.Error("shouldExit() = false, want true after double interrupt")
		}
	})
}

func TestREPL_Run(t *testing.T) {
	t.Run("should fail when the catalog cannot be loaded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)

		repl := NewREPL(NewClient(server.URL, ""), NewHistory("", 10), nil)
		repl.out = io.Discard

		err := repl.Run(context.Background())
		if err == nil || !strings.Contains(err.Error(), "failed to load catalog") {
			t.Errorf("Run() error = %v, want catalog load failure", err)
		}
	})
}
