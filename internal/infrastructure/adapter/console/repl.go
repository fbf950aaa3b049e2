package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"viterbit-gateway/internal/application/dto"
	signalhandler "viterbit-gateway/internal/infrastructure/signal"

	prompt "github.com/c-bata/go-prompt"
)

// REPL is an interactive console session against one gateway.
type REPL struct {
	client    *Client
	history   *History
	interrupt *signalhandler.InterruptHandler
	out       io.Writer

	ctx      context.Context
	tools    []dto.ToolDescriptor
	quitting bool
}

// NewREPL creates a console session bound to a gateway client. The
// interrupt handler is optional; without one Ctrl+C only clears the
// current line.
func NewREPL(client *Client, history *History, interrupt *signalhandler.InterruptHandler) *REPL {
	return &REPL{
		client:    client,
		history:   history,
		interrupt: interrupt,
		out:       os.Stdout,
	}
}

// load fetches the catalog the completer and dispatcher work from.
func (r *REPL) load(ctx context.Context) error {
	r.ctx = ctx

	tools, err := r.client.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	r.tools = tools
	return nil
}

// Run fetches the catalog and enters the prompt loop. It returns when the
// operator types exit or confirms Ctrl+C twice.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.load(ctx); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Connected, %d tools available. Type 'help' for commands.\n", len(r.tools))

	opts := []prompt.Option{
		prompt.OptionTitle("viterbit-gateway console"),
		prompt.OptionPrefix("gateway> "),
		prompt.OptionHistory(r.history.Entries()),
		prompt.OptionSetExitCheckerOnInput(r.shouldExit),
	}
	if r.interrupt != nil {
		// The prompt owns the terminal in raw mode, so Ctrl+C arrives as a
		// key event rather than SIGINT. Feed it into the two-step handler.
		opts = append(opts, prompt.OptionAddKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn:  func(*prompt.Buffer) { r.interrupt.SimulateInterrupt() },
		}))
		go func() {
			for range r.interrupt.FirstPress() {
				fmt.Fprintf(r.out, "\nPress Ctrl+C again to exit\n")
			}
		}()
	}

	prompt.New(r.execute, r.complete, opts...).Run()
	return nil
}

// shouldExit tells the prompt loop to stop after the current input.
func (r *REPL) shouldExit(_ string, _ bool) bool {
	if r.quitting {
		return true
	}
	if r.interrupt != nil {
		select {
		case <-r.interrupt.Context().Done():
			return true
		default:
		}
	}
	return false
}

// execute handles one submitted line.
func (r *REPL) execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	_ = r.history.Add(line)

	command, rest := splitCommand(line)
	switch command {
	case "help":
		r.printHelp()
	case "tools", "list":
		r.printTools()
	case "describe":
		r.describeTool(rest)
	case "call":
		r.callTool(rest)
	case "health":
		r.printHealth()
	case "exit", "quit":
		r.quitting = true
	default:
		// A bare tool name with optional JSON arguments works like call
		if r.knownTool(command) {
			r.callTool(line)
			return
		}
		fmt.Fprintf(r.out, "Unknown command %q. Type 'help' for commands.\n", command)
	}
}

// complete suggests commands for the first word and tool names after
// call and describe.
func (r *REPL) complete(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	fields := strings.Fields(text)

	onFirstWord := len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(text, " "))
	if onFirstWord {
		return prompt.FilterHasPrefix(r.commandSuggestions(), d.GetWordBeforeCursor(), true)
	}

	switch fields[0] {
	case "call", "describe":
		onToolWord := len(fields) == 1 || (len(fields) == 2 && !strings.HasSuffix(text, " "))
		if onToolWord {
			return prompt.FilterHasPrefix(r.toolSuggestions(), d.GetWordBeforeCursor(), true)
		}
	}
	return nil
}

func (r *REPL) commandSuggestions() []prompt.Suggest {
	suggestions := []prompt.Suggest{
		{Text: "tools", Description: "List available tools"},
		{Text: "describe", Description: "Show a tool's description and argument schema"},
		{Text: "call", Description: "Invoke a tool with JSON arguments"},
		{Text: "health", Description: "Check gateway health"},
		{Text: "help", Description: "Show available commands"},
		{Text: "exit", Description: "Leave the console"},
	}
	return append(suggestions, r.toolSuggestions()...)
}

func (r *REPL) toolSuggestions() []prompt.Suggest {
	suggestions := make([]prompt.Suggest, 0, len(r.tools))
	for _, tool := range r.tools {
		suggestions = append(suggestions, prompt.Suggest{Text: tool.Name, Description: firstLine(tool.Description)})
	}
	return suggestions
}

func (r *REPL) knownTool(name string) bool {
	for _, tool := range r.tools {
		if tool.Name == name {
			return true
		}
	}
	return false
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, `Commands:
  tools                      List available tools
  describe <tool>            Show a tool's description and argument schema
  call <tool> [json]         Invoke a tool with JSON arguments
  <tool> [json]              Shorthand for call
  health                     Check gateway health
  exit                       Leave the console

Example:
  call search_candidate {"email": "ada@example.com"}
`)
}

func (r *REPL) printTools() {
	for _, tool := range r.tools {
		fmt.Fprintf(r.out, "  %-36s %s\n", tool.Name, firstLine(tool.Description))
	}
	fmt.Fprintf(r.out, "%d tools\n", len(r.tools))
}

func (r *REPL) describeTool(name string) {
	if name == "" {
		fmt.Fprintln(r.out, "Usage: describe <tool>")
		return
	}
	for _, tool := range r.tools {
		if tool.Name != name {
			continue
		}
		fmt.Fprintf(r.out, "%s\n\n%s\n", tool.Name, tool.Description)
		var schema bytes.Buffer
		if err := json.Indent(&schema, tool.InputSchema, "", "  "); err == nil {
			fmt.Fprintf(r.out, "\nArguments:\n%s\n", schema.String())
		}
		return
	}
	fmt.Fprintf(r.out, "Unknown tool %q\n", name)
}

// callTool parses "<tool> [json]" and dispatches the invocation.
func (r *REPL) callTool(input string) {
	name, rawArgs := splitCommand(input)
	if name == "" {
		fmt.Fprintln(r.out, "Usage: call <tool> [json arguments]")
		return
	}

	arguments := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &arguments); err != nil {
			fmt.Fprintf(r.out, "Invalid JSON arguments: %v\n", err)
			return
		}
	}

	result, err := r.client.CallTool(r.ctx, name, arguments)
	if err != nil {
		fmt.Fprintf(r.out, "Call failed: %v\n", err)
		return
	}
	r.printResult(result)
}

func (r *REPL) printResult(result *dto.CallResult) {
	if !result.Success {
		fmt.Fprintf(r.out, "Error: %s\n", result.Error)
		return
	}
	pretty, err := json.MarshalIndent(result.Result, "", "  ")
	if err != nil {
		fmt.Fprintf(r.out, "%v\n", result.Result)
		return
	}
	fmt.Fprintf(r.out, "%s\n", pretty)
}

func (r *REPL) printHealth() {
	status, err := r.client.Health(r.ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Health check failed: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "%s, version %s, %d tools\n", status.Status, status.Version, status.ToolsCount)
}

// splitCommand separates the first word from the remainder of the line.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		return line[:i], strings.TrimSpace(line[i:])
	}
	return line, ""
}

// firstLine returns the text up to the first line break.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
