// Package repl implements the interactive shell over the control
// facade.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"agentdoctor/internal/control"
)

// REPL is the interactive shell.
type REPL struct {
	ctl      *control.Control
	rl       *readline.Instance
	commands map[string]CommandHandler
}

// CommandHandler handles one command with its arguments.
type CommandHandler func(args []string) error

// New creates a shell over the control facade.
func New(ctl *control.Control) (*REPL, error) {
	if ctl == nil {
		return nil, fmt.Errorf("control facade is required")
	}
	r := &REPL{
		ctl:      ctl,
		commands: make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r, nil
}

// Run starts the shell loop and blocks until exit.
func (r *REPL) Run() error {
	cyan := color.New(color.FgCyan).SprintFunc()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("agentdoctor> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	command := parts[0]
	args := parts[1:]

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Unknown command %q. Type 'help' for available commands.\n", yellow("Note:"), command)
	return nil
}

func (r *REPL) registerCommands() {
	r.commands["status"] = func(args []string) error { return r.ctl.Status() }
	r.commands["diagnose"] = func(args []string) error {
		_, err := r.ctl.Diagnose(true)
		return err
	}
	r.commands["health"] = func(args []string) error {
		scope := ""
		if len(args) > 0 {
			scope = args[0]
		}
		_, _, err := r.ctl.Health(scope, true)
		return err
	}
	r.commands["optimize"] = func(args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		_, err := r.ctl.Optimize(target, false)
		return err
	}
	r.commands["list"] = func(args []string) error { return r.ctl.List() }
	r.commands["spawn"] = func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: spawn <request>")
		}
		return r.ctl.Spawn(strings.Join(args, " "))
	}
	r.commands["create"] = func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: create <name>")
		}
		return r.ctl.Create(args[0])
	}
	r.commands["evolve"] = func(args []string) error { return r.ctl.Evolve() }
	r.commands["validate"] = func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: validate <path>...")
		}
		return r.ctl.Validate(args)
	}
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
}

func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("agentdoctor interactive shell"))
	fmt.Println("Agent health monitoring, optimization, and spawning")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"status", "Show system status"},
		{"diagnose", "Run full diagnostic with auto-fix"},
		{"health [agent]", "Check agent health with auto-repair"},
		{"optimize [agent]", "Optimize all agents or a specific agent"},
		{"list", "List registered agents"},
		{"spawn <request>", "Spawn an agent based on a request"},
		{"create <name>", "Create a named agent"},
		{"evolve", "Run the full auto-evolution cycle"},
		{"validate <path>", "Check where a file should be saved"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Printf("  %-18s %s\n", cmd.name, cmd.desc)
	}
	fmt.Println()
	return nil
}

func (r *REPL) cmdExit(args []string) error {
	fmt.Println("Goodbye!")
	return io.EOF
}
