// Package execenv runs a child process with resolved configuration
// values injected as environment variables. Values exist only in the
// child's environment; nothing is written to disk.
package execenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	dserrors "github.com/systmms/vaultfill/internal/errors"
	"github.com/systmms/vaultfill/internal/logging"
)

// Executor handles running commands with ephemeral environment variables
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor
func New(logger *logging.Logger) *Executor {
	return &Executor{logger: logger}
}

// Options configures command execution
type Options struct {
	Command       []string       // Command and arguments to run
	Config        map[string]any // Resolved configuration; string values become env vars
	AllowOverride bool           // Let pre-existing process env vars win over resolved values
	PrintVars     bool           // Print injected variable names (values masked)
	WorkingDir    string         // Working directory for the command
	Timeout       int            // Timeout in seconds (0 for no timeout)
}

// Exec runs a command with the resolved values as environment variables
func (e *Executor) Exec(ctx context.Context, options Options) error {
	if len(options.Command) == 0 {
		return dserrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., vaultfill exec .env -- npm test)",
		}
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(options.Timeout)*time.Second)
		defer cancel()
	}

	cmdName := options.Command[0]
	if _, err := exec.LookPath(cmdName); err != nil {
		return dserrors.UserError{
			Message:    fmt.Sprintf("Command '%s' not found", cmdName),
			Suggestion: fmt.Sprintf("Make sure '%s' is installed and in your PATH", cmdName),
			Err:        err,
		}
	}

	injected := stringValues(options.Config)
	env := buildEnvironment(injected, options.AllowOverride)

	if options.PrintVars {
		e.printVariables(injected)
	}

	cmd := exec.CommandContext(ctx, cmdName, options.Command[1:]...)
	cmd.Env = env
	cmd.Dir = options.WorkingDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	e.logger.Debug("Running '%s' with %d injected variable(s)", cmdName, len(injected))

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return dserrors.UserError{
				Message: fmt.Sprintf("Command '%s' exited with code %d", cmdName, exitErr.ExitCode()),
				Err:     err,
			}
		}
		return fmt.Errorf("failed to run '%s': %w", cmdName, err)
	}
	return nil
}

// stringValues extracts the string-valued entries of the resolved map.
func stringValues(cfg map[string]any) map[string]string {
	out := make(map[string]string, len(cfg))
	for k, v := range cfg {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// buildEnvironment merges the injected variables over the process
// environment. With AllowOverride, variables already set in the
// process win instead.
func buildEnvironment(injected map[string]string, allowOverride bool) []string {
	env := os.Environ()

	existing := make(map[string]bool, len(env))
	for _, kv := range env {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				existing[kv[:i]] = true
				break
			}
		}
	}

	keys := make([]string, 0, len(injected))
	for k := range injected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if allowOverride && existing[k] {
			continue
		}
		env = append(env, k+"="+injected[k])
	}
	return env
}

// printVariables lists the injected variable names with masked values.
func (e *Executor) printVariables(injected map[string]string) {
	keys := make([]string, 0, len(injected))
	for k := range injected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e.logger.Info("%s=%s", k, logging.Secret(injected[k]))
	}
}
