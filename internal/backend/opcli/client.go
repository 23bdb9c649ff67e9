// Package opcli implements the backend client on top of the `op`
// command-line tool. Everything here is thin wiring: JSON in, typed
// records out. The resolution engine never knows it is talking to a
// subprocess.
package opcli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/systmms/vaultfill/internal/logging"
	"github.com/systmms/vaultfill/pkg/backend"
)

// Client shells out to the op CLI. It implements backend.Client.
type Client struct {
	// Account selects a specific op account when several are signed
	// in. Optional.
	Account string

	creds  *credentials
	logger *logging.Logger
}

// New creates an op CLI client, selecting credentials once upfront.
func New(logger *logging.Logger, account string) *Client {
	creds := detectCredentials()
	logger.Debug("Using %s authentication", creds.method)
	return &Client{
		Account: account,
		creds:   creds,
		logger:  logger,
	}
}

// AuthMethod reports the credential source chosen at construction.
func (c *Client) AuthMethod() AuthMethod {
	return c.creds.method
}

// FetchItem loads one item from one vault via `op item get`.
func (c *Client) FetchItem(ctx context.Context, item, vault string) (*backend.Item, error) {
	args := []string{"item", "get", item, "--vault", vault, "--format", "json"}

	output, err := c.run(ctx, args)
	if err != nil {
		if isNotFound(err) {
			return nil, backend.NotFoundError{Item: item, Vault: vault}
		}
		return nil, err
	}

	var record backend.Item
	if err := json.Unmarshal(output, &record); err != nil {
		return nil, fmt.Errorf("failed to parse item response: %w", err)
	}
	return &record, nil
}

// ListVaults enumerates the vaults visible to the current credentials.
func (c *Client) ListVaults(ctx context.Context) ([]backend.Vault, error) {
	output, err := c.run(ctx, []string{"vault", "list", "--format", "json"})
	if err != nil {
		return nil, err
	}

	var vaults []backend.Vault
	if err := json.Unmarshal(output, &vaults); err != nil {
		return nil, fmt.Errorf("failed to parse vault list: %w", err)
	}
	return vaults, nil
}

// ValidateAccess is the upfront authentication gate: the CLI must be
// installed and the selected credentials must identify an account.
func (c *Client) ValidateAccess(ctx context.Context) error {
	if _, err := exec.LookPath("op"); err != nil {
		return fmt.Errorf("op CLI not found in PATH: %w", err)
	}

	if _, err := c.run(ctx, []string{"whoami"}); err != nil {
		return backend.AuthError{Message: err.Error()}
	}
	return nil
}

// run executes one op CLI invocation with the selected credentials.
func (c *Client) run(ctx context.Context, args []string) ([]byte, error) {
	if c.Account != "" {
		args = append(args, "--account", c.Account)
	}

	env, err := c.creds.environ()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "op", args...)
	cmd.Env = env

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				return nil, fmt.Errorf("op CLI error: %s", stderr)
			}
		}
		return nil, fmt.Errorf("failed to execute op CLI: %w", err)
	}
	return output, nil
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "isn't an item") || strings.Contains(msg, "not found")
}
