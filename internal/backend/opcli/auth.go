package opcli

import (
	"errors"
	"fmt"
	"os"

	"github.com/systmms/vaultfill/internal/secure"
	"github.com/zalando/go-keyring"
)

// Credential selection is a single upfront gate: the method is picked
// once when the client is created and every CLI invocation uses it.
// Precedence: explicit service-account token, keyring-stored
// service-account token, Connect host/token pair, interactive CLI
// session.

const (
	serviceAccountTokenEnv = "OP_SERVICE_ACCOUNT_TOKEN"
	connectHostEnv         = "OP_CONNECT_HOST"
	connectTokenEnv        = "OP_CONNECT_TOKEN"

	keyringService = "vaultfill"
	keyringAccount = "service-account-token"
)

// AuthMethod names how the client authenticates to the backend.
type AuthMethod string

const (
	AuthServiceAccount AuthMethod = "service-account"
	AuthConnect        AuthMethod = "connect"
	AuthCLISession     AuthMethod = "cli-session"
)

type credentials struct {
	method AuthMethod

	// token is set only when the service-account token came from the
	// OS keyring and must be injected into the op CLI's environment.
	// Tokens already present in the process environment are left
	// where they are.
	token *secure.Buffer
}

// detectCredentials picks the authentication method for this process.
func detectCredentials() *credentials {
	if os.Getenv(serviceAccountTokenEnv) != "" {
		return &credentials{method: AuthServiceAccount}
	}

	if token, err := keyring.Get(keyringService, keyringAccount); err == nil && token != "" {
		return &credentials{
			method: AuthServiceAccount,
			token:  secure.NewBuffer([]byte(token)),
		}
	}

	if os.Getenv(connectHostEnv) != "" && os.Getenv(connectTokenEnv) != "" {
		return &credentials{method: AuthConnect}
	}

	return &credentials{method: AuthCLISession}
}

// environ builds the environment for an op CLI invocation, injecting
// the keyring-sourced token when one is held.
func (c *credentials) environ() ([]string, error) {
	env := os.Environ()
	if c.token == nil {
		return env, nil
	}

	locked, err := c.token.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open credential buffer: %w", err)
	}
	defer locked.Destroy()

	return append(env, serviceAccountTokenEnv+"="+locked.String()), nil
}

// StoreServiceAccountToken saves a service-account token in the OS
// keyring for later sessions.
func StoreServiceAccountToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	return keyring.Set(keyringService, keyringAccount, token)
}

// ClearServiceAccountToken removes a previously stored token. A
// missing entry is not an error.
func ClearServiceAccountToken() error {
	err := keyring.Delete(keyringService, keyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
