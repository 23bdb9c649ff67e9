package fill_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/vaultfill/pkg/backend"
	"github.com/systmms/vaultfill/pkg/fill"
	"github.com/systmms/vaultfill/tests/fakes"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeClient().WithItem(&backend.Item{
		ID:    "item1",
		Title: "item1",
		Vault: backend.Vault{ID: "vault1", Name: "vault1"},
		Fields: []backend.Field{
			{ID: "f-1", Label: "field1", Value: "secretValue123"},
		},
	})

	cfg := map[string]any{
		"MY_SECRET": "op://vault1/item1/field1",
		"PLAIN":     "untouched",
	}
	out, err := fill.Config(context.Background(), cfg, fill.Options{
		Client: client,
		Env:    fakes.MapEnv{},
	})
	require.NoError(t, err)
	assert.Equal(t, "secretValue123", out["MY_SECRET"])
	assert.Equal(t, "untouched", out["PLAIN"])
	assert.Equal(t, "op://vault1/item1/field1", cfg["MY_SECRET"])
}

func TestConfigContinueOnError(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeClient()
	cfg := map[string]any{"MISSING": "op://vault1/item/field"}

	out, err := fill.Config(context.Background(), cfg, fill.Options{
		Client:          client,
		ContinueOnError: true,
		Env:             fakes.MapEnv{},
	})
	require.NoError(t, err)
	assert.Equal(t, "op://vault1/item/field", out["MISSING"])
}

func TestConfigEnvironmentFallback(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeClient().WithItem(&backend.Item{
		ID:    "item1",
		Title: "Login",
		Vault: backend.Vault{ID: "v-1", Name: "env-vault"},
		Fields: []backend.Field{
			{ID: "f-1", Label: "password", Value: "hunter2"},
		},
	})

	out, err := fill.Config(context.Background(),
		map[string]any{"PASSWORD": "op://password"},
		fill.Options{
			Client: client,
			Env:    fakes.MapEnv{"OP_VAULT": "env-vault", "OP_ITEM": "Login"},
		})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", out["PASSWORD"])
}
