package config

import (
	"encoding/hex"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	macaroon "gopkg.in/macaroon.v2"
)

const testConfig = `[
	{
		"alias": "alice",
		"rest_port": 8081,
		"macaroons": [
			{"type": "admin", "path": "/macaroons/alice/admin.macaroon"},
			{"type": "readonly", "path": "/macaroons/alice/readonly.macaroon"}
		]
	},
	{
		"alias": "carol",
		"host": "carol.local",
		"rest_port": 8083,
		"macaroons": [
			{"type": "admin", "path": "/macaroons/carol/admin.macaroon"}
		]
	}
]`

func writeTestConfig(t *testing.T) (afero.Fs, *Config) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "ln.json", []byte(testConfig), 0o600))

	cfg, err := Load(fs, "ln.json")
	require.NoError(t, err)

	return fs, cfg
}

func TestLoad(t *testing.T) {
	t.Run("resolves aliases in file order", func(t *testing.T) {
		_, cfg := writeTestConfig(t)
		require.Equal(t, []string{"alice", "carol"}, cfg.Aliases())

		node, err := cfg.Node("alice")
		require.NoError(t, err)
		require.Equal(t, uint32(8081), node.RestPort)
	})

	t.Run("unknown alias", func(t *testing.T) {
		_, cfg := writeTestConfig(t)
		_, err := cfg.Node("mallory")
		require.ErrorIs(t, err, ErrUnknownNode)
		require.False(t, cfg.HasNode("mallory"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(afero.NewMemMapFs(), "ln.json")
		require.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "ln.json", []byte("{not json"), 0o600))
		_, err := Load(fs, "ln.json")
		require.Error(t, err)
	})

	t.Run("duplicate alias", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		dup := `[{"alias": "alice", "rest_port": 1}, {"alias": "alice", "rest_port": 2}]`
		require.NoError(t, afero.WriteFile(fs, "ln.json", []byte(dup), 0o600))
		_, err := Load(fs, "ln.json")
		require.Error(t, err)
	})
}

func TestNodeEndpoint(t *testing.T) {
	_, cfg := writeTestConfig(t)

	alice, err := cfg.Node("alice")
	require.NoError(t, err)
	require.Equal(t, "https://localhost:8081", alice.Endpoint())

	carol, err := cfg.Node("carol")
	require.NoError(t, err)
	require.Equal(t, "https://carol.local:8083", carol.Endpoint())
}

func TestMacaroonHex(t *testing.T) {
	fs, cfg := writeTestConfig(t)

	mac, err := macaroon.New([]byte("root key"), []byte("0"), "lnd", macaroon.LatestVersion)
	require.NoError(t, err)
	raw, err := mac.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/macaroons/alice/admin.macaroon", raw, 0o600))

	t.Run("valid macaroon", func(t *testing.T) {
		got, err := cfg.MacaroonHex("alice", AdminMacaroon)
		require.NoError(t, err)
		require.Equal(t, hex.EncodeToString(raw), got)
	})

	t.Run("missing macaroon type", func(t *testing.T) {
		_, err := cfg.MacaroonHex("carol", "invoice")
		require.ErrorIs(t, err, ErrMacaroonNotFound)
	})

	t.Run("corrupt macaroon file", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/macaroons/carol/admin.macaroon", []byte("garbage"), 0o600))
		_, err := cfg.MacaroonHex("carol", AdminMacaroon)
		require.Error(t, err)
	})
}
