// Package config loads the Lightning node descriptors used by the swap
// daemon. The file is a JSON array of nodes, each carrying an alias, a REST
// port and one or more macaroon files tagged by privilege type.
package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	log "github.com/sirupsen/logrus"
	macaroon "gopkg.in/macaroon.v2"
)

const (
	// DefaultPath is where the node configuration is looked up when no
	// --config flag is given.
	DefaultPath = "ln.json"

	// AdminMacaroon is the privilege type required for invoice and payment
	// operations.
	AdminMacaroon = "admin"
)

var (
	ErrUnknownNode      = errors.New("node alias not found in configuration")
	ErrMacaroonNotFound = errors.New("macaroon type not found for node")
)

type Macaroon struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

type Node struct {
	Alias     string     `json:"alias"`
	Host      string     `json:"host,omitempty"`
	RestPort  uint32     `json:"rest_port"`
	Macaroons []Macaroon `json:"macaroons"`
}

// Endpoint returns the base URL of the node's REST interface.
func (n *Node) Endpoint() string {
	host := n.Host
	if host == "" {
		host = "localhost"
	}

	return fmt.Sprintf("https://%s:%d", host, n.RestPort)
}

// MacaroonPath returns the credential file path for the given privilege type.
func (n *Node) MacaroonPath(macaroonType string) (string, error) {
	for _, m := range n.Macaroons {
		if m.Type == macaroonType {
			return m.Path, nil
		}
	}

	return "", fmt.Errorf("%w: %q for node %q", ErrMacaroonNotFound, macaroonType, n.Alias)
}

// Config is an ordered collection of node descriptors indexed by alias.
type Config struct {
	nodes   []Node
	byAlias map[string]*Node
	fs      afero.Fs
}

// Load reads and validates the node configuration file. Any failure here is
// fatal for the caller: without node descriptors no operation can run.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed reading node configuration %q: %w", path, err)
	}

	var nodes []Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("malformed node configuration %q: %w", path, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("node configuration %q contains no nodes", path)
	}

	cfg := &Config{
		nodes:   nodes,
		byAlias: make(map[string]*Node, len(nodes)),
		fs:      fs,
	}
	for i := range nodes {
		n := &cfg.nodes[i]
		if n.Alias == "" {
			return nil, fmt.Errorf("node configuration %q: node %d has no alias", path, i)
		}
		if _, ok := cfg.byAlias[n.Alias]; ok {
			return nil, fmt.Errorf("node configuration %q: duplicate alias %q", path, n.Alias)
		}
		cfg.byAlias[n.Alias] = n
	}

	log.Infof("Loaded configuration for nodes: %v", cfg.Aliases())

	return cfg, nil
}

// Node resolves an alias to its descriptor.
func (c *Config) Node(alias string) (*Node, error) {
	node, ok := c.byAlias[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, alias)
	}

	return node, nil
}

// HasNode reports whether an alias is configured.
func (c *Config) HasNode(alias string) bool {
	_, ok := c.byAlias[alias]

	return ok
}

// Aliases returns the configured aliases in file order.
func (c *Config) Aliases() []string {
	aliases := make([]string, 0, len(c.nodes))
	for i := range c.nodes {
		aliases = append(aliases, c.nodes[i].Alias)
	}

	return aliases
}

// MacaroonHex reads the node's macaroon of the given type and returns it
// hex-encoded, ready for the Grpc-Metadata-macaroon header. The file is
// decoded with macaroon.v2 first so a truncated or corrupt credential fails
// here instead of as an opaque 401 from the node.
func (c *Config) MacaroonHex(alias, macaroonType string) (string, error) {
	node, err := c.Node(alias)
	if err != nil {
		return "", err
	}

	path, err := node.MacaroonPath(macaroonType)
	if err != nil {
		return "", err
	}

	raw, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed reading macaroon file %q: %w", path, err)
	}

	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(raw); err != nil {
		return "", fmt.Errorf("failed unmarshalling macaroon %q: %w", path, err)
	}

	return hex.EncodeToString(raw), nil
}
