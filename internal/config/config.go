// Package config loads the CLI's persisted server registry: the set of
// named sync servers saved as TOML under the data directory (spec §9's
// "no persisted state at the core layer" is honored — only cmd/cw
// imports this package, never internal/protocol or internal/syncvalue).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ServerEntry is a saved sync server connection (client-side).
type ServerEntry struct {
	URL      string `toml:"url"`
	AdminKey string `toml:"admin_key,omitempty"`
}

// ServersConfig is the client-side servers list (~/.syncwire/servers.toml).
type ServersConfig struct {
	// Default names the entry in Servers that Resolve uses for an empty name.
	Default string                 `toml:"default,omitempty"`
	Servers map[string]ServerEntry `toml:"servers"`
}

// LoadServersConfig reads servers.toml from dataDir. If the file does not
// exist, an empty ServersConfig is returned. SYNCWIRE_DEFAULT_SERVER
// overrides the persisted default when set, the same env-var-override
// pattern the teacher's CLI uses for its own default server.
func LoadServersConfig(dataDir string) (*ServersConfig, error) {
	path := filepath.Join(dataDir, "servers.toml")

	sc := &ServersConfig{
		Servers: make(map[string]ServerEntry),
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, sc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if sc.Servers == nil {
		sc.Servers = make(map[string]ServerEntry)
	}
	if def := os.Getenv("SYNCWIRE_DEFAULT_SERVER"); def != "" {
		sc.Default = def
	}

	return sc, nil
}

// Resolve looks up a named server, falling back to Default when name is
// empty. It fails if no default is configured or the named entry is
// absent.
func (s *ServersConfig) Resolve(name string) (ServerEntry, error) {
	if name == "" {
		name = s.Default
	}
	if name == "" {
		return ServerEntry{}, fmt.Errorf("no server specified and no default configured")
	}
	entry, ok := s.Servers[name]
	if !ok {
		return ServerEntry{}, fmt.Errorf("unknown server %q", name)
	}
	return entry, nil
}

// Put adds or replaces a named server entry.
func (s *ServersConfig) Put(name string, entry ServerEntry) {
	if s.Servers == nil {
		s.Servers = make(map[string]ServerEntry)
	}
	s.Servers[name] = entry
}

// Save writes the ServersConfig to servers.toml inside dataDir, creating
// the directory if necessary.
func (s *ServersConfig) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, "servers.toml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding servers.toml: %w", err)
	}

	return nil
}
