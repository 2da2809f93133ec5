// Package config handles tres.toml project configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/signadot/tres/resource"
)

// FileName is the name of the project configuration file.
const FileName = "tres.toml"

// Config is a tres.toml project configuration.
type Config struct {
	// Root is the directory res:// paths refer to, relative to Dir.
	Root      string             `toml:"root"`
	CacheMode resource.CacheMode `toml:"cache_mode"`
	Workers   int                `toml:"workers"`
	// UIDFile holds the uid to path bindings of the project, relative
	// to Dir.  Empty means uids are not tracked.
	UIDFile string             `toml:"uid_file"`
	Save    resource.SaveFlags `toml:"save"`

	// Dir is the directory containing the tres.toml file (set at load time).
	Dir string `toml:"-"`
}

// Default returns the configuration used when there is no tres.toml in dir.
func Default(dir string) *Config {
	return &Config{Root: ".", Dir: dir}
}

// Load parses the tres.toml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c := Default(filepath.Dir(path))
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Dir, err = filepath.Abs(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	if c.Root == "" {
		c.Root = "."
	}
	return c, nil
}

// Find walks up from dir looking for a tres.toml and loads it.  If there
// is none, Find returns the default configuration for dir.
func Find(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for d := abs; ; {
		path := filepath.Join(d, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(d)
		if parent == d {
			return Default(abs), nil
		}
		d = parent
	}
}

// RootDir returns the absolute directory of res:// paths.
func (c *Config) RootDir() string {
	if filepath.IsAbs(c.Root) {
		return c.Root
	}
	return filepath.Join(c.Dir, c.Root)
}

// LoadOptions returns the load options configured by c.
func (c *Config) LoadOptions() []resource.LoadOption {
	return []resource.LoadOption{resource.WithCacheMode(c.CacheMode)}
}

// Store returns a Store over the project root with the project uids.
func (c *Config) Store() (*resource.Store, error) {
	s := resource.NewStore(&resource.OSFS{Root: c.RootDir()})
	s.Workers = c.Workers
	if c.UIDFile == "" {
		return s, nil
	}
	uids, err := c.LoadUIDs()
	if err != nil {
		return nil, err
	}
	s.UIDs = uids
	return s, nil
}

type uidFile struct {
	UIDs map[string]string `toml:"uids"`
}

func (c *Config) uidPath() string {
	if filepath.IsAbs(c.UIDFile) {
		return c.UIDFile
	}
	return filepath.Join(c.Dir, c.UIDFile)
}

// LoadUIDs reads the uid file.  A missing file yields no bindings.
func (c *Config) LoadUIDs() (*resource.UIDs, error) {
	res := resource.NewUIDs()
	path := c.uidPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var f uidFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	for id, p := range f.UIDs {
		if !resource.IsUID(id) {
			return nil, fmt.Errorf("%s: %q is not a uid", path, id)
		}
		res.Register(id, p)
	}
	return res, nil
}

// SaveUIDs writes the bindings of uids to the uid file.
func (c *Config) SaveUIDs(uids *resource.UIDs) error {
	if c.UIDFile == "" {
		return nil
	}
	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Encode(uidFile{UIDs: uids.All()}); err != nil {
		return err
	}
	path := c.uidPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
