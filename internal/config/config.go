// Package config loads nxinspect settings from YAML, then applies
// NXINSPECT_* environment overrides.
//
// Every struct field can be overridden by an environment variable named
// after its path in upper case, joined with underscores:
//
//	log:
//	  level: debug          # NXINSPECT_LOG_LEVEL=info
//	  formatter: json       # NXINSPECT_LOG_FORMATTER=text
//	load:
//	  blocksize: 4096       # NXINSPECT_LOAD_BLOCKSIZE=512
//	tree:
//	  maxdepth: 8           # NXINSPECT_TREE_MAXDEPTH=2
//
// Override values are parsed as YAML, so NXINSPECT_LOAD_BLOCKSIZE=512 sets an
// integer.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/scigolib/nexus/internal/utils"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NXINSPECT"

// Config is the nxinspect configuration.
type Config struct {
	Log  Log  `yaml:"log"`
	Load Load `yaml:"load"`
	Tree Tree `yaml:"tree"`
}

// Log configures the logrus logger.
type Log struct {
	// Level is a logrus level name: panic, fatal, error, warn, info, debug
	// or trace.
	Level string `yaml:"level"`
	// Formatter is "text" or "json".
	Formatter string `yaml:"formatter"`
}

// Load configures dataset loading.
type Load struct {
	// Blocksize is the default chunk length of the load command.
	Blocksize int `yaml:"blocksize"`
}

// Tree configures the tree command.
type Tree struct {
	// MaxDepth limits descent below the start group; 0 means unlimited.
	MaxDepth int `yaml:"maxdepth"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log:  Log{Level: "warn", Formatter: "text"},
		Load: Load{Blocksize: 1024},
	}
}

// Parse reads YAML from rd over the defaults, then applies the overrides
// found in environ (KEY=value pairs, as returned by os.Environ).
func Parse(rd io.Reader, environ []string) (*Config, error) {
	in, err := io.ReadAll(rd)
	if err != nil {
		return nil, utils.WrapError("config read failed", err)
	}

	c := Default()
	if len(bytes.TrimSpace(in)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(in))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return nil, utils.WrapError("config parse failed", err)
		}
	}

	p := parser{env: envMap(environ)}
	if err := p.overwriteFields(reflect.ValueOf(c), EnvPrefix); err != nil {
		return nil, utils.WrapError("config override failed", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load parses the file at path with the process environment. An empty path
// yields the defaults with the environment applied.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(strings.NewReader(""), os.Environ())
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapError("config open failed", err)
	}
	defer fp.Close()
	return Parse(fp, os.Environ())
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Formatter {
	case "text", "json":
	default:
		return fmt.Errorf("log.formatter: unsupported %q", c.Log.Formatter)
	}
	if c.Load.Blocksize <= 0 {
		return fmt.Errorf("load.blocksize: must be positive, got %d", c.Load.Blocksize)
	}
	if c.Tree.MaxDepth < 0 {
		return fmt.Errorf("tree.maxdepth: must not be negative, got %d", c.Tree.MaxDepth)
	}
	return nil
}

// Configure applies the log settings to log.
func (c *Config) Configure(log *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	switch c.Log.Formatter {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

func envMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[k] = v
	}
	return env
}

type parser struct {
	env map[string]string
}

// overwriteFields replaces every field that has a matching environment
// variable, recursing into nested structs.
func (p *parser) overwriteFields(v reflect.Value, prefix string) error {
	for v.Kind() == reflect.Ptr {
		v = reflect.Indirect(v)
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < v.NumField(); i++ {
		sf := v.Type().Field(i)
		fieldPrefix := strings.ToUpper(prefix + "_" + sf.Name)
		if e, ok := p.env[fieldPrefix]; ok {
			fieldVal := reflect.New(sf.Type)
			if err := yaml.Unmarshal([]byte(e), fieldVal.Interface()); err != nil {
				return fmt.Errorf("%s: %w", fieldPrefix, err)
			}
			v.Field(i).Set(reflect.Indirect(fieldVal))
		}
		if err := p.overwriteFields(v.Field(i), fieldPrefix); err != nil {
			return err
		}
	}
	return nil
}
