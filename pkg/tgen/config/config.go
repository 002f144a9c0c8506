// Package config loads testbed files: YAML documents mapping session
// names to transport endpoints and decoding conventions, so lab setups
// live in one reviewable file instead of flag soup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tgen-network/tgen/pkg/tgen/codec"
	"github.com/tgen-network/tgen/pkg/tgen/session"
	"github.com/tgen-network/tgen/pkg/tgen/transport"
	"github.com/tgen-network/tgen/pkg/util"
)

// Testbed is the top-level structure of a testbed file.
type Testbed struct {
	// Default names the session used when the CLI is given none.
	Default string `yaml:"default,omitempty"`

	// LogDir supplies per-session transcript paths (<dir>/<name>.tcl)
	// for sessions that set none themselves.
	LogDir string `yaml:"log_dir,omitempty"`

	Sessions map[string]SessionDef `yaml:"sessions"`
}

// SessionDef defines one session in a testbed file.
type SessionDef struct {
	Transport string `yaml:"transport"`
	Endpoint  string `yaml:"endpoint"`

	// ReadTimeout is a Go duration string ("30s"). Empty uses the
	// transport default.
	ReadTimeout string `yaml:"read_timeout,omitempty"`

	// Prompt is a regular expression matching prompt lines, which are
	// stripped from replies.
	Prompt    string `yaml:"prompt,omitempty"`
	StripEcho bool   `yaml:"strip_echo,omitempty"`

	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Command is the remote interpreter to start over ssh. Empty
	// requests the login shell.
	Command string `yaml:"command,omitempty"`

	LogPath       string `yaml:"log_path,omitempty"`
	RecordResults bool   `yaml:"record_results,omitempty"`

	Errors *ErrorsDef `yaml:"errors,omitempty"`
}

// ErrorsDef overrides the error-reply convention for one session.
type ErrorsDef struct {
	Markers  []string          `yaml:"markers,omitempty"`
	Classify map[string]string `yaml:"classify,omitempty"`
}

var failureKinds = map[string]codec.FailureKind{
	string(codec.FailureNotFound):    codec.FailureNotFound,
	string(codec.FailureBadArgument): codec.FailureBadArgument,
	string(codec.FailureMalformed):   codec.FailureMalformed,
	string(codec.FailureUnknown):     codec.FailureUnknown,
}

// Load parses a testbed YAML file and validates it.
func Load(path string) (*Testbed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading testbed file: %w", err)
	}

	var tb Testbed
	if err := yaml.Unmarshal(data, &tb); err != nil {
		return nil, fmt.Errorf("parsing testbed YAML: %w", err)
	}

	if err := tb.validate(); err != nil {
		return nil, err
	}
	return &tb, nil
}

func (tb *Testbed) validate() error {
	var vb util.ValidationBuilder
	vb.Add(len(tb.Sessions) > 0, "at least one session is required")
	if tb.Default != "" {
		if _, ok := tb.Sessions[tb.Default]; !ok {
			vb.AddErrorf("default session %q is not defined", tb.Default)
		}
	}

	for name, def := range tb.Sessions {
		switch def.Transport {
		case "console", "ssh":
			vb.Add(def.Endpoint != "", fmt.Sprintf("session %s: endpoint is required", name))
		case "":
			vb.AddErrorf("session %s: transport is required", name)
		default:
			vb.AddErrorf("session %s: unknown transport %q", name, def.Transport)
		}
		if def.Transport == "ssh" {
			vb.Add(def.User != "", fmt.Sprintf("session %s: user is required for ssh", name))
		}
		if def.ReadTimeout != "" {
			if _, err := time.ParseDuration(def.ReadTimeout); err != nil {
				vb.AddErrorf("session %s: invalid read_timeout %q", name, def.ReadTimeout)
			}
		}
		if def.Errors != nil {
			for substr, kind := range def.Errors.Classify {
				if _, ok := failureKinds[kind]; !ok {
					vb.AddErrorf("session %s: unknown failure kind %q for %q", name, kind, substr)
				}
			}
		}
	}
	return vb.Build()
}

// SessionNames returns the defined session names, unordered.
func (tb *Testbed) SessionNames() []string {
	names := make([]string, 0, len(tb.Sessions))
	for name := range tb.Sessions {
		names = append(names, name)
	}
	return names
}

// SessionConfig resolves one named session definition into a
// session.Config ready for session.Connect. Name "" resolves the
// testbed default.
func (tb *Testbed) SessionConfig(name string) (session.Config, error) {
	if name == "" {
		name = tb.Default
	}
	def, ok := tb.Sessions[name]
	if !ok {
		return session.Config{}, fmt.Errorf("session %q: %w", name, util.ErrNotFound)
	}

	cfg := session.Config{
		Name: name,
		Kind: def.Transport,
		Transport: transport.Config{
			Endpoint:  def.Endpoint,
			Prompt:    def.Prompt,
			StripEcho: def.StripEcho,
			User:      def.User,
			Password:  def.Password,
			Command:   def.Command,
		},
		LogPath:       def.LogPath,
		RecordResults: def.RecordResults,
	}
	if def.ReadTimeout != "" {
		d, err := time.ParseDuration(def.ReadTimeout)
		if err != nil {
			return session.Config{}, fmt.Errorf("session %q: read_timeout: %w", name, err)
		}
		cfg.Transport.ReadTimeout = d
	}
	if cfg.LogPath == "" && tb.LogDir != "" {
		cfg.LogPath = filepath.Join(tb.LogDir, name+".tcl")
	}
	if def.Errors != nil {
		cfg.Convention = def.Errors.convention()
	}
	return cfg, nil
}

// convention merges the per-session overrides onto the default
// convention. Markers replace, classifications accumulate.
func (e *ErrorsDef) convention() *codec.Convention {
	conv := codec.DefaultConvention()
	if len(e.Markers) > 0 {
		conv.Markers = append([]string(nil), e.Markers...)
	}
	for substr, kind := range e.Classify {
		conv.Classify[substr] = failureKinds[kind]
	}
	return conv
}
