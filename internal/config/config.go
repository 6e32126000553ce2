// Package config loads the project file (melody.toml or melody.yaml) that
// sets parser options and check defaults for a template tree.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"melody/internal/parser"
)

// FileNames are the recognised config names in lookup order.
var FileNames = []string{"melody.toml", "melody.yaml", "melody.yml"}

// Config is the decoded project file.
type Config struct {
	Parser ParserConfig `toml:"parser" yaml:"parser"`
	Check  CheckConfig  `toml:"check" yaml:"check"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// ParserConfig mirrors parser.Options.
type ParserConfig struct {
	IgnoreComments          bool                `toml:"ignore_comments" yaml:"ignore_comments"`
	IgnoreHTMLComments      bool                `toml:"ignore_html_comments" yaml:"ignore_html_comments"`
	IgnoreDeclarations      bool                `toml:"ignore_declarations" yaml:"ignore_declarations"`
	DecodeEntities          bool                `toml:"decode_entities" yaml:"decode_entities"`
	PreserveSourceLiterally bool                `toml:"preserve_source_literally" yaml:"preserve_source_literally"`
	AllowUnknownTags        bool                `toml:"allow_unknown_tags" yaml:"allow_unknown_tags"`
	MultiTags               map[string][]string `toml:"multi_tags" yaml:"multi_tags"`
	VoidElements            []string            `toml:"void_elements" yaml:"void_elements"`
}

// CheckConfig holds defaults for the directory commands.
type CheckConfig struct {
	Jobs           int      `toml:"jobs" yaml:"jobs"`
	Cache          bool     `toml:"cache" yaml:"cache"`
	MaxDiagnostics int      `toml:"max_diagnostics" yaml:"max_diagnostics"`
	Extensions     []string `toml:"extensions" yaml:"extensions"`
	Exclude        []string `toml:"exclude" yaml:"exclude"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	opts := parser.DefaultOptions()
	return Config{
		Parser: ParserConfig{
			IgnoreComments:          opts.IgnoreComments,
			IgnoreHTMLComments:      opts.IgnoreHTMLComments,
			IgnoreDeclarations:      opts.IgnoreDeclarations,
			DecodeEntities:          opts.DecodeEntities,
			PreserveSourceLiterally: opts.PreserveSourceLiterally,
			AllowUnknownTags:        opts.AllowUnknownTags,
			VoidElements:            slices.Clone(opts.VoidElements),
		},
		Check: CheckConfig{
			MaxDiagnostics: 100,
			Extensions:     []string{".twig"},
		},
	}
}

// ParserOptions converts the parser section into parser.Options.
func (c Config) ParserOptions() parser.Options {
	return parser.Options{
		IgnoreComments:          c.Parser.IgnoreComments,
		IgnoreHTMLComments:      c.Parser.IgnoreHTMLComments,
		IgnoreDeclarations:      c.Parser.IgnoreDeclarations,
		DecodeEntities:          c.Parser.DecodeEntities,
		PreserveSourceLiterally: c.Parser.PreserveSourceLiterally,
		AllowUnknownTags:        c.Parser.AllowUnknownTags,
		MultiTags:               c.Parser.MultiTags,
		VoidElements:            slices.Clone(c.Parser.VoidElements),
	}
}

// Find walks up from startDir and returns the first config file found.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the config above startDir, falling back to
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a config file; the format follows the extension.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		cfg, err = decodeTOML(data)
	case ".yaml", ".yml":
		cfg, err = decodeYAML(data)
	default:
		return Config{}, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func decodeTOML(data []byte) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

func decodeYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative, got %d", c.Check.Jobs)
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("[check].max_diagnostics must not be negative, got %d", c.Check.MaxDiagnostics)
	}
	for i, ext := range c.Check.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return errors.New("[check].extensions must not contain empty entries")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Check.Extensions[i] = ext
	}
	for _, pattern := range c.Check.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("[check].exclude: bad pattern %q: %w", pattern, err)
		}
	}
	for name, subs := range c.Parser.MultiTags {
		if len(subs) == 0 {
			return fmt.Errorf("[parser].multi_tags.%s needs at least its closing tag", name)
		}
	}
	return nil
}
