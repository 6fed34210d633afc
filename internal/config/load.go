package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/flatjson"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// EnvSiteJSON names the environment variable pointing at an alternative site.json.
const EnvSiteJSON = "SITE_JSON"

// envFiles are loaded in order; existing process variables are never overridden.
var envFiles = []string{".env", ".env.local"}

// LoadEnv loads .env and .env.local from the working directory when present.
// It returns the files that were applied.
func LoadEnv() []string {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			continue
		}
		loaded = append(loaded, name)
	}
	return loaded
}

// Load resolves the site configuration. Candidates are tried in order:
// the explicit path, $SITE_JSON, <src>/site.json, <src>/site.yaml. The first
// readable candidate wins; problems are logged and the next candidate is tried.
// When nothing is usable the built-in defaults are returned.
func Load(logger *slog.Logger, fsys afero.Fs, explicit, src string) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	for _, candidate := range candidates(explicit, src) {
		site, err := loadFile(fsys, candidate)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("Ignoring unreadable site configuration",
					logfields.Path(candidate), logfields.Error(err))
			}
			continue
		}
		site.Source = candidate
		logger.Debug("Loaded site configuration", logfields.Path(candidate))
		return site
	}
	logger.Debug("Using built-in site configuration")
	return Defaults()
}

func candidates(explicit, src string) []string {
	var out []string
	if strings.TrimSpace(explicit) != "" {
		out = append(out, explicit)
	}
	if env := strings.TrimSpace(os.Getenv(EnvSiteJSON)); env != "" {
		out = append(out, env)
	}
	return append(out, filepath.Join(src, "site.json"), filepath.Join(src, "site.yaml"))
}

func loadFile(fsys afero.Fs, path string) (*Site, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		pairs, err := parseYAML(data)
		if err != nil {
			return nil, err
		}
		return FromPairs(pairs), nil
	default:
		return FromPairs(flatjson.Parse(string(data))), nil
	}
}

// parseYAML reads a flat YAML mapping after expanding ${VAR} references.
// Nested values are ignored; scalars are stringified.
func parseYAML(data []byte) (map[string]string, error) {
	expanded := os.ExpandEnv(string(data))
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case nil, map[string]any, []any:
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}
