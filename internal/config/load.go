package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name searched in the working directory when no
// path is given.
const DefaultConfigFile = "teamsgenie.env"

// FindConfigFile locates the default configuration file in the current
// directory, accepting either the KEY=VALUE or the YAML variant.
func FindConfigFile() (string, error) {
	candidates := []string{DefaultConfigFile, "teamsgenie.yaml", "teamsgenie.yml"}
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no configuration file found (tried %s)", strings.Join(candidates, ", "))
}

// LoadFile reads the configuration from path. Files ending in .yaml/.yml are
// decoded as a flat YAML mapping; everything else is parsed as KEY=VALUE
// lines. Environment variables overlay unset keys so credentials configured
// for the Azure SDK (e.g. AZURE_SUBSCRIPTION_ID) are picked up without
// duplicating them in the file.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("configuration file %s not found: %w", path, err)
	}

	values, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	cfg := fromMap(values)
	overlayEnvironment(cfg)
	return cfg, nil
}

func parseFile(path string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(path)
	default:
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return values, nil
	}
}

func parseYAML(path string) (map[string]string, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	raw := make(map[string]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	return raw, nil
}

// overlayEnvironment fills unset fields from the process environment.
// SUBSCRIPTION_ID additionally honors AZURE_SUBSCRIPTION_ID, the name the
// Azure SDK credential chain already uses.
func overlayEnvironment(c *Config) {
	for _, r := range c.fields() {
		if *r.Ptr != "" {
			continue
		}
		if v := os.Getenv(r.Key); v != "" {
			*r.Ptr = strings.TrimSpace(v)
		}
	}
	if c.SubscriptionID == "" {
		c.SubscriptionID = strings.TrimSpace(os.Getenv("AZURE_SUBSCRIPTION_ID"))
	}
}
