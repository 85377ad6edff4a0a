package handlers

import (
	"context"
	"fmt"
)

// Doctor runs the standalone prerequisite checks: configuration presence,
// client tools and credential token acquisition. It makes no changes.
func Doctor(ctx context.Context, configPath string) error {
	fmt.Println("teamsgenie doctor")
	fmt.Println()

	configOK := checkConfig(configPath)
	toolsOK := reportTools()
	credOK := reportCredential(ctx)

	fmt.Println()
	if !configOK || !toolsOK || !credOK {
		return fmt.Errorf("one or more checks failed; fix the issues above and re-run")
	}
	fmt.Println("All checks passed. Run 'teamsgenie deploy' when ready.")
	return nil
}

func checkConfig(configPath string) bool {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			fmt.Printf("  [fail] config: %v (run 'teamsgenie init')\n", err)
			return false
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		fmt.Printf("  [fail] config: %v\n", err)
		return false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  [fail] config %s: %v\n", configPath, err)
		return false
	}
	fmt.Printf("  [ok]   config: %s\n", configPath)
	return true
}

func reportTools() bool {
	results := checkTools()
	for _, r := range results.Results {
		switch {
		case r.Found:
			version := r.Version
			if version == "" {
				version = "unknown version"
			}
			fmt.Printf("  [ok]   tool: %s (%s)\n", r.Tool.Name, version)
		case r.Tool.Required:
			fmt.Printf("  [fail] tool: %s missing. %s\n", r.Tool.Name, r.Tool.InstallURL)
		default:
			fmt.Printf("  [warn] tool: %s missing (optional). %s\n", r.Tool.Name, r.Tool.InstallURL)
		}
	}
	return !results.HasErrors()
}

func reportCredential(ctx context.Context) bool {
	if err := checkCredential(ctx); err != nil {
		fmt.Printf("  [fail] credential: %v\n", err)
		return false
	}
	fmt.Println("  [ok]   credential: ARM and Graph tokens acquired")
	return true
}
