package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to solfinder! Let's configure your catalog and server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Catalog source.
	sourcePrompt := promptui.Select{
		Label: "Where is the catalog published?",
		Items: []string{
			"local file: served and edited on this machine",
			"URL:        fetched from a static host or CDN",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}

	pathPrompt := promptui.Prompt{
		Label:   "Catalog file (written by publish)",
		Default: cfg.Catalog.Path,
	}
	if cfg.Catalog.Path, err = pathPrompt.Run(); err != nil {
		return nil, fmt.Errorf("catalog path: %w", err)
	}

	if sourceIdx == 1 {
		urlPrompt := promptui.Prompt{
			Label: "Catalog URL",
			Validate: func(s string) error {
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must start with http:// or https://")
				}
				return nil
			},
		}
		if cfg.Catalog.URL, err = urlPrompt.Run(); err != nil {
			return nil, fmt.Errorf("catalog url: %w", err)
		}
	} else {
		watchPrompt := promptui.Select{
			Label: "Reload the catalog when the file changes?",
			Items: []string{"yes", "no"},
		}
		idx, _, err := watchPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("catalog watch: %w", err)
		}
		cfg.Catalog.Watch = idx == 0
	}

	// 2. App version.
	versionPrompt := promptui.Prompt{
		Label:   "App version (bump to discard stale previews)",
		Default: cfg.AppVersion,
	}
	if cfg.AppVersion, err = versionPrompt.Run(); err != nil {
		return nil, fmt.Errorf("app version: %w", err)
	}

	// 3. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	originsPrompt := promptui.Prompt{
		Label:   "Allowed origins (comma-separated, blank for any)",
		Default: "",
	}
	originsStr, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	if origins := splitAndTrim(originsStr); len(origins) > 0 {
		cfg.Server.AllowAllOrigins = false
		cfg.Server.AllowedOrigins = origins
	}

	// 4. Sessions.
	backendPrompt := promptui.Select{
		Label: "Session store",
		Items: []string{"memory", "redis"},
	}
	_, backend, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	cfg.Sessions.Backend = SessionBackend(backend)
	if cfg.Sessions.Backend == BackendRedis {
		addrPrompt := promptui.Prompt{Label: "Redis address", Default: "localhost:6379"}
		if cfg.Sessions.RedisAddr, err = addrPrompt.Run(); err != nil {
			return nil, fmt.Errorf("redis address: %w", err)
		}
	}

	// 5. Admin token.
	tokenPrompt := promptui.Prompt{
		Label: "Admin token for publishing over HTTP (blank disables it)",
		Mask:  '*',
	}
	if cfg.Server.AdminToken, err = tokenPrompt.Run(); err != nil {
		return nil, fmt.Errorf("admin token: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	if cfg.Server.AdminToken != "" {
		fmt.Printf("\nNote: the admin token is stored in %s. Prefer SOLFINDER_SERVER__ADMIN_TOKEN in production.\n", path)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
