package roddriver

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// LaunchConfig configures a local Chrome.
type LaunchConfig struct {
	Headless bool
	// Bin is the browser executable; empty lets rod find or download one.
	Bin string
}

// Launch starts Chrome and connects to it. Close the browser when done to
// avoid orphaned processes.
func Launch(cfg LaunchConfig) (*rod.Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}
	return browser, nil
}
