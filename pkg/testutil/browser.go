// Package testutil provides browser automation helpers for e2e tests.
// It launches Chrome through rod and hands back a waitfor session bound
// to the page it opened.
package testutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/pagewait/pkg/driver/roddriver"
)

// BrowserConfig configures Chrome launch options.
type BrowserConfig struct {
	Headless bool          // Run in headless mode (default: true)
	Bin      string        // Browser executable; empty lets rod find one
	Timeout  time.Duration // Navigation timeout (default: 30s)
	Logger   logr.Logger   // Passed to the session (default: discard)
}

// DefaultBrowserConfig returns sensible defaults for e2e testing.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
		Timeout:  30 * time.Second,
		Logger:   logr.Discard(),
	}
}

// BrowserClient owns a Chrome instance and at most one session.
type BrowserClient struct {
	browser *rod.Browser
	session *roddriver.Session
	timeout time.Duration
	log     logr.Logger
}

// NewBrowserClient launches Chrome and connects to it.
func NewBrowserClient(cfg BrowserConfig) (*BrowserClient, error) {
	browser, err := roddriver.Launch(roddriver.LaunchConfig{
		Headless: cfg.Headless,
		Bin:      cfg.Bin,
	})
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &BrowserClient{
		browser: browser,
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

// Navigate opens url in a new page and returns a session focused on it.
// A previous session is closed.
func (c *BrowserClient) Navigate(url string) (*roddriver.Session, error) {
	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.Timeout(c.timeout).Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.Timeout(c.timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}

	if c.session != nil {
		_ = c.session.Close()
	}
	c.session = roddriver.New(c.browser, page, roddriver.WithLogger(c.log))
	return c.session, nil
}

// Session returns the current session, or nil before Navigate.
func (c *BrowserClient) Session() *roddriver.Session {
	return c.session
}

// Click clicks the element matching selector on the focused page.
func (c *BrowserClient) Click(selector string) error {
	if c.session == nil {
		return errors.New("no page open, call Navigate first")
	}
	el, err := c.session.Page().Timeout(c.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("failed to find %s: %w", selector, err)
	}
	el = el.CancelTimeout()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

// Close cleans up browser resources.
// Always call this (via defer) to prevent orphaned Chrome processes.
func (c *BrowserClient) Close() error {
	if c.session != nil {
		_ = c.session.Close()
	}
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}
