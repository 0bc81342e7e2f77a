package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// Step kinds.
const (
	KindVisible           = "visible"
	KindInvisible         = "invisible"
	KindText              = "text"
	KindTextContains      = "text-contains"
	KindAttribute         = "attribute"
	KindAttributeContains = "attribute-contains"
	KindCount             = "count"
	KindFrame             = "frame"
	KindAlert             = "alert"
)

var locatorBy = map[string]waitfor.By{
	"":      waitfor.ByCSS,
	"css":   waitfor.ByCSS,
	"xpath": waitfor.ByXPath,
	"id":    waitfor.ByID,
	"name":  waitfor.ByName,
	"tag":   waitfor.ByTag,
}

// Plan is an ordered list of waits run against one page:
//
//	steps:
//	  - kind: visible
//	    locator: "#region p.content"
//	  - kind: attribute
//	    locator: status
//	    by: id
//	    attribute: data-state
//	    value: "on"
//	    timeout: 5s
//
// A frame step switches into the frame for the steps after it.
type Plan struct {
	Steps []Step `yaml:"steps"`
}

// Step is one wait. Timeout overrides the configured wait timeout.
type Step struct {
	Kind      string        `yaml:"kind"`
	Locator   string        `yaml:"locator"`
	By        string        `yaml:"by"`
	Value     string        `yaml:"value"`
	Count     int           `yaml:"count"`
	Attribute string        `yaml:"attribute"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading plan from %s: %w", path, err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes and validates a YAML plan. Unknown keys are rejected.
func ParsePlan(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Plan
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every step and reports all problems at once.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return errors.New("plan has no steps")
	}
	var errs []error
	for i, s := range p.Steps {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

func (s Step) validate() error {
	switch s.Kind {
	case KindVisible, KindInvisible, KindFrame, KindText, KindTextContains, KindCount:
	case KindAttribute, KindAttributeContains:
		if s.Attribute == "" {
			return fmt.Errorf("%s needs an attribute", s.Kind)
		}
	case KindAlert:
		return nil
	case "":
		return errors.New("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	if strings.TrimSpace(s.Locator) == "" {
		return fmt.Errorf("%s needs a locator", s.Kind)
	}
	if _, ok := locatorBy[s.By]; !ok {
		return fmt.Errorf("unknown locator strategy %q", s.By)
	}
	if s.Kind == KindCount && s.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", s.Count)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", s.Timeout)
	}
	return nil
}

func (s Step) locator() waitfor.Locator {
	return waitfor.Locator{By: locatorBy[s.By], Value: s.Locator}
}

func (s Step) String() string {
	if s.Kind == KindAlert {
		return s.Kind
	}
	return fmt.Sprintf("%s %s", s.Kind, s.locator())
}

// run waits for the step and returns a short account of what it saw.
func (s Step) run(ctx context.Context, p *waitfor.Poller, sess waitfor.Session) (string, error) {
	loc := s.locator()
	switch s.Kind {
	case KindVisible:
		el, err := waitfor.Until(ctx, p, sess, waitfor.VisibilityOfElementLocated(nil, loc))
		if err != nil {
			return "", err
		}
		return el.String(), nil
	case KindInvisible:
		_, err := waitfor.Until(ctx, p, sess, waitfor.InvisibilityOfElementLocated(nil, loc))
		return "not visible", err
	case KindText:
		_, err := waitfor.Until(ctx, p, sess, waitfor.TextToEqualInElement(nil, loc, s.Value))
		return fmt.Sprintf("text %q", s.Value), err
	case KindTextContains:
		el := waitfor.NewRefreshable(sess, loc)
		_, err := waitfor.Until(ctx, p, sess, waitfor.TextToBePresentInElement(el, s.Value))
		return fmt.Sprintf("text contains %q", s.Value), err
	case KindAttribute:
		el := waitfor.NewRefreshable(sess, loc)
		_, err := waitfor.Until(ctx, p, sess, waitfor.ElementAttributeToBe(el, s.Attribute, s.Value))
		return fmt.Sprintf("%s=%q", s.Attribute, s.Value), err
	case KindAttributeContains:
		// The condition pins the node it is built with, so the element
		// has to exist first.
		el, err := waitfor.Until(ctx, p, sess, waitfor.PresenceOfElement(waitfor.NewRefreshable(sess, loc)))
		if err != nil {
			return "", err
		}
		_, err = waitfor.Until(ctx, p, sess, waitfor.ElementAttributeToContain(el, s.Attribute, s.Value))
		return fmt.Sprintf("%s contains %q", s.Attribute, s.Value), err
	case KindCount:
		els, err := waitfor.Until(ctx, p, sess, waitfor.NumberOfElementsLocated(nil, loc, s.Count))
		return fmt.Sprintf("%d elements", len(els)), err
	case KindFrame:
		_, err := waitfor.Until(ctx, p, sess, waitfor.FrameToBeAvailableAndSwitchToIt(nil, loc))
		return "switched to frame", err
	case KindAlert:
		a, err := waitfor.Until(ctx, p, sess, waitfor.AcceptAlert())
		if err != nil {
			return "", err
		}
		text, err := a.Text()
		if err != nil {
			return "accepted", nil
		}
		return fmt.Sprintf("accepted %q", text), nil
	default:
		return "", fmt.Errorf("unknown kind %q", s.Kind)
	}
}

// Run executes the steps in order, writing one line per step to w, and
// stops at the first failure.
func (p *Plan) Run(ctx context.Context, poller *waitfor.Poller, sess waitfor.Session, w io.Writer) error {
	for i, step := range p.Steps {
		sp := poller
		if step.Timeout > 0 {
			var err error
			if sp, err = poller.With(waitfor.WithTimeout(step.Timeout)); err != nil {
				return err
			}
		}

		start := time.Now()
		detail, err := step.run(ctx, sp, sess)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			fmt.Fprintf(w, "FAIL  %d  %s  (%v)\n", i+1, step, elapsed)
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
		fmt.Fprintf(w, "ok    %d  %s  %s  (%v)\n", i+1, step, detail, elapsed)
	}
	return nil
}
