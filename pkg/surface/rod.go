package surface

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodFactoryConfig controls how browser sessions are launched
type RodFactoryConfig struct {
	Headless        bool
	NavigateTimeout time.Duration
}

// RodFactory launches stealth-patched headless Chrome sessions
type RodFactory struct {
	cfg RodFactoryConfig
}

// NewRodFactory creates a factory with the given launch configuration
func NewRodFactory(cfg RodFactoryConfig) *RodFactory {
	if cfg.NavigateTimeout <= 0 {
		cfg.NavigateTimeout = 30 * time.Second
	}
	return &RodFactory{cfg: cfg}
}

// Acquire launches a browser, connects to it, and opens a stealth page.
// The stealth patch masks the usual headless automation fingerprints.
func (f *RodFactory) Acquire() (Surface, error) {
	lnch := launcher.New().
		Headless(f.cfg.Headless).
		Set("disable-blink-features", "AutomationControlled")

	controlURL, err := lnch.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		lnch.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		browser.Close()
		lnch.Cleanup()
		return nil, fmt.Errorf("failed to open stealth page: %w", err)
	}

	return &rodSurface{
		browser: browser,
		lnch:    lnch,
		page:    page,
		timeout: f.cfg.NavigateTimeout,
	}, nil
}

type rodSurface struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	timeout time.Duration
}

func (s *rodSurface) Navigate(url string) error {
	if err := s.page.Timeout(s.timeout).Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	// Some result surfaces keep loading assets indefinitely. A load-event
	// timeout here is tolerable as long as navigation itself succeeded.
	if err := s.page.Timeout(s.timeout).WaitLoad(); err != nil {
		return nil
	}
	return nil
}

func (s *rodSurface) ExecuteScript(script string) error {
	_, err := s.page.Eval(fmt.Sprintf("() => { %s }", script))
	if err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

func (s *rodSurface) FindElements(selector string) ([]Element, error) {
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}

	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (s *rodSurface) FindElement(selector string) (Element, error) {
	has, el, err := s.page.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	if !has {
		return nil, ErrNoElement
	}
	return &rodElement{el: el}, nil
}

func (s *rodSurface) Quit() error {
	if s.page != nil {
		s.page.Close()
	}
	err := s.browser.Close()
	s.lnch.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Activate() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *rodElement) Attribute(name string) (string, bool, error) {
	val, err := e.el.Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	if val == nil {
		return "", false, nil
	}
	return *val, true, nil
}
