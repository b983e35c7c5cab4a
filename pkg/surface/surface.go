// Package surface abstracts the browser automation layer behind small
// interfaces so the harvesting logic can be driven against a scripted fake
// in tests and a stealth-patched headless browser in production.
package surface

import "errors"

// ErrNoElement is returned by FindElement when nothing matches the selector
var ErrNoElement = errors.New("surface: no element matches selector")

// Element is a single DOM element on the result surface
type Element interface {
	// Activate simulates a user click on the element
	Activate() error
	// Attribute returns the named attribute value and whether it is present
	Attribute(name string) (string, bool, error)
}

// Surface is a live browser page pointed at the result surface
type Surface interface {
	// Navigate loads the given URL and waits for the page to settle
	Navigate(url string) error
	// ExecuteScript runs a JavaScript statement in the page context
	ExecuteScript(script string) error
	// FindElements returns all elements matching the CSS selector,
	// in document order. An empty result is not an error.
	FindElements(selector string) ([]Element, error)
	// FindElement returns the first element matching the CSS selector,
	// or ErrNoElement when nothing matches.
	FindElement(selector string) (Element, error)
	// Quit releases the browser session and its resources
	Quit() error
}

// Factory acquires browser sessions. Acquisition can fail when the browser
// binary is missing or the remote debugging connection cannot be made.
type Factory interface {
	Acquire() (Surface, error)
}
