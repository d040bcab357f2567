package interfaces

import (
	"context"
	"time"
)

// BrowserSession is the capability surface the workflow engine needs from a
// controlled browser. The engine depends only on this interface, never on a
// specific automation library; internal/browser provides the chromedp
// implementation and tests script a fake.
type BrowserSession interface {
	// Navigate loads the given URL and waits for the page to settle
	Navigate(ctx context.Context, url string) error

	// Title returns the current page title
	Title(ctx context.Context) (string, error)

	// CurrentURL returns the current page URL
	CurrentURL(ctx context.Context) (string, error)

	// Find returns the first element matching the selector. Absence is not
	// an error: the second return is false when nothing matches.
	Find(ctx context.Context, selector string) (Element, bool, error)

	// FindAll returns every element matching the selector (possibly empty)
	FindAll(ctx context.Context, selector string) ([]Element, error)

	// WaitVisible blocks until the selector is visible or the timeout expires
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// PageHTML returns the rendered document HTML
	PageHTML(ctx context.Context) (string, error)

	// ScrollTo scrolls the page to the given vertical offset
	ScrollTo(ctx context.Context, y int) error

	// Close tears down the browser session and releases its resources
	Close() error
}

// Element is a handle to a located page element
type Element interface {
	// Text returns the element's visible text
	Text(ctx context.Context) (string, error)

	// Attr returns the named attribute; false when the attribute is absent
	Attr(name string) (string, bool)

	// Click clicks the element
	Click(ctx context.Context) error

	// Fill clears the element and types the given value
	Fill(ctx context.Context, value string) error

	// TypeAndEnter types the value and presses Enter (multi-entry tag inputs)
	TypeAndEnter(ctx context.Context, value string) error

	// Upload attaches the file at the given absolute path
	Upload(ctx context.Context, path string) error

	// FindAll returns descendant elements matching the selector
	FindAll(ctx context.Context, selector string) ([]Element, error)
}
