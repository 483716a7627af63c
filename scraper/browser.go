package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNavigationTimeout is returned by Page.Navigate when the page did not finish loading in time.
// The page stays usable and keeps whatever responses it already observed.
var ErrNavigationTimeout = errors.New("navigation timed out")

// Launcher starts the browser automation runtime
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is one running browser with a shared browsing context (cookies, session)
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single tab. Network responses are recorded from the moment the page is opened
// and handed out in arrival order by Responses.
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Responses() []Response
	Text(ctx context.Context) (string, error)
	Close() error
}

// Response is a network response observed while a page rendered
type Response interface {
	URL() string
	Header(name string) string
	Body(ctx context.Context) ([]byte, error)
}

// StartupError reports that the automation runtime could not be started
type StartupError struct {
	Cause error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("browser startup failed: %v", e.Cause)
}

func (e *StartupError) Unwrap() error {
	return e.Cause
}
