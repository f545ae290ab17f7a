package format

import (
	"context"
	"errors"
	"fmt"

	"github.com/tubeplay-cli/tubeplay/log"
)

// Prober lists the streams a URL offers.
type Prober interface {
	Streams(ctx context.Context, url string) ([]Stream, error)
}

// ResolutionError is returned when the available streams could not be listed.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve formats of %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolver turns a preference into a selector for a specific URL.
type Resolver struct {
	Prober Prober
}

// NewResolver returns a resolver backed by prober.
func NewResolver(prober Prober) *Resolver {
	return &Resolver{Prober: prober}
}

// Resolve returns the selector for url. An automatic preference never queries the source.
func (r *Resolver) Resolve(ctx context.Context, url string, pref Preference) (Selector, error) {
	if pref.IsAutomatic() {
		return Automatic, nil
	}

	if r.Prober == nil {
		return "", &ResolutionError{URL: url, Err: errors.New("no prober configured")}
	}

	streams, err := r.Prober.Streams(ctx, url)
	if err != nil {
		return "", &ResolutionError{URL: url, Err: err}
	}

	selector := Pick(streams, pref)
	log.WithFields(map[string]any{
		"url":        url,
		"preference": pref.String(),
		"streams":    len(streams),
		"selector":   selector,
	}).Debug("resolved format")

	return selector, nil
}
