// Package reader runs the lookup flow: it fetches passages, attaches parsed
// references, and applies next/previous navigation with chapter fallback.
package reader

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"verse-tui/internal/api"
	"verse-tui/internal/reference"
)

const (
	LookupFailedMessage = "Could not find that verse. Please try another reference."
	RandomFailedMessage = "Could not fetch a random verse. Please try again."
)

// ErrNotNavigable is returned when navigating from a verse whose reference
// could not be parsed.
var ErrNotNavigable = errors.New("verse has no navigable reference")

// Lookup is the verse service.
type Lookup interface {
	FetchByReference(ctx context.Context, query string) (*api.Passage, error)
	FetchRandom(ctx context.Context) (*api.Passage, error)
}

// Verse is the passage currently on display.
type Verse struct {
	RawReference string
	Text         string
	Translation  string

	// Ref is nil when RawReference did not parse.
	Ref *reference.Reference
}

// Navigable reports whether next/previous can be computed.
func (v *Verse) Navigable() bool {
	return v != nil && v.Ref != nil && v.Ref.Valid()
}

// FromPassage builds a Verse, parsing the reference when parse is set.
func FromPassage(p *api.Passage, parse bool) *Verse {
	v := &Verse{
		RawReference: p.Reference,
		Text:         p.Text,
		Translation:  p.Translation,
	}
	if v.Translation == "" {
		v.Translation = api.FallbackTranslation
	}
	if parse {
		if ref, ok := reference.Parse(p.Reference); ok {
			v.Ref = &ref
		}
	}
	return v
}

type Reader struct {
	lookup Lookup
	logger *zap.Logger
}

func New(lookup Lookup, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{lookup: lookup, logger: logger}
}

// Lookup fetches query and parses the reference the service returns.
func (r *Reader) Lookup(ctx context.Context, query string) (*Verse, error) {
	p, err := r.lookup.FetchByReference(ctx, query)
	if err != nil {
		return nil, err
	}
	v := FromPassage(p, true)
	if !v.Navigable() {
		r.logger.Debug("reference not navigable", zap.String("reference", p.Reference))
	}
	return v, nil
}

// Random fetches a random verse. Its reference is not parsed.
func (r *Reader) Random(ctx context.Context) (*Verse, error) {
	p, err := r.lookup.FetchRandom(ctx)
	if err != nil {
		return nil, err
	}
	return FromPassage(p, false), nil
}

// Next requests the verse after v, falling back to the first verse of the
// next chapter when the service reports the verse does not exist.
func (r *Reader) Next(ctx context.Context, v *Verse) (*Verse, error) {
	if !v.Navigable() {
		return nil, ErrNotNavigable
	}
	candidates := reference.Next(*v.Ref)

	var err error
	for i, query := range candidates {
		var next *Verse
		next, err = r.Lookup(ctx, query)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, api.ErrNotFound) {
			return nil, err
		}
		if i+1 < len(candidates) {
			r.logger.Debug("verse not found, trying next chapter",
				zap.String("query", query),
				zap.String("fallback", candidates[i+1]))
		}
	}
	return nil, fmt.Errorf("next after %s: %w", v.Ref, err)
}

// Previous requests the verse before v. It reports false, with no request,
// at the first verse of the first chapter.
func (r *Reader) Previous(ctx context.Context, v *Verse) (*Verse, bool, error) {
	if !v.Navigable() {
		return nil, false, ErrNotNavigable
	}
	query, ok := reference.Previous(*v.Ref)
	if !ok {
		return nil, false, nil
	}
	prev, err := r.Lookup(ctx, query)
	if err != nil {
		return nil, true, err
	}
	return prev, true, nil
}
