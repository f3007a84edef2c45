// Package slug derives URL-safe identifiers and allocates unique ones.
package slug

import (
	"context"
	"fmt"
	"strings"
)

// Fallback is used when a name has no usable characters.
const Fallback = "site"

const maxLen = 64

// Slugify lowercases s and collapses every run of characters outside [a-z0-9]
// into a single dash. Leading and trailing dashes are removed. The result may
// be empty.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			if b.Len() >= maxLen {
				break
			}
			continue
		}
		pendingDash = true
	}
	return strings.TrimRight(b.String(), "-")
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Allocator finds the first free candidate among base, base-2, base-3, ...
type Allocator struct {
	exists ExistsFunc
}

// NewAllocator creates an allocator backed by the given lookup.
func NewAllocator(exists ExistsFunc) *Allocator {
	return &Allocator{exists: exists}
}

// Allocate returns an unused slug for name. Uniqueness is only as strong as
// the lookup; callers inserting the result must still handle a unique
// constraint violation.
func (a *Allocator) Allocate(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = Fallback
	}

	candidate := base
	for n := 2; ; n++ {
		taken, err := a.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
