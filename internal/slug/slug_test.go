package slug

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Portfolio", "my-portfolio"},
		{"  Hello,   World!! ", "hello-world"},
		{"---Already-slugged---", "already-slugged"},
		{"Café Déjà Vu", "caf-d-j-vu"},
		{"2024 Work / Archive", "2024-work-archive"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_CapsLength(t *testing.T) {
	got := Slugify(strings.Repeat("ab ", 60))
	assert.LessOrEqual(t, len(got), maxLen)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestSlugify_Idempotent(t *testing.T) {
	for _, in := range []string{"My Portfolio", "A  b--c", "x_y_z"} {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once))
	}
}

func takenSet(slugs ...string) ExistsFunc {
	set := map[string]bool{}
	for _, s := range slugs {
		set[s] = true
	}
	return func(_ context.Context, s string) (bool, error) {
		return set[s], nil
	}
}

func TestAllocator_Allocate(t *testing.T) {
	ctx := context.Background()

	got, err := NewAllocator(takenSet()).Allocate(ctx, "My Portfolio")
	require.NoError(t, err)
	assert.Equal(t, "my-portfolio", got)

	got, err = NewAllocator(takenSet("my-portfolio")).Allocate(ctx, "My Portfolio")
	require.NoError(t, err)
	assert.Equal(t, "my-portfolio-2", got)

	got, err = NewAllocator(takenSet("my-portfolio", "my-portfolio-2", "my-portfolio-3")).Allocate(ctx, "My Portfolio")
	require.NoError(t, err)
	assert.Equal(t, "my-portfolio-4", got)

	got, err = NewAllocator(takenSet("site")).Allocate(ctx, "???")
	require.NoError(t, err)
	assert.Equal(t, "site-2", got)
}

func TestAllocator_PropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewAllocator(func(context.Context, string) (bool, error) {
		return false, boom
	}).Allocate(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
