package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestClient_SetGetDelete(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestClient_JSON(t *testing.T) {
	_, c := newTestClient(t)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.SetJSON(ctx, "p", payload{Name: "studio"}, time.Minute))

	var got payload
	assert.True(t, c.GetJSON(ctx, "p", &got))
	assert.Equal(t, "studio", got.Name)
	assert.False(t, c.GetJSON(ctx, "missing", &got))

	require.NoError(t, c.Set(ctx, "broken", []byte("{"), time.Minute))
	assert.False(t, c.GetJSON(ctx, "broken", &got))
}

func TestClient_FailsSafe(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()
	mr.Close()

	assert.Error(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, c.Delete(ctx, "k"))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Error(t, c.Ping(ctx))

	var nilClient *Client
	got, err = nilClient.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, nilClient.Set(ctx, "k", nil, time.Minute))
	assert.NoError(t, nilClient.Delete(ctx, "k"))
	assert.NoError(t, nilClient.Close())
}
