package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mladjabiznis1-source/sales-tracker/internal/session"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := session.New(42, "Rep One", "rep@example.com", time.Hour)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, sess.ID, got.ID)
	require.Equal(t, int64(42), got.UserID)
	require.Equal(t, "Rep One", got.UserName)
	require.Equal(t, "rep@example.com", got.UserEmail)
}

func TestMemoryStoreUnknownIDReturnsNil(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	got, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryStoreDropsExpired(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := session.New(42, "Rep One", "rep@example.com", -time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := session.New(42, "Rep One", "rep@example.com", time.Hour)
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, sess.ID))
	require.NoError(t, store.Delete(ctx, sess.ID))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCodecRoundTrip(t *testing.T) {
	codec := session.NewCodec("test-secret")

	value := codec.Encode("abc-123")
	id, err := codec.Decode(value)
	require.NoError(t, err)
	require.Equal(t, "abc-123", id)
}

func TestCodecRejectsTampering(t *testing.T) {
	codec := session.NewCodec("test-secret")
	value := codec.Encode("abc-123")

	for _, bad := range []string{
		"",
		"no-signature",
		value + "0",
		"other-id." + value[len("abc-123."):],
	} {
		_, err := codec.Decode(bad)
		require.Error(t, err, "value %q", bad)
	}
}

func TestCodecRejectsForeignSecret(t *testing.T) {
	value := session.NewCodec("secret-a").Encode("abc-123")

	_, err := session.NewCodec("secret-b").Decode(value)
	require.Error(t, err)
}
