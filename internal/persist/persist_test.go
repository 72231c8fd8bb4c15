package persist

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"whatsapp-dashboard/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	payload, err := Encode(map[string]any{"theme": "dark", "sidebarCollapsed": true})
	require.NoError(t, err)

	fields, err := Decode(payload)
	require.NoError(t, err)

	assert.JSONEq(t, `"dark"`, string(fields["theme"]))
	assert.JSONEq(t, `true`, string(fields["sidebarCollapsed"]))
}

func TestDecode_LegacyVersionZero(t *testing.T) {
	fields, err := Decode([]byte(`{"state":{"theme":"light"},"version":0}`))
	require.NoError(t, err)
	assert.JSONEq(t, `"light"`, string(fields["theme"]))
}

func TestDecode_RejectsFutureVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version":99,"state":{}}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"version":1,"state":[1,2]}`))
	assert.Error(t, err)
}

func TestDecode_NullState(t *testing.T) {
	fields, err := Decode([]byte(`{"version":1,"state":null}`))
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, []byte("one")))
	require.NoError(t, s.Save(ctx, []byte("two")))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
	assert.Equal(t, 2, s.Saves())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Save(canceled, []byte("three")))
	assert.Equal(t, 2, s.Saves())
}

func TestRedisStore_SaveLoad(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	s := NewRedisStore(rdb, "dash-store", time.Minute)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	payload, err := Encode(map[string]string{"theme": "dark"})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, payload))

	assert.True(t, mr.Exists("dash-store"))
	assert.Greater(t, mr.TTL("dash-store"), time.Duration(0))

	got, err := s.Load(ctx)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(got, &env))
	assert.Equal(t, CurrentVersion, env.Version)
}

func TestRedisStore_NoTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := NewRedisStore(rdb, "k", 0)
	require.NoError(t, s.Save(context.Background(), []byte("{}")))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestRedisStore_ContextCanceled(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRedisStore(rdb, "k", 0).Save(ctx, []byte("{}"))
	assert.Error(t, err)
}

func TestGormStore_SaveLoadOverwrite(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	ctx := context.Background()

	s := NewGormStore(db, "dash-store")

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, []byte(`{"version":1,"state":{"theme":"dark"}}`)))
	require.NoError(t, s.Save(ctx, []byte(`{"version":1,"state":{"theme":"light"}}`)))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"state":{"theme":"light"}}`, string(got))

	other := NewGormStore(db, "other-key")
	_, err = other.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}
