package persist

import (
	"context"
	"path/filepath"
	"testing"

	"whatsapp-dashboard/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, p Persister) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, p.Save(ctx, []byte(`{"version":1,"state":{}}`)))
	got, err := p.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"state":{}}`, string(got))
}

func TestOpen_Memory(t *testing.T) {
	p, closeFn, err := Open(&config.Config{StoreBackend: config.BackendMemory})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &MemoryStore{}, p)
	roundTrip(t, p)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	p, closeFn, err := Open(&config.Config{
		StoreBackend: config.BackendRedis,
		RedisAddr:    mr.Addr(),
		StoreKey:     "dash",
	})
	require.NoError(t, err)
	defer closeFn()

	roundTrip(t, p)
	assert.True(t, mr.Exists("dash"))
}

func TestOpen_SQLite(t *testing.T) {
	p, closeFn, err := Open(&config.Config{
		StoreBackend: config.BackendSQLite,
		DBPath:       filepath.Join(t.TempDir(), "dash.db"),
		StoreKey:     "dash",
	})
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &GormStore{}, p)
	roundTrip(t, p)
}

func TestOpen_Unknown(t *testing.T) {
	_, _, err := Open(&config.Config{StoreBackend: "etcd"})
	assert.ErrorContains(t, err, "unknown store backend")
}
