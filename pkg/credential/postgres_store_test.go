package credential

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Pranshu23x/project-server/internal/test_utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	if !test_utils.DBTestsEnabled() {
		os.Exit(m.Run())
	}
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupPostgresStore(t *testing.T) (context.Context, *PostgresStore) {
	if db == nil {
		t.Skip("set ASSISTANT_DB_TESTS=1 to run Postgres backed tests")
	}
	ctx := context.Background()
	_, err := db.Exec(ctx, "TRUNCATE google_credentials")
	require.NoError(t, err)
	return ctx, NewPostgresStore(db)
}

func TestPostgresStore_Lifecycle(t *testing.T) {
	ctx, store := setupPostgresStore(t)
	expiry := time.Date(2025, 1, 14, 11, 0, 0, 0, time.UTC)

	// when
	require.NoError(t, store.Put(ctx, "user-1", Credential{AccessToken: "a1", RefreshToken: "r1", Expiry: expiry}))
	require.NoError(t, store.Put(ctx, "user-1", Credential{AccessToken: "a2", RefreshToken: "r2", Expiry: expiry}))

	// then
	got, found, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a2", got.AccessToken)
	assert.Equal(t, "r2", got.RefreshToken)
	assert.True(t, expiry.Equal(got.Expiry))

	has, err := store.Has(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Delete(ctx, "user-1"))
	require.NoError(t, store.Delete(ctx, "user-1"))

	_, found, err = store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, found)
}
