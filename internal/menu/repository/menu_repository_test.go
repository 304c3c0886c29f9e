package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tableside/internal/errors"
	"tableside/internal/testutil"
)

func TestNewMySQLMenuRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLMenuRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func setupMenuRepo(t *testing.T) (*MySQLMenuRepository, func()) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	return NewMySQLMenuRepository(db), func() { testutil.CleanupTestDB(t, db) }
}

func TestMenuRepository_InsertFindUpdateDelete(t *testing.T) {
	repo, cleanup := setupMenuRepo(t)
	defer cleanup()
	ctx := context.Background()

	item := newTestMenuItem("7f1c0000-0000-4000-8000-000000000001", "Couscous", "18.50")
	require.NoError(t, repo.Insert(ctx, item))

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Couscous", found.Name)
	assert.Equal(t, "18.50", found.Price.StringFixed(2))

	byName, err := repo.FindByName(ctx, "Couscous")
	require.NoError(t, err)
	assert.Equal(t, item.ID, byName.ID)

	found.Description = "updated"
	require.NoError(t, repo.Update(ctx, found))
	// unchanged row still counts as found
	require.NoError(t, repo.Update(ctx, found))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "updated", all[0].Description)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.FindByID(ctx, item.ID)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMenuRepository_DeleteMissing(t *testing.T) {
	repo, cleanup := setupMenuRepo(t)
	defer cleanup()

	err := repo.Delete(context.Background(), "7f1c0000-0000-4000-8000-00000000dead")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
