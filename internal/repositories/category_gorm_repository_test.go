package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catalog/internal/cache"
	"catalog/internal/models"
	"catalog/internal/repositories"
)

func setupCategoryRepo(t *testing.T) (*repositories.GORMCategoryRepository, *gorm.DB, *cache.MemoryStore) {
	t.Helper()
	db := openTestDB(t)
	store := cache.NewMemoryStore()
	return repositories.NewGORMCategoryRepository(db, store), db, store
}

func TestCategoryRepository_CreateAndFindByID(t *testing.T) {
	repo, _, _ := setupCategoryRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.CreateCategoryRequest{
		Name:        "Electronics",
		Slug:        "electronics",
		Description: ptr("Gadgets and devices"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "electronics", found.Slug)
}

func TestCategoryRepository_Create_DuplicateSlug(t *testing.T) {
	repo, _, _ := setupCategoryRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.CreateCategoryRequest{Name: "Books", Slug: "books"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.CreateCategoryRequest{Name: "More Books", Slug: "books"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateSlug)
}

func TestCategoryRepository_FindAll(t *testing.T) {
	repo, db, _ := setupCategoryRepo(t)
	ctx := context.Background()

	for _, c := range []models.CreateCategoryRequest{
		{Name: "Toys", Slug: "toys"},
		{Name: "Apparel", Slug: "apparel"},
		{Name: "Music", Slug: "music"},
	} {
		_, err := repo.Create(ctx, &c)
		require.NoError(t, err)
	}

	categories, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Apparel", categories[0].Name, "categories are ordered by name")
	assert.Equal(t, "Music", categories[1].Name)
	assert.Equal(t, "Toys", categories[2].Name)

	// The listing is cached; a direct row delete must not be visible yet.
	require.NoError(t, db.Exec("DELETE FROM categories").Error)
	cached, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 3)
}

func TestCategoryRepository_Update(t *testing.T) {
	repo, _, store := setupCategoryRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.CreateCategoryRequest{Name: "Garden", Slug: "garden"})
	require.NoError(t, err)
	_, err = repo.FindAll(ctx)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, models.UpdateCategoryRequest{Name: ptr("Garden & Outdoors")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Garden & Outdoors", updated.Name)
	assert.Equal(t, "garden", updated.Slug)

	assert.False(t, store.Has("category:"+created.ID))
	assert.False(t, store.Has("categories:all"), "update must invalidate the cached listing")

	missing, err := repo.Update(ctx, "123e4567-e89b-12d3-a456-426614174000",
		models.UpdateCategoryRequest{Name: ptr("Ghost")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategoryRepository_Delete(t *testing.T) {
	repo, _, _ := setupCategoryRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.CreateCategoryRequest{Name: "Tools", Slug: "tools"})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	again, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, again)
}
