package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"croplife/internal/model"
	"croplife/internal/repository"
	"croplife/internal/validation"
)

func TestSeedProducts(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	ctx := context.Background()

	created, err := seedProducts(ctx, repo, validation.New(), starterCatalog)
	require.NoError(t, err)
	assert.Equal(t, len(starterCatalog), created)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(starterCatalog))
	for i, p := range list {
		assert.Equal(t, starterCatalog[i].Title, p.Title)
	}

	// A second run leaves the catalog alone.
	created, err = seedProducts(ctx, repo, validation.New(), starterCatalog)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestSeedProducts_RejectsInvalidEntry(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	bad := []model.ProductInput{{Title: "X"}}

	_, err := seedProducts(context.Background(), repo, validation.New(), bad)
	assert.Error(t, err)
}
