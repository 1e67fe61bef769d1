// Test Type: Unit Test
// Description: Tests for the memoizing repository context and the in-memory resolver

package repository_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Memoizes(t *testing.T) {
	ctx := context.Background()
	resolver := repository.NewMemoryResolver([]string{"app.rb"}, []string{"README.md", "app.rb"}).
		WithCompareTo("master", []string{"file1.txt"})
	repo := repository.NewContext(resolver, "feature")

	for i := 0; i < 3; i++ {
		paths, ok, err := repo.ChangedPaths(ctx, "")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"app.rb"}, paths)

		paths, ok, err = repo.ChangedPaths(ctx, "master")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"file1.txt"}, paths)

		exists, err := repo.RefExists(ctx, "master")
		require.NoError(t, err)
		assert.True(t, exists)

		existing, index, err := repo.ExistingPaths(ctx)
		require.NoError(t, err)
		assert.Len(t, existing, 2)
		assert.Contains(t, index, "README.md")
	}

	calls := resolver.Calls()
	assert.Equal(t, 1, calls["changed:"])
	assert.Equal(t, 1, calls["changed:master"])
	assert.Equal(t, 1, calls["ref:master"])
	assert.Equal(t, 1, calls["existing:feature"])
	assert.Equal(t, repository.Stats{ChangedPathsCalls: 2, RefExistsCalls: 1, ExistingPathsCalls: 1}, repo.Stats())
}

func TestContext_ConcurrentFirstRequests(t *testing.T) {
	resolver := repository.NewMemoryResolver(nil, []string{"a", "b"})
	repo := repository.NewContext(resolver, "main")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.ExistingPaths(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, resolver.Calls()["existing:main"])
}

func TestContext_UnavailableDiff(t *testing.T) {
	repo := repository.NewContext(repository.NewMemoryResolver(nil, nil), "main")

	paths, ok, err := repo.ChangedPaths(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, paths)

	t.Run("empty_but_available", func(t *testing.T) {
		repo := repository.NewContext(repository.NewMemoryResolver([]string{}, nil), "main")
		paths, ok, err := repo.ChangedPaths(context.Background(), "")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, paths)
	})

	t.Run("nil_resolver", func(t *testing.T) {
		repo := repository.NewContext(nil, "main")
		_, ok, err := repo.ChangedPaths(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, ok)

		exists, err := repo.RefExists(context.Background(), "main")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

type failingResolver struct{ repository.MemoryResolver }

func (f *failingResolver) ExistingPaths(context.Context, string) ([]string, error) {
	return nil, stderrors.New("tree unavailable")
}

func TestContext_ErrorsAreCoded(t *testing.T) {
	repo := repository.NewContext(&failingResolver{}, "main")

	_, _, err := repo.ExistingPaths(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepository))
	assert.Contains(t, err.Error(), "tree unavailable")
}

func TestMemoryResolver(t *testing.T) {
	ctx := context.Background()
	resolver := repository.NewMemoryResolver(nil, []string{"default"}).WithRefs("main", "v1.0")
	resolver.Existing["v1.0"] = []string{"tagged"}

	exists, err := resolver.RefExists(ctx, "v1.0")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = resolver.RefExists(ctx, "xyz")
	require.NoError(t, err)
	assert.False(t, exists)

	paths, err := resolver.ExistingPaths(ctx, "v1.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"tagged"}, paths)

	paths, err = resolver.ExistingPaths(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, paths)

	_, ok, err := resolver.ChangedPaths(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = resolver.ChangedPaths(ctx, "main")
	require.NoError(t, err)
	assert.False(t, ok, "known ref without any diff information")

	assert.Equal(t, []string{"main", "v1.0"}, resolver.KnownRefs())
}

func TestMemoryResolver_CompareToDiffs(t *testing.T) {
	ctx := context.Background()
	resolver := repository.NewMemoryResolver([]string{"other.txt"}, nil).
		WithRefs("feature_1").
		WithCompareTo("release", []string{"file1.txt"})

	paths, ok, err := resolver.ChangedPaths(ctx, "feature_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"other.txt"}, paths)

	paths, ok, err = resolver.ChangedPaths(ctx, "release")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"file1.txt"}, paths)

	_, ok, err = resolver.ChangedPaths(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
