package repository

import (
	"context"
	"sync"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/globs"
	"golang.org/x/sync/singleflight"
)

type changedResult struct {
	paths []string
	ok    bool
}

type existingResult struct {
	paths []string
	index map[string]struct{}
}

// Stats counts resolver round trips made through a Context
type Stats struct {
	ChangedPathsCalls  int
	RefExistsCalls     int
	ExistingPathsCalls int
}

// Context memoizes resolver answers for one pipeline-creation attempt.
// It is safe for concurrent use; concurrent first requests for the same
// key share one resolver call.
type Context struct {
	resolver Resolver
	ref      string

	group singleflight.Group

	mu       sync.RWMutex
	changed  map[string]changedResult
	refs     map[string]bool
	existing *existingResult
	stats    Stats
}

// NewContext wraps resolver for the revision ref. A nil resolver behaves as
// a repository without diff information and without files.
func NewContext(resolver Resolver, ref string) *Context {
	return &Context{
		resolver: resolver,
		ref:      ref,
		changed:  make(map[string]changedResult),
		refs:     make(map[string]bool),
	}
}

// Ref returns the revision the context was created for
func (c *Context) Ref() string {
	return c.ref
}

// Stats returns the number of resolver calls made so far
func (c *Context) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// ChangedPaths returns the memoized changed path set for compareTo
func (c *Context) ChangedPaths(ctx context.Context, compareTo string) ([]string, bool, error) {
	c.mu.RLock()
	res, hit := c.changed[compareTo]
	c.mu.RUnlock()
	if hit {
		return res.paths, res.ok, nil
	}
	if c.resolver == nil {
		return nil, false, nil
	}

	v, err, _ := c.group.Do("changed:"+compareTo, func() (any, error) {
		c.mu.RLock()
		res, hit := c.changed[compareTo]
		c.mu.RUnlock()
		if hit {
			return res, nil
		}

		paths, ok, err := c.resolver.ChangedPaths(ctx, compareTo)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRepository, "failed to list changed paths against %q", compareTo)
		}

		res = changedResult{paths: paths, ok: ok}
		c.mu.Lock()
		c.changed[compareTo] = res
		c.stats.ChangedPathsCalls++
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	res = v.(changedResult)
	return res.paths, res.ok, nil
}

// RefExists returns the memoized existence of ref
func (c *Context) RefExists(ctx context.Context, ref string) (bool, error) {
	c.mu.RLock()
	exists, hit := c.refs[ref]
	c.mu.RUnlock()
	if hit {
		return exists, nil
	}
	if c.resolver == nil {
		return false, nil
	}

	v, err, _ := c.group.Do("ref:"+ref, func() (any, error) {
		c.mu.RLock()
		exists, hit := c.refs[ref]
		c.mu.RUnlock()
		if hit {
			return exists, nil
		}

		exists, err := c.resolver.RefExists(ctx, ref)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRepository, "failed to resolve ref %q", ref)
		}

		c.mu.Lock()
		c.refs[ref] = exists
		c.stats.RefExistsCalls++
		c.mu.Unlock()
		return exists, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// ExistingPaths returns the memoized tree listing at the context revision
// together with a lookup index over it
func (c *Context) ExistingPaths(ctx context.Context) ([]string, map[string]struct{}, error) {
	c.mu.RLock()
	res := c.existing
	c.mu.RUnlock()
	if res != nil {
		return res.paths, res.index, nil
	}
	if c.resolver == nil {
		return nil, map[string]struct{}{}, nil
	}

	v, err, _ := c.group.Do("existing", func() (any, error) {
		c.mu.RLock()
		res := c.existing
		c.mu.RUnlock()
		if res != nil {
			return res, nil
		}

		paths, err := c.resolver.ExistingPaths(ctx, c.ref)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRepository, "failed to list repository tree at %q", c.ref)
		}

		res = &existingResult{paths: paths, index: globs.Index(paths)}
		c.mu.Lock()
		c.existing = res
		c.stats.ExistingPathsCalls++
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, nil, err
	}
	res = v.(*existingResult)
	return res.paths, res.index, nil
}
