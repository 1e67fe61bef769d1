package evaluator

import (
	"context"

	"github.com/arthur-debert/cirules/pkg/instrument"
	"github.com/arthur-debert/cirules/pkg/repository"
)

// instrumentedResolver times every repository query that reaches the
// underlying resolver
type instrumentedResolver struct {
	repository.Resolver
	inst *instrument.Logger
}

func (r *instrumentedResolver) ChangedPaths(ctx context.Context, compareTo string) ([]string, bool, error) {
	var (
		paths []string
		ok    bool
	)
	err := r.inst.Instrument("changed_paths", func() error {
		var err error
		paths, ok, err = r.Resolver.ChangedPaths(ctx, compareTo)
		return err
	})
	r.inst.Observe("changed_paths_count", float64(len(paths)))
	return paths, ok, err
}

func (r *instrumentedResolver) ExistingPaths(ctx context.Context, ref string) ([]string, error) {
	var paths []string
	err := r.inst.Instrument("existing_paths", func() error {
		var err error
		paths, err = r.Resolver.ExistingPaths(ctx, ref)
		return err
	})
	r.inst.Observe("existing_paths_count", float64(len(paths)))
	return paths, err
}
