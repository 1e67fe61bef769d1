// pkg/testutil/environment.go
// DEPENDENCIES: pkg/types, pkg/variables, pkg/repository
// PURPOSE: Bundle a pipeline definition with the repository state it is evaluated against

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cirules/pkg/repository"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/variables"
)

// DefaultSHA is the commit every test pipeline is created for
const DefaultSHA = "0b4bc9a49b562e85de7cc9e834518ea6828729b9"

// Environment is everything one pipeline-creation attempt needs
type Environment struct {
	Definition *types.Definition
	Pipeline   variables.PipelineInfo
	External   map[string]string
	Resolver   *repository.MemoryResolver
}

// NewEnvironment creates a push pipeline on refs/heads/master with no diff
// information and an empty repository tree
func NewEnvironment(def *types.Definition) *Environment {
	return &Environment{
		Definition: def,
		Pipeline: variables.PipelineInfo{
			Ref:           "refs/heads/master",
			SHA:           DefaultSHA,
			Source:        "push",
			DefaultBranch: "master",
			ProjectPath:   "group/project",
		},
		Resolver: repository.NewMemoryResolver(nil, nil),
	}
}

// OnRef switches the pipeline ref. Bare names are treated as branches.
func (e *Environment) OnRef(ref string) *Environment {
	e.Pipeline.Ref = ref
	return e
}

// Changed sets the pipeline's own diff
func (e *Environment) Changed(paths ...string) *Environment {
	e.Resolver.Changed = append([]string{}, paths...)
	return e
}

// Files sets the repository tree
func (e *Environment) Files(paths ...string) *Environment {
	e.Resolver.Existing[""] = append([]string{}, paths...)
	return e
}

// Var adds an externally supplied pipeline variable
func (e *Environment) Var(key, value string) *Environment {
	if e.External == nil {
		e.External = make(map[string]string)
	}
	e.External[key] = value
	return e
}

// SetupXDG points every XDG base directory at a fresh temp dir so config,
// state and data files never touch the real home directory
func SetupXDG(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	return root
}
