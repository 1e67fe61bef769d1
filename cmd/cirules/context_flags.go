package cirules

import (
	"strings"

	"github.com/arthur-debert/cirules/pkg/config"
	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/evaluator"
	"github.com/arthur-debert/cirules/pkg/repository"
	"github.com/arthur-debert/cirules/pkg/variables"
	"github.com/spf13/cobra"
)

// pipelineFlags describe the pipeline-creation attempt on the command line
type pipelineFlags struct {
	ref           string
	sha           string
	before        string
	source        string
	defaultBranch string
	projectPath   string
	tag           bool
	deployFreeze  bool
	vars          []string
	changed       []string
	exists        []string
	refs          []string
	refDiffs      []string
	repoDir       string
	gitlabProject string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	f.registerPipeline(cmd)
	flags := cmd.Flags()
	flags.StringVar(&f.before, "before", "", MsgFlagBefore)
	flags.StringSliceVar(&f.changed, "changed", nil, MsgFlagChanged)
	flags.StringSliceVar(&f.exists, "exists", nil, MsgFlagExists)
	flags.StringSliceVar(&f.refs, "refs", nil, MsgFlagRefs)
	flags.StringArrayVar(&f.refDiffs, "ref-diff", nil, MsgFlagRefDiff)
	flags.StringVar(&f.repoDir, "repo-dir", "", MsgFlagRepoDir)
	flags.StringVar(&f.gitlabProject, "gitlab-project", "", MsgFlagGitLabProject)
	cmd.MarkFlagsMutuallyExclusive("repo-dir", "gitlab-project")
	cmd.MarkFlagsMutuallyExclusive("changed", "repo-dir")
	cmd.MarkFlagsMutuallyExclusive("changed", "gitlab-project")
	cmd.MarkFlagsMutuallyExclusive("ref-diff", "repo-dir")
	cmd.MarkFlagsMutuallyExclusive("ref-diff", "gitlab-project")
}

// registerPipeline adds the flags that shape predefined variables only
func (f *pipelineFlags) registerPipeline(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.ref, "ref", "", MsgFlagRef)
	flags.StringVar(&f.sha, "sha", "", MsgFlagSHA)
	flags.StringVar(&f.source, "source", "push", MsgFlagSource)
	flags.StringVar(&f.defaultBranch, "default-branch", "main", MsgFlagDefaultBranch)
	flags.StringVar(&f.projectPath, "project-path", "", MsgFlagProjectPath)
	flags.BoolVar(&f.tag, "tag", false, MsgFlagTag)
	flags.BoolVar(&f.deployFreeze, "deploy-freeze", false, MsgFlagDeployFreeze)
	flags.StringArrayVar(&f.vars, "var", nil, MsgFlagVar)
}

// fullRef expands a short branch or tag name
func (f *pipelineFlags) fullRef() string {
	if f.ref == "" || strings.HasPrefix(f.ref, "refs/") {
		return f.ref
	}
	if f.tag {
		return "refs/tags/" + f.ref
	}
	return "refs/heads/" + f.ref
}

func (f *pipelineFlags) pipelineInfo() variables.PipelineInfo {
	return variables.PipelineInfo{
		Ref:           f.fullRef(),
		SHA:           f.sha,
		Source:        f.source,
		DefaultBranch: f.defaultBranch,
		ProjectPath:   f.projectPath,
		Tag:           f.tag,
		DeployFreeze:  f.deployFreeze,
	}
}

// head is the revision remote resolvers read the tree at
func (f *pipelineFlags) head() string {
	if f.sha != "" {
		return f.sha
	}
	return variables.RefName(f.fullRef())
}

// resolver picks the repository source: GitLab API, local checkout, or the
// path flags. An empty --changed value means an empty but known diff. Refs
// listed by --refs without a --ref-diff of their own share the --changed diff.
func (f *pipelineFlags) resolver(cmd *cobra.Command, cfg *config.Config) (repository.Resolver, error) {
	switch {
	case f.gitlabProject != "":
		return repository.NewGitLabResolver(repository.GitLabOptions{
			BaseURL: cfg.GitLab.BaseURL,
			Token:   cfg.GitLab.Token,
			Project: f.gitlabProject,
			Head:    f.head(),
			Before:  f.before,
		})
	case f.repoDir != "":
		return repository.NewGitResolver(f.repoDir, f.head(), f.before), nil
	}

	var changed []string
	if cmd.Flags().Changed("changed") {
		changed = append([]string{}, f.changed...)
	}
	res := repository.NewMemoryResolver(changed, f.exists).WithRefs(f.refs...)
	diffs, err := parseRefDiffs(f.refDiffs)
	if err != nil {
		return nil, err
	}
	for ref, paths := range diffs {
		res.WithCompareTo(ref, paths)
	}
	return res, nil
}

// parseRefDiffs reads REF=path,path pairs. "REF=" is an empty diff.
func parseRefDiffs(pairs []string) (map[string][]string, error) {
	diffs := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		ref, list, ok := strings.Cut(pair, "=")
		ref = strings.TrimSpace(ref)
		if !ok || ref == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrInvalidRefDiff, pair).WithDetail("ref_diff", pair)
		}
		paths := diffs[ref]
		if paths == nil {
			paths = []string{}
		}
		for _, p := range strings.Split(list, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		diffs[ref] = paths
	}
	return diffs, nil
}

// request builds the evaluator request, without definition
func (f *pipelineFlags) request(cmd *cobra.Command, cfg *config.Config) (evaluator.Request, error) {
	vars, err := parseVars(f.vars)
	if err != nil {
		return evaluator.Request{}, err
	}
	resolver, err := f.resolver(cmd, cfg)
	if err != nil {
		return evaluator.Request{}, err
	}
	return evaluator.Request{
		Pipeline:   f.pipelineInfo(),
		Variables:  vars,
		Resolver:   resolver,
		Instrument: newInstrument(cfg),
		Caller:     "cli",
	}, nil
}
