package repository

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	gogitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabOptions configures a GitLabResolver
type GitLabOptions struct {
	// BaseURL is the instance root, e.g. https://gitlab.example.com.
	// Empty means gitlab.com.
	BaseURL string
	Token   string
	// Project is a numeric id or a full path such as group/project
	Project string
	Head    string
	Before  string
}

// GitLabResolver reads repository state through the GitLab REST API
type GitLabResolver struct {
	client  *gogitlab.Client
	project string
	head    string
	before  string
}

// NewGitLabResolver creates an API client for opts
func NewGitLabResolver(opts GitLabOptions) (*GitLabResolver, error) {
	if opts.Project == "" {
		return nil, fmt.Errorf("gitlab project is required")
	}

	var client *gogitlab.Client
	var err error
	if opts.BaseURL != "" {
		baseURL := strings.TrimSuffix(opts.BaseURL, "/")
		client, err = gogitlab.NewClient(opts.Token, gogitlab.WithBaseURL(baseURL+"/api/v4"))
	} else {
		client, err = gogitlab.NewClient(opts.Token)
	}
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}
	return NewGitLabResolverWithClient(client, opts.Project, opts.Head, opts.Before), nil
}

// NewGitLabResolverWithClient wraps an existing client
func NewGitLabResolverWithClient(client *gogitlab.Client, project, head, before string) *GitLabResolver {
	return &GitLabResolver{client: client, project: project, head: head, before: before}
}

// ChangedPaths implements Resolver using the repository compare endpoint.
// Both sides of a rename count as changed.
func (g *GitLabResolver) ChangedPaths(ctx context.Context, compareTo string) ([]string, bool, error) {
	base := compareTo
	if base == "" {
		base = g.before
	}
	if base == "" || isNullSHA(base) {
		return nil, false, nil
	}

	cmp, resp, err := g.client.Repositories.Compare(g.project, &gogitlab.CompareOptions{
		From:     gogitlab.Ptr(base),
		To:       gogitlab.Ptr(g.head),
		Straight: gogitlab.Ptr(false),
	}, gogitlab.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("compare %s...%s: %w", base, g.head, err)
	}
	if cmp.CompareTimeout {
		return nil, false, nil
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, diff := range cmp.Diffs {
		for _, p := range []string{diff.NewPath, diff.OldPath} {
			if p == "" {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	if paths == nil {
		paths = []string{}
	}
	return paths, true, nil
}

// RefExists implements Resolver. A ref compared with itself succeeds for
// any branch, tag or commit and answers 404 otherwise.
func (g *GitLabResolver) RefExists(ctx context.Context, ref string) (bool, error) {
	_, resp, err := g.client.Repositories.Compare(g.project, &gogitlab.CompareOptions{
		From: gogitlab.Ptr(ref),
		To:   gogitlab.Ptr(ref),
	}, gogitlab.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return false, nil
		}
		return false, fmt.Errorf("resolve ref %s: %w", ref, err)
	}
	return true, nil
}

// ExistingPaths implements Resolver by listing the tree recursively
func (g *GitLabResolver) ExistingPaths(ctx context.Context, ref string) ([]string, error) {
	if ref == "" {
		ref = g.head
	}
	opts := &gogitlab.ListTreeOptions{
		ListOptions: gogitlab.ListOptions{PerPage: 100},
		Ref:         gogitlab.Ptr(ref),
		Recursive:   gogitlab.Ptr(true),
	}

	paths := []string{}
	for {
		nodes, resp, err := g.client.Repositories.ListTree(g.project, opts, gogitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list tree at %s: %w", ref, err)
		}
		for _, node := range nodes {
			if node.Type == "blob" {
				paths = append(paths, node.Path)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return paths, nil
}

func isNotFound(resp *gogitlab.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}
