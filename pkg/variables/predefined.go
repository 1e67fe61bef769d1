package variables

import (
	"regexp"
	"strings"
)

// Definition documents a predefined variable
type Definition struct {
	Name string
	Desc string
}

// Predefined lists the variables derived from the pipeline being created
var Predefined = []Definition{
	{Name: "CI", Desc: "Always true inside a pipeline"},
	{Name: "GITLAB_CI", Desc: "Mark that the pipeline runs in GitLab CI"},
	{Name: "CI_COMMIT_REF_NAME", Desc: "The branch or tag name for which the pipeline is built"},
	{Name: "CI_COMMIT_REF_SLUG", Desc: "CI_COMMIT_REF_NAME lowercased, shortened to 63 bytes, non alphanumerics replaced by -"},
	{Name: "CI_COMMIT_BRANCH", Desc: "The commit branch name, absent for tag pipelines"},
	{Name: "CI_COMMIT_TAG", Desc: "The commit tag name, only for tag pipelines"},
	{Name: "CI_COMMIT_SHA", Desc: "The commit revision the pipeline is built for"},
	{Name: "CI_COMMIT_SHORT_SHA", Desc: "The first eight characters of CI_COMMIT_SHA"},
	{Name: "CI_PIPELINE_SOURCE", Desc: "How the pipeline was triggered (push, web, schedule, ...)"},
	{Name: "CI_DEFAULT_BRANCH", Desc: "The name of the project's default branch"},
	{Name: "CI_PROJECT_PATH", Desc: "The project namespace with the project name included"},
	{Name: "CI_DEPLOY_FREEZE", Desc: "Set when the pipeline runs inside a deploy freeze window"},
}

// JobPredefined lists the variables derived from the job being evaluated
var JobPredefined = []Definition{
	{Name: "CI_JOB_NAME", Desc: "The name of the job as defined in the pipeline definition"},
	{Name: "CI_JOB_STAGE", Desc: "The name of the job's stage"},
}

const (
	branchPrefix = "refs/heads/"
	tagPrefix    = "refs/tags/"
)

// PipelineInfo describes the pipeline being created
type PipelineInfo struct {
	Ref           string
	SHA           string
	Source        string
	DefaultBranch string
	ProjectPath   string

	// Tag marks a tag pipeline. A ref starting with refs/tags/ implies it.
	Tag          bool
	DeployFreeze bool
}

// RefName strips the refs/heads/ or refs/tags/ prefix
func RefName(ref string) string {
	switch {
	case strings.HasPrefix(ref, branchPrefix):
		return strings.TrimPrefix(ref, branchPrefix)
	case strings.HasPrefix(ref, tagPrefix):
		return strings.TrimPrefix(ref, tagPrefix)
	}
	return ref
}

// IsTag reports whether the pipeline runs for a tag
func (p PipelineInfo) IsTag() bool {
	return p.Tag || strings.HasPrefix(p.Ref, tagPrefix)
}

// Variables builds the predefined pipeline variables. Variables without a
// value are left out rather than set to an empty string.
func (p PipelineInfo) Variables() Collection {
	name := RefName(p.Ref)
	vars := Collection{
		"CI":        "true",
		"GITLAB_CI": "true",
	}
	set := func(key, value string) {
		if value != "" {
			vars[key] = value
		}
	}
	set("CI_COMMIT_REF_NAME", name)
	set("CI_COMMIT_REF_SLUG", Slugify(name))
	if p.IsTag() {
		set("CI_COMMIT_TAG", name)
	} else {
		set("CI_COMMIT_BRANCH", name)
	}
	set("CI_COMMIT_SHA", p.SHA)
	if len(p.SHA) > 8 {
		set("CI_COMMIT_SHORT_SHA", p.SHA[:8])
	} else {
		set("CI_COMMIT_SHORT_SHA", p.SHA)
	}
	set("CI_PIPELINE_SOURCE", p.Source)
	set("CI_DEFAULT_BRANCH", p.DefaultBranch)
	set("CI_PROJECT_PATH", p.ProjectPath)
	if p.DeployFreeze {
		vars["CI_DEPLOY_FREEZE"] = "true"
	}
	return vars
}

// JobVariables builds the predefined variables of one job
func JobVariables(name, stage string) Collection {
	vars := Collection{"CI_JOB_NAME": name}
	if stage != "" {
		vars["CI_JOB_STAGE"] = stage
	}
	return vars
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]`)

// Slugify lowercases s, replaces anything but [a-z0-9] with -, shortens it
// to 63 bytes and trims leading and trailing dashes
func Slugify(s string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(s), "-")
	if len(slug) > 63 {
		slug = slug[:63]
	}
	return strings.Trim(slug, "-")
}
