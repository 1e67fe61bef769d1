package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultStage is the stage of a job that declares none
const DefaultStage = "test"

// DefaultStages apply when the definition has no `stages:` keyword
var DefaultStages = []string{".pre", "build", "test", "deploy", ".post"}

// reservedKeys are global keywords, never job names
var reservedKeys = map[string]bool{
	"stages":        true,
	"variables":     true,
	"workflow":      true,
	"default":       true,
	"include":       true,
	"image":         true,
	"services":      true,
	"before_script": true,
	"after_script":  true,
	"cache":         true,
	"types":         true,
}

// Load reads and parses a definition file
func Load(path string) (*types.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read pipeline definition %s", path).
			WithDetail("path", path)
	}
	return Parse(data)
}

// Parse decodes a definition. Errors carry the ErrDefinitionInvalid code
// and name the offending key the way `jobs:<name> ...` lint messages do.
func Parse(data []byte) (*types.Definition, error) {
	logger := logging.GetLogger("pipeline")

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrDefinitionInvalid, "Invalid configuration format")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New(errors.ErrDefinitionInvalid, "Please provide content of .gitlab-ci.yml")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrDefinitionInvalid, "Invalid configuration format")
	}

	def := &types.Definition{}
	var stagesDeclared bool
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]

		switch {
		case key == "stages":
			var stages stringList
			if err := value.Decode(&stages); err != nil {
				return nil, invalid("stages config should be an array of strings", err)
			}
			def.Stages = stages
			stagesDeclared = true
		case key == "variables":
			var vars variableMap
			if err := value.Decode(&vars); err != nil {
				return nil, invalid("variables config should be a hash of key value pairs", err)
			}
			def.Workflow.Variables = vars
		case key == "workflow":
			var wf rawWorkflow
			if err := value.Decode(&wf); err != nil {
				return nil, invalid("workflow config contains unknown keys", err)
			}
			rules, err := convertRules("workflow", wf.Rules)
			if err != nil {
				return nil, err
			}
			def.Workflow.Name = wf.Name
			def.Workflow.Rules = rules
		case reservedKeys[key]:
			logger.Trace().Str("key", key).Msg("Skipping global keyword")
		case strings.HasPrefix(key, "."):
			logger.Trace().Str("job", key).Msg("Skipping hidden job")
		default:
			job, err := decodeJob(key, value)
			if err != nil {
				return nil, err
			}
			def.Jobs = append(def.Jobs, job)
		}
	}

	if stagesDeclared {
		def.Stages = withEdgeStages(def.Stages)
	} else {
		def.Stages = append([]string{}, DefaultStages...)
	}
	if err := validateStages(def); err != nil {
		return nil, err
	}
	if len(def.Jobs) == 0 {
		return nil, errors.New(errors.ErrDefinitionInvalid, "jobs config should contain at least one visible job")
	}

	logger.Debug().
		Int("jobs", len(def.Jobs)).
		Int("stages", len(def.Stages)).
		Bool("workflow_rules", def.Workflow.HasRules()).
		Msg("Pipeline definition parsed")
	return def, nil
}

func decodeJob(name string, node *yaml.Node) (types.JobSpec, error) {
	prefix := "jobs:" + name
	if node.Kind != yaml.MappingNode {
		return types.JobSpec{}, errors.Newf(errors.ErrDefinitionInvalid, "%s config should be a hash", prefix).
			WithDetail("job", name)
	}

	var raw rawJob
	if err := node.Decode(&raw); err != nil {
		return types.JobSpec{}, errors.Wrapf(err, errors.ErrDefinitionInvalid, "%s config is invalid", prefix).
			WithDetail("job", name)
	}
	if len(raw.Script) == 0 && raw.Trigger == nil && raw.Extends == nil {
		return types.JobSpec{}, errors.Newf(errors.ErrDefinitionInvalid,
			"%s config should implement the script:, run:, or trigger: keyword", prefix).
			WithDetail("job", name)
	}

	when, err := types.ParseWhen(raw.When)
	if err != nil {
		return types.JobSpec{}, errors.Newf(errors.ErrDefinitionInvalid, "%s when %s", prefix, err.Error()).
			WithDetail("job", name)
	}

	rules, err := convertRules(prefix, raw.Rules)
	if err != nil {
		return types.JobSpec{}, err
	}

	job := types.JobSpec{
		Name:         name,
		Stage:        raw.Stage,
		Script:       raw.Script,
		Rules:        rules,
		When:         when,
		AllowFailure: convertAllowFailure(raw.AllowFailure),
		StartIn:      raw.StartIn,
		Variables:    raw.Variables,
	}
	if job.Stage == "" {
		job.Stage = DefaultStage
	}
	if raw.Inherit != nil && raw.Inherit.Variables != nil {
		if raw.Inherit.Variables.Names != nil {
			job.InheritVariables = types.InheritOnly(raw.Inherit.Variables.Names...)
		} else if raw.Inherit.Variables.All {
			job.InheritVariables = types.InheritAll()
		} else {
			job.InheritVariables = types.InheritNone()
		}
	}
	return job, nil
}

func convertRules(prefix string, raw []rawRule) (types.RuleSet, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(types.RuleSet, 0, len(raw))
	for _, r := range raw {
		when, err := types.ParseWhen(r.When)
		if err != nil {
			return nil, errors.Newf(errors.ErrDefinitionInvalid, "%s rules:when %s", prefix, err.Error())
		}
		clause := types.RuleClause{
			If:           r.If,
			When:         when,
			AllowFailure: convertAllowFailure(r.AllowFailure),
			Variables:    r.Variables,
			StartIn:      r.StartIn,
		}
		if r.Changes != nil {
			clause.Changes = &types.ChangesSpec{Paths: r.Changes.Paths, CompareTo: r.Changes.CompareTo}
		}
		if r.Exists != nil {
			clause.Exists = r.Exists.Paths
		}
		out = append(out, clause)
	}
	return out, nil
}

func convertAllowFailure(raw rawAllowFailure) types.AllowFailure {
	switch {
	case !raw.Set:
		return types.AllowFailure{}
	case raw.ExitCodes != nil:
		return types.AllowFailureFromExitCodes(raw.ExitCodes...)
	}
	return types.AllowFailureFromBool(raw.Value)
}

func validateStages(def *types.Definition) error {
	known := make(map[string]bool, len(def.Stages))
	for _, s := range def.Stages {
		known[s] = true
	}
	for _, job := range def.Jobs {
		if !known[job.Stage] {
			return errors.Newf(errors.ErrDefinitionInvalid,
				"jobs:%s chosen stage %s does not exist; available stages are %s",
				job.Name, job.Stage, strings.Join(def.Stages, ", ")).
				WithDetail("job", job.Name)
		}
	}
	return nil
}

// withEdgeStages wraps declared stages in the implicit .pre and .post
func withEdgeStages(stages []string) []string {
	out := make([]string, 0, len(stages)+2)
	if len(stages) == 0 || stages[0] != ".pre" {
		out = append(out, ".pre")
	}
	out = append(out, stages...)
	if len(stages) == 0 || stages[len(stages)-1] != ".post" {
		out = append(out, ".post")
	}
	return out
}

func invalid(msg string, err error) error {
	return errors.Wrap(err, errors.ErrDefinitionInvalid, msg)
}

// Describe summarizes a definition for log lines and terminal headers
func Describe(def *types.Definition) string {
	return fmt.Sprintf("%d jobs in %d stages", len(def.Jobs), len(def.Stages))
}
