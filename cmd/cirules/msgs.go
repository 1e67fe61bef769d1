package cirules

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Evaluate GitLab CI pipeline rules"
	MsgEvaluateShort   = "Decide which jobs a pipeline would create"
	MsgLintShort       = "Validate a pipeline definition"
	MsgServeShort      = "Serve the HTTP API"
	MsgHistoryShort    = "List recorded evaluations, or show one"
	MsgVariablesShort  = "List the predefined variables of a pipeline"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgRecorded      = "Recorded evaluation %s"
	MsgConfigWritten = "Wrote %s"
	MsgNoHistory     = "No evaluations recorded."

	// Error messages
	MsgErrNoCommand      = "no command specified"
	MsgErrInvalidVar     = "invalid variable %q, expected KEY=VALUE"
	MsgErrInvalidRefDiff = "invalid ref diff %q, expected REF=path,path"
	MsgErrConfigExist    = "%s already exists"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Config file (default is $XDG_CONFIG_HOME/cirules/config.toml)"
	MsgFlagFormat        = "Output format: auto, term, text or json"
	MsgFlagFile          = "Pipeline definition file"
	MsgFlagRef           = "Ref the pipeline runs for (branch name, tag name or full ref)"
	MsgFlagSHA           = "Commit SHA of the pipeline"
	MsgFlagBefore        = "Commit the pipeline's diff starts from"
	MsgFlagSource        = "Pipeline source (push, web, schedule, merge_request_event, ...)"
	MsgFlagDefaultBranch = "Default branch of the project"
	MsgFlagProjectPath   = "Project path, e.g. group/project"
	MsgFlagTag           = "The ref is a tag"
	MsgFlagDeployFreeze  = "A deploy freeze is active"
	MsgFlagVar           = "Pipeline variable KEY=VALUE (repeatable)"
	MsgFlagChanged       = "Paths changed by the pipeline (unset means unknown)"
	MsgFlagExists        = "Paths present in the repository"
	MsgFlagRefs          = "Refs known to exist, for changes:compare_to"
	MsgFlagRefDiff       = "Paths changed against a ref, REF=path,path (repeatable)"
	MsgFlagRepoDir       = "Read changes and files from this git checkout"
	MsgFlagGitLabProject = "Read changes and files from this GitLab project"
	MsgFlagCompareTo     = "changes:compare_to handling: enforced or legacy"
	MsgFlagRecord        = "Record the attempt in the history database"
	MsgFlagDryRun        = "Also evaluate the definition against the pipeline context"
	MsgFlagMaxWarnings   = "Maximum number of warnings reported"
	MsgFlagAddress       = "Listen address"
	MsgFlagLogJSON       = "Log JSON lines to stderr (info level unless -v asks for more)"
	MsgFlagLimit         = "Number of evaluations listed"
	MsgFlagDefaults      = "Print the commented defaults file instead"
	MsgFlagInit          = "Write the commented defaults to the user config file"
	MsgFlagManDir        = "Directory the man pages are written to"
	MsgFlagInstrument    = "Log pipeline-creation instrumentation"
	MsgFlagJob           = "Also list the predefined variables of this job"
	MsgFlagStage         = "Stage of the job given with --job"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/evaluate-long.txt
	msgEvaluateLongRaw string
	MsgEvaluateLong    = strings.TrimSpace(msgEvaluateLongRaw)

	//go:embed msgs/evaluate-example.txt
	msgEvaluateExampleRaw string
	MsgEvaluateExample    = strings.TrimRight(msgEvaluateExampleRaw, "\n")

	//go:embed msgs/lint-long.txt
	msgLintLongRaw string
	MsgLintLong    = strings.TrimSpace(msgLintLongRaw)

	//go:embed msgs/serve-long.txt
	msgServeLongRaw string
	MsgServeLong    = strings.TrimSpace(msgServeLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
