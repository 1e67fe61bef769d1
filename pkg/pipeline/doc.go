// Package pipeline decodes the subset of a .gitlab-ci.yml file that rule
// evaluation depends on: stages, root variables, workflow rules and jobs.
//
// Jobs keep their declaration order. Hidden jobs (names starting with a
// dot) and global keywords such as image, default or include are skipped.
// Job keywords that do not influence rules (artifacts, needs, tags, ...) are
// ignored rather than rejected.
package pipeline
