// Package evaluator decides which jobs a pipeline-creation attempt creates.
//
// An attempt runs in three steps:
//
//  1. the workflow gate: workflow rules are matched in the pipeline scope
//     (predefined, root and external variables). No match, or a match with
//     `when: never`, filters the whole pipeline out.
//  2. per job evaluation: every job's rules are matched in the job scope.
//     A job without rules is included with its own defaults. Jobs are
//     independent and evaluated concurrently.
//  3. the empty pipeline check: an attempt that includes no job fails.
//
// Configuration errors found while matching (bad expressions, unknown
// compare_to refs, invalid start_in) are collected for every job and
// returned together. Repository failures and cancellation abort the attempt
// at once. No partial result is ever returned alongside an error.
package evaluator
