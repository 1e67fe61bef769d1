// Package testutil provides utilities for testing cirules components.
//
// Key components:
//   - ClauseBuilder, JobBuilder, WorkflowBuilder: declarative rule and
//     definition setup
//   - Environment: an evaluation fixture bundling a definition, pipeline
//     info and an in-memory repository
//   - SetupXDG: isolates config, state and data directories per test
//
// Usage guidelines:
//   - Test data is defined inline, not in external files
//   - Each test builds its own fixtures; nothing is shared between tests
package testutil
