// Package variables builds the variable environments rule expressions and
// patterns are evaluated against.
//
// Scopes are layered, later layers overriding earlier ones key by key:
//
//  1. predefined pipeline variables (CI_COMMIT_REF_NAME, ...)
//  2. root `variables:` of the definition
//  3. externally supplied pipeline variables (API, trigger, schedule)
//  4. variables of the matched workflow rule
//  5. job `variables:` and job predefined variables (CI_JOB_NAME, ...)
//  6. variables of the matched job rule
//
// `inherit:variables` filters layers 2 and 4 only. Predefined and external
// variables are always visible, and a job always sees what it declares.
package variables
