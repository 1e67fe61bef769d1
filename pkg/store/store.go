// Package store keeps a history of pipeline-creation attempts in SQLite.
package store

import (
	"strings"
	"time"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/types"
)

// Status of a recorded attempt
type Status string

const (
	StatusCreated Status = "created"
	StatusFailed  Status = "failed"
)

// DefaultListLimit is used when ListEvaluations gets a non-positive limit
const DefaultListLimit = 20

// Record is one stored attempt. Evaluation is set for created attempts,
// ErrorCode and Error for failed ones.
type Record struct {
	ID     string `json:"id"`
	Ref    string `json:"ref"`
	Status Status `json:"status"`

	// DefinitionChecksum identifies the pipeline definition evaluated
	DefinitionChecksum string `json:"definition_checksum,omitempty"`

	ErrorCode  errors.ErrorCode  `json:"error_code,omitempty"`
	Error      string            `json:"error,omitempty"`
	Evaluation *types.Evaluation `json:"evaluation,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewRecord builds the record of an attempt from its outcome
func NewRecord(ref string, eval *types.Evaluation, err error) *Record {
	if err != nil {
		return &Record{
			Ref:       ref,
			Status:    StatusFailed,
			ErrorCode: errors.GetErrorCode(err),
			Error:     strings.Join(errors.Messages(err), "\n"),
		}
	}
	return &Record{Ref: ref, Status: StatusCreated, Evaluation: eval}
}
