// Package json writes results as indented JSON documents, one per call
package json

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/arthur-debert/cirules/pkg/errors"
)

// Entry is one failure of an error document
type Entry struct {
	Code    errors.ErrorCode       `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorDocument is written for every rendered error. Code and Error repeat
// the first entry so that single failures stay easy to read.
type ErrorDocument struct {
	Code     errors.ErrorCode `json:"code"`
	Error    string           `json:"error"`
	Messages []string         `json:"messages"`
	Errors   []Entry          `json:"errors"`
}

// Renderer encodes values with encoding/json
type Renderer struct {
	encoder *json.Encoder
}

// New creates a JSON renderer on output
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}, nil
}

// RenderResult encodes result as is
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError encodes err as an ErrorDocument, one entry per joined error
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(NewErrorDocument(err))
}

// RenderMessage encodes {"message": msg}
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

// NewErrorDocument flattens err, joined errors included
func NewErrorDocument(err error) ErrorDocument {
	entries := entries(err)
	doc := ErrorDocument{
		Code:     errors.ErrUnknown,
		Messages: make([]string, 0, len(entries)),
		Errors:   entries,
	}
	for _, e := range entries {
		doc.Messages = append(doc.Messages, e.Message)
	}
	if len(entries) > 0 {
		doc.Code = entries[0].Code
		doc.Error = entries[0].Message
	}
	return doc
}

func entries(err error) []Entry {
	if err == nil {
		return []Entry{}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		out := []Entry{}
		for _, e := range joined.Unwrap() {
			out = append(out, entries(e)...)
		}
		return out
	}
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		entry := Entry{Code: coded.Code, Message: coded.Message}
		if len(coded.Details) > 0 {
			entry.Details = coded.Details
		}
		return []Entry{entry}
	}
	return []Entry{{Code: errors.ErrUnknown, Message: err.Error()}}
}
