package utils

import (
	"strings"

	"github.com/google/uuid"
)

const documentIDPrefix = "doc_"

// NewDocumentID returns a fresh identifier for an uploaded document.
func NewDocumentID() string {
	return documentIDPrefix + uuid.New().String()
}

// IsDocumentID reports whether id was produced by NewDocumentID. Archived
// snapshots may carry foreign identifiers, so callers treat a false result
// as informational, not as a validation failure.
func IsDocumentID(id string) bool {
	raw, found := strings.CutPrefix(id, documentIDPrefix)
	if !found {
		return false
	}
	_, err := uuid.Parse(raw)
	return err == nil
}
