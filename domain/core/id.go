package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// Domain-specific ID types
type (
	TestID   ID
	ReportID ID
)

func (id TestID) String() string   { return ID(id).String() }
func (id ReportID) String() string { return ID(id).String() }

// NewReportID creates a time-ordered report identifier.
func NewReportID() ReportID {
	return ReportID(NewID())
}

// ParseTestID parses a string into TestID
func ParseTestID(s string) (TestID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("test ID cannot be empty")
	}
	return TestID(s), nil
}
