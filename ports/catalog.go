package ports

import (
	"trialpower/domain/power"
)

// Catalog provides read-only lookup of test specifications
type Catalog interface {
	// List returns every specification in registration order
	List() []*power.TestSpec

	// Get returns the specification for id or an error wrapping core.ErrUnknownTest
	Get(id string) (*power.TestSpec, error)
}
