package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex characters, enough to tell reports apart.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ComputeInputsHash fingerprints a test id plus its numeric and choice inputs.
// Keys are sorted so the hash does not depend on map iteration order.
func ComputeInputsHash(testID string, numbers map[string]float64, choices map[string]string) Hash {
	var b strings.Builder
	b.WriteString(testID)

	numKeys := make([]string, 0, len(numbers))
	for k := range numbers {
		numKeys = append(numKeys, k)
	}
	sort.Strings(numKeys)
	for _, k := range numKeys {
		b.WriteString("|n:")
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(numbers[k], 'g', -1, 64))
	}

	choiceKeys := make([]string, 0, len(choices))
	for k := range choices {
		choiceKeys = append(choiceKeys, k)
	}
	sort.Strings(choiceKeys)
	for _, k := range choiceKeys {
		b.WriteString("|c:")
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(choices[k])
	}

	return NewHash([]byte(b.String()))
}
