package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNoConfig is returned when a chain has no entry in a static table
	ErrNoConfig = errors.New("no config")

	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract name
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrChainMismatch is returned when the node reports a different chain ID than configured
	ErrChainMismatch = errors.New("chain ID mismatch")

	// ErrTxFailed is returned when a mined transaction has a non-success status
	ErrTxFailed = errors.New("transaction failed")
)

// NoConfigError reports a lookup against a chain that has no configured record.
type NoConfigError struct {
	Kind    string
	ChainID string
}

func (e *NoConfigError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("No config for %s", e.ChainID)
	}
	return fmt.Sprintf("No config for %s (%s)", e.ChainID, e.Kind)
}

func (e *NoConfigError) Is(target error) bool {
	return target == ErrNoConfig
}

// RevertError carries the reason string of a reverted contract call.
type RevertError struct {
	Reason string
	Err    error
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

// RevertReason returns the revert reason carried by err, if any.
func RevertReason(err error) (string, bool) {
	var revert *RevertError
	if errors.As(err, &revert) {
		return revert.Reason, true
	}
	return "", false
}

// AmbiguousArtifactErr is returned when a contract name matches several artifacts
type AmbiguousArtifactErr struct {
	Name    string
	Matches []string
}

func (e AmbiguousArtifactErr) Error() string {
	paths := make([]string, len(e.Matches))
	copy(paths, e.Matches)
	sort.Strings(paths)

	var suggestions []string
	for _, p := range paths {
		suggestions = append(suggestions, "  - "+p)
	}

	return fmt.Sprintf("multiple artifacts found for %s - use the artifact path to disambiguate:\n%s",
		e.Name, strings.Join(suggestions, "\n"))
}
