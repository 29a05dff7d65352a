package config

import "github.com/pkg/errors"

// RepositoryPolicy defines how scenarios get their local repository
type RepositoryPolicy int

const (
	// RepositoryIsolated gives every invocation a fresh local repository
	RepositoryIsolated RepositoryPolicy = iota
	// RepositoryShared passes the configured local repository to every invocation
	RepositoryShared
)

// ParseRepositoryPolicy from string
func ParseRepositoryPolicy(policy string) (RepositoryPolicy, error) {
	switch policy {
	case "shared":
		return RepositoryShared, nil
	case "isolated", "": // Default option
		return RepositoryIsolated, nil
	default:
		return RepositoryIsolated, errors.Errorf("invalid repository policy %s", policy)
	}
}

func (p RepositoryPolicy) String() string {
	if p == RepositoryShared {
		return "shared"
	}
	return "isolated"
}
