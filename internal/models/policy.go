package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy defines what the proctoring engine treats as a violation: the set
// of unauthorized object classes and the head pose angle beyond which a
// candidate counts as looking away.
type Policy struct {
	UnauthorizedObjects []string `yaml:"unauthorized_objects"`
	HeadPoseThreshold   float64  `yaml:"head_pose_threshold"`
}

// DefaultPolicy returns the built-in policy used when no policy file is
// configured.
func DefaultPolicy() *Policy {
	return &Policy{
		UnauthorizedObjects: []string{"phone", "book", "laptop", "tablet"},
		HeadPoseThreshold:   25,
	}
}

// LoadPolicy reads and parses a policy YAML file. Missing fields fall back
// to the defaults.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy YAML: %w", err)
	}

	if policy.HeadPoseThreshold <= 0 {
		policy.HeadPoseThreshold = DefaultPolicy().HeadPoseThreshold
	}
	if len(policy.UnauthorizedObjects) == 0 {
		policy.UnauthorizedObjects = DefaultPolicy().UnauthorizedObjects
	}
	return policy, nil
}

// IsUnauthorized reports whether an object class is in the unauthorized set.
func (p *Policy) IsUnauthorized(class string) bool {
	for _, c := range p.UnauthorizedObjects {
		if c == class {
			return true
		}
	}
	return false
}
