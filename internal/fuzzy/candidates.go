package fuzzy

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed candidates.yaml
var candidatesYAML []byte

// Candidates enumerates the fixed value sets each randomized decision
// point draws from.
type Candidates struct {
	Templates  []string `yaml:"templates"`
	Databases  []string `yaml:"databases"`
	Background []string `yaml:"background"`
	Assets     []string `yaml:"assets"`
}

// DefaultCandidates parses the embedded candidate sets.
func DefaultCandidates() (Candidates, error) {
	var c Candidates
	if err := yaml.Unmarshal(candidatesYAML, &c); err != nil {
		return Candidates{}, fmt.Errorf("parse embedded candidates: %w", err)
	}
	return c, nil
}
