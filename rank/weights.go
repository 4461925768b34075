package rank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights allocates influence across the five ranking factors. The sum is
// not required to equal 1: composites are renormalized by the total enabled
// weight. A zero weight disables its factor.
type Weights struct {
	Similarity float64 `yaml:"similarity"`
	Priority   float64 `yaml:"priority"`
	Relevance  float64 `yaml:"relevance"`
	Context    float64 `yaml:"context"`
	Confidence float64 `yaml:"confidence"`
}

// DefaultWeights returns the shipped factor allocation.
func DefaultWeights() Weights {
	return Weights{
		Similarity: 0.40,
		Priority:   0.15,
		Relevance:  0.20,
		Context:    0.10,
		Confidence: 0.15,
	}
}

// total returns the sum of enabled weights.
func (w Weights) total() float64 {
	return w.Similarity + w.Priority + w.Relevance + w.Context + w.Confidence
}

// Validate rejects negative weights and all-zero configurations.
func (w Weights) Validate() error {
	named := map[string]float64{
		"similarity": w.Similarity,
		"priority":   w.Priority,
		"relevance":  w.Relevance,
		"context":    w.Context,
		"confidence": w.Confidence,
	}
	for name, v := range named {
		if v < 0 {
			return fmt.Errorf("rank weight %s is negative: %.3f", name, v)
		}
	}
	if w.total() == 0 {
		return fmt.Errorf("all rank weights are zero; at least one factor must be enabled")
	}
	return nil
}

// weightsFile mirrors the ranking section of the router config document.
type weightsFile struct {
	Ranking Weights `yaml:"ranking"`
}

// LoadWeights reads factor weights from a YAML document with a top-level
// `ranking:` mapping and validates them.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("failed to read rank weights %s: %w", path, err)
	}

	var parsed weightsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Weights{}, fmt.Errorf("failed to parse rank weights: %w", err)
	}

	if err := parsed.Ranking.Validate(); err != nil {
		return Weights{}, fmt.Errorf("rank weights validation failed: %w", err)
	}
	return parsed.Ranking, nil
}
