// Package querytokens builds uniform token weight maps from query strings
// using an injected analyzer.
package querytokens

import (
	"fmt"
	"io"

	apperrors "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/errors"
)

// Analyzer turns text into an ordered sequence of tokens.
type Analyzer interface {
	Analyze(text string) ([]string, error)
}

// WeightMap maps each distinct token to its weight.
type WeightMap map[string]int

// Weights assigns weight 1 to every distinct token the analyzer returns.
func Weights(a Analyzer, text string) (WeightMap, error) {
	tokens, err := a.Analyze(text)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrAnalyzerUnavailable, "analyzing query: %v", err)
	}
	weights := make(WeightMap, len(tokens))
	for _, tok := range tokens {
		weights[tok] = 1
	}
	return weights, nil
}

// Print writes the map in Go's default map formatting, keys sorted.
func Print(w io.Writer, m WeightMap) error {
	_, err := fmt.Fprintln(w, map[string]int(m))
	return err
}
