package brackets

import (
	"context"
	"fmt"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket pairs every team against every other team exactly
// once, all in round 1. Pairs are enumerated as (i, j) with i < j over
// the team input order, which fixes the match numbering.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	teams := params.Teams
	n := len(teams)

	if n < 2 {
		return nil, fmt.Errorf("round robin requires at least 2 teams, got %d", n)
	}

	matches := make([]*BracketMatch, 0, n*(n-1)/2)
	matchNumber := 0

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			aID := teams[i].ID
			bID := teams[j].ID
			matchNumber++
			matches = append(matches, newBracketMatch(1, matchNumber, &aID, &bID, nil))
		}
	}

	return matches, nil
}
