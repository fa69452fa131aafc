package brackets

import (
	"context"
	"fmt"
	"math"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket builds the full single-elimination skeleton up front:
// round 1 is seeded from consecutive pairs of the team input order
// ([0,1], [2,3], ...), every later round exists immediately with both
// slots TBD so advancement always has a target row to write into.
// Match numbers are assigned monotonically in generation order.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	teams := params.Teams
	n := len(teams)

	switch n {
	case 2, 4, 8:
	default:
		return nil, fmt.Errorf("single elimination requires 2, 4 or 8 teams, got %d", n)
	}

	numRounds := int(math.Log2(float64(n)))
	matches := make([]*BracketMatch, 0, n-1)
	matchNumber := 0

	for i := 0; i+1 < n; i += 2 {
		aID := teams[i].ID
		bID := teams[i+1].ID
		matchNumber++
		matches = append(matches, newBracketMatch(1, matchNumber, &aID, &bID, nil))
	}

	matchesInRound := n / 2
	for round := 2; round <= numRounds; round++ {
		matchesInRound /= 2
		for i := 0; i < matchesInRound; i++ {
			matchNumber++
			matches = append(matches, newBracketMatch(round, matchNumber, nil, nil, nil))
		}
	}

	return matches, nil
}
