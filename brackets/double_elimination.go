package brackets

import (
	"context"
	"fmt"

	"github.com/scrimlol/scrim-system/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket builds the fixed double-elimination layouts for 4 and
// 8 teams. Only winners-bracket round 1 is seeded; every other match is
// created TBD and filled by advancement. Rounds increase toward the
// grand final across both bracket halves so that (round, match_number)
// stays unique per room.
//
// 4 teams, 6 matches:
//
//	WB_R1 x2 (round 1), WB_F (2), LB_R1 (2), LB_F (3), GF (4)
//
// 8 teams, 14 matches:
//
//	WB_R1 x4 (1), WB_R2 x2 (2), WB_F (3),
//	LB_R1 x2 (2), LB_R2 x2 (3), LB_SEMI (4), LB_F (5), GF (6)
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	teams := params.Teams

	switch len(teams) {
	case 4:
		return g.generateFourTeams(params), nil
	case 8:
		return g.generateEightTeams(params), nil
	default:
		return nil, fmt.Errorf("double elimination requires 4 or 8 teams, got %d", len(teams))
	}
}

func (g *DoubleEliminationGenerator) generateFourTeams(params GenerateBracketParams) []*BracketMatch {
	teams := params.Teams
	matches := make([]*BracketMatch, 0, 6)
	matchNumber := 0

	for i := 0; i < 4; i += 2 {
		aID := teams[i].ID
		bID := teams[i+1].ID
		matchNumber++
		matches = append(matches, newBracketMatch(1, matchNumber, &aID, &bID, sectionPtr(models.SectionWBR1)))
	}

	plan := []struct {
		round   int
		section models.BracketSection
	}{
		{2, models.SectionWBF},
		{2, models.SectionLBR1},
		{3, models.SectionLBF},
		{4, models.SectionGF},
	}
	for _, p := range plan {
		matchNumber++
		matches = append(matches, newBracketMatch(p.round, matchNumber, nil, nil, sectionPtr(p.section)))
	}

	return matches
}

func (g *DoubleEliminationGenerator) generateEightTeams(params GenerateBracketParams) []*BracketMatch {
	teams := params.Teams
	matches := make([]*BracketMatch, 0, 14)
	matchNumber := 0

	for i := 0; i < 8; i += 2 {
		aID := teams[i].ID
		bID := teams[i+1].ID
		matchNumber++
		matches = append(matches, newBracketMatch(1, matchNumber, &aID, &bID, sectionPtr(models.SectionWBR1)))
	}

	plan := []struct {
		round   int
		count   int
		section models.BracketSection
	}{
		{2, 2, models.SectionWBR2},
		{3, 1, models.SectionWBF},
		{2, 2, models.SectionLBR1},
		{3, 2, models.SectionLBR2},
		{4, 1, models.SectionLBSemi},
		{5, 1, models.SectionLBF},
		{6, 1, models.SectionGF},
	}
	for _, p := range plan {
		for i := 0; i < p.count; i++ {
			matchNumber++
			matches = append(matches, newBracketMatch(p.round, matchNumber, nil, nil, sectionPtr(p.section)))
		}
	}

	return matches
}
