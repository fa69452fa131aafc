package brackets

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/scrimlol/scrim-system/models"
)

// BracketMatch is a match produced by a generator before it has been
// persisted. UID is a provisional identity used only to correlate the
// in-memory structure; the database assigns the real id on insert.
type BracketMatch struct {
	UID         string
	Round       int
	MatchNumber int

	TeamAID *int
	TeamBID *int

	Section *models.BracketSection
}

type GenerateBracketParams struct {
	RoomID int
	Teams  []*models.Team
	Format models.BracketFormat
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}

// ForTeamCount picks the generator for a roster count. 2 teams play a
// single match, 3/5/6/7 play round robin, 4 and 8 play the format the
// host requested.
func ForTeamCount(count int, format models.BracketFormat) (BracketGenerator, error) {
	switch count {
	case 2:
		return NewSingleEliminationGenerator(), nil
	case 3, 5, 6, 7:
		return NewRoundRobinGenerator(), nil
	case 4, 8:
		if format == models.FormatDoubleElimination {
			return NewDoubleEliminationGenerator(), nil
		}
		return NewSingleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported team count %d", count)
	}
}

func newBracketMatch(round, matchNumber int, teamAID, teamBID *int, section *models.BracketSection) *BracketMatch {
	return &BracketMatch{
		UID:         uuid.NewString(),
		Round:       round,
		MatchNumber: matchNumber,
		TeamAID:     teamAID,
		TeamBID:     teamBID,
		Section:     section,
	}
}

func sectionPtr(s models.BracketSection) *models.BracketSection {
	return &s
}
