package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrimlol/scrim-system/models"
)

func TestSingleEliminationTwoTeams(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	teams := makeTeams(2)

	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		RoomID: 1,
		Teams:  teams,
		Format: models.FormatSingleElimination,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, 1, m.Round)
	assert.Equal(t, 1, m.MatchNumber)
	require.NotNil(t, m.TeamAID)
	require.NotNil(t, m.TeamBID)
	assert.Equal(t, teams[0].ID, *m.TeamAID)
	assert.Equal(t, teams[1].ID, *m.TeamBID)
	assert.Nil(t, m.Section)
}

func TestSingleEliminationFourTeams(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	teams := makeTeams(4)

	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		RoomID: 1,
		Teams:  teams,
		Format: models.FormatSingleElimination,
	})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// Round 1 seeded from consecutive pairs.
	for i := 0; i < 2; i++ {
		m := matches[i]
		assert.Equal(t, 1, m.Round)
		require.NotNil(t, m.TeamAID)
		require.NotNil(t, m.TeamBID)
		assert.Equal(t, teams[2*i].ID, *m.TeamAID)
		assert.Equal(t, teams[2*i+1].ID, *m.TeamBID)
	}

	final := matches[2]
	assert.Equal(t, 2, final.Round)
	assert.Nil(t, final.TeamAID)
	assert.Nil(t, final.TeamBID)
}

func TestSingleEliminationEightTeams(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	teams := makeTeams(8)

	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		RoomID: 1,
		Teams:  teams,
		Format: models.FormatSingleElimination,
	})
	require.NoError(t, err)
	require.Len(t, matches, 7)

	perRound := map[int]int{}
	for _, m := range matches {
		perRound[m.Round]++
	}
	assert.Equal(t, map[int]int{1: 4, 2: 2, 3: 1}, perRound)

	// Match numbers are unique and monotonically assigned.
	for i, m := range matches {
		assert.Equal(t, i+1, m.MatchNumber)
	}

	// Only round 1 is seeded.
	for _, m := range matches {
		if m.Round == 1 {
			assert.NotNil(t, m.TeamAID)
			assert.NotNil(t, m.TeamBID)
		} else {
			assert.Nil(t, m.TeamAID)
			assert.Nil(t, m.TeamBID)
		}
	}
}

func TestSingleEliminationRejectsOddCounts(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	for _, n := range []int{0, 1, 3, 5, 6, 7} {
		_, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
			RoomID: 1,
			Teams:  makeTeams(n),
			Format: models.FormatSingleElimination,
		})
		assert.Error(t, err, "count %d", n)
	}
}
