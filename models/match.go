package models

import (
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "PENDING"
	MatchStatusInProgress MatchStatus = "IN_PROGRESS"
	MatchStatusCompleted  MatchStatus = "COMPLETED"
)

// BracketSection labels a match's position inside a double-elimination
// bracket. Single-elimination and round-robin matches carry no section.
type BracketSection string

const (
	SectionWBR1   BracketSection = "WB_R1"
	SectionWBR2   BracketSection = "WB_R2"
	SectionWBF    BracketSection = "WB_F"
	SectionLBR1   BracketSection = "LB_R1"
	SectionLBR2   BracketSection = "LB_R2"
	SectionLBSemi BracketSection = "LB_SEMI"
	SectionLBF    BracketSection = "LB_F"
	SectionGF     BracketSection = "GF"
)

// ParseBracketSection validates a section string coming from storage or
// an API request. The constant set above is closed; anything else is a
// data error the caller must surface.
func ParseBracketSection(s string) (BracketSection, error) {
	switch sec := BracketSection(s); sec {
	case SectionWBR1, SectionWBR2, SectionWBF,
		SectionLBR1, SectionLBR2, SectionLBSemi, SectionLBF, SectionGF:
		return sec, nil
	default:
		return "", fmt.Errorf("unknown bracket section %q", s)
	}
}

// TeamSlot identifies which side of a match a team occupies.
type TeamSlot int

const (
	SlotTeamA TeamSlot = 1
	SlotTeamB TeamSlot = 2
)

// Match is one node of a room's bracket. TeamAID/TeamBID stay nil
// ("TBD") until initial seeding or advancement fills them in.
type Match struct {
	ID          int             `json:"id" db:"id"`
	RoomID      int             `json:"room_id" db:"room_id"`
	Round       int             `json:"round" db:"round"`
	MatchNumber int             `json:"match_number" db:"match_number"`
	TeamAID     *int            `json:"team_a_id,omitempty" db:"team_a_id"`
	TeamBID     *int            `json:"team_b_id,omitempty" db:"team_b_id"`
	Section     *BracketSection `json:"bracket_section,omitempty" db:"bracket_section"`
	Status      MatchStatus     `json:"status" db:"status"`
	WinnerID    *int            `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// BracketType tags the structure the generator produced for a room.
type BracketType string

const (
	BracketSingle            BracketType = "SINGLE"
	BracketRoundRobin        BracketType = "ROUND_ROBIN"
	BracketSingleElimination BracketType = "SINGLE_ELIMINATION"
	BracketDoubleElimination BracketType = "DOUBLE_ELIMINATION"
)

// Bracket is the full ordered match list for a room. Once a room owns
// matches the bracket is never regenerated.
type Bracket struct {
	Type    BracketType `json:"type"`
	Matches []*Match    `json:"matches"`
}

// TypeForTeamCount returns the bracket type the generator will produce
// for a given roster count and requested format.
func TypeForTeamCount(count int, format BracketFormat) BracketType {
	switch {
	case count == 2:
		return BracketSingle
	case count == 3 || count == 5 || count == 6 || count == 7:
		return BracketRoundRobin
	case format == FormatDoubleElimination:
		return BracketDoubleElimination
	default:
		return BracketSingleElimination
	}
}
