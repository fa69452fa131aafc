package models

import "time"

// RosterSize is the number of players every team must field before a
// bracket can be generated.
const RosterSize = 5

// Position is a League of Legends lane assignment.
type Position string

const (
	PositionTop     Position = "TOP"
	PositionJungle  Position = "JUNGLE"
	PositionMid     Position = "MID"
	PositionADC     Position = "ADC"
	PositionSupport Position = "SUPPORT"
)

type Team struct {
	ID        int       `json:"id" db:"id"`
	RoomID    int       `json:"room_id" db:"room_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Members []TeamMember `json:"members,omitempty" db:"-"`
}

type TeamMember struct {
	ID       int      `json:"id" db:"id"`
	TeamID   int      `json:"team_id" db:"team_id"`
	UserID   int      `json:"user_id" db:"user_id"`
	Nickname string   `json:"nickname" db:"nickname"`
	Position Position `json:"position" db:"position"`
}
