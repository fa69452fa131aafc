package models

import "time"

// RoomStatus mirrors the room_status ENUM in the database.
type RoomStatus string

const (
	RoomStatusWaiting       RoomStatus = "waiting"
	RoomStatusTeamSelection RoomStatus = "team_selection"
	RoomStatusReady         RoomStatus = "ready"
	RoomStatusInProgress    RoomStatus = "in_progress"
	RoomStatusCompleted     RoomStatus = "completed"
	RoomStatusCanceled      RoomStatus = "canceled"
)

// BracketFormat is the format the host picks when creating a room.
// Rooms with 2 teams collapse to a single match and rooms with
// 3, 5, 6 or 7 teams play round robin regardless of this choice.
type BracketFormat string

const (
	FormatSingleElimination BracketFormat = "SINGLE_ELIMINATION"
	FormatDoubleElimination BracketFormat = "DOUBLE_ELIMINATION"
)

func (f BracketFormat) Valid() bool {
	return f == FormatSingleElimination || f == FormatDoubleElimination
}

// Room is a custom-game (scrim) lobby owned by a host.
type Room struct {
	ID            int           `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	HostID        int           `json:"host_id" db:"host_id"`
	Status        RoomStatus    `json:"status" db:"status"`
	BracketFormat BracketFormat `json:"bracket_format" db:"bracket_format"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`

	Host  *User  `json:"host,omitempty" db:"-"`
	Teams []Team `json:"teams,omitempty" db:"-"`
}
