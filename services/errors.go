package services

import "errors"

// Shared sentinel errors, mapped to HTTP status codes in the handlers
// package.
var (
	// Not found
	ErrRoomNotFound  = errors.New("room not found")
	ErrTeamNotFound  = errors.New("team not found")
	ErrMatchNotFound = errors.New("match not found")
	ErrUserNotFound  = errors.New("user not found")

	// Forbidden
	ErrNotRoomHost = errors.New("only the room host can perform this action")

	// Validation / bad request
	ErrRoomNameRequired        = errors.New("room name is required")
	ErrInvalidBracketFormat    = errors.New("invalid bracket format")
	ErrRoomNotAwaitingBracket  = errors.New("room is not ready for bracket generation")
	ErrInvalidStatusTransition = errors.New("invalid room status transition")
	ErrUnsupportedTeamCount    = errors.New("unsupported team count for bracket generation")
	ErrInvalidRosterSize       = errors.New("team roster must have exactly 5 members")
	ErrInvalidRosterPositions  = errors.New("team roster must cover all five positions")
	ErrUnknownBracketSection   = errors.New("unknown bracket section")
	ErrBracketNotGenerated     = errors.New("bracket has not been generated for this room")
	ErrMatchNotPending         = errors.New("match has already started or finished")
	ErrMatchNotStartable       = errors.New("match is missing a team assignment")
	ErrMatchAlreadyCompleted   = errors.New("match result has already been reported")
	ErrWinnerNotInMatch        = errors.New("winner is not a participant of this match")
	ErrTeamNameRequired        = errors.New("team name is required")
	ErrLogoUploadsDisabled     = errors.New("logo uploads are not configured")
	ErrUnsupportedLogoType     = errors.New("unsupported logo content type")
	ErrPasswordTooShort        = errors.New("password is too short")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrTeamNameConflict  = errors.New("team name is already in use in this room")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")
)
