package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/scrimlol/scrim-system/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchRoomInvalid   = errors.New("match room conflict or invalid")
	ErrMatchTeamInvalid   = errors.New("match team conflict or invalid")
	ErrMatchNumberInvalid = errors.New("match number already used in room")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByRoom(ctx context.Context, roomID int) ([]*models.Match, error)
	ListByRoomAndRound(ctx context.Context, roomID, round int) ([]*models.Match, error)
	ListByRoomAndSection(ctx context.Context, roomID int, section models.BracketSection) ([]*models.Match, error)
	CountByRoom(ctx context.Context, roomID int) (int, error)
	UpdateTeamSlot(ctx context.Context, matchID int, slot models.TeamSlot, teamID int) error
	UpdateStatus(ctx context.Context, matchID int, status models.MatchStatus) error
	UpdateResult(ctx context.Context, matchID int, status models.MatchStatus, winnerID *int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, room_id, round, match_number, team_a_id, team_b_id, bracket_section, status, winner_id, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(room_id, round, match_number, team_a_id, team_b_id, bracket_section, status, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	var section *string
	if match.Section != nil {
		s := string(*match.Section)
		section = &s
	}

	err := exec.QueryRowContext(ctx, query,
		match.RoomID,
		match.Round,
		match.MatchNumber,
		match.TeamAID,
		match.TeamBID,
		section,
		match.Status,
		match.WinnerID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByRoom(ctx context.Context, roomID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE room_id = $1
		ORDER BY round ASC, match_number ASC`

	return r.queryMatches(ctx, query, roomID)
}

func (r *postgresMatchRepository) ListByRoomAndRound(ctx context.Context, roomID, round int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE room_id = $1 AND round = $2
		ORDER BY match_number ASC`

	return r.queryMatches(ctx, query, roomID, round)
}

func (r *postgresMatchRepository) ListByRoomAndSection(ctx context.Context, roomID int, section models.BracketSection) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE room_id = $1 AND bracket_section = $2
		ORDER BY match_number ASC`

	return r.queryMatches(ctx, query, roomID, string(section))
}

func (r *postgresMatchRepository) CountByRoom(ctx context.Context, roomID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE room_id = $1`, roomID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for room %d: %w", roomID, err)
	}
	return count, nil
}

// UpdateTeamSlot writes exactly one of the two team columns, so
// concurrent assignments to different slots of the same match cannot
// clobber each other.
func (r *postgresMatchRepository) UpdateTeamSlot(ctx context.Context, matchID int, slot models.TeamSlot, teamID int) error {
	column := "team_a_id"
	if slot == models.SlotTeamB {
		column = "team_b_id"
	}

	query := `UPDATE matches SET ` + column + ` = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, teamID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, matchID int, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, matchID int, status models.MatchStatus, winnerID *int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = $1, winner_id = $2 WHERE id = $3`,
		status, winnerID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var match models.Match
	var section sql.NullString

	err := row.Scan(
		&match.ID,
		&match.RoomID,
		&match.Round,
		&match.MatchNumber,
		&match.TeamAID,
		&match.TeamBID,
		&section,
		&match.Status,
		&match.WinnerID,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if section.Valid {
		// Stored sections are external input; a value outside the known
		// set is a data error, not a programming error.
		parsed, parseErr := models.ParseBracketSection(section.String)
		if parseErr != nil {
			return nil, fmt.Errorf("match %d: %w", match.ID, parseErr)
		}
		match.Section = &parsed
	}

	return &match, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_room_id_fkey":
				return ErrMatchRoomInvalid
			case "matches_team_a_id_fkey", "matches_team_b_id_fkey", "matches_winner_id_fkey":
				return ErrMatchTeamInvalid
			}
		case "23505": // unique_violation
			if pqErr.Constraint == "matches_room_id_match_number_key" {
				return ErrMatchNumberInvalid
			}
		}
	}
	return err
}
