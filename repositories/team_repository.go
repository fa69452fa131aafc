package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/scrimlol/scrim-system/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already used in room")
	ErrTeamRoomInvalid  = errors.New("team room conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByRoom(ctx context.Context, roomID int) ([]*models.Team, error)
	UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (room_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, team.RoomID, team.Name).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return r.handleTeamError(err)
	}

	memberQuery := `
		INSERT INTO team_members (team_id, user_id, nickname, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	for i := range team.Members {
		member := &team.Members[i]
		member.TeamID = team.ID
		if err := r.db.QueryRowContext(ctx, memberQuery,
			member.TeamID, member.UserID, member.Nickname, member.Position,
		).Scan(&member.ID); err != nil {
			return r.handleTeamError(err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, room_id, name, logo_key, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.RoomID,
		&team.Name,
		&team.LogoKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	members, err := r.listMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}

func (r *postgresTeamRepository) ListByRoom(ctx context.Context, roomID int) ([]*models.Team, error) {
	query := `
		SELECT id, room_id, name, logo_key, created_at
		FROM teams
		WHERE room_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID,
			&team.RoomID,
			&team.Name,
			&team.LogoKey,
			&team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, &team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, team := range teams {
		members, membersErr := r.listMembers(ctx, team.ID)
		if membersErr != nil {
			return nil, membersErr
		}
		team.Members = members
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) listMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT id, team_id, user_id, nickname, position
		FROM team_members
		WHERE team_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0, models.RosterSize)
	for rows.Next() {
		var member models.TeamMember
		if scanErr := rows.Scan(
			&member.ID,
			&member.TeamID,
			&member.UserID,
			&member.Nickname,
			&member.Position,
		); scanErr != nil {
			return nil, scanErr
		}
		members = append(members, member)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23503":
			return ErrTeamRoomInvalid
		case "23505":
			if pqErr.Constraint == "teams_room_id_name_key" {
				return ErrTeamNameConflict
			}
		}
	}
	return err
}
