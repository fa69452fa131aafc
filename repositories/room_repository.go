package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/scrimlol/scrim-system/models"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomHostInvalid = errors.New("room host conflict or invalid")
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id int) (*models.Room, error)
	List(ctx context.Context, status *models.RoomStatus) ([]*models.Room, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, roomID int, status models.RoomStatus) error
}

type postgresRoomRepository struct {
	db *sql.DB
}

func NewPostgresRoomRepository(db *sql.DB) RoomRepository {
	return &postgresRoomRepository{db: db}
}

func (r *postgresRoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (name, host_id, status, bracket_format)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		room.Name,
		room.HostID,
		room.Status,
		room.BracketFormat,
	).Scan(&room.ID, &room.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrRoomHostInvalid
	}
	return err
}

func (r *postgresRoomRepository) GetByID(ctx context.Context, id int) (*models.Room, error) {
	query := `
		SELECT id, name, host_id, status, bracket_format, created_at
		FROM rooms
		WHERE id = $1`

	room := &models.Room{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.HostID,
		&room.Status,
		&room.BracketFormat,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *postgresRoomRepository) List(ctx context.Context, status *models.RoomStatus) ([]*models.Room, error) {
	query := `
		SELECT id, name, host_id, status, bracket_format, created_at
		FROM rooms`
	args := []interface{}{}

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		var room models.Room
		if scanErr := rows.Scan(
			&room.ID,
			&room.Name,
			&room.HostID,
			&room.Status,
			&room.BracketFormat,
			&room.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		rooms = append(rooms, &room)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *postgresRoomRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, roomID int, status models.RoomStatus) error {
	result, err := exec.ExecContext(ctx, `UPDATE rooms SET status = $1 WHERE id = $2`, status, roomID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoomNotFound)
}
