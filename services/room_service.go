package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/repositories"
)

type RoomService interface {
	CreateRoom(ctx context.Context, hostID int, name string, format models.BracketFormat) (*models.Room, error)
	GetRoom(ctx context.Context, roomID int) (*models.Room, error)
	ListRooms(ctx context.Context, status *models.RoomStatus) ([]*models.Room, error)
	UpdateStatus(ctx context.Context, callerID, roomID int, status models.RoomStatus) (*models.Room, error)
}

type roomService struct {
	tx       repositories.Transactor
	roomRepo repositories.RoomRepository
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewRoomService(
	tx repositories.Transactor,
	roomRepo repositories.RoomRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) RoomService {
	return &roomService{
		tx:       tx,
		roomRepo: roomRepo,
		teamRepo: teamRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, hostID int, name string, format models.BracketFormat) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoomNameRequired
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBracketFormat, format)
	}

	room := &models.Room{
		Name:          name,
		HostID:        hostID,
		Status:        models.RoomStatusWaiting,
		BracketFormat: format,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

// GetRoom loads the room together with its host and teams.
func (s *roomService) GetRoom(ctx context.Context, roomID int) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		host, hostErr := s.userRepo.GetByID(gCtx, room.HostID)
		if hostErr != nil {
			return fmt.Errorf("failed to load host %d: %w", room.HostID, hostErr)
		}
		host.PasswordHash = ""
		room.Host = host
		return nil
	})
	g.Go(func() error {
		teams, teamsErr := s.teamRepo.ListByRoom(gCtx, roomID)
		if teamsErr != nil {
			return fmt.Errorf("failed to load teams for room %d: %w", roomID, teamsErr)
		}
		room.Teams = make([]models.Team, 0, len(teams))
		for _, team := range teams {
			room.Teams = append(room.Teams, *team)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, status *models.RoomStatus) ([]*models.Room, error) {
	rooms, err := s.roomRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *roomService) UpdateStatus(ctx context.Context, callerID, roomID int, status models.RoomStatus) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	if room.HostID != callerID {
		return nil, ErrNotRoomHost
	}
	if !isValidRoomStatusTransition(room.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, room.Status, status)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.roomRepo.UpdateStatus(ctx, exec, roomID, status)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update room %d status: %w", roomID, err)
	}

	room.Status = status
	return room, nil
}

// Bracket generation, not this service, performs the ready ->
// in_progress transition; completion happens via the match service.
func isValidRoomStatusTransition(current, next models.RoomStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.RoomStatus][]models.RoomStatus{
		models.RoomStatusWaiting:       {models.RoomStatusTeamSelection, models.RoomStatusCanceled},
		models.RoomStatusTeamSelection: {models.RoomStatusReady, models.RoomStatusCanceled},
		models.RoomStatusReady:         {models.RoomStatusTeamSelection, models.RoomStatusCanceled},
		models.RoomStatusInProgress:    {models.RoomStatusCanceled},
		models.RoomStatusCompleted:     {},
		models.RoomStatusCanceled:      {},
	}
	for _, candidate := range allowed[current] {
		if next == candidate {
			return true
		}
	}
	return false
}
