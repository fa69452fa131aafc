package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/repositories"
	"github.com/scrimlol/scrim-system/storage"
)

type TeamService interface {
	CreateTeam(ctx context.Context, callerID, roomID int, name string, members []models.TeamMember) (*models.Team, error)
	ListByRoom(ctx context.Context, roomID int) ([]*models.Team, error)
	UploadLogo(ctx context.Context, callerID, teamID int, contentType string, body io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	roomRepo repositories.RoomRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	roomRepo repositories.RoomRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		roomRepo: roomRepo,
		uploader: uploader,
		logger:   logger,
	}
}

// CreateTeam registers a five-man roster in a room. Each of the five
// lane positions must appear exactly once.
func (s *teamService) CreateTeam(ctx context.Context, callerID, roomID int, name string, members []models.TeamMember) (*models.Team, error) {
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
	switch room.Status {
	case models.RoomStatusWaiting, models.RoomStatusTeamSelection, models.RoomStatusReady:
	default:
		return nil, fmt.Errorf("%w: room status is %s", ErrRoomNotAwaitingBracket, room.Status)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if len(members) != models.RosterSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRosterSize, len(members))
	}
	seen := make(map[models.Position]bool, models.RosterSize)
	for _, member := range members {
		switch member.Position {
		case models.PositionTop, models.PositionJungle, models.PositionMid, models.PositionADC, models.PositionSupport:
		default:
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidRosterPositions, member.Position)
		}
		if seen[member.Position] {
			return nil, fmt.Errorf("%w: duplicate position %s", ErrInvalidRosterPositions, member.Position)
		}
		seen[member.Position] = true
	}

	team := &models.Team{
		RoomID:  roomID,
		Name:    name,
		Members: members,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) ListByRoom(ctx context.Context, roomID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for room %d: %w", roomID, err)
	}
	for _, team := range teams {
		populateTeamLogoURL(team, s.uploader)
	}
	return teams, nil
}

func (s *teamService) UploadLogo(ctx context.Context, callerID, teamID int, contentType string, body io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrLogoUploadsDisabled
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	room, err := s.roomRepo.GetByID(ctx, team.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load room %d: %w", team.RoomID, err)
	}
	if room.HostID != callerID {
		return nil, ErrNotRoomHost
	}

	ext, err := extensionForContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedLogoType, err)
	}

	key := fmt.Sprintf("teams/%d/logo%s", teamID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &key); err != nil {
		return nil, fmt.Errorf("failed to store logo key for team %d: %w", teamID, err)
	}
	if oldKey != nil && *oldKey != key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous team logo",
				slog.Int("team_id", teamID), slog.Any("error", delErr))
		}
	}

	team.LogoKey = &key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}
