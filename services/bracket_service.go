package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/scrimlol/scrim-system/brackets"
	"github.com/scrimlol/scrim-system/cache"
	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/repositories"
)

type BracketService interface {
	// GenerateBracket validates the room's teams, builds the bracket
	// skeleton and persists it atomically together with the room's
	// transition to in_progress. If the room already owns matches the
	// existing bracket is returned instead of regenerating.
	GenerateBracket(ctx context.Context, organizerID, roomID int) (*models.Bracket, error)

	// GetBracket reconstructs the room's bracket from storage, serving
	// from cache when warm.
	GetBracket(ctx context.Context, roomID int) (*models.Bracket, error)
}

type bracketService struct {
	tx        repositories.Transactor
	roomRepo  repositories.RoomRepository
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
	hub       *brackets.Hub
	cache     *cache.BracketCache
	logger    *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	roomRepo repositories.RoomRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	bracketCache *cache.BracketCache,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:        tx,
		roomRepo:  roomRepo,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		hub:       hub,
		cache:     bracketCache,
		logger:    logger,
	}
}

func supportedTeamCount(n int) bool {
	return n >= 2 && n <= 8
}

func (s *bracketService) GenerateBracket(ctx context.Context, organizerID, roomID int) (*models.Bracket, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}

	if room.HostID != organizerID {
		return nil, ErrNotRoomHost
	}

	// Regeneration guard: a room that already owns matches keeps its
	// bracket, regardless of its current status.
	existing, err := s.matchRepo.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches for room %d: %w", roomID, err)
	}
	if existing > 0 {
		s.logger.Info("bracket already generated, returning existing",
			slog.Int("room_id", roomID), slog.Int("matches", existing))
		return s.GetBracket(ctx, roomID)
	}

	if room.Status != models.RoomStatusReady {
		return nil, fmt.Errorf("%w: room status is %s", ErrRoomNotAwaitingBracket, room.Status)
	}

	teams, err := s.teamRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for room %d: %w", roomID, err)
	}
	if !supportedTeamCount(len(teams)) {
		return nil, fmt.Errorf("%w: got %d teams", ErrUnsupportedTeamCount, len(teams))
	}
	for _, team := range teams {
		if len(team.Members) != models.RosterSize {
			return nil, fmt.Errorf("%w: team %q has %d members", ErrInvalidRosterSize, team.Name, len(team.Members))
		}
	}

	generator, err := brackets.ForTeamCount(len(teams), room.BracketFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTeamCount, err)
	}

	generated, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		RoomID: roomID,
		Teams:  teams,
		Format: room.BracketFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("bracket generation failed for room %d: %w", roomID, err)
	}

	s.logger.Info("generated bracket",
		slog.Int("room_id", roomID),
		slog.String("generator", generator.GetName()),
		slog.Int("teams", len(teams)),
		slog.Int("matches", len(generated)))

	matches := make([]*models.Match, 0, len(generated))
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, bm := range generated {
			match := &models.Match{
				RoomID:      roomID,
				Round:       bm.Round,
				MatchNumber: bm.MatchNumber,
				TeamAID:     bm.TeamAID,
				TeamBID:     bm.TeamBID,
				Section:     bm.Section,
				Status:      models.MatchStatusPending,
			}
			if createErr := s.matchRepo.Create(ctx, exec, match); createErr != nil {
				return fmt.Errorf("failed to insert match %d for room %d: %w", bm.MatchNumber, roomID, createErr)
			}
			matches = append(matches, match)
		}
		return s.roomRepo.UpdateStatus(ctx, exec, roomID, models.RoomStatusInProgress)
	})
	if err != nil {
		return nil, err
	}

	bracket := &models.Bracket{
		Type:    models.TypeForTeamCount(len(teams), room.BracketFormat),
		Matches: matches,
	}

	s.invalidateCache(ctx, roomID)
	if s.hub != nil {
		s.hub.BroadcastToRoom(roomID, brackets.Event{
			Type:    brackets.EventBracketCreated,
			RoomID:  roomID,
			Payload: bracket,
		})
	}
	return bracket, nil
}

func (s *bracketService) GetBracket(ctx context.Context, roomID int) (*models.Bracket, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, roomID)
		if err != nil {
			s.logger.Warn("bracket cache read failed", slog.Int("room_id", roomID), slog.Any("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}

	var (
		teams   []*models.Team
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var listErr error
		teams, listErr = s.teamRepo.ListByRoom(gCtx, roomID)
		return listErr
	})
	g.Go(func() error {
		var listErr error
		matches, listErr = s.matchRepo.ListByRoom(gCtx, roomID)
		return listErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load bracket data for room %d: %w", roomID, err)
	}

	if len(matches) == 0 {
		return nil, ErrBracketNotGenerated
	}

	bracket := &models.Bracket{
		Type:    models.TypeForTeamCount(len(teams), room.BracketFormat),
		Matches: matches,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, roomID, bracket); err != nil {
			s.logger.Warn("bracket cache write failed", slog.Int("room_id", roomID), slog.Any("error", err))
		}
	}
	return bracket, nil
}

func (s *bracketService) invalidateCache(ctx context.Context, roomID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, roomID); err != nil {
		s.logger.Warn("bracket cache invalidation failed", slog.Int("room_id", roomID), slog.Any("error", err))
	}
}
