package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scrimlol/scrim-system/brackets"
	"github.com/scrimlol/scrim-system/cache"
	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/repositories"
)

// MatchService owns the PENDING -> IN_PROGRESS -> COMPLETED lifecycle
// of a match and drives the advancement engine once a result lands.
type MatchService interface {
	ListByRoom(ctx context.Context, roomID int) ([]*models.Match, error)
	StartMatch(ctx context.Context, callerID, matchID int) (*models.Match, error)
	ReportResult(ctx context.Context, callerID, matchID, winnerID int) (*models.Match, error)
}

type matchService struct {
	tx          repositories.Transactor
	matchRepo   repositories.MatchRepository
	roomRepo    repositories.RoomRepository
	advancement AdvancementService
	hub         *brackets.Hub
	cache       *cache.BracketCache
	logger      *slog.Logger
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	roomRepo repositories.RoomRepository,
	advancement AdvancementService,
	hub *brackets.Hub,
	bracketCache *cache.BracketCache,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:          tx,
		matchRepo:   matchRepo,
		roomRepo:    roomRepo,
		advancement: advancement,
		hub:         hub,
		cache:       bracketCache,
		logger:      logger,
	}
}

func (s *matchService) ListByRoom(ctx context.Context, roomID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for room %d: %w", roomID, err)
	}
	return matches, nil
}

func (s *matchService) StartMatch(ctx context.Context, callerID, matchID int) (*models.Match, error) {
	match, _, err := s.loadMatchAsHost(ctx, callerID, matchID)
	if err != nil {
		return nil, err
	}

	if match.Status != models.MatchStatusPending {
		return nil, ErrMatchNotPending
	}
	if match.TeamAID == nil || match.TeamBID == nil {
		return nil, ErrMatchNotStartable
	}

	if err := s.matchRepo.UpdateStatus(ctx, matchID, models.MatchStatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to start match %d: %w", matchID, err)
	}
	match.Status = models.MatchStatusInProgress

	s.invalidateCache(ctx, match.RoomID)
	s.broadcast(match.RoomID, brackets.EventMatchStarted, match)
	return match, nil
}

// ReportResult records the winner, completes the match and routes both
// teams through the advancement engine. When the last match of the room
// completes, the room itself is flipped to completed.
func (s *matchService) ReportResult(ctx context.Context, callerID, matchID, winnerID int) (*models.Match, error) {
	match, _, err := s.loadMatchAsHost(ctx, callerID, matchID)
	if err != nil {
		return nil, err
	}

	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}

	loserID, err := opponentOf(match, winnerID)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateResult(ctx, matchID, models.MatchStatusCompleted, &winnerID); err != nil {
		return nil, fmt.Errorf("failed to record result for match %d: %w", matchID, err)
	}
	match.Status = models.MatchStatusCompleted
	match.WinnerID = &winnerID

	if match.Section != nil {
		section := string(*match.Section)
		if err := s.advancement.AdvanceDoubleElimination(ctx, match.RoomID, match.ID, &section, winnerID, loserID); err != nil {
			// The result itself is already committed; advancement state
			// can be re-derived from the persisted matches.
			s.logger.Error("double elimination advancement failed",
				slog.Int("room_id", match.RoomID),
				slog.Int("match_id", match.ID),
				slog.Any("error", err))
		}
	} else {
		advanced, advErr := s.advancement.AdvanceWinner(ctx, match.RoomID, match.Round, match.MatchNumber, winnerID)
		if advErr != nil {
			s.logger.Error("advancement failed",
				slog.Int("room_id", match.RoomID),
				slog.Int("match_id", match.ID),
				slog.Any("error", advErr))
		} else if !advanced {
			s.logger.Info("no further round to advance into",
				slog.Int("room_id", match.RoomID), slog.Int("match_id", match.ID))
		}
	}

	s.invalidateCache(ctx, match.RoomID)
	s.broadcast(match.RoomID, brackets.EventMatchResult, match)

	done, err := s.advancement.CheckBracketCompletion(ctx, match.RoomID)
	if err != nil {
		s.logger.Error("bracket completion check failed",
			slog.Int("room_id", match.RoomID), slog.Any("error", err))
		return match, nil
	}
	if done {
		err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			return s.roomRepo.UpdateStatus(ctx, exec, match.RoomID, models.RoomStatusCompleted)
		})
		if err != nil {
			s.logger.Error("failed to complete room",
				slog.Int("room_id", match.RoomID), slog.Any("error", err))
			return match, nil
		}
		s.broadcast(match.RoomID, brackets.EventBracketCompleted, nil)
	}

	return match, nil
}

func (s *matchService) loadMatchAsHost(ctx context.Context, callerID, matchID int) (*models.Match, *models.Room, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	room, err := s.roomRepo.GetByID(ctx, match.RoomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, fmt.Errorf("failed to load room %d: %w", match.RoomID, err)
	}

	if room.HostID != callerID {
		return nil, nil, ErrNotRoomHost
	}
	return match, room, nil
}

func opponentOf(match *models.Match, winnerID int) (int, error) {
	switch {
	case match.TeamAID != nil && *match.TeamAID == winnerID:
		if match.TeamBID == nil {
			return 0, ErrMatchNotStartable
		}
		return *match.TeamBID, nil
	case match.TeamBID != nil && *match.TeamBID == winnerID:
		if match.TeamAID == nil {
			return 0, ErrMatchNotStartable
		}
		return *match.TeamAID, nil
	default:
		return 0, ErrWinnerNotInMatch
	}
}

func (s *matchService) broadcast(roomID int, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(roomID, brackets.Event{
		Type:    eventType,
		RoomID:  roomID,
		Payload: payload,
	})
}

func (s *matchService) invalidateCache(ctx context.Context, roomID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, roomID); err != nil {
		s.logger.Warn("bracket cache invalidation failed",
			slog.Int("room_id", roomID), slog.Any("error", err))
	}
}
