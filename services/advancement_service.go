package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/repositories"
)

// AdvancementService routes the winner (and, for double elimination,
// the loser) of a completed match into the team slots of downstream
// matches. Reaching the end of a bracket is a normal outcome, not an
// error: missing next rounds and missing siblings are no-ops.
type AdvancementService interface {
	// AdvanceWinner moves a single-elimination winner into the next
	// round. It reports whether a slot assignment happened.
	AdvanceWinner(ctx context.Context, roomID, currentRound, currentMatchNumber, winnerID int) (bool, error)

	// AdvanceDoubleElimination routes both teams of a completed
	// double-elimination match by its bracket section. A nil section is
	// a no-op; an unrecognized section string fails with
	// ErrUnknownBracketSection.
	AdvanceDoubleElimination(ctx context.Context, roomID, matchID int, section *string, winnerID, loserID int) error

	// CheckBracketCompletion reports whether every match of the room is
	// completed. A room with no matches is vacuously complete.
	CheckBracketCompletion(ctx context.Context, roomID int) (bool, error)
}

type advancementService struct {
	matchRepo repositories.MatchRepository
	logger    *slog.Logger
}

func NewAdvancementService(matchRepo repositories.MatchRepository, logger *slog.Logger) AdvancementService {
	return &advancementService{
		matchRepo: matchRepo,
		logger:    logger,
	}
}

// AdvanceWinner implements the balanced-bracket pairing rule: siblings
// 2k and 2k+1 of round N feed match k of round N+1, the even sibling
// into the teamA slot and the odd one into teamB.
func (s *advancementService) AdvanceWinner(ctx context.Context, roomID, currentRound, currentMatchNumber, winnerID int) (bool, error) {
	nextRound, err := s.matchRepo.ListByRoomAndRound(ctx, roomID, currentRound+1)
	if err != nil {
		return false, fmt.Errorf("failed to load round %d matches for room %d: %w", currentRound+1, roomID, err)
	}
	if len(nextRound) == 0 {
		s.logger.Info("no next round, match was the final",
			slog.Int("room_id", roomID), slog.Int("round", currentRound))
		return false, nil
	}

	currentMatches, err := s.matchRepo.ListByRoomAndRound(ctx, roomID, currentRound)
	if err != nil {
		return false, fmt.Errorf("failed to load round %d matches for room %d: %w", currentRound, roomID, err)
	}

	index := -1
	for i, m := range currentMatches {
		if m.MatchNumber == currentMatchNumber {
			index = i
			break
		}
	}
	if index < 0 {
		s.logger.Warn("reported match not found among its round",
			slog.Int("room_id", roomID),
			slog.Int("round", currentRound),
			slog.Int("match_number", currentMatchNumber))
		return false, nil
	}

	nextIndex := index / 2
	if nextIndex >= len(nextRound) {
		s.logger.Warn("no target match in next round",
			slog.Int("room_id", roomID),
			slog.Int("round", currentRound+1),
			slog.Int("next_index", nextIndex))
		return false, nil
	}

	slot := models.SlotTeamA
	if index%2 == 1 {
		slot = models.SlotTeamB
	}

	if err := s.matchRepo.UpdateTeamSlot(ctx, nextRound[nextIndex].ID, slot, winnerID); err != nil {
		// The caller re-derives state from storage; surface via logs only.
		s.logger.Error("failed to assign winner to next round slot",
			slog.Int("room_id", roomID),
			slog.Int("target_match_id", nextRound[nextIndex].ID),
			slog.Int("slot", int(slot)),
			slog.Any("error", err))
		return false, nil
	}
	return true, nil
}

func (s *advancementService) AdvanceDoubleElimination(ctx context.Context, roomID, matchID int, section *string, winnerID, loserID int) error {
	if section == nil {
		s.logger.Warn("double elimination advancement called without a bracket section",
			slog.Int("room_id", roomID), slog.Int("match_id", matchID))
		return nil
	}

	parsed, err := models.ParseBracketSection(*section)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownBracketSection, *section)
	}

	switch parsed {
	case models.SectionWBR1:
		return s.routeWinnersRound1(ctx, roomID, matchID, winnerID, loserID)
	case models.SectionWBR2:
		return s.routeWinnersRound2(ctx, roomID, matchID, winnerID, loserID)
	case models.SectionWBF:
		return s.routeWinnersFinal(ctx, roomID, winnerID, loserID)
	case models.SectionLBR1:
		return s.routeLosersRound1(ctx, roomID, matchID, winnerID)
	case models.SectionLBR2:
		return s.routeLosersRound2(ctx, roomID, matchID, winnerID)
	case models.SectionLBSemi:
		return s.routeToSingleSlot(ctx, roomID, models.SectionLBF, models.SlotTeamA, winnerID)
	case models.SectionLBF:
		return s.routeToSingleSlot(ctx, roomID, models.SectionGF, models.SlotTeamB, winnerID)
	case models.SectionGF:
		s.logger.Info("grand final complete",
			slog.Int("room_id", roomID),
			slog.Int("winner_id", winnerID),
			slog.Int("loser_id", loserID))
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBracketSection, *section)
	}
}

func (s *advancementService) CheckBracketCompletion(ctx context.Context, roomID int) (bool, error) {
	matches, err := s.matchRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("failed to load matches for room %d: %w", roomID, err)
	}
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

// routeWinnersRound1 sends the winner up the winners bracket and drops
// the loser into the losers bracket. With a single LB_R1 match (4-team
// bracket) siblings 0 and 1 take its A and B slots; with two (8-team
// bracket) siblings cross over, 0 vs 3 and 1 vs 2, so that first-round
// rematches are pushed as late as possible.
func (s *advancementService) routeWinnersRound1(ctx context.Context, roomID, matchID, winnerID, loserID int) error {
	index, err := s.siblingIndex(ctx, roomID, matchID, models.SectionWBR1)
	if err != nil {
		return err
	}
	if index < 0 {
		s.logger.Warn("match not found among WB_R1 siblings",
			slog.Int("room_id", roomID), slog.Int("match_id", matchID))
		return nil
	}

	targets, err := s.matchRepo.ListByRoomAndSection(ctx, roomID, models.SectionWBR2)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		// 4-team bracket: WB_R1 winners go straight to the WB final.
		targets, err = s.matchRepo.ListByRoomAndSection(ctx, roomID, models.SectionWBF)
		if err != nil {
			return err
		}
	}

	targetIndex := index / 2
	if targetIndex < len(targets) {
		slot := models.SlotTeamA
		if index%2 == 1 {
			slot = models.SlotTeamB
		}
		if err := s.assignSlot(ctx, targets[targetIndex], slot, winnerID); err != nil {
			return err
		}
	} else {
		s.logger.Warn("no winners-bracket target for WB_R1 winner",
			slog.Int("room_id", roomID), slog.Int("sibling_index", index))
	}

	losersRound1, err := s.matchRepo.ListByRoomAndSection(ctx, roomID, models.SectionLBR1)
	if err != nil {
		return err
	}

	switch {
	case len(losersRound1) == 1:
		slot := models.SlotTeamA
		if index != 0 {
			slot = models.SlotTeamB
		}
		return s.assignSlot(ctx, losersRound1[0], slot, loserID)
	case len(losersRound1) > 1:
		targetIndex := index
		if index >= 2 {
			targetIndex = 3 - index
		}
		slot := models.SlotTeamA
		if index >= 2 {
			slot = models.SlotTeamB
		}
		if targetIndex < len(losersRound1) {
			return s.assignSlot(ctx, losersRound1[targetIndex], slot, loserID)
		}
		s.logger.Warn("no LB_R1 target for WB_R1 loser",
			slog.Int("room_id", roomID), slog.Int("sibling_index", index))
	default:
		s.logger.Warn("no LB_R1 matches for WB_R1 loser", slog.Int("room_id", roomID))
	}
	return nil
}

func (s *advancementService) routeWinnersRound2(ctx context.Context, roomID, matchID, winnerID, loserID int) error {
	index, err := s.siblingIndex(ctx, roomID, matchID, models.SectionWBR2)
	if err != nil {
		return err
	}
	if index < 0 {
		s.logger.Warn("match not found among WB_R2 siblings",
			slog.Int("room_id", roomID), slog.Int("match_id", matchID))
		return nil
	}

	slot := models.SlotTeamA
	if index != 0 {
		slot = models.SlotTeamB
	}
	if err := s.routeToSingleSlot(ctx, roomID, models.SectionWBF, slot, winnerID); err != nil {
		return err
	}

	// WB_R2 losers always enter their LB_R2 match in the teamB slot;
	// teamA is reserved for the LB_R1 winner climbing up.
	losersRound2, err := s.matchRepo.ListByRoomAndSection(ctx, roomID, models.SectionLBR2)
	if err != nil {
		return err
	}
	if index < len(losersRound2) {
		return s.assignSlot(ctx, losersRound2[index], models.SlotTeamB, loserID)
	}
	s.logger.Warn("no LB_R2 target for WB_R2 loser",
		slog.Int("room_id", roomID), slog.Int("sibling_index", index))
	return nil
}

func (s *advancementService) routeWinnersFinal(ctx context.Context, roomID, winnerID, loserID int) error {
	if err := s.routeToSingleSlot(ctx, roomID, models.SectionGF, models.SlotTeamA, winnerID); err != nil {
		return err
	}
	return s.routeToSingleSlot(ctx, roomID, models.SectionLBF, models.SlotTeamB, loserID)
}

func (s *advancementService) routeLosersRound1(ctx context.Context, roomID, matchID, winnerID int) error {
	index, err := s.siblingIndex(ctx, roomID, matchID, models.SectionLBR1)
	if err != nil {
		return err
	}
	if index < 0 {
		s.logger.Warn("match not found among LB_R1 siblings",
			slog.Int("room_id", roomID), slog.Int("match_id", matchID))
		return nil
	}

	targets, err := s.matchRepo.ListByRoomAndSection(ctx, roomID, models.SectionLBR2)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		targets, err = s.matchRepo.ListByRoomAndSection(ctx, roomID, models.SectionLBF)
		if err != nil {
			return err
		}
	}
	if len(targets) == 0 {
		s.logger.Warn("no losers-bracket target for LB_R1 winner", slog.Int("room_id", roomID))
		return nil
	}

	targetIndex := index / 2
	if targetIndex >= len(targets) {
		targetIndex = 0
	}
	return s.assignSlot(ctx, targets[targetIndex], models.SlotTeamA, winnerID)
}

func (s *advancementService) routeLosersRound2(ctx context.Context, roomID, matchID, winnerID int) error {
	index, err := s.siblingIndex(ctx, roomID, matchID, models.SectionLBR2)
	if err != nil {
		return err
	}
	if index < 0 {
		s.logger.Warn("match not found among LB_R2 siblings",
			slog.Int("room_id", roomID), slog.Int("match_id", matchID))
		return nil
	}

	slot := models.SlotTeamA
	if index != 0 {
		slot = models.SlotTeamB
	}
	return s.routeToSingleSlot(ctx, roomID, models.SectionLBSemi, slot, winnerID)
}

// routeToSingleSlot targets sections that hold exactly one match
// (WB_F, LB_SEMI, LB_F, GF).
func (s *advancementService) routeToSingleSlot(ctx context.Context, roomID int, section models.BracketSection, slot models.TeamSlot, teamID int) error {
	targets, err := s.matchRepo.ListByRoomAndSection(ctx, roomID, section)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		s.logger.Warn("target section has no matches",
			slog.Int("room_id", roomID), slog.String("section", string(section)))
		return nil
	}
	return s.assignSlot(ctx, targets[0], slot, teamID)
}

// siblingIndex returns the 0-based position of matchID among the room's
// matches of the given section, ordered by match number; -1 if absent.
func (s *advancementService) siblingIndex(ctx context.Context, roomID, matchID int, section models.BracketSection) (int, error) {
	siblings, err := s.matchRepo.ListByRoomAndSection(ctx, roomID, section)
	if err != nil {
		return -1, fmt.Errorf("failed to load %s matches for room %d: %w", section, roomID, err)
	}
	for i, m := range siblings {
		if m.ID == matchID {
			return i, nil
		}
	}
	return -1, nil
}

func (s *advancementService) assignSlot(ctx context.Context, target *models.Match, slot models.TeamSlot, teamID int) error {
	if err := s.matchRepo.UpdateTeamSlot(ctx, target.ID, slot, teamID); err != nil {
		s.logger.Error("failed to assign team to bracket slot",
			slog.Int("target_match_id", target.ID),
			slog.Int("slot", int(slot)),
			slog.Int("team_id", teamID),
			slog.Any("error", err))
		return fmt.Errorf("failed to assign team %d to match %d slot %d: %w", teamID, target.ID, slot, err)
	}
	return nil
}
