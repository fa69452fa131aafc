package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTransactor runs the callback directly; the fake repositories
// ignore the executor argument.
type fakeTransactor struct {
	calls int
	err   error
}

func (t *fakeTransactor) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.calls++
	if t.err != nil {
		return t.err
	}
	return fn(nil)
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches []*models.Match

	updateSlotErr error
	slotWrites    int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1}
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match.ID = r.nextID
	r.nextID++
	r.matches = append(r.matches, match)
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByRoom(_ context.Context, roomID int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, m := range r.matches {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (r *fakeMatchRepo) ListByRoomAndRound(_ context.Context, roomID, round int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, m := range r.matches {
		if m.RoomID == roomID && m.Round == round {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchNumber < out[j].MatchNumber })
	return out, nil
}

func (r *fakeMatchRepo) ListByRoomAndSection(_ context.Context, roomID int, section models.BracketSection) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, m := range r.matches {
		if m.RoomID == roomID && m.Section != nil && *m.Section == section {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchNumber < out[j].MatchNumber })
	return out, nil
}

func (r *fakeMatchRepo) CountByRoom(_ context.Context, roomID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.matches {
		if m.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) UpdateTeamSlot(_ context.Context, matchID int, slot models.TeamSlot, teamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateSlotErr != nil {
		return r.updateSlotErr
	}
	for _, m := range r.matches {
		if m.ID == matchID {
			id := teamID
			if slot == models.SlotTeamA {
				m.TeamAID = &id
			} else {
				m.TeamBID = &id
			}
			r.slotWrites++
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) UpdateStatus(_ context.Context, matchID int, status models.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.ID == matchID {
			m.Status = status
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, matchID int, status models.MatchStatus, winnerID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.ID == matchID {
			m.Status = status
			m.WinnerID = winnerID
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

type fakeRoomRepo struct {
	mu            sync.Mutex
	nextID        int
	rooms         map[int]*models.Room
	statusUpdates int
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{nextID: 1, rooms: map[int]*models.Room{}}
}

func (r *fakeRoomRepo) Create(_ context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room.ID = r.nextID
	r.nextID++
	r.rooms[room.ID] = room
	return nil
}

func (r *fakeRoomRepo) GetByID(_ context.Context, id int) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, repositories.ErrRoomNotFound
	}
	return room, nil
}

func (r *fakeRoomRepo) List(_ context.Context, status *models.RoomStatus) ([]*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Room
	for _, room := range r.rooms {
		if status == nil || room.Status == *status {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRoomRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, roomID int, status models.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return repositories.ErrRoomNotFound
	}
	room.Status = status
	r.statusUpdates++
	return nil
}

type fakeTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  []*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team.ID = r.nextID
	r.nextID++
	r.teams = append(r.teams, team)
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListByRoom(_ context.Context, roomID int) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Team
	for _, t := range r.teams {
		if t.RoomID == roomID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, teamID int, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.ID == teamID {
			t.LogoKey = logoKey
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  []*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func fullRoster() []models.TeamMember {
	positions := []models.Position{
		models.PositionTop, models.PositionJungle, models.PositionMid,
		models.PositionADC, models.PositionSupport,
	}
	members := make([]models.TeamMember, 0, len(positions))
	for i, p := range positions {
		members = append(members, models.TeamMember{UserID: i + 1, Nickname: "player", Position: p})
	}
	return members
}
