package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrimlol/scrim-system/models"
)

type roomServiceFixture struct {
	svc      RoomService
	tx       *fakeTransactor
	roomRepo *fakeRoomRepo
	teamRepo *fakeTeamRepo
	userRepo *fakeUserRepo
}

func newRoomServiceFixture() *roomServiceFixture {
	f := &roomServiceFixture{
		tx:       &fakeTransactor{},
		roomRepo: newFakeRoomRepo(),
		teamRepo: newFakeTeamRepo(),
		userRepo: newFakeUserRepo(),
	}
	f.svc = NewRoomService(f.tx, f.roomRepo, f.teamRepo, f.userRepo, testLogger())
	return f
}

func TestCreateRoom(t *testing.T) {
	f := newRoomServiceFixture()

	room, err := f.svc.CreateRoom(context.Background(), 1, "  friday scrims ", models.FormatDoubleElimination)
	require.NoError(t, err)

	assert.Equal(t, "friday scrims", room.Name)
	assert.Equal(t, 1, room.HostID)
	assert.Equal(t, models.RoomStatusWaiting, room.Status)
	assert.Equal(t, models.FormatDoubleElimination, room.BracketFormat)
}

func TestCreateRoomValidation(t *testing.T) {
	f := newRoomServiceFixture()

	_, err := f.svc.CreateRoom(context.Background(), 1, "   ", models.FormatSingleElimination)
	assert.ErrorIs(t, err, ErrRoomNameRequired)

	_, err = f.svc.CreateRoom(context.Background(), 1, "scrims", models.BracketFormat("BEST_OF_FIVE"))
	assert.ErrorIs(t, err, ErrInvalidBracketFormat)
}

func TestGetRoomLoadsHostAndTeams(t *testing.T) {
	f := newRoomServiceFixture()

	host := &models.User{Email: "host@example.com", Nickname: "host", PasswordHash: "secret"}
	require.NoError(t, f.userRepo.Create(context.Background(), host))

	room := &models.Room{Name: "scrims", HostID: host.ID, Status: models.RoomStatusWaiting, BracketFormat: models.FormatSingleElimination}
	require.NoError(t, f.roomRepo.Create(context.Background(), room))
	require.NoError(t, f.teamRepo.Create(context.Background(), &models.Team{RoomID: room.ID, Name: "alpha"}))
	require.NoError(t, f.teamRepo.Create(context.Background(), &models.Team{RoomID: room.ID, Name: "bravo"}))

	got, err := f.svc.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Host)
	assert.Equal(t, "host", got.Host.Nickname)
	assert.Empty(t, got.Host.PasswordHash)
	assert.Len(t, got.Teams, 2)
}

func TestGetRoomNotFound(t *testing.T) {
	f := newRoomServiceFixture()
	_, err := f.svc.GetRoom(context.Background(), 404)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdateRoomStatusTransitions(t *testing.T) {
	testCases := []struct {
		name    string
		from    models.RoomStatus
		to      models.RoomStatus
		allowed bool
	}{
		{"waiting to team selection", models.RoomStatusWaiting, models.RoomStatusTeamSelection, true},
		{"team selection to ready", models.RoomStatusTeamSelection, models.RoomStatusReady, true},
		{"ready back to team selection", models.RoomStatusReady, models.RoomStatusTeamSelection, true},
		{"waiting can be canceled", models.RoomStatusWaiting, models.RoomStatusCanceled, true},
		{"in progress can be canceled", models.RoomStatusInProgress, models.RoomStatusCanceled, true},
		{"same status is a no-op", models.RoomStatusWaiting, models.RoomStatusWaiting, true},
		{"ready cannot jump to in progress directly", models.RoomStatusReady, models.RoomStatusInProgress, false},
		{"waiting cannot skip to ready", models.RoomStatusWaiting, models.RoomStatusReady, false},
		{"completed is terminal", models.RoomStatusCompleted, models.RoomStatusWaiting, false},
		{"canceled is terminal", models.RoomStatusCanceled, models.RoomStatusWaiting, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRoomServiceFixture()
			room := &models.Room{Name: "scrims", HostID: 1, Status: tc.from, BracketFormat: models.FormatSingleElimination}
			require.NoError(t, f.roomRepo.Create(context.Background(), room))

			updated, err := f.svc.UpdateStatus(context.Background(), 1, room.ID, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			}
		})
	}
}

func TestUpdateRoomStatusRequiresHost(t *testing.T) {
	f := newRoomServiceFixture()
	room := &models.Room{Name: "scrims", HostID: 1, Status: models.RoomStatusWaiting, BracketFormat: models.FormatSingleElimination}
	require.NoError(t, f.roomRepo.Create(context.Background(), room))

	_, err := f.svc.UpdateStatus(context.Background(), 2, room.ID, models.RoomStatusTeamSelection)
	assert.ErrorIs(t, err, ErrNotRoomHost)
}
