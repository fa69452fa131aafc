package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrimlol/scrim-system/models"
)

type matchServiceFixture struct {
	svc       MatchService
	tx        *fakeTransactor
	roomRepo  *fakeRoomRepo
	matchRepo *fakeMatchRepo
}

func newMatchServiceFixture() *matchServiceFixture {
	f := &matchServiceFixture{
		tx:        &fakeTransactor{},
		roomRepo:  newFakeRoomRepo(),
		matchRepo: newFakeMatchRepo(),
	}
	advancement := NewAdvancementService(f.matchRepo, testLogger())
	f.svc = NewMatchService(f.tx, f.matchRepo, f.roomRepo, advancement, nil, nil, testLogger())
	return f
}

func (f *matchServiceFixture) seedRoom(t *testing.T, hostID int) *models.Room {
	t.Helper()
	room := &models.Room{Name: "scrims", HostID: hostID, Status: models.RoomStatusInProgress, BracketFormat: models.FormatSingleElimination}
	require.NoError(t, f.roomRepo.Create(context.Background(), room))
	return room
}

func (f *matchServiceFixture) seedSeededMatch(t *testing.T, roomID, round, number, teamA, teamB int) *models.Match {
	t.Helper()
	m := &models.Match{
		RoomID:      roomID,
		Round:       round,
		MatchNumber: number,
		TeamAID:     &teamA,
		TeamBID:     &teamB,
		Status:      models.MatchStatusPending,
	}
	require.NoError(t, f.matchRepo.Create(context.Background(), nil, m))
	return m
}

func TestStartMatch(t *testing.T) {
	f := newMatchServiceFixture()
	room := f.seedRoom(t, 1)
	m := f.seedSeededMatch(t, room.ID, 1, 1, 10, 20)

	started, err := f.svc.StartMatch(context.Background(), 1, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusInProgress, started.Status)
}

func TestStartMatchRequiresHost(t *testing.T) {
	f := newMatchServiceFixture()
	room := f.seedRoom(t, 1)
	m := f.seedSeededMatch(t, room.ID, 1, 1, 10, 20)

	_, err := f.svc.StartMatch(context.Background(), 2, m.ID)
	assert.ErrorIs(t, err, ErrNotRoomHost)
}

func TestStartMatchRequiresBothSlots(t *testing.T) {
	f := newMatchServiceFixture()
	room := f.seedRoom(t, 1)
	tbd := &models.Match{RoomID: room.ID, Round: 2, MatchNumber: 3, Status: models.MatchStatusPending}
	require.NoError(t, f.matchRepo.Create(context.Background(), nil, tbd))

	_, err := f.svc.StartMatch(context.Background(), 1, tbd.ID)
	assert.ErrorIs(t, err, ErrMatchNotStartable)
}

func TestStartMatchNotFound(t *testing.T) {
	f := newMatchServiceFixture()
	f.seedRoom(t, 1)

	_, err := f.svc.StartMatch(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestReportResultWinnerMustPlayInMatch(t *testing.T) {
	f := newMatchServiceFixture()
	room := f.seedRoom(t, 1)
	m := f.seedSeededMatch(t, room.ID, 1, 1, 10, 20)

	_, err := f.svc.ReportResult(context.Background(), 1, m.ID, 30)
	assert.ErrorIs(t, err, ErrWinnerNotInMatch)
}

func TestReportResultRejectsDoubleReport(t *testing.T) {
	f := newMatchServiceFixture()
	room := f.seedRoom(t, 1)
	m := f.seedSeededMatch(t, room.ID, 1, 1, 10, 20)

	_, err := f.svc.ReportResult(context.Background(), 1, m.ID, 10)
	require.NoError(t, err)

	_, err = f.svc.ReportResult(context.Background(), 1, m.ID, 20)
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)
}

func TestReportResultAdvancesWinner(t *testing.T) {
	f := newMatchServiceFixture()
	room := f.seedRoom(t, 1)
	m1 := f.seedSeededMatch(t, room.ID, 1, 1, 10, 20)
	f.seedSeededMatch(t, room.ID, 1, 2, 30, 40)
	final := &models.Match{RoomID: room.ID, Round: 2, MatchNumber: 3, Status: models.MatchStatusPending}
	require.NoError(t, f.matchRepo.Create(context.Background(), nil, final))

	reported, err := f.svc.ReportResult(context.Background(), 1, m1.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, reported.Status)
	require.NotNil(t, reported.WinnerID)
	assert.Equal(t, 20, *reported.WinnerID)

	require.NotNil(t, final.TeamAID)
	assert.Equal(t, 20, *final.TeamAID)
	assert.Nil(t, final.TeamBID)

	// Two matches are still open, so the room stays in progress.
	assert.Equal(t, models.RoomStatusInProgress, room.Status)
}

func TestReportResultCompletesRoomAfterFinal(t *testing.T) {
	f := newMatchServiceFixture()
	room := f.seedRoom(t, 1)
	m := f.seedSeededMatch(t, room.ID, 1, 1, 10, 20)

	_, err := f.svc.ReportResult(context.Background(), 1, m.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, models.RoomStatusCompleted, room.Status)
	assert.Equal(t, 1, f.tx.calls)
}

func TestReportResultRoutesDoubleEliminationSections(t *testing.T) {
	f := newMatchServiceFixture()
	room := f.seedRoom(t, 1)

	wbR1a := f.seedSeededMatch(t, room.ID, 1, 1, 10, 20)
	wbR1a.Section = sec(models.SectionWBR1)
	wbR1b := f.seedSeededMatch(t, room.ID, 1, 2, 30, 40)
	wbR1b.Section = sec(models.SectionWBR1)
	wbF := seedMatch(t, f.matchRepo, room.ID, 2, 3, sec(models.SectionWBF))
	lbR1 := seedMatch(t, f.matchRepo, room.ID, 2, 4, sec(models.SectionLBR1))
	seedMatch(t, f.matchRepo, room.ID, 3, 5, sec(models.SectionLBF))
	seedMatch(t, f.matchRepo, room.ID, 4, 6, sec(models.SectionGF))

	_, err := f.svc.ReportResult(context.Background(), 1, wbR1a.ID, 10)
	require.NoError(t, err)

	require.NotNil(t, wbF.TeamAID)
	assert.Equal(t, 10, *wbF.TeamAID)
	require.NotNil(t, lbR1.TeamAID)
	assert.Equal(t, 20, *lbR1.TeamAID)
	assert.Equal(t, models.RoomStatusInProgress, room.Status)
}
