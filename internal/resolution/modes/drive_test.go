package modes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
)

func driveConfig() *mode.DriveOutcomeConfig {
	return &mode.DriveOutcomeConfig{
		HomeTeam:   mode.Participant{ID: "tA", Name: "Team A"},
		AwayTeam:   mode.Participant{ID: "tB", Name: "Team B"},
		Prediction: OutcomeFieldGoal,
	}
}

func driveSnapshot(status string, aStats, bStats gamestate.Stats, possession string) *gamestate.Snapshot {
	return snapshot(status, []gamestate.TeamSnapshot{
		team("tA", "Team A", 0, possession == "tA", aStats),
		team("tB", "Team B", 0, possession == "tB", bStats),
	}, nil)
}

func TestDriveOutcomeTouchdown(t *testing.T) {
	ev := DriveOutcome{}
	cfg := driveConfig()
	now := time.Now()

	// baseline touchdowns {A:1, B:2}, posse com B
	rec, washDec, err := ev.CaptureBaseline(cfg, driveSnapshot(gamestate.StatusInProgress, scoring(1, 0, 0), scoring(2, 0, 0), "tB"), now)
	require.NoError(t, err)
	require.Nil(t, washDec)
	assert.Equal(t, "tB", rec.Possession)

	// próximo tick: {A:1, B:3} → touchdown do B
	dec, err := ev.Evaluate(cfg, rec, driveSnapshot(gamestate.StatusInProgress, scoring(1, 0, 0), scoring(3, 0, 0), "tB"), now)
	require.NoError(t, err)
	require.Equal(t, mode.DecisionWinner, dec.Kind)
	assert.Equal(t, OutcomeTouchdown, dec.Outcome)
}

func TestDriveOutcomeFieldGoal(t *testing.T) {
	ev := DriveOutcome{}
	cfg := driveConfig()
	now := time.Now()

	rec, _, err := ev.CaptureBaseline(cfg, driveSnapshot(gamestate.StatusInProgress, scoring(1, 1, 0), scoring(2, 0, 0), "tA"), now)
	require.NoError(t, err)

	dec, err := ev.Evaluate(cfg, rec, driveSnapshot(gamestate.StatusInProgress, scoring(1, 2, 0), scoring(2, 0, 0), "tB"), now)
	require.NoError(t, err)
	require.Equal(t, mode.DecisionWinner, dec.Kind)
	assert.Equal(t, OutcomeFieldGoal, dec.Outcome)
}

func TestDriveOutcomeTurnoverOnPossessionChange(t *testing.T) {
	ev := DriveOutcome{}
	cfg := driveConfig()
	now := time.Now()

	rec, _, err := ev.CaptureBaseline(cfg, driveSnapshot(gamestate.StatusInProgress, scoring(1, 0, 0), scoring(2, 0, 0), "tA"), now)
	require.NoError(t, err)

	// posse mudou sem pontuação
	dec, err := ev.Evaluate(cfg, rec, driveSnapshot(gamestate.StatusInProgress, scoring(1, 0, 0), scoring(2, 0, 0), "tB"), now)
	require.NoError(t, err)
	require.Equal(t, mode.DecisionWinner, dec.Kind)
	assert.Equal(t, OutcomeTurnover, dec.Outcome)
}

func TestDriveOutcomeKeepsTrackingWithoutChange(t *testing.T) {
	ev := DriveOutcome{}
	cfg := driveConfig()
	now := time.Now()

	rec, _, err := ev.CaptureBaseline(cfg, driveSnapshot(gamestate.StatusInProgress, scoring(1, 0, 0), scoring(2, 0, 0), "tA"), now)
	require.NoError(t, err)

	dec, err := ev.Evaluate(cfg, rec, driveSnapshot(gamestate.StatusInProgress, scoring(1, 0, 0), scoring(2, 0, 0), "tA"), now)
	require.NoError(t, err)
	assert.Equal(t, mode.DecisionNone, dec.Kind)
}

func TestDriveOutcomeBothTeamsScoringIsAmbiguous(t *testing.T) {
	ev := DriveOutcome{}
	cfg := driveConfig()
	now := time.Now()

	rec, _, err := ev.CaptureBaseline(cfg, driveSnapshot(gamestate.StatusInProgress, scoring(1, 0, 0), scoring(2, 0, 0), "tA"), now)
	require.NoError(t, err)

	dec, err := ev.Evaluate(cfg, rec, driveSnapshot(gamestate.StatusInProgress, scoring(2, 0, 0), scoring(2, 0, 1), "tA"), now)
	require.NoError(t, err)
	require.Equal(t, mode.DecisionWash, dec.Kind)
	assert.Equal(t, mode.WashSimultaneousScore, dec.Reason)
}

func TestDriveOutcomeNoPossessionWashesAtCapture(t *testing.T) {
	ev := DriveOutcome{}
	cfg := driveConfig()

	_, washDec, err := ev.CaptureBaseline(cfg, driveSnapshot(gamestate.StatusInProgress, scoring(0, 0, 0), scoring(0, 0, 0), ""), time.Now())
	require.NoError(t, err)
	require.NotNil(t, washDec)
	assert.Equal(t, mode.WashMissingContext, washDec.Reason)
}

func TestDriveOutcomeGameEndsMidDrive(t *testing.T) {
	ev := DriveOutcome{}
	cfg := driveConfig()
	now := time.Now()

	rec, _, err := ev.CaptureBaseline(cfg, driveSnapshot(gamestate.StatusInProgress, scoring(1, 0, 0), scoring(2, 0, 0), "tA"), now)
	require.NoError(t, err)

	dec, err := ev.Evaluate(cfg, rec, driveSnapshot(gamestate.StatusSuspended, scoring(1, 0, 0), scoring(2, 0, 0), "tA"), now)
	require.NoError(t, err)
	require.Equal(t, mode.DecisionWash, dec.Kind)
	assert.Equal(t, mode.WashGameStatus, dec.Reason)
}
