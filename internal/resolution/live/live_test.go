package live

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

func liveSnapshot() *gamestate.Snapshot {
	return &gamestate.Snapshot{
		League: "nfl",
		GameID: "game-1",
		Status: gamestate.StatusInProgress,
		Period: 3,
		Clock:  "11:05",
		Teams: []gamestate.TeamSnapshot{
			{ID: "t1", Name: "Home", Possession: true},
			{ID: "t2", Name: "Away"},
		},
	}
}

func TestProjectStatRaceShowsProgressAgainstTarget(t *testing.T) {
	cfg := &mode.StatRaceConfig{
		Participants: []mode.Participant{{ID: "p1", Name: "Player One"}, {ID: "p2", Name: "Player Two"}},
		Category:     "scoring",
		Field:        "points",
		Target:       30,
		Progress:     progress.TrackStartingNow,
	}
	rec := &progress.Record{
		Mode: progress.TrackStartingNow,
		Entries: []progress.Entry{
			{Ref: progress.Ref{ID: "p1", Name: "Player One"}, Baseline: 10, Last: 22},
			{Ref: progress.Ref{ID: "p2", Name: "Player Two"}, Baseline: 8, Last: 13},
		},
	}

	pairs := Project(cfg, rec, liveSnapshot())

	assert.Equal(t, []Pair{
		{Label: "Player One", Value: "12 / 30 points"},
		{Label: "Player Two", Value: "5 / 30 points"},
		{Label: "Game", Value: "Q3 11:05"},
	}, pairs)
}

func TestProjectSpreadCoverShowsAdjustedScore(t *testing.T) {
	cfg := &mode.SpreadCoverConfig{
		HomeTeam: mode.Participant{ID: "t1", Name: "Home"},
		AwayTeam: mode.Participant{ID: "t2", Name: "Away"},
		Spread:   -3.5,
	}
	rec := &progress.Record{
		Mode: progress.TrackCumulative,
		Entries: []progress.Entry{
			{Ref: progress.Ref{ID: "t1", Name: "Home"}, Last: 24},
			{Ref: progress.Ref{ID: "t2", Name: "Away"}, Last: 20},
		},
	}

	pairs := Project(cfg, rec, liveSnapshot())

	assert.Contains(t, pairs, Pair{Label: "Adjusted Home", Value: "20.5"})
	assert.Contains(t, pairs, Pair{Label: "Home", Value: "24"})
	assert.Contains(t, pairs, Pair{Label: "Away", Value: "20"})
}

func TestProjectOverUnderShowsTotalAndLine(t *testing.T) {
	cfg := &mode.OverUnderConfig{
		Subject:  mode.Participant{ID: "p1", Name: "Player One"},
		Category: "rushing",
		Field:    "rushingYards",
		Line:     99.5,
	}
	rec := &progress.Record{
		Mode:    progress.TrackCumulative,
		Entries: []progress.Entry{{Ref: progress.Ref{ID: "p1", Name: "Player One"}, Last: 87}},
	}

	pairs := Project(cfg, rec, liveSnapshot())

	assert.Contains(t, pairs, Pair{Label: "Player One", Value: "87 rushingYards"})
	assert.Contains(t, pairs, Pair{Label: "Line", Value: "99.5"})
}

func TestProjectDriveOutcomeShowsPossession(t *testing.T) {
	cfg := &mode.DriveOutcomeConfig{
		HomeTeam:   mode.Participant{ID: "t1", Name: "Home"},
		AwayTeam:   mode.Participant{ID: "t2", Name: "Away"},
		Prediction: "field_goal",
	}
	rec := &progress.Record{Possession: "t1"}

	pairs := Project(cfg, rec, liveSnapshot())

	assert.Contains(t, pairs, Pair{Label: "Possession", Value: "Home"})
	assert.Contains(t, pairs, Pair{Label: "Prediction", Value: "field_goal"})
}
