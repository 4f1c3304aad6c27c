package modes

import (
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
)

// snapshot monta um jogo de teste com dois times e jogadores opcionais
func snapshot(status string, teams []gamestate.TeamSnapshot, players []gamestate.PlayerSnapshot) *gamestate.Snapshot {
	return &gamestate.Snapshot{
		League:  "nfl",
		GameID:  "game-1",
		Status:  status,
		Period:  2,
		Clock:   "7:42",
		Teams:   teams,
		Players: players,
	}
}

func team(id, name string, score float64, possession bool, stats gamestate.Stats) gamestate.TeamSnapshot {
	return gamestate.TeamSnapshot{ID: id, Name: name, Abbreviation: name, Score: score, Possession: possession, Stats: stats}
}

func player(id, name, teamID string, stats gamestate.Stats) gamestate.PlayerSnapshot {
	return gamestate.PlayerSnapshot{ID: id, Name: name, TeamID: teamID, Stats: stats}
}

func scoring(td, fg, safeties float64) gamestate.Stats {
	return gamestate.Stats{"scoring": {"touchdowns": td, "fieldGoals": fg, "safeties": safeties}}
}
