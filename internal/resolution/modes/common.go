package modes

import (
	"fmt"
	"strings"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
)

// statusExplanation produz o texto humano de um wash por status de jogo
func statusExplanation(snap *gamestate.Snapshot) string {
	return fmt.Sprintf("game is %s, pick cannot settle", strings.ToLower(snap.Status))
}

// washIfNotLive devolve uma decisão de wash quando o jogo não está apto a
// receber um baseline (encerrado, adiado, suspenso ou cancelado).
func washIfNotLive(snap *gamestate.Snapshot) (*mode.Decision, bool) {
	if snap.Final() || snap.Halted() {
		d := mode.Wash(mode.WashGameStatus, statusExplanation(snap))
		return &d, true
	}
	return nil, false
}
