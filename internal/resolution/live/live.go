package live

import (
	"fmt"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// Pair é um rótulo/valor de exibição para a UI
type Pair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Project monta a projeção de leitura de uma aposta em rastreamento:
// progresso corrente por participante mais contexto do jogo. Puro, sem
// efeitos colaterais; é a única superfície de consulta do engine.
func Project(cfg mode.Config, rec *progress.Record, snap *gamestate.Snapshot) []Pair {
	var pairs []Pair

	switch c := cfg.(type) {
	case *mode.StatRaceConfig:
		for i := range rec.Entries {
			e := &rec.Entries[i]
			pairs = append(pairs, Pair{
				Label: e.Ref.Name,
				Value: fmt.Sprintf("%s / %s %s", trim(e.Metric(rec.Mode)), trim(c.Target), c.Field),
			})
		}

	case *mode.StatDuelConfig:
		for i := range rec.Entries {
			e := &rec.Entries[i]
			pairs = append(pairs, Pair{
				Label: e.Ref.Name,
				Value: fmt.Sprintf("+%s %s", trim(e.Metric(rec.Mode)), c.Field),
			})
		}

	case *mode.SpreadCoverConfig:
		home, okH := rec.Entry(c.HomeTeam.ID)
		away, okA := rec.Entry(c.AwayTeam.ID)
		if okH && okA {
			pairs = append(pairs,
				Pair{Label: c.HomeTeam.Name, Value: trim(home.Last)},
				Pair{Label: c.AwayTeam.Name, Value: trim(away.Last)},
				Pair{Label: "Adjusted " + c.HomeTeam.Name, Value: trim(home.Last + c.Spread)},
			)
		}

	case *mode.OverUnderConfig:
		if len(rec.Entries) > 0 {
			pairs = append(pairs,
				Pair{Label: c.Subject.Name, Value: fmt.Sprintf("%s %s", trim(rec.Entries[0].Last), c.Field)},
				Pair{Label: "Line", Value: trim(c.Line)},
			)
		}

	case *mode.DriveOutcomeConfig:
		if team, ok := snap.Team(snap.PossessionTeam()); ok {
			pairs = append(pairs, Pair{Label: "Possession", Value: team.Name})
		}
		if c.Prediction != "" {
			pairs = append(pairs, Pair{Label: "Prediction", Value: c.Prediction})
		}
	}

	if snap.Period > 0 {
		pairs = append(pairs, Pair{Label: "Game", Value: fmt.Sprintf("Q%d %s", snap.Period, snap.Clock)})
	}
	return pairs
}

// trim formata números sem zeros à direita ("20.5", "31")
func trim(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
