package modes

import (
	"fmt"
	"time"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// Rótulos de desfecho de drive
const (
	OutcomeTouchdown = "touchdown"
	OutcomeFieldGoal = "field_goal"
	OutcomeSafety    = "safety"
	OutcomeTurnover  = "turnover"
)

// Campos da categoria "scoring" rastreados por time, em ordem de prioridade
// de desempate dentro do mesmo time (um TD com extra point também mexe no
// placar, mas só o campo de maior prioridade define o desfecho).
var scoringFields = []struct {
	field   string
	outcome string
}{
	{"touchdowns", OutcomeTouchdown},
	{"fieldGoals", OutcomeFieldGoal},
	{"safeties", OutcomeSafety},
}

// DriveOutcome é a máquina de estados do drive corrente: um aumento em
// qualquer categoria de pontuação resolve para o desfecho correspondente;
// troca de posse sem pontuação resolve para turnover; sem mudança, segue
// rastreando. Ambos os times pontuando no mesmo tick é ambíguo e anula.
type DriveOutcome struct{}

func (DriveOutcome) Key() string { return "drive_outcome" }

func (DriveOutcome) DecodeConfig(raw []byte) (mode.Config, error) {
	return mode.DecodeConfig("drive_outcome", raw)
}

func driveRef(team mode.Participant, field string) progress.Ref {
	return progress.Ref{ID: team.ID + "#" + field, Name: team.Name + " " + field}
}

func (DriveOutcome) CaptureBaseline(cfg mode.Config, snap *gamestate.Snapshot, now time.Time) (*progress.Record, *mode.Decision, error) {
	c, ok := cfg.(*mode.DriveOutcomeConfig)
	if !ok {
		return nil, nil, fmt.Errorf("drive_outcome: unexpected config type %T", cfg)
	}

	if d, halted := washIfNotLive(snap); halted {
		return nil, d, nil
	}

	possession := snap.PossessionTeam()
	if possession == "" {
		d := mode.Wash(mode.WashMissingContext, "no live drive to track in this game")
		return nil, &d, nil
	}

	var entries []progress.Entry
	for _, team := range []mode.Participant{c.HomeTeam, c.AwayTeam} {
		t, found := snap.Team(team.ID)
		if !found {
			d := mode.Wash(mode.WashMissingContext, team.Name+" is not playing in this game")
			return nil, &d, nil
		}
		for _, sf := range scoringFields {
			v, _ := t.Stats.Value("scoring", sf.field)
			entries = append(entries, progress.Entry{Ref: driveRef(team, sf.field), Baseline: v, Last: v})
		}
	}

	return &progress.Record{
		ModeKey:    "drive_outcome",
		GameID:     snap.GameID,
		StatKey:    "scoring",
		Mode:       progress.TrackStartingNow,
		CapturedAt: now,
		Entries:    entries,
		Possession: possession,
	}, nil, nil
}

func (DriveOutcome) Evaluate(cfg mode.Config, rec *progress.Record, snap *gamestate.Snapshot, _ time.Time) (mode.Decision, error) {
	c, ok := cfg.(*mode.DriveOutcomeConfig)
	if !ok {
		return mode.None(), fmt.Errorf("drive_outcome: unexpected config type %T", cfg)
	}

	// primeiro atualiza tudo, depois decide: um tick pode trazer mais de um delta
	scored := map[string]string{} // teamID → outcome de maior prioridade
	for _, team := range []mode.Participant{c.HomeTeam, c.AwayTeam} {
		t, found := snap.Team(team.ID)
		if !found {
			continue
		}
		for _, sf := range scoringFields {
			e, ok := rec.Entry(driveRef(team, sf.field).ID)
			if !ok {
				continue
			}
			if v, has := t.Stats.Value("scoring", sf.field); has {
				e.Last = v
			}
			if _, already := scored[team.ID]; !already && e.Metric(progress.TrackStartingNow) > 0 {
				scored[team.ID] = sf.outcome
			}
		}
	}

	if len(scored) > 1 {
		return mode.Wash(mode.WashSimultaneousScore,
			"both teams scored in the same update, drive outcome is ambiguous"), nil
	}
	for _, outcome := range scored {
		return mode.Winner(outcome), nil
	}

	if cur := snap.PossessionTeam(); cur != "" && rec.Possession != "" && cur != rec.Possession {
		return mode.Winner(OutcomeTurnover), nil
	}

	if snap.Final() || snap.Halted() {
		return mode.Wash(mode.WashGameStatus, statusExplanation(snap)), nil
	}
	return mode.None(), nil
}
