package modes

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// StatRace resolve corridas de estatística: vence o primeiro participante
// cuja métrica atinge o alvo. Cruzamento simultâneo no mesmo tick anula.
type StatRace struct{}

func (StatRace) Key() string { return "stat_race" }

func (StatRace) DecodeConfig(raw []byte) (mode.Config, error) {
	return mode.DecodeConfig("stat_race", raw)
}

func (StatRace) CaptureBaseline(cfg mode.Config, snap *gamestate.Snapshot, now time.Time) (*progress.Record, *mode.Decision, error) {
	c, ok := cfg.(*mode.StatRaceConfig)
	if !ok {
		return nil, nil, fmt.Errorf("stat_race: unexpected config type %T", cfg)
	}

	if d, halted := washIfNotLive(snap); halted {
		return nil, d, nil
	}

	entries := make([]progress.Entry, 0, len(c.Participants))
	for _, p := range c.Participants {
		v, found := snap.StatValue(p.ID, c.Category, c.Field)
		if !found {
			d := mode.Wash(mode.WashMissingContext,
				fmt.Sprintf("%s has no %s.%s stat in this game", p.Name, c.Category, c.Field))
			return nil, &d, nil
		}
		if c.Progress == progress.TrackCumulative && v >= c.Target {
			d := mode.Wash(mode.WashPreconditionMet,
				fmt.Sprintf("%s already has %.0f %s before the pick went live", p.Name, v, c.Field))
			return nil, &d, nil
		}
		entries = append(entries, progress.Entry{Ref: p.Ref(), Baseline: v, Last: v})
	}

	return &progress.Record{
		ModeKey:    "stat_race",
		GameID:     snap.GameID,
		StatKey:    c.Category + "." + c.Field,
		Threshold:  c.Target,
		Mode:       c.Progress,
		CapturedAt: now,
		Entries:    entries,
	}, nil, nil
}

func (StatRace) Evaluate(cfg mode.Config, rec *progress.Record, snap *gamestate.Snapshot, now time.Time) (mode.Decision, error) {
	c, ok := cfg.(*mode.StatRaceConfig)
	if !ok {
		return mode.None(), fmt.Errorf("stat_race: unexpected config type %T", cfg)
	}

	var crossed []*progress.Entry
	for i := range rec.Entries {
		e := &rec.Entries[i]
		if v, found := snap.StatValue(e.Ref.ID, c.Category, c.Field); found {
			e.Last = v
		}
		if !e.Reached && e.Metric(c.Progress) >= c.Target {
			e.Reached = true
			at := now
			e.ReachedAt = &at
			crossed = append(crossed, e)
		}
	}

	switch {
	case len(crossed) == 1:
		return mode.Winner(crossed[0].Ref.Name), nil
	case len(crossed) > 1:
		names := make([]string, len(crossed))
		for i, e := range crossed {
			names[i] = e.Ref.Name
		}
		return mode.Wash(mode.WashSimultaneous,
			strings.Join(names, " and ")+" reached the target in the same update"), nil
	}

	if snap.Final() {
		return mode.Wash(mode.WashNoWinner,
			fmt.Sprintf("game ended with nobody reaching %.0f %s", c.Target, c.Field)), nil
	}
	if snap.Halted() {
		return mode.Wash(mode.WashGameStatus, statusExplanation(snap)), nil
	}
	return mode.None(), nil
}
