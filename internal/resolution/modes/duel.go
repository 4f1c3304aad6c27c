package modes

import (
	"fmt"
	"time"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// StatDuel compara o ganho líquido de dois participantes desde o baseline e
// liquida no fim do jogo: vence quem acumulou estritamente mais. Empate exato
// no apito final anula (o modo não admite tie).
type StatDuel struct{}

func (StatDuel) Key() string { return "stat_duel" }

func (StatDuel) DecodeConfig(raw []byte) (mode.Config, error) {
	return mode.DecodeConfig("stat_duel", raw)
}

func (StatDuel) CaptureBaseline(cfg mode.Config, snap *gamestate.Snapshot, now time.Time) (*progress.Record, *mode.Decision, error) {
	c, ok := cfg.(*mode.StatDuelConfig)
	if !ok {
		return nil, nil, fmt.Errorf("stat_duel: unexpected config type %T", cfg)
	}

	if d, halted := washIfNotLive(snap); halted {
		return nil, d, nil
	}

	entries := make([]progress.Entry, 0, 2)
	for _, p := range c.Participants {
		v, found := snap.StatValue(p.ID, c.Category, c.Field)
		if !found {
			d := mode.Wash(mode.WashMissingContext,
				fmt.Sprintf("%s has no %s.%s stat in this game", p.Name, c.Category, c.Field))
			return nil, &d, nil
		}
		entries = append(entries, progress.Entry{Ref: p.Ref(), Baseline: v, Last: v})
	}

	return &progress.Record{
		ModeKey:    "stat_duel",
		GameID:     snap.GameID,
		StatKey:    c.Category + "." + c.Field,
		Mode:       progress.TrackStartingNow,
		CapturedAt: now,
		Entries:    entries,
	}, nil, nil
}

func (StatDuel) Evaluate(cfg mode.Config, rec *progress.Record, snap *gamestate.Snapshot, _ time.Time) (mode.Decision, error) {
	c, ok := cfg.(*mode.StatDuelConfig)
	if !ok {
		return mode.None(), fmt.Errorf("stat_duel: unexpected config type %T", cfg)
	}

	for i := range rec.Entries {
		e := &rec.Entries[i]
		if v, found := snap.StatValue(e.Ref.ID, c.Category, c.Field); found {
			e.Last = v
		}
	}

	if snap.Halted() {
		return mode.Wash(mode.WashGameStatus, statusExplanation(snap)), nil
	}
	if !snap.Final() {
		return mode.None(), nil
	}

	if len(rec.Entries) != 2 {
		return mode.Wash(mode.WashMissingContext, "tracked participants went missing mid-game"), nil
	}

	a, b := &rec.Entries[0], &rec.Entries[1]
	ma, mb := a.Metric(rec.Mode), b.Metric(rec.Mode)
	switch {
	case ma > mb:
		return mode.Winner(a.Ref.Name), nil
	case mb > ma:
		return mode.Winner(b.Ref.Name), nil
	}
	return mode.Wash(mode.WashSimultaneous,
		fmt.Sprintf("both gained exactly %.1f %s", ma, c.Field)), nil
}
