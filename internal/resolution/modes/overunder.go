package modes

import (
	"fmt"
	"time"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// Rótulos de resultado do over/under
const (
	OutcomeOver  = "over"
	OutcomeUnder = "under"
	OutcomePush  = "push"
)

// OverUnder liquida o total cumulativo de uma estatística contra a linha no
// fim do jogo. Se o total já passou da linha quando a aposta entrou em
// PENDING, o over estaria garantido de antemão e a aposta é anulada.
type OverUnder struct{}

func (OverUnder) Key() string { return "over_under" }

func (OverUnder) DecodeConfig(raw []byte) (mode.Config, error) {
	return mode.DecodeConfig("over_under", raw)
}

func (OverUnder) CaptureBaseline(cfg mode.Config, snap *gamestate.Snapshot, now time.Time) (*progress.Record, *mode.Decision, error) {
	c, ok := cfg.(*mode.OverUnderConfig)
	if !ok {
		return nil, nil, fmt.Errorf("over_under: unexpected config type %T", cfg)
	}

	if d, halted := washIfNotLive(snap); halted {
		return nil, d, nil
	}

	v, found := snap.StatValue(c.Subject.ID, c.Category, c.Field)
	if !found {
		d := mode.Wash(mode.WashMissingContext,
			fmt.Sprintf("%s has no %s.%s stat in this game", c.Subject.Name, c.Category, c.Field))
		return nil, &d, nil
	}
	if v > c.Line {
		d := mode.Wash(mode.WashPreconditionMet,
			fmt.Sprintf("%s already past the line (%.1f > %.1f) before the pick went live", c.Subject.Name, v, c.Line))
		return nil, &d, nil
	}

	return &progress.Record{
		ModeKey:    "over_under",
		GameID:     snap.GameID,
		StatKey:    c.Category + "." + c.Field,
		Threshold:  c.Line,
		Mode:       progress.TrackCumulative,
		CapturedAt: now,
		Entries:    []progress.Entry{{Ref: c.Subject.Ref(), Baseline: v, Last: v}},
	}, nil, nil
}

func (OverUnder) Evaluate(cfg mode.Config, rec *progress.Record, snap *gamestate.Snapshot, _ time.Time) (mode.Decision, error) {
	c, ok := cfg.(*mode.OverUnderConfig)
	if !ok {
		return mode.None(), fmt.Errorf("over_under: unexpected config type %T", cfg)
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

	if len(rec.Entries) == 0 {
		return mode.Wash(mode.WashMissingContext, "tracked subject went missing mid-game"), nil
	}

	total := rec.Entries[0].Metric(progress.TrackCumulative)
	switch {
	case total > c.Line:
		return mode.Winner(OutcomeOver), nil
	case total < c.Line:
		return mode.Winner(OutcomeUnder), nil
	}
	if c.AllowsPush() {
		return mode.Winner(OutcomePush), nil
	}
	return mode.Wash(mode.WashSimultaneous,
		fmt.Sprintf("total landed exactly on a half-point line (%.1f)", c.Line)), nil
}
