package modes

import (
	"fmt"
	"time"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// SpreadCover compara o placar final ajustado pelo spread. O spread é somado
// ao placar do mandante; push só existe em spread inteiro.
type SpreadCover struct{}

func (SpreadCover) Key() string { return "spread_cover" }

func (SpreadCover) DecodeConfig(raw []byte) (mode.Config, error) {
	return mode.DecodeConfig("spread_cover", raw)
}

func (SpreadCover) CaptureBaseline(cfg mode.Config, snap *gamestate.Snapshot, now time.Time) (*progress.Record, *mode.Decision, error) {
	c, ok := cfg.(*mode.SpreadCoverConfig)
	if !ok {
		return nil, nil, fmt.Errorf("spread_cover: unexpected config type %T", cfg)
	}

	if d, halted := washIfNotLive(snap); halted {
		return nil, d, nil
	}

	entries := make([]progress.Entry, 0, 2)
	for _, p := range []mode.Participant{c.HomeTeam, c.AwayTeam} {
		t, found := snap.Team(p.ID)
		if !found {
			d := mode.Wash(mode.WashMissingContext, p.Name+" is not playing in this game")
			return nil, &d, nil
		}
		entries = append(entries, progress.Entry{Ref: p.Ref(), Baseline: t.Score, Last: t.Score})
	}

	return &progress.Record{
		ModeKey:    "spread_cover",
		GameID:     snap.GameID,
		StatKey:    "score",
		Threshold:  c.Spread,
		Mode:       progress.TrackCumulative,
		CapturedAt: now,
		Entries:    entries,
	}, nil, nil
}

func (SpreadCover) Evaluate(cfg mode.Config, rec *progress.Record, snap *gamestate.Snapshot, _ time.Time) (mode.Decision, error) {
	c, ok := cfg.(*mode.SpreadCoverConfig)
	if !ok {
		return mode.None(), fmt.Errorf("spread_cover: unexpected config type %T", cfg)
	}

	for i := range rec.Entries {
		e := &rec.Entries[i]
		if t, found := snap.Team(e.Ref.ID); found {
			e.Last = t.Score
		}
	}

	if snap.Halted() {
		return mode.Wash(mode.WashGameStatus, statusExplanation(snap)), nil
	}
	if !snap.Final() {
		return mode.None(), nil
	}

	home, okH := rec.Entry(c.HomeTeam.ID)
	away, okA := rec.Entry(c.AwayTeam.ID)
	if !okH || !okA {
		return mode.Wash(mode.WashMissingContext, "tracked teams went missing mid-game"), nil
	}

	adjusted := home.Last + c.Spread
	switch {
	case adjusted > away.Last:
		return mode.Winner(c.HomeTeam.Name), nil
	case adjusted < away.Last:
		return mode.Winner(c.AwayTeam.Name), nil
	}
	if c.AllowsPush() {
		return mode.Winner("push"), nil
	}
	// spread com meio ponto não pode empatar; placar fracionado é corrupção de dado
	return mode.Wash(mode.WashSimultaneousScore,
		fmt.Sprintf("adjusted scores tied at %.1f on a half-point spread", adjusted)), nil
}
