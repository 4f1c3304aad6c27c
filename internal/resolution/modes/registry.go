package modes

import (
	"fmt"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
)

// All devolve os evaluators registrados, indexados por mode key
func All() map[string]mode.Evaluator {
	evs := []mode.Evaluator{
		StatRace{},
		StatDuel{},
		SpreadCover{},
		OverUnder{},
		DriveOutcome{},
	}
	out := make(map[string]mode.Evaluator, len(evs))
	for _, e := range evs {
		out[e.Key()] = e
	}
	return out
}

// Get resolve um evaluator por mode key
func Get(key string) (mode.Evaluator, error) {
	e, ok := All()[key]
	if !ok {
		return nil, fmt.Errorf("no evaluator registered for mode %q", key)
	}
	return e, nil
}
