package progress

import "time"

// TrackMode define como o progresso é medido a partir do baseline
type TrackMode string

const (
	// TrackStartingNow mede o ganho líquido desde o baseline (nunca negativo)
	TrackStartingNow TrackMode = "starting_now"
	// TrackCumulative mede o valor bruto corrente
	TrackCumulative TrackMode = "cumulative"
)

// Ref identifica um participante rastreado (jogador ou time)
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Entry é o progresso de um participante dentro de um Record
type Entry struct {
	Ref       Ref        `json:"ref"`
	Baseline  float64    `json:"baseline"`
	Last      float64    `json:"last"`
	Reached   bool       `json:"reached"`
	ReachedAt *time.Time `json:"reachedAt,omitempty"`
}

// Metric calcula a métrica do participante conforme o modo de progresso.
// starting_now tem piso em zero: correções de dados que reduzam Last abaixo
// do Baseline não podem produzir métrica negativa.
func (e *Entry) Metric(mode TrackMode) float64 {
	if mode == TrackCumulative {
		return e.Last
	}
	d := e.Last - e.Baseline
	if d < 0 {
		return 0
	}
	return d
}

// Record é o estado rastreado de uma aposta entre o baseline e a resolução.
// Existe no máximo um Record por aposta; ele é apagado na resolução/wash.
type Record struct {
	WagerID    string    `json:"wagerId"`
	ModeKey    string    `json:"modeKey"`
	GameID     string    `json:"gameId"`
	StatKey    string    `json:"statKey"` // "categoria.campo" ou "score"
	Threshold  float64   `json:"threshold,omitempty"`
	Mode       TrackMode `json:"progressMode"`
	CapturedAt time.Time `json:"capturedAt"`
	Entries    []Entry   `json:"entries"`

	// Contexto extra do modo drive_outcome
	Possession string `json:"possession,omitempty"`
}

// Entry busca o progresso de um participante por id
func (r *Record) Entry(id string) (*Entry, bool) {
	for i := range r.Entries {
		if r.Entries[i].Ref.ID == id {
			return &r.Entries[i], true
		}
	}
	return nil, false
}
