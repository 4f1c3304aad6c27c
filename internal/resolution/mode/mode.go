package mode

import (
	"time"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// WashReason é o motivo estruturado de um wash, gravado no histórico
type WashReason string

const (
	WashPreconditionMet   WashReason = "precondition_met"
	WashInvalidThreshold  WashReason = "invalid_threshold"
	WashSimultaneous      WashReason = "simultaneous_finish"
	WashSimultaneousScore WashReason = "simultaneous_scores"
	WashGameStatus        WashReason = "game_status"
	WashMissingContext    WashReason = "missing_context"
	WashNoWinner          WashReason = "no_winner"
)

// DecisionKind classifica o resultado de uma avaliação
type DecisionKind int

const (
	// DecisionNone: sem resultado neste tick; continua rastreando
	DecisionNone DecisionKind = iota
	// DecisionWinner: resultado decisivo; Outcome carrega o vencedor
	DecisionWinner
	// DecisionWash: a aposta deve ser anulada com Reason/Explanation
	DecisionWash
)

// Decision é o veredito de um evaluator para um tick. Empates permitidos
// pelo modo (ex: push em spread inteiro) saem como DecisionWinner com
// Outcome "push"; empates proibidos saem como DecisionWash.
type Decision struct {
	Kind        DecisionKind
	Outcome     string
	Reason      WashReason
	Explanation string
}

// None é a decisão neutra: nada a fazer neste tick
func None() Decision { return Decision{Kind: DecisionNone} }

// Winner monta uma decisão de vitória
func Winner(outcome string) Decision {
	return Decision{Kind: DecisionWinner, Outcome: outcome}
}

// Wash monta uma decisão de anulação
func Wash(reason WashReason, explanation string) Decision {
	return Decision{Kind: DecisionWash, Reason: reason, Explanation: explanation}
}

// Evaluator é o contrato de um modo de aposta. CaptureBaseline lê os valores
// correntes dos participantes e devolve o Record inicial, ou uma Decision de
// wash quando a aposta não pode ser rastreada (pré-condição já atingida,
// contexto ausente, jogo interrompido). Evaluate atualiza rec.Entries com o
// snapshot corrente e aplica a regra de decisão do modo.
type Evaluator interface {
	Key() string
	DecodeConfig(raw []byte) (Config, error)
	CaptureBaseline(cfg Config, snap *gamestate.Snapshot, now time.Time) (*progress.Record, *Decision, error)
	Evaluate(cfg Config, rec *progress.Record, snap *gamestate.Snapshot, now time.Time) (Decision, error)
}
