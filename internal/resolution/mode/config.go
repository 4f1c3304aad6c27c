package mode

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// ErrInvalidConfig marca configs decodificáveis porém inválidas (threshold
// fora de faixa, participantes faltando). O kernel anula a aposta nesse caso;
// erros de decodificação pura são tratados como transientes (pula o tick).
var ErrInvalidConfig = errors.New("invalid mode config")

// Config é a união etiquetada das configurações por modo. Cada struct é
// decodificada e validada uma vez por avaliação; o kernel nunca inspeciona
// os campos internos.
type Config interface {
	ModeKey() string
	Validate() error
}

// Participant identifica um participante apostável (jogador ou time)
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ref converte para a referência persistida no Record
func (p Participant) Ref() progress.Ref { return progress.Ref{ID: p.ID, Name: p.Name} }

// StatRaceConfig: corrida até um alvo de estatística (primeiro a N)
type StatRaceConfig struct {
	Participants []Participant      `json:"participants"`
	Category     string             `json:"category"`
	Field        string             `json:"field"`
	Target       float64            `json:"target"`
	Progress     progress.TrackMode `json:"progress_mode"`
}

func (c *StatRaceConfig) ModeKey() string { return "stat_race" }

func (c *StatRaceConfig) Validate() error {
	if len(c.Participants) < 2 {
		return fmt.Errorf("%w: stat_race requires at least two participants", ErrInvalidConfig)
	}
	if c.Category == "" || c.Field == "" {
		return fmt.Errorf("%w: stat_race requires category and field", ErrInvalidConfig)
	}
	if c.Target <= 0 || math.IsNaN(c.Target) || math.IsInf(c.Target, 0) {
		return fmt.Errorf("%w: stat_race target must be a positive number", ErrInvalidConfig)
	}
	if c.Progress != progress.TrackStartingNow && c.Progress != progress.TrackCumulative {
		return fmt.Errorf("%w: unknown progress mode %q", ErrInvalidConfig, c.Progress)
	}
	return nil
}

// StatDuelConfig: comparação de ganho líquido entre dois participantes,
// liquidada no fim do jogo. Sempre starting_now.
type StatDuelConfig struct {
	Participants []Participant `json:"participants"`
	Category     string        `json:"category"`
	Field        string        `json:"field"`
}

func (c *StatDuelConfig) ModeKey() string { return "stat_duel" }

func (c *StatDuelConfig) Validate() error {
	if len(c.Participants) != 2 {
		return fmt.Errorf("%w: stat_duel requires exactly two participants", ErrInvalidConfig)
	}
	if c.Category == "" || c.Field == "" {
		return fmt.Errorf("%w: stat_duel requires category and field", ErrInvalidConfig)
	}
	return nil
}

// SpreadCoverConfig: comparação de placar final ajustado pelo spread.
// Spread é somado ao placar do mandante (favorito em casa ⇒ spread negativo).
// Spread inteiro admite push; meio ponto não empata.
type SpreadCoverConfig struct {
	HomeTeam Participant `json:"home_team"`
	AwayTeam Participant `json:"away_team"`
	Spread   float64     `json:"spread"`
}

func (c *SpreadCoverConfig) ModeKey() string { return "spread_cover" }

func (c *SpreadCoverConfig) Validate() error {
	if c.HomeTeam.ID == "" || c.AwayTeam.ID == "" {
		return fmt.Errorf("%w: spread_cover requires home and away teams", ErrInvalidConfig)
	}
	if math.IsNaN(c.Spread) || math.IsInf(c.Spread, 0) {
		return fmt.Errorf("%w: spread must be a finite number", ErrInvalidConfig)
	}
	return nil
}

// AllowsPush: só spreads inteiros podem empatar
func (c *SpreadCoverConfig) AllowsPush() bool { return c.Spread == math.Trunc(c.Spread) }

// OverUnderConfig: total cumulativo de uma estatística contra uma linha,
// liquidado no fim do jogo.
type OverUnderConfig struct {
	Subject  Participant `json:"subject"`
	Category string      `json:"category"`
	Field    string      `json:"field"`
	Line     float64     `json:"line"`
}

func (c *OverUnderConfig) ModeKey() string { return "over_under" }

func (c *OverUnderConfig) Validate() error {
	if c.Subject.ID == "" {
		return fmt.Errorf("%w: over_under requires a subject", ErrInvalidConfig)
	}
	if c.Category == "" || c.Field == "" {
		return fmt.Errorf("%w: over_under requires category and field", ErrInvalidConfig)
	}
	if c.Line <= 0 || math.IsNaN(c.Line) || math.IsInf(c.Line, 0) {
		return fmt.Errorf("%w: line must be a positive number", ErrInvalidConfig)
	}
	return nil
}

// AllowsPush: linha inteira pode bater exatamente no total
func (c *OverUnderConfig) AllowsPush() bool { return c.Line == math.Trunc(c.Line) }

// DriveOutcomeConfig: previsão do desfecho do drive atual. Prediction é o
// palpite exibido ao usuário; a resolução grava o desfecho real.
type DriveOutcomeConfig struct {
	HomeTeam   Participant `json:"home_team"`
	AwayTeam   Participant `json:"away_team"`
	Prediction string      `json:"prediction,omitempty"`
}

func (c *DriveOutcomeConfig) ModeKey() string { return "drive_outcome" }

func (c *DriveOutcomeConfig) Validate() error {
	if c.HomeTeam.ID == "" || c.AwayTeam.ID == "" {
		return fmt.Errorf("%w: drive_outcome requires home and away teams", ErrInvalidConfig)
	}
	return nil
}

// DecodeConfig decodifica e valida o config opaco de uma aposta conforme o
// modo. Erro de JSON é transiente; erro de validação embrulha ErrInvalidConfig.
func DecodeConfig(modeKey string, raw []byte) (Config, error) {
	var cfg Config
	switch modeKey {
	case "stat_race":
		cfg = &StatRaceConfig{}
	case "stat_duel":
		cfg = &StatDuelConfig{}
	case "spread_cover":
		cfg = &SpreadCoverConfig{}
	case "over_under":
		cfg = &OverUnderConfig{}
	case "drive_outcome":
		cfg = &DriveOutcomeConfig{}
	default:
		return nil, fmt.Errorf("unknown mode key %q", modeKey)
	}

	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decode %s config: %w", modeKey, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
