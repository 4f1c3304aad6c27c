package gamestate

import "time"

// Status do jogo conforme normalizado pelo pipeline de ingestão
const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusHalftime   = "HALFTIME"
	StatusFinal      = "FINAL"
	StatusPostponed  = "POSTPONED"
	StatusSuspended  = "SUSPENDED"
	StatusCanceled   = "CANCELED"
)

// Stats agrupa valores numéricos por categoria → campo
// (ex: "passing" → "passingYards" → 287). A categoria "scoring" carrega
// touchdowns/fieldGoals/safeties por time.
type Stats map[string]map[string]float64

// Value retorna o valor de um campo dentro de uma categoria
func (s Stats) Value(category, field string) (float64, bool) {
	fields, ok := s[category]
	if !ok {
		return 0, false
	}
	v, ok := fields[field]
	return v, ok
}

// TeamSnapshot é o estado de um time dentro de um snapshot
type TeamSnapshot struct {
	ID           string  `json:"teamId"`
	Abbreviation string  `json:"abbreviation"`
	Name         string  `json:"displayName"`
	Score        float64 `json:"score"`
	Possession   bool    `json:"possession"`
	Stats        Stats   `json:"stats"`
}

// PlayerSnapshot é o estado de um jogador dentro de um snapshot
type PlayerSnapshot struct {
	ID       string `json:"athleteId"`
	Name     string `json:"fullName"`
	Position string `json:"position"`
	TeamID   string `json:"teamId"`
	Stats    Stats  `json:"stats"`
}

// Snapshot é a visão pontual de um jogo produzida pelo pipeline de ingestão.
// O engine nunca muta um snapshot.
type Snapshot struct {
	League    string           `json:"league"`
	GameID    string           `json:"gameId"`
	Status    string           `json:"status"`
	Period    int              `json:"period"`
	Clock     string           `json:"clock"`
	Teams     []TeamSnapshot   `json:"teams"`
	Players   []PlayerSnapshot `json:"players"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Team busca um time por id
func (s *Snapshot) Team(id string) (*TeamSnapshot, bool) {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i], true
		}
	}
	return nil, false
}

// Player busca um jogador por id
func (s *Snapshot) Player(id string) (*PlayerSnapshot, bool) {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i], true
		}
	}
	return nil, false
}

// StatValue resolve o valor de uma estatística para um participante,
// procurando primeiro entre jogadores e depois entre times.
func (s *Snapshot) StatValue(participantID, category, field string) (float64, bool) {
	if p, ok := s.Player(participantID); ok {
		return p.Stats.Value(category, field)
	}
	if t, ok := s.Team(participantID); ok {
		return t.Stats.Value(category, field)
	}
	return 0, false
}

// PossessionTeam retorna o id do time com a posse de bola, se houver
func (s *Snapshot) PossessionTeam() string {
	for i := range s.Teams {
		if s.Teams[i].Possession {
			return s.Teams[i].ID
		}
	}
	return ""
}

// Live indica se o jogo está em andamento (inclui intervalo)
func (s *Snapshot) Live() bool {
	return s.Status == StatusInProgress || s.Status == StatusHalftime
}

// Final indica se o jogo terminou normalmente
func (s *Snapshot) Final() bool { return s.Status == StatusFinal }

// Halted indica interrupção anormal: adiado, suspenso ou cancelado
func (s *Snapshot) Halted() bool {
	return s.Status == StatusPostponed || s.Status == StatusSuspended || s.Status == StatusCanceled
}
