package betrepo

import (
	"database/sql"
	"encoding/json"
)

// Status possíveis de uma aposta. Uma vez fora de PENDING o engine nunca
// mais toca no registro.
const (
	StatusPending  = "PENDING"
	StatusResolved = "RESOLVED"
	StatusWashed   = "WASHED"
)

// Tipos de evento do histórico (append-only)
const (
	HistoryBaseline = "baseline"
	HistoryResult   = "result"
)

// Wager é o modelo persistido no Postgres. Config é opaco para o repositório;
// cada modo decodifica o seu próprio formato.
type Wager struct {
	ID             string
	ModeKey        string
	League         string
	GameID         string
	Status         string
	WinningOutcome sql.NullString
	Config         json.RawMessage
	ResolutionTime sql.NullTime
}
