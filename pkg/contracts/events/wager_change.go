package events

import "encoding/json"

// Operações possíveis no change feed de apostas
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// WagerImage é a imagem (before ou after) de uma aposta no change feed.
// Config é opaco para o feed; cada modo decodifica o seu próprio formato.
type WagerImage struct {
	WagerID        string          `json:"wager_id"`
	ModeKey        string          `json:"mode_key"`
	League         string          `json:"league"`
	GameID         string          `json:"game_id"`
	Status         string          `json:"status"` // "PENDING" | "RESOLVED" | "WASHED"
	WinningOutcome string          `json:"winning_outcome,omitempty"`
	Config         json.RawMessage `json:"config,omitempty"`
}

// WagerChange é o evento publicado no tópico "wager_changes" a cada
// insert/update/delete na tabela de apostas. Carrega before/after para que
// consumidores detectem transições de status sem consultar o banco.
type WagerChange struct {
	Op       string      `json:"op"` // OpInsert | OpUpdate | OpDelete
	Before   *WagerImage `json:"before,omitempty"`
	After    *WagerImage `json:"after,omitempty"`
	TsUnixMs int64       `json:"ts_unix_ms"`
}

// BecamePending indica se o evento representa uma aposta entrando em PENDING.
func (c *WagerChange) BecamePending() bool {
	if c.After == nil || c.After.Status != "PENDING" {
		return false
	}
	return c.Before == nil || c.Before.Status != "PENDING"
}
