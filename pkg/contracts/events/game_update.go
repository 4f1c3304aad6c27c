package events

import "time"

// GameUpdate é o evento publicado no tópico "game_updates" sempre que o
// pipeline de ingestão grava um snapshot novo de um jogo. Marker é opaco
// (versão, hash, offset de arquivo); o engine só usa League+GameID.
type GameUpdate struct {
	League    string    `json:"league"` // ex: "nfl"
	GameID    string    `json:"game_id"`
	Marker    string    `json:"marker,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
