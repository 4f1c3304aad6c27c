package betrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound indica que a aposta não existe
var ErrNotFound = errors.New("wager not found")

// Postgres implementa operações de persistência de apostas em banco Postgres.
// Toda mutação terminal passa por compare-and-swap: o UPDATE só aplica se a
// aposta ainda estiver PENDING, garantindo resolução exactly-once mesmo com
// tentativas concorrentes.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const wagerColumns = `id, mode_key, league, game_id, status, winning_outcome, config, resolution_time`

func scanWager(rows interface{ Scan(...any) error }) (Wager, error) {
	var w Wager
	err := rows.Scan(&w.ID, &w.ModeKey, &w.League, &w.GameID, &w.Status, &w.WinningOutcome, &w.Config, &w.ResolutionTime)
	return w, err
}

// Get retorna uma aposta pelo id
func (p *Postgres) Get(ctx context.Context, wagerID string) (Wager, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+wagerColumns+` FROM wagers WHERE id=$1`, wagerID)
	w, err := scanWager(row)
	if err == sql.ErrNoRows {
		return Wager{}, ErrNotFound
	}
	return w, err
}

// ListPending retorna todas as apostas PENDING de um modo
func (p *Postgres) ListPending(ctx context.Context, modeKey string) ([]Wager, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+wagerColumns+` FROM wagers WHERE mode_key=$1 AND status='PENDING'`, modeKey)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// ListPendingForGame retorna as apostas PENDING de um modo em um jogo
func (p *Postgres) ListPendingForGame(ctx context.Context, modeKey, gameID string) ([]Wager, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+wagerColumns+` FROM wagers WHERE mode_key=$1 AND game_id=$2 AND status='PENDING'`,
		modeKey, gameID)
	if err != nil {
		return nil, fmt.Errorf("list pending for game: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]Wager, error) {
	var out []Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// SetWinningOutcome grava o resultado vencedor via compare-and-swap.
// Devolve false quando outra tentativa já resolveu a aposta; isso não é
// erro, é "nada a fazer".
func (p *Postgres) SetWinningOutcome(ctx context.Context, wagerID, outcome string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE wagers
		SET status='RESOLVED', winning_outcome=$2, resolution_time=NOW(), updated_at=NOW()
		WHERE id=$1 AND status='PENDING' AND winning_outcome IS NULL`,
		wagerID, outcome)
	if err != nil {
		return false, fmt.Errorf("set winning outcome: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Wash move a aposta para WASHED via o mesmo compare-and-swap da resolução
// (wash também é uma corrida por estado terminal). Limpa qualquer outcome.
func (p *Postgres) Wash(ctx context.Context, wagerID string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE wagers
		SET status='WASHED', winning_outcome=NULL, resolution_time=NOW(), updated_at=NOW()
		WHERE id=$1 AND status='PENDING'`,
		wagerID)
	if err != nil {
		return false, fmt.Errorf("wash wager: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RecordHistory insere um evento no histórico append-only da aposta
func (p *Postgres) RecordHistory(ctx context.Context, wagerID, eventType string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal history payload: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO wager_history (id, wager_id, event_type, payload, created_at)
		VALUES ($1,$2,$3,$4,NOW())`,
		uuid.NewString(), wagerID, eventType, b)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}
