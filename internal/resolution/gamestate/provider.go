package gamestate

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable indica que não existe snapshot para o jogo no momento.
// O kernel trata isso pulando o tick, sem mutação de estado.
var ErrUnavailable = errors.New("game snapshot unavailable")

// Provider é a interface de leitura de snapshots de jogos. A implementação
// padrão lê do Redis alimentado pelo pipeline de ingestão; o engine nunca
// escreve nem invalida essas chaves.
type Provider interface {
	Snapshot(ctx context.Context, league, gameID string) (*Snapshot, error)
}

// RedisProvider lê snapshots gravados pelo pipeline em "gamestate:<liga>:<id>"
type RedisProvider struct {
	R *redis.Client
}

func NewRedisProvider(r *redis.Client) *RedisProvider { return &RedisProvider{R: r} }

func key(league, gameID string) string { return "gamestate:" + league + ":" + gameID }

func (p *RedisProvider) Snapshot(ctx context.Context, league, gameID string) (*Snapshot, error) {
	b, err := p.R.Get(ctx, key(league, gameID)).Bytes()
	if err == redis.Nil {
		return nil, ErrUnavailable
	}
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	if snap.League == "" {
		snap.League = league
	}
	if snap.GameID == "" {
		snap.GameID = gameID
	}
	return &snap, nil
}
