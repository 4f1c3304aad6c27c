package feed

import (
	"context"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/pkg/contracts/events"
)

// ChangeFeed entrega transições de status de apostas. O kernel não assume
// transporte: qualquer sequência assíncrona reiniciável serve.
type ChangeFeed interface {
	Next(ctx context.Context) (events.WagerChange, error)
	Close() error
}

// UpdateFeed entrega avisos de snapshot novo por jogo
type UpdateFeed interface {
	Next(ctx context.Context) (events.GameUpdate, error)
	Close() error
}
