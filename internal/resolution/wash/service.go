package wash

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/betrepo"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// Repo é o recorte do repositório usado pelo serviço de wash
type Repo interface {
	Wash(ctx context.Context, wagerID string) (bool, error)
	RecordHistory(ctx context.Context, wagerID, eventType string, payload any) error
}

// Event é o payload gravado no histórico de um wash
type Event struct {
	Result      string    `json:"result"` // sempre "washed"
	Reason      string    `json:"reason"`
	Explanation string    `json:"explanation"`
	WashedAt    time.Time `json:"washed_at"`
}

// Service anula apostas: CAS para WASHED, evento de histórico com o motivo
// estruturado e limpeza do registro de progresso.
type Service struct {
	Log      *zap.Logger
	Repo     Repo
	Progress progress.Store
}

func NewService(log *zap.Logger, repo Repo, store progress.Store) *Service {
	return &Service{Log: log, Repo: repo, Progress: store}
}

// Wash move uma aposta ainda PENDING para WASHED. Perder a corrida do CAS
// (applied=false) significa que outra tentativa já liquidou a aposta — não é
// erro. Falha ao gravar histórico é logada e não bloqueia.
func (s *Service) Wash(ctx context.Context, wagerID, reason, explanation string) (bool, error) {
	applied, err := s.Repo.Wash(ctx, wagerID)
	if err != nil {
		return false, err
	}
	if !applied {
		s.Log.Debug("wash lost terminal-state race",
			zap.String("wagerId", wagerID), zap.String("reason", reason))
		return false, nil
	}

	if err := s.Repo.RecordHistory(ctx, wagerID, betrepo.HistoryResult, Event{
		Result:      "washed",
		Reason:      reason,
		Explanation: explanation,
		WashedAt:    time.Now().UTC(),
	}); err != nil {
		s.Log.Warn("wash history insert failed", zap.String("wagerId", wagerID), zap.Error(err))
	}

	if err := s.Progress.Delete(ctx, wagerID); err != nil {
		s.Log.Warn("progress delete failed", zap.String("wagerId", wagerID), zap.Error(err))
	}

	s.Log.Info("wager washed",
		zap.String("wagerId", wagerID),
		zap.String("reason", reason),
		zap.String("explanation", explanation),
	)
	return true, nil
}
