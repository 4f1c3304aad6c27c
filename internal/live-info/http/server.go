package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/betrepo"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/live"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/modes"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
)

// Repo é o recorte de leitura do repositório de apostas
type Repo interface {
	Get(ctx context.Context, wagerID string) (betrepo.Wager, error)
}

// Server expõe a projeção live de apostas em rastreamento. Só leitura:
// nenhuma rota muta estado.
type Server struct {
	log      *zap.Logger
	repo     Repo
	store    progress.Store
	provider gamestate.Provider
}

func NewServer(log *zap.Logger, repo Repo, store progress.Store, provider gamestate.Provider) *Server {
	return &Server{log: log, repo: repo, store: store, provider: provider}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/wagers/{wagerID}/live", s.getLiveInfo)
	return r
}

type liveResponse struct {
	WagerID string      `json:"wager_id"`
	ModeKey string      `json:"mode_key"`
	Status  string      `json:"status"`
	Pairs   []live.Pair `json:"pairs"`
}

func (s *Server) getLiveInfo(w http.ResponseWriter, r *http.Request) {
	wagerID := chi.URLParam(r, "wagerID")

	wager, err := s.repo.Get(r.Context(), wagerID)
	if err != nil {
		if errors.Is(err, betrepo.ErrNotFound) {
			http.Error(w, "wager not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := liveResponse{WagerID: wager.ID, ModeKey: wager.ModeKey, Status: wager.Status}

	// sem registro de progresso (ainda sem baseline, ou já liquidada) a
	// projeção é vazia mas a resposta ainda carrega o status
	rec, ok, err := s.store.Get(r.Context(), wagerID)
	if err == nil && ok {
		if ev, rerr := modes.Get(wager.ModeKey); rerr == nil {
			if cfg, derr := ev.DecodeConfig(wager.Config); derr == nil {
				snap, serr := s.provider.Snapshot(r.Context(), wager.League, wager.GameID)
				if serr == nil {
					resp.Pairs = live.Project(cfg, rec, snap)
				} else if !errors.Is(serr, gamestate.ErrUnavailable) {
					s.log.Warn("snapshot fetch failed", zap.String("wagerId", wagerID), zap.Error(serr))
				}
			}
		}
	} else if err != nil {
		s.log.Warn("progress lookup failed", zap.String("wagerId", wagerID), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
