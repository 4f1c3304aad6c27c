package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/betrepo"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/feed"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/mode"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/pkg/contracts/events"
)

// Repository é o recorte do repositório de apostas que o kernel usa
type Repository interface {
	ListPending(ctx context.Context, modeKey string) ([]betrepo.Wager, error)
	ListPendingForGame(ctx context.Context, modeKey, gameID string) ([]betrepo.Wager, error)
	SetWinningOutcome(ctx context.Context, wagerID, outcome string) (bool, error)
	RecordHistory(ctx context.Context, wagerID, eventType string, payload any) error
}

// Washer anula apostas com motivo auditável
type Washer interface {
	Wash(ctx context.Context, wagerID, reason, explanation string) (bool, error)
}

// passTimeout limita cada passe de avaliação. Avaliações em andamento rodam
// até o fim mesmo depois de Stop(): os commits são CAS idempotentes.
const passTimeout = 30 * time.Second

type gameKey struct{ league, gameID string }

// resultEvent é o payload de histórico de uma resolução
type resultEvent struct {
	Result     string    `json:"result"` // sempre "resolved"
	Outcome    string    `json:"outcome"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Kernel é o runtime de resolução de um modo: consome o change feed de
// apostas e o feed de updates de jogos, captura baselines e despacha
// avaliações para o evaluator do modo. Um kernel por mode key.
type Kernel struct {
	log       *zap.Logger
	evaluator mode.Evaluator
	repo      Repository
	store     progress.Store
	provider  gamestate.Provider
	washer    Washer
	changes   feed.ChangeFeed
	updates   feed.UpdateFeed
	metrics   Metrics

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// guarda cooperativa por processo: apostas com captura de baseline em
	// andamento. NÃO é um lock distribuído; com múltiplas instâncias só o
	// CAS do repositório impede resolução dupla.
	inflightMu sync.Mutex
	inflight   map[string]struct{}

	// coalescing: último update por jogo desde o passe anterior
	dirtyMu sync.Mutex
	dirty   map[gameKey]events.GameUpdate
	kick    chan struct{}
}

func New(
	log *zap.Logger,
	ev mode.Evaluator,
	repo Repository,
	store progress.Store,
	provider gamestate.Provider,
	washer Washer,
	changes feed.ChangeFeed,
	updates feed.UpdateFeed,
	metrics Metrics,
) *Kernel {
	return &Kernel{
		log:       log.With(zap.String("mode", ev.Key())),
		evaluator: ev,
		repo:      repo,
		store:     store,
		provider:  provider,
		washer:    washer,
		changes:   changes,
		updates:   updates,
		metrics:   metrics,
		inflight:  make(map[string]struct{}),
		dirty:     make(map[gameKey]events.GameUpdate),
		kick:      make(chan struct{}, 1),
	}
}

// Start sobe os loops do kernel e dispara a varredura de reconciliação
// inicial. Idempotente: chamadas repetidas são no-op.
func (k *Kernel) Start(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.started {
		return nil
	}
	k.started = true

	runCtx, cancel := context.WithCancel(ctx)
	k.cancel = cancel

	k.wg.Add(3)
	go k.changeLoop(runCtx)
	go k.updateLoop(runCtx)
	go k.dispatchLoop(runCtx)

	// repara estado perdido em restart: apostas PENDING sem ProgressRecord
	// recebem captura de baseline como se tivessem acabado de entrar
	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		if err := k.Resync(runCtx); err != nil && runCtx.Err() == nil {
			k.log.Warn("startup resync failed", zap.Error(err))
		}
	}()

	k.log.Info("kernel started")
	return nil
}

// Stop desliga os loops e espera o passe corrente terminar. Idempotente.
func (k *Kernel) Stop() {
	k.mu.Lock()
	if !k.started {
		k.mu.Unlock()
		return
	}
	k.started = false
	k.cancel()
	k.mu.Unlock()

	k.wg.Wait()
	k.log.Info("kernel stopped")
}

// Resync varre as apostas PENDING do modo e captura baseline das que não têm
// ProgressRecord. Roda no start e periodicamente via cron.
func (k *Kernel) Resync(ctx context.Context) error {
	wagers, err := k.repo.ListPending(ctx, k.evaluator.Key())
	if err != nil {
		return fmt.Errorf("resync list pending: %w", err)
	}

	repaired := 0
	for i := range wagers {
		w := &wagers[i]
		_, ok, err := k.store.Get(ctx, w.ID)
		if err != nil {
			k.log.Warn("resync progress lookup failed", zap.String("wagerId", w.ID), zap.Error(err))
			k.metrics.error("resync")
			continue
		}
		if ok {
			continue
		}
		if err := k.captureBaseline(ctx, w); err != nil {
			k.log.Warn("resync baseline capture failed", zap.String("wagerId", w.ID), zap.Error(err))
			k.metrics.error("resync")
			continue
		}
		repaired++
	}
	if repaired > 0 {
		k.log.Info("resync repaired baselines", zap.Int("count", repaired))
	}
	return nil
}

// changeLoop consome o change feed e reage a apostas entrando em PENDING
func (k *Kernel) changeLoop(ctx context.Context) {
	defer k.wg.Done()
	for {
		ev, err := k.changes.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			k.log.Warn("change feed read failed", zap.Error(err))
			k.metrics.error("change_feed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if ev.After == nil || ev.After.ModeKey != k.evaluator.Key() {
			continue
		}
		if !ev.BecamePending() {
			continue
		}

		w := wagerFromImage(ev.After)
		passCtx, cancel := context.WithTimeout(context.Background(), passTimeout)
		if err := k.captureBaseline(passCtx, &w); err != nil {
			k.log.Error("baseline capture failed", zap.String("wagerId", w.ID), zap.Error(err))
			k.metrics.error("baseline")
		}
		cancel()
	}
}

// updateLoop consome o feed de updates e marca jogos como sujos. Eventos
// repetidos do mesmo jogo dentro de um passe colapsam no mais recente.
func (k *Kernel) updateLoop(ctx context.Context) {
	defer k.wg.Done()
	for {
		ev, err := k.updates.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			k.log.Warn("update feed read failed", zap.Error(err))
			k.metrics.error("update_feed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		key := gameKey{league: ev.League, gameID: ev.GameID}
		k.dirtyMu.Lock()
		if _, dup := k.dirty[key]; dup {
			k.metrics.coalesced()
		}
		k.dirty[key] = ev
		k.dirtyMu.Unlock()

		select {
		case k.kick <- struct{}{}:
		default:
		}
	}
}

// dispatchLoop processa os jogos sujos em passes: jogos distintos em
// paralelo, apostas do mesmo jogo em sequência.
func (k *Kernel) dispatchLoop(ctx context.Context) {
	defer k.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-k.kick:
		}

		k.dirtyMu.Lock()
		batch := k.dirty
		k.dirty = make(map[gameKey]events.GameUpdate)
		k.dirtyMu.Unlock()

		var pass sync.WaitGroup
		for _, ev := range batch {
			pass.Add(1)
			go func(ev events.GameUpdate) {
				defer pass.Done()
				passCtx, cancel := context.WithTimeout(context.Background(), passTimeout)
				defer cancel()
				k.evaluateGame(passCtx, ev)
			}(ev)
		}
		pass.Wait()
	}
}

// evaluateGame avalia todas as apostas PENDING do modo em um jogo. Falha em
// uma aposta é registrada e nunca aborta o lote.
func (k *Kernel) evaluateGame(ctx context.Context, ev events.GameUpdate) {
	snap, err := k.provider.Snapshot(ctx, ev.League, ev.GameID)
	if err != nil {
		if errors.Is(err, gamestate.ErrUnavailable) {
			k.log.Debug("snapshot unavailable, skipping tick", zap.String("gameId", ev.GameID))
		} else {
			k.log.Warn("snapshot fetch failed", zap.String("gameId", ev.GameID), zap.Error(err))
			k.metrics.error("provider")
		}
		return
	}

	wagers, err := k.repo.ListPendingForGame(ctx, k.evaluator.Key(), ev.GameID)
	if err != nil {
		k.log.Warn("list pending failed", zap.String("gameId", ev.GameID), zap.Error(err))
		k.metrics.error("repository")
		return
	}

	for i := range wagers {
		if err := k.evaluateWager(ctx, &wagers[i], snap); err != nil {
			k.log.Error("wager evaluation failed",
				zap.String("wagerId", wagers[i].ID),
				zap.String("gameId", ev.GameID),
				zap.Error(err),
			)
			k.metrics.error("evaluate")
		}
	}
}

// evaluateWager processa um tick de uma aposta: decodifica config, carrega o
// progresso (recapturando baseline se ausente) e aplica a decisão do modo.
func (k *Kernel) evaluateWager(ctx context.Context, w *betrepo.Wager, snap *gamestate.Snapshot) error {
	// captura de baseline em andamento: adia para o próximo tick em vez de
	// competir com ela
	if k.capturing(w.ID) {
		k.log.Debug("baseline in flight, deferring evaluation", zap.String("wagerId", w.ID))
		return nil
	}

	cfg, err := k.evaluator.DecodeConfig(w.Config)
	if err != nil {
		if errors.Is(err, mode.ErrInvalidConfig) {
			_, werr := k.washer.Wash(ctx, w.ID, string(mode.WashInvalidThreshold), err.Error())
			k.metrics.washed(string(mode.WashInvalidThreshold))
			return werr
		}
		// config ilegível é transiente: pula o tick, tenta de novo no próximo
		return fmt.Errorf("mode config unreadable: %w", err)
	}

	rec, ok, err := k.store.Get(ctx, w.ID)
	if err != nil {
		return fmt.Errorf("progress lookup: %w", err)
	}
	if !ok {
		// nunca inicializado ou TTL expirado: os dois casos recapturam o
		// baseline agora (política explícita; o ponto zero de starting_now
		// desloca para o momento da recaptura)
		return k.captureBaseline(ctx, w)
	}

	dec, err := k.evaluator.Evaluate(cfg, rec, snap, time.Now().UTC())
	if err != nil {
		return err
	}
	k.metrics.evaluated()

	switch dec.Kind {
	case mode.DecisionNone:
		// persiste lastValues e renova o TTL
		if err := k.store.Set(ctx, rec); err != nil {
			return fmt.Errorf("progress update: %w", err)
		}
		return nil

	case mode.DecisionWinner:
		applied, err := k.repo.SetWinningOutcome(ctx, w.ID, dec.Outcome)
		if err != nil {
			return err
		}
		if applied {
			if herr := k.repo.RecordHistory(ctx, w.ID, betrepo.HistoryResult, resultEvent{
				Result:     "resolved",
				Outcome:    dec.Outcome,
				ResolvedAt: time.Now().UTC(),
			}); herr != nil {
				k.log.Warn("result history insert failed", zap.String("wagerId", w.ID), zap.Error(herr))
			}
			k.log.Info("wager resolved",
				zap.String("wagerId", w.ID),
				zap.String("outcome", dec.Outcome),
			)
			k.metrics.resolved()
		} else {
			k.log.Debug("lost resolution race", zap.String("wagerId", w.ID))
		}
		if derr := k.store.Delete(ctx, w.ID); derr != nil {
			k.log.Warn("progress delete failed", zap.String("wagerId", w.ID), zap.Error(derr))
		}
		return nil

	case mode.DecisionWash:
		if _, err := k.washer.Wash(ctx, w.ID, string(dec.Reason), dec.Explanation); err != nil {
			return err
		}
		k.metrics.washed(string(dec.Reason))
		return nil
	}
	return nil
}

// captureBaseline captura o baseline de uma aposta recém-PENDING, sob a
// guarda in-flight. Uma aposta anulada antes do baseline nunca ganha Record.
func (k *Kernel) captureBaseline(ctx context.Context, w *betrepo.Wager) error {
	if !k.acquire(w.ID) {
		return nil
	}
	defer k.release(w.ID)

	// corrida benigna: outra captura pode ter terminado antes da guarda
	if _, ok, err := k.store.Get(ctx, w.ID); err != nil {
		return fmt.Errorf("progress lookup: %w", err)
	} else if ok {
		return nil
	}

	cfg, err := k.evaluator.DecodeConfig(w.Config)
	if err != nil {
		if errors.Is(err, mode.ErrInvalidConfig) {
			_, werr := k.washer.Wash(ctx, w.ID, string(mode.WashInvalidThreshold), err.Error())
			k.metrics.washed(string(mode.WashInvalidThreshold))
			return werr
		}
		return fmt.Errorf("mode config unreadable: %w", err)
	}

	snap, err := k.provider.Snapshot(ctx, w.League, w.GameID)
	if err != nil {
		if errors.Is(err, gamestate.ErrUnavailable) {
			k.log.Debug("snapshot unavailable, baseline deferred", zap.String("wagerId", w.ID))
			return nil
		}
		return fmt.Errorf("snapshot fetch: %w", err)
	}

	rec, washDec, err := k.evaluator.CaptureBaseline(cfg, snap, time.Now().UTC())
	if err != nil {
		return err
	}
	if washDec != nil {
		if _, err := k.washer.Wash(ctx, w.ID, string(washDec.Reason), washDec.Explanation); err != nil {
			return err
		}
		k.metrics.washed(string(washDec.Reason))
		return nil
	}

	rec.WagerID = w.ID
	if rec.GameID == "" {
		rec.GameID = w.GameID
	}
	if err := k.store.Set(ctx, rec); err != nil {
		return fmt.Errorf("progress set: %w", err)
	}

	if herr := k.repo.RecordHistory(ctx, w.ID, betrepo.HistoryBaseline, rec); herr != nil {
		k.log.Warn("baseline history insert failed", zap.String("wagerId", w.ID), zap.Error(herr))
	}

	k.log.Info("baseline captured",
		zap.String("wagerId", w.ID),
		zap.String("gameId", rec.GameID),
		zap.String("statKey", rec.StatKey),
	)
	k.metrics.baseline()
	return nil
}

func (k *Kernel) acquire(wagerID string) bool {
	k.inflightMu.Lock()
	defer k.inflightMu.Unlock()
	if _, busy := k.inflight[wagerID]; busy {
		return false
	}
	k.inflight[wagerID] = struct{}{}
	return true
}

func (k *Kernel) release(wagerID string) {
	k.inflightMu.Lock()
	delete(k.inflight, wagerID)
	k.inflightMu.Unlock()
}

func (k *Kernel) capturing(wagerID string) bool {
	k.inflightMu.Lock()
	defer k.inflightMu.Unlock()
	_, busy := k.inflight[wagerID]
	return busy
}

func wagerFromImage(img *events.WagerImage) betrepo.Wager {
	return betrepo.Wager{
		ID:      img.WagerID,
		ModeKey: img.ModeKey,
		League:  img.League,
		GameID:  img.GameID,
		Status:  img.Status,
		Config:  img.Config,
	}
}
