package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
	"github.com/biz-cto/rag-chatbot/internal/core/services"
)

// Ensure Worker satisfies the admin service's reload contract.
var _ services.Reloader = (*Worker)(nil)

// Worker re-ingests documents and rebuilds embeddings in the background.
// Reload requests are coalesced: while one reload is queued or running,
// further requests are rejected rather than stacked behind it.
type Worker struct {
	store     driven.DocumentStore
	retriever *services.Retriever
	runtime   *domain.RuntimeConfig
	logger    *slog.Logger

	// Interval between periodic reloads; zero disables them.
	interval time.Duration

	// Internal state
	mu       sync.Mutex
	running  bool
	reloadCh chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Config holds configuration for the worker.
type Config struct {
	Store     driven.DocumentStore
	Retriever *services.Retriever
	Runtime   *domain.RuntimeConfig
	Logger    *slog.Logger
	// Interval between periodic reloads; zero disables periodic reloading.
	Interval time.Duration
}

// New creates a new ingestion worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:     cfg.Store,
		retriever: cfg.Retriever,
		runtime:   cfg.Runtime,
		logger:    logger,
		interval:  cfg.Interval,
		reloadCh:  make(chan struct{}, 1),
	}
}

// Start begins the worker loop. It runs until Stop is called or the
// context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("ingestion worker starting", "interval", w.interval)
	go w.run(ctx)
	return nil
}

// Stop halts the worker and waits for an in-flight reload to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	doneCh := w.doneCh
	w.mu.Unlock()

	<-doneCh
	w.logger.Info("ingestion worker stopped")
}

// RequestReload queues a reload without blocking. Returns false when a
// reload is already queued.
func (w *Worker) RequestReload() bool {
	select {
	case w.reloadCh <- struct{}{}:
		return true
	default:
		return false
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.doneCh)

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-w.reloadCh:
			w.reload(ctx)
		case <-tick:
			w.reload(ctx)
		}
	}
}

// reload re-ingests all documents and rebuilds their embeddings,
// updating the capability flags as it goes.
func (w *Worker) reload(ctx context.Context) {
	start := time.Now()
	w.logger.Info("document reload starting")

	if err := w.store.Load(ctx); err != nil {
		w.logger.Error("document reload failed", "error", err)
		return
	}
	w.runtime.SetDocumentsLoaded(w.store.Count() > 0)

	if err := w.retriever.InitEmbeddings(ctx); err != nil {
		w.logger.Error("embedding rebuild failed", "error", err)
	}
	w.runtime.SetEmbeddingAvailable(w.retriever.Ready())

	w.logger.Info("document reload finished",
		"chunks", w.store.Count(),
		"embeddings_ready", w.retriever.Ready(),
		"took", time.Since(start),
	)
}
