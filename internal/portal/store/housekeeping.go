package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

// Housekeeper periodically purges expired visitor entries so abandoned
// devices and tabs do not pile up.
type Housekeeper struct {
	Store    Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeeper returns a Housekeeper. Non-positive intervals default to 1 hour.
func NewHousekeeper(s Store, logger *slog.Logger, interval time.Duration) *Housekeeper {
	if interval <= 0 {
		interval = time.Hour
	}

	return &Housekeeper{
		Store:    s,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs a purge immediately and then every Interval, in the background.
func (h *Housekeeper) Start() {
	go h.run()
	h.Logger.Info("housekeeping started", "interval", h.Interval)
}

// Stop blocks until an in-progress purge has finished.
func (h *Housekeeper) Stop() {
	close(h.stopCh)
	<-h.doneCh
	h.Logger.Info("housekeeping stopped")
}

func (h *Housekeeper) run() {
	defer close(h.doneCh)

	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()

	h.Purge(context.Background())

	for {
		select {
		case <-ticker.C:
			h.Purge(context.Background())
		case <-h.stopCh:
			return
		}
	}
}

// Purge runs one cleanup pass.
func (h *Housekeeper) Purge(ctx context.Context) {
	n, err := h.Store.DeleteExpired(ctx)
	if err != nil {
		h.Logger.Error("failed to delete expired visitor entries", slogx.Err(err))
		return
	}
	h.Logger.Debug("housekeeping pass completed", "deleted", n)
}
