package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// startupGraceDelay is how long the worker waits before an immediate draw when
// no next fire time can be recovered from the store
const startupGraceDelay = 5 * time.Second

// DrawWorker owns the lottery draw schedule. It recovers its next fire time
// from the latest persisted round, so an overdue draw fires shortly after the
// process comes back up.
type DrawWorker struct {
	uowFactory UnitOfWorkFactory
	lotto      LottoService
	interval   time.Duration
}

// NewDrawWorker creates a new lottery draw worker
func NewDrawWorker(uowFactory UnitOfWorkFactory, lotto LottoService, interval time.Duration) *DrawWorker {
	return &DrawWorker{
		uowFactory: uowFactory,
		lotto:      lotto,
		interval:   interval,
	}
}

// Start begins the draw worker goroutine and returns a stop function
func (w *DrawWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Lottery draw worker started")

		next := w.NextFireTime(ctx)
		for {
			waitDuration := time.Until(next)
			if waitDuration > 0 {
				log.Infof("Next lottery draw at %v (in %v)", next.UTC(), waitDuration)
				select {
				case <-ctx.Done():
					log.Info("Lottery draw worker shutting down (context cancelled)")
					return
				case <-stopChan:
					log.Info("Lottery draw worker shutting down (stop requested)")
					return
				case <-time.After(waitDuration):
				}
			}

			if _, err := w.lotto.ConductDraw(ctx); err != nil {
				log.Errorf("Error conducting lottery draw: %v", err)
			}

			next = time.Now().Add(w.interval)
		}
	}()

	return func() {
		close(stopChan)
	}
}

// NextFireTime recovers the draw schedule from the store: an incomplete round
// fires one interval after its creation (immediately if overdue), anything
// else fires after a short grace delay.
func (w *DrawWorker) NextFireTime(ctx context.Context) time.Time {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction for next fire time: %v", err)
		return time.Now().Add(startupGraceDelay)
	}
	defer uow.Rollback()

	round, err := uow.LottoRepository().GetLatestRound(ctx)
	if err != nil {
		log.Errorf("Failed to get latest round: %v", err)
		return time.Now().Add(startupGraceDelay)
	}

	if round != nil && !round.Completed {
		return round.CreationDate.Add(w.interval)
	}

	return time.Now().Add(startupGraceDelay)
}
