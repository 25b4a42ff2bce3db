package background

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type RankReconciler interface {
	ReconcileRanks(ctx context.Context, batchSize int) (int, error)
}

type BackgroundTasks struct {
	Ranks             RankReconciler
	RankSyncInterval  time.Duration
	RankSyncBatchSize int
	Logger            *zap.Logger
}

func NewBackgroundTasks(ranks RankReconciler, interval time.Duration, batchSize int, logger *zap.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		Ranks:             ranks,
		RankSyncInterval:  interval,
		RankSyncBatchSize: batchSize,
		Logger:            logger,
	}
}

// Run blocks until ctx is done.
func (bt *BackgroundTasks) Run(ctx context.Context) error {
	if bt.RankSyncInterval <= 0 {
		bt.Logger.Info("rank reconciliation disabled")
		<-ctx.Done()
		return nil
	}
	bt.startRankReconcile(ctx)
	return nil
}

func (bt *BackgroundTasks) startRankReconcile(ctx context.Context) {
	ticker := time.NewTicker(bt.RankSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			promoted, err := bt.Ranks.ReconcileRanks(ctx, bt.RankSyncBatchSize)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				bt.Logger.Error("rank reconciliation failed", zap.Error(err))
				continue
			}
			if promoted > 0 {
				bt.Logger.Info("ranks reconciled", zap.Int("promoted", promoted))
			}
		}
	}
}
