package api

import (
	"context"
	"time"

	"bolao/service"

	log "github.com/sirupsen/logrus"
)

// StartPoolScanWorker starts a background worker that periodically derives
// pool statuses and raises overdue-settlement alerts.
// Returns a cleanup function to stop the worker gracefully.
func StartPoolScanWorker(ctx context.Context, pools service.PoolService, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	runScan := func() {
		if err := pools.RunStatusScan(context.Background()); err != nil {
			log.Errorf("Error running pool status scan: %v", err)
		}
	}

	go func() {
		log.Info("Pool scan worker started")

		// Run immediately on startup
		runScan()

		for {
			select {
			case <-ctx.Done():
				log.Info("Pool scan worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Pool scan worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				runScan()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
