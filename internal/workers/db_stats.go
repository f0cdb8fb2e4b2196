// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/metrics"
)

// DBStatsWorker samples the database connection pool into Prometheus gauges.
type DBStatsWorker struct {
	db       statsSource
	metrics  *metrics.Metrics
	interval time.Duration
	logger   *logger.Logger
}

func NewDBStatsWorker(db statsSource, m *metrics.Metrics, interval time.Duration, logger *logger.Logger) *DBStatsWorker {
	return &DBStatsWorker{
		db:       db,
		metrics:  m,
		interval: interval,
		logger:   logger,
	}
}

// Run records the pool once immediately and then every interval until ctx
// is cancelled.
func (w *DBStatsWorker) Run(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("db stats worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.record()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("db stats worker stopped")
			return
		case <-ticker.C:
			w.record()
		}
	}
}

func (w *DBStatsWorker) record() {
	stats := w.db.Stats()
	w.metrics.RecordDBPoolStats(stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount, stats.WaitDuration)
}
