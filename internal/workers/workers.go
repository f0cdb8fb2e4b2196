// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/metrics"
	"github.com/MKhiriev/go-diary-keeper/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the background jobs enabled by cfg.
func NewWorkers(storages *store.Storages, cfg config.Workers, m *metrics.Metrics, logger *logger.Logger) *Workers {
	w := &Workers{}

	if cfg.DBStatsInterval > 0 && m != nil && storages.DB != nil {
		w.workers = append(w.workers, NewDBStatsWorker(storages.DB.DB, m, cfg.DBStatsInterval, logger))
	}

	return w
}

// Run starts every worker in its own goroutine and blocks until all of them
// have returned after ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func(worker Worker) {
			defer wg.Done()
			worker.Run(ctx)
		}(worker)
	}
	wg.Wait()
}
