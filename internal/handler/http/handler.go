// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/internal/metrics"
	"github.com/MKhiriev/go-diary-keeper/internal/service"
)

// defaultMaxUploadSize bounds note forms when no limit is configured.
const defaultMaxUploadSize = 64 << 20

type Handler struct {
	services *service.Services

	// metrics may be nil, in which case nothing is recorded and /metrics
	// is not served.
	metrics *metrics.Metrics

	// authMode is config.AuthModeHeader or config.AuthModeCookie.
	authMode      string
	cookieSecure  bool
	maxUploadSize int64

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, m *metrics.Metrics, logger *logger.Logger) *Handler {
	authMode := cfg.AuthMode
	if authMode == "" {
		authMode = config.AuthModeHeader
	}
	maxUploadSize := cfg.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}

	logger.Info().Str("auth_mode", authMode).Msg("http handler created")
	return &Handler{
		services:      services,
		metrics:       m,
		authMode:      authMode,
		cookieSecure:  cfg.CookieSecure,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}
