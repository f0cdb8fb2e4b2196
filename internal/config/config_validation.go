// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.App.validate(),
		cfg.Server.validate(),
		cfg.Storage.validate(),
		cfg.Workers.validate(),
	)
}

func (a App) validate() error {
	var errs []error
	if strings.TrimSpace(a.TokenSignKey) == "" {
		errs = append(errs, fmt.Errorf("%w: token sign key is empty", ErrInvalidAppConfigs))
	}
	if a.TokenIssuer == "" {
		errs = append(errs, fmt.Errorf("%w: token issuer is empty", ErrInvalidAppConfigs))
	}
	if a.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs))
	}
	return errors.Join(errs...)
}

func (s Server) validate() error {
	var errs []error
	if s.HTTPAddress == "" {
		errs = append(errs, fmt.Errorf("%w: address is empty", ErrInvalidServerConfigs))
	}
	if s.AuthMode != AuthModeHeader && s.AuthMode != AuthModeCookie {
		errs = append(errs, fmt.Errorf("%w: unknown auth mode %q", ErrInvalidServerConfigs, s.AuthMode))
	}
	if s.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: max upload size must be positive", ErrInvalidServerConfigs))
	}
	return errors.Join(errs...)
}

func (s Storage) validate() error {
	var errs []error

	switch s.DB.Driver {
	case DriverPostgres, DriverSQLite, DriverMySQL:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown db driver %q", ErrInvalidStorageConfigs, s.DB.Driver))
	}
	if s.DB.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: db dsn is empty", ErrInvalidStorageConfigs))
	}
	switch s.DB.NoteIDAllocation {
	case IDAllocationSequential, IDAllocationTransactional:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown note id allocation %q", ErrInvalidStorageConfigs, s.DB.NoteIDAllocation))
	}

	if s.Objects.Bucket == "" {
		errs = append(errs, fmt.Errorf("%w: object bucket is empty", ErrInvalidStorageConfigs))
	}
	if s.Objects.Region == "" {
		errs = append(errs, fmt.Errorf("%w: object region is empty", ErrInvalidStorageConfigs))
	}
	if s.Objects.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%w: object max attempts must be at least 1", ErrInvalidStorageConfigs))
	}
	for _, raw := range []string{s.Objects.Endpoint, s.Objects.CDNBaseURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%w: %q is not an absolute url", ErrInvalidStorageConfigs, raw))
		}
	}

	return errors.Join(errs...)
}

func (w Workers) validate() error {
	if w.DBStatsInterval <= 0 {
		return fmt.Errorf("%w: db stats interval must be positive", ErrInvalidWorkerConfigs)
	}
	return nil
}
