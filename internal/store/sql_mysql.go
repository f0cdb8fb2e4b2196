// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/MKhiriev/go-diary-keeper/internal/config"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
)

// MySQL server error numbers used by the classifier.
const (
	mysqlErrDupEntry        = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrLockDeadlock    = 1213
	mysqlErrServerGone      = 2006
	mysqlErrServerLost      = 2013
)

// NewConnectMySQL opens and pings a MySQL connection pool. parseTime is
// forced on so that DATETIME columns scan into time.Time, and clientFoundRows
// so that an update writing unchanged values still counts its matched row.
func NewConnectMySQL(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	dsn, err := mysqlDSN(cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectMySQL").Msg("invalid mysql dsn")
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}

	conn, err := sql.Open(config.DriverMySQL, dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectMySQL").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectMySQL").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, err
	}
	log.Info().Str("func", "NewConnectMySQL").Msg("connected to database successfully")

	return newDB(conn, config.DriverMySQL, NewMySQLErrorClassifier(), log), nil
}

func mysqlDSN(raw string) (string, error) {
	cfg, err := mysql.ParseDSN(raw)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// mysqlUniqueViolation returns the key named in a duplicate entry error,
// e.g. "users.users_email_key".
func mysqlUniqueViolation(err error) (string, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != mysqlErrDupEntry {
		return "", false
	}

	msg := myErr.Message
	if i := strings.LastIndex(msg, "for key '"); i >= 0 {
		return strings.TrimSuffix(msg[i+len("for key '"):], "'"), true
	}
	return msg, true
}

// MySQLErrorClassifier implements [ErrorClassificator] for MySQL.
// Deadlocks, lock wait timeouts and dropped connections are transient.
type MySQLErrorClassifier struct{}

func NewMySQLErrorClassifier() *MySQLErrorClassifier {
	return &MySQLErrorClassifier{}
}

// Classify implements [ErrorClassificator].
func (c *MySQLErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) {
		return Retryable
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrLockDeadlock, mysqlErrLockWaitTimeout, mysqlErrServerGone, mysqlErrServerLost:
			return Retryable
		}
	}
	return NonRetryable
}
