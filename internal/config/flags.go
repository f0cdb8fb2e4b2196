// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress is a host:port pair accepted by the -a flag.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the server command-line arguments (without the program
// name) into a partial [StructuredConfig]. Unset flags leave zero values.
func ParseFlags(args []string) (*StructuredConfig, error) {
	var (
		serverAddress    NetAddress
		databaseDSN      string
		dbDriver         string
		idAllocation     string
		jsonConfigPath   string
		tokenSignKey     string
		tokenIssuer      string
		tokenDuration    time.Duration
		requestTimeout   time.Duration
		authMode         string
		bucket           string
		region           string
		endpoint         string
		cdnBaseURL       string
		redisURL         string
		logLevel         string
		maxUploadSize    int64
		uploadMaxAttempt int
	)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&dbDriver, "db-driver", "", "Database driver (pgx, sqlite3, mysql)")
	fs.StringVar(&idAllocation, "note-id-allocation", "", "Note id allocation (sequential, transactional)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&authMode, "auth-mode", "", "Token transport (header, cookie)")
	fs.StringVar(&bucket, "bucket", "", "Attachment bucket")
	fs.StringVar(&region, "region", "", "Attachment bucket region")
	fs.StringVar(&endpoint, "objects-endpoint", "", "Custom S3 endpoint")
	fs.StringVar(&cdnBaseURL, "cdn-base-url", "", "CDN base URL for attachments")
	fs.StringVar(&redisURL, "redis-url", "", "Redis URL for the token denylist")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.Int64Var(&maxUploadSize, "max-upload-size", 0, "Max multipart request size in bytes")
	fs.IntVar(&uploadMaxAttempt, "upload-max-attempts", 0, "Max attachment upload attempts")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			LogLevel:      logLevel,
		},
		Storage: Storage{
			DB: DB{
				Driver:           dbDriver,
				DSN:              databaseDSN,
				NoteIDAllocation: idAllocation,
			},
			Objects: Objects{
				Bucket:      bucket,
				Region:      region,
				Endpoint:    endpoint,
				CDNBaseURL:  cdnBaseURL,
				MaxAttempts: uploadMaxAttempt,
			},
			Cache: Cache{
				RedisURL: redisURL,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			AuthMode:       authMode,
			MaxUploadSize:  maxUploadSize,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set implements flag.Value. The host must be "localhost", empty or an IP.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
