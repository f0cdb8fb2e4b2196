// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file.
// Durations may be given as strings ("30s") or as nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		PasswordCost  int      `json:"password_cost"`
		Version       string   `json:"version"`
		LogLevel      string   `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Driver           string `json:"driver"`
			DSN              string `json:"dsn"`
			NoteIDAllocation string `json:"note_id_allocation"`
			MaxIDAttempts    int    `json:"max_id_attempts"`
			MaxOpenConns     int    `json:"max_open_conns"`
		} `json:"db,omitempty"`

		Objects struct {
			Bucket         string   `json:"bucket"`
			Region         string   `json:"region"`
			Endpoint       string   `json:"endpoint"`
			AccessKey      string   `json:"access_key"`
			SecretKey      string   `json:"secret_key"`
			CDNBaseURL     string   `json:"cdn_base_url"`
			UsePathStyle   bool     `json:"use_path_style"`
			MaxAttempts    int      `json:"max_attempts"`
			RetryBaseDelay Duration `json:"retry_base_delay"`
		} `json:"objects,omitempty"`

		Cache struct {
			RedisURL string `json:"redis_url"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AuthMode       string   `json:"auth_mode"`
		CookieSecure   bool     `json:"cookie_secure"`
		MaxUploadSize  int64    `json:"max_upload_size"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		DBStatsInterval Duration `json:"db_stats_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			PasswordCost:  jsonCfg.App.PasswordCost,
			Version:       jsonCfg.App.Version,
			LogLevel:      jsonCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				Driver:           jsonCfg.Storage.DB.Driver,
				DSN:              jsonCfg.Storage.DB.DSN,
				NoteIDAllocation: jsonCfg.Storage.DB.NoteIDAllocation,
				MaxIDAttempts:    jsonCfg.Storage.DB.MaxIDAttempts,
				MaxOpenConns:     jsonCfg.Storage.DB.MaxOpenConns,
			},
			Objects: Objects{
				Bucket:         jsonCfg.Storage.Objects.Bucket,
				Region:         jsonCfg.Storage.Objects.Region,
				Endpoint:       jsonCfg.Storage.Objects.Endpoint,
				AccessKey:      jsonCfg.Storage.Objects.AccessKey,
				SecretKey:      jsonCfg.Storage.Objects.SecretKey,
				CDNBaseURL:     jsonCfg.Storage.Objects.CDNBaseURL,
				UsePathStyle:   jsonCfg.Storage.Objects.UsePathStyle,
				MaxAttempts:    jsonCfg.Storage.Objects.MaxAttempts,
				RetryBaseDelay: time.Duration(jsonCfg.Storage.Objects.RetryBaseDelay),
			},
			Cache: Cache{
				RedisURL: jsonCfg.Storage.Cache.RedisURL,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AuthMode:       jsonCfg.Server.AuthMode,
			CookieSecure:   jsonCfg.Server.CookieSecure,
			MaxUploadSize:  jsonCfg.Server.MaxUploadSize,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			DBStatsInterval: time.Duration(jsonCfg.Workers.DBStatsInterval),
		},
	}

	return cfg, nil
}

// Duration is a time.Duration that unmarshals from either a duration string
// or a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
