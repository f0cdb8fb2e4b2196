// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the diary API.
//
// Each invocation runs one command (signup, login, notes, create, ...)
// against the server through an [adapter.ServerAdapter] and renders the
// result to a writer.
package client
