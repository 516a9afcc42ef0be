// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command mcadmin runs the editor tasks of the club site: translation sync,
// standard pages, image uploads, geocoding and demo content.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mccastellazzob/motoclub/internal/config"
	"github.com/mccastellazzob/motoclub/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}

	// Logs go to stderr so command output on stdout stays clean.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	env := &cliEnv{
		loadConfig: config.Load,
		out:        os.Stdout,
		logger:     logger,
	}
	defer env.close()

	if err := newCLIApp(env, info).Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		env.close()
		os.Exit(1)
	}
}
