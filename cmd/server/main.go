// Copyright 2025 Author(s) of OpenPhone MCP
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the OpenPhone MCP server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcpany/openphone/pkg/appconsts"
	"github.com/mcpany/openphone/pkg/client"
	"github.com/mcpany/openphone/pkg/config"
	"github.com/mcpany/openphone/pkg/logging"
	"github.com/mcpany/openphone/pkg/mcpserver"
	"github.com/mcpany/openphone/pkg/openphone"
	"github.com/mcpany/openphone/pkg/tool"
)

// newRootCmd creates the main command for the server. It binds the
// command-line flags and OPENPHONE_* environment variables, loads and
// validates the settings, and starts the MCP server over stdio or streamable
// HTTP. Configuration violations abort startup before anything is served.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appconsts.Name,
		Short: "MCP server exposing the OpenPhone API as tools.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(viper.GetViper())
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logLevel := slog.LevelInfo
			if settings.IsDebug() {
				logLevel = slog.LevelDebug
			}

			// In stdio mode stdout carries JSON-RPC, so logs go to a file or
			// nowhere.
			var logOutput io.Writer = os.Stdout
			if settings.LogFile() != "" {
				f, err := os.OpenFile(settings.LogFile(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err != nil {
					return fmt.Errorf("failed to open logfile: %w", err)
				}
				defer f.Close()
				logOutput = f
			} else if settings.MCPListenAddress() == "" {
				logOutput = io.Discard
			}
			logging.Init(logLevel, logOutput)
			log := logging.GetLogger().With("service", appconsts.Name)

			gw := client.New(settings.BaseURL(), settings.APIKey(), settings.Timeout(), nil)
			manager := tool.NewManager(gw.Redactor())
			svc := openphone.NewService(gw, settings.ConfirmDestructive())
			if err := svc.RegisterAll(manager); err != nil {
				return fmt.Errorf("failed to register tools: %w", err)
			}

			server := mcpserver.NewServer(manager)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr := settings.MCPListenAddress(); addr != "" {
				err = mcpserver.RunHTTP(ctx, server, addr)
			} else {
				err = mcpserver.RunStdio(ctx, server)
			}
			if err != nil {
				log.Error("server failed", "error", err)
				return err
			}
			log.Info("shutdown complete")
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of " + appconsts.Name,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appconsts.Name, appconsts.Version)
			return err
		},
	}
	rootCmd.AddCommand(versionCmd)

	config.BindFlags(rootCmd)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
