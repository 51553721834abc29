/*
 * Copyright 2025 Author(s) of OpenPhone MCP
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mcpserver exposes the tool registry over the Model Context
// Protocol, using the official go-sdk server over stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcpany/openphone/pkg/appconsts"
	"github.com/mcpany/openphone/pkg/logging"
	"github.com/mcpany/openphone/pkg/schema"
	"github.com/mcpany/openphone/pkg/tool"
)

// NewServer builds an MCP server advertising every tool in the registry. Each
// advertised tool carries the JSON Schema rendered from its declared
// constraints, and its handler delegates to the registry's dispatch boundary.
func NewServer(manager *tool.Manager) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    appconsts.Name,
		Version: appconsts.Version,
	}, &mcp.ServerOptions{})

	for _, def := range manager.List() {
		server.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schema.JSONSchema(def.Schema),
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args map[string]any
			if len(req.Params.Arguments) > 0 {
				if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
					return nil, fmt.Errorf("invalid arguments json: %w", err)
				}
			}
			return manager.Dispatch(ctx, req.Params.Name, args)
		})
	}

	return server
}

// RunStdio serves MCP over standard input and output until the context is
// cancelled or the client disconnects.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	logging.GetLogger().Info("starting in stdio mode")
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over the streamable HTTP transport on addr, shutting
// down gracefully when the context is cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	log := logging.GetLogger()
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown failed", "error", err)
		}
	}()

	log.Info("starting in http mode", "address", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
