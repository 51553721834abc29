// Copyright 2025 Author(s) of OpenPhone MCP
// SPDX-License-Identifier: Apache-2.0

package appconsts

const (
	// Name is the name of the OpenPhone MCP server binary. It is used in help
	// messages and in the MCP implementation info advertised to clients.
	Name = "openphone-mcp"
)

// Version is the version of the OpenPhone MCP server. This is a variable so it
// can be set at build time using ldflags. The default value is "dev", which is
// used for local development builds.
var Version = "dev"
