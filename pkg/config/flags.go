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

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BindFlags declares the command line flags and binds them, together with the
// OPENPHONE_* environment variables, to viper. Flags take precedence over the
// environment.
func BindFlags(cmd *cobra.Command) {
	cobra.OnInitialize(func() {
		viper.SetEnvPrefix("OPENPHONE")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
	})

	cmd.Flags().String("api-key", "", "OpenPhone API key. Env: OPENPHONE_API_KEY")
	cmd.Flags().String("base-url", "", "OpenPhone API base URL. Env: OPENPHONE_BASE_URL")
	cmd.Flags().String("timeout-ms", "", "Per-request timeout in milliseconds, minimum 1000. Env: OPENPHONE_TIMEOUT_MS")
	cmd.Flags().Bool("confirm-destructive", false, "Require a confirm parameter on destructive tools. Env: OPENPHONE_CONFIRM_DESTRUCTIVE")
	cmd.Flags().String("mcp-listen-address", "", "Serve MCP over streamable HTTP on this address instead of stdio. Env: OPENPHONE_MCP_LISTEN_ADDRESS")
	cmd.Flags().Bool("debug", false, "Enable debug logging. Env: OPENPHONE_DEBUG")
	cmd.Flags().String("logfile", "", "Path to a file to write logs to. Env: OPENPHONE_LOGFILE")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("Error binding command line flags: %v\n", err)
		os.Exit(1)
	}
}
