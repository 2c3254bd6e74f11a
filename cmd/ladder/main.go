// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/controlrox/ladder/pkg/logging"
)

// Config is the ladder.yaml file layout.
type Config struct {
	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
		JSON  bool   `yaml:"json"`
	} `yaml:"logging"`

	// Dialect is the default vendor dialect for document commands.
	Dialect string `yaml:"dialect"`
}

var (
	config Config
	logger *logging.Logger
)

func main() {
	defer func() {
		if logger != nil {
			logger.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		loadConfig()

		logger = logging.New(logging.Config{
			Level:   logging.ParseLevel(config.Logging.Level),
			LogDir:  config.Logging.Dir,
			Service: "ladder",
			JSON:    config.Logging.JSON,
			Quiet:   true,
		})
	}
}

// loadConfig reads ladder.yaml from the working directory. A missing
// file is fine; defaults apply.
func loadConfig() {
	data, err := os.ReadFile("ladder.yaml")
	if err != nil {
		config.Dialect = "rockwell"
		return
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ignoring malformed ladder.yaml: %v\n", err)
	}
	if config.Dialect == "" {
		config.Dialect = "rockwell"
	}
}
