// Package main is the entrypoint of the sprawl CLI.
package main

import (
	"github.com/joho/godotenv"
	"github.com/sprawl-dev/sprawl/cmd"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

func main() {
	// A .env file is optional; SPRAWL_* variables may also come from the shell.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot execute command", err)
	}
}
