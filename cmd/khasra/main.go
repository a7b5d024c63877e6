package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/khasra-labs/khasra-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for OPENAI_API_KEY and friends; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
