package main

import (
	"os"

	"github.com/joho/godotenv"

	"studyplan/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
