package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; missing is not an error.
	godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
