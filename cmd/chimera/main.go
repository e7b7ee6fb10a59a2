package main

import "github.com/joho/godotenv"

func main() {
	// Missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	Execute()
}
