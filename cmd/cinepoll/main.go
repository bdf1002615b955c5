package main

import "github.com/joho/godotenv"

func main() {
	// Optional .env feeds the config's environment substitutions.
	_ = godotenv.Load()
	Execute()
}
