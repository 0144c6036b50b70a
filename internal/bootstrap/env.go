package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// Loadenv reads .env into the process environment before any config
// struct is constructed. Missing files are fine in deployed environments.
func Loadenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}
