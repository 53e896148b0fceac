package main

import (
	"flag"
	"log"
	"os"

	"points_economy/internal/service"
)

// Mints a bearer token for local testing. The real product issues tokens
// from its auth layer; this tool only needs the shared signing secret.
func main() {
	userID := flag.Int64("user", 1, "user id to embed in the token")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(*userID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
