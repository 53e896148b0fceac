package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"points_economy/internal/service"
)

// Smoke test for the notification feed against a running server: connect,
// fire one event over HTTP, print every frame the feed pushes back.
func main() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	userID := int64(3001)

	service.InitJWT(jwtSecret)
	token, err := service.GenerateJWT(userID)
	if err != nil {
		log.Fatalf("gen token: %v", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// one habit completion must push at least a wallet_update frame
	body := []byte(`{"kind":"habit_completed"}`)
	req, _ := http.NewRequest("POST", fmt.Sprintf("http://127.0.0.1:%s/api/events", port), bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("post event: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		log.Fatalf("post event: status %d", res.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	frames := 0
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		frames++
		log.Printf("frame: %s", msg)
	}

	if frames == 0 {
		log.Fatal("no frames received")
	}
	log.Println("smoke test finished")
}
