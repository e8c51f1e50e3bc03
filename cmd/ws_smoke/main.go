package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"mine_empire/internal/service"
)

// Connects to a running server's event feed and prints everything received
// for a test account. Run a mint or collect in another terminal to see
// events flow.
func main() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	address := os.Getenv("SMOKE_ADDRESS")
	if address == "" {
		address = "0xtester"
	}

	service.InitJWT(jwtSecret)
	token, err := service.GenerateJWT(address)
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

	log.Printf("subscribed to event feed for %s, waiting 30s for events", address)

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			continue
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		log.Printf("event: kind=%v mine=%v amount=%v", obj["kind"], obj["mine"], obj["amount"])
	}

	log.Println("smoke test finished")
}
