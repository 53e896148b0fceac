package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"points_economy/internal/config"
	"points_economy/internal/domain"
	httpserver "points_economy/internal/http"
	"points_economy/internal/repository"
	"points_economy/internal/service"
)

func TestE2E_EventPushesNotifications(t *testing.T) {
	dbp := connectDB(t)
	ctx := context.Background()

	userID := freshUserID()

	// an achievement the first event completes, so the feed carries both a
	// completion frame and a wallet update
	achievements := repository.NewAchievementRepository(dbp)
	def, err := achievements.UpsertDefinition(ctx, &domain.AchievementDefinition{
		ID:          uuid.New(),
		Key:         "a_" + uuid.NewString()[:8],
		Name:        "First Event",
		TriggerKind: domain.TriggerCount,
		EventKind:   domain.EventHabitCompleted,
		Target:      1,
		RewardCoins: 10,
		RewardXP:    20,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("seed achievement: %v", err)
	}

	service.InitJWT("test-secret")
	token, err := service.GenerateJWT(userID)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}

	// start server with real routes
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	cfg := &config.Config{
		APIRateLimit:      1000,
		APIRateWindow:     60,
		EconomyRateLimit:  1000,
		EconomyRateWindow: 60,
	}
	httpserver.RegisterRoutes(r, dbp, "test", cfg)
	ts := httptest.NewServer(r)
	defer ts.Close()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// single reader goroutine so ReadMessage is never called concurrently
	frames := make(chan []byte, 16)
	go func() {
		defer close(frames)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames <- msg
		}
	}()

	body := []byte(`{"kind":"habit_completed"}`)
	req, err := http.NewRequest("POST", ts.URL+"/api/events", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post event: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("post event: status %d", res.StatusCode)
	}

	var eventResp struct {
		Completions []domain.Completion   `json:"completions"`
		Wallet      domain.WalletSnapshot `json:"wallet"`
	}
	if err := json.NewDecoder(res.Body).Decode(&eventResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	found := false
	for _, c := range eventResp.Completions {
		if c.Key == def.Key {
			found = true
		}
	}
	if !found {
		t.Fatalf("seeded achievement missing from completions: %+v", eventResp.Completions)
	}
	if eventResp.Wallet.Coins < 10 {
		t.Fatalf("wallet coins = %d, want >= 10", eventResp.Wallet.Coins)
	}

	waitFor := func(msgType string, tmo time.Duration) bool {
		deadline := time.Now().Add(tmo)
		for time.Now().Before(deadline) {
			select {
			case m, ok := <-frames:
				if !ok {
					return false
				}
				var obj map[string]any
				_ = json.Unmarshal(m, &obj)
				if obj["type"] == msgType {
					return true
				}
			case <-time.After(25 * time.Millisecond):
			}
		}
		return false
	}

	if !waitFor("achievement_earned", 2*time.Second) {
		t.Fatalf("no achievement_earned frame")
	}
	if !waitFor("wallet_update", 2*time.Second) {
		t.Fatalf("no wallet_update frame")
	}
}

func TestE2E_UnauthenticatedRejected(t *testing.T) {
	dbp := connectDB(t)

	gin.SetMode(gin.TestMode)
	r := gin.Default()
	cfg := &config.Config{
		APIRateLimit:      1000,
		APIRateWindow:     60,
		EconomyRateLimit:  1000,
		EconomyRateWindow: 60,
	}
	httpserver.RegisterRoutes(r, dbp, "test", cfg)
	ts := httptest.NewServer(r)
	defer ts.Close()

	res, err := http.Post(ts.URL+"/api/events", "application/json",
		strings.NewReader(`{"kind":"habit_completed"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}

	// bad ws token never upgrades
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("dial with bogus token succeeded")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("ws status = %d, want 401", resp.StatusCode)
	}
}
