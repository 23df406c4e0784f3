package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/railpay/railpay/internal/logging"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	calls := 0
	app.Post("/transfers", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"call": calls})
	})

	return app
}

func postTransfer(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/transfers", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(body)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	app := setupTestApp(t)

	status, _ := postTransfer(t, app, "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, status)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app := setupTestApp(t)

	status, body := postTransfer(t, app, "abc123")
	if status != fiber.StatusAccepted {
		t.Fatalf("expected status %d got %d", fiber.StatusAccepted, status)
	}

	// A retry with the same key must return the stored response without
	// running the handler again.
	retryStatus, retryBody := postTransfer(t, app, "abc123")
	if retryStatus != fiber.StatusAccepted {
		t.Fatalf("expected replayed status %d got %d", fiber.StatusAccepted, retryStatus)
	}
	if retryBody != body {
		t.Fatalf("expected replayed body %s got %s", body, retryBody)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(retryBody), &decoded); err != nil {
		t.Fatalf("replayed body invalid json: %v", err)
	}
}

func TestIdempotencyDistinctKeysRunSeparately(t *testing.T) {
	app := setupTestApp(t)

	_, first := postTransfer(t, app, "key-1")
	_, second := postTransfer(t, app, "key-2")
	if first == second {
		t.Fatalf("expected distinct handler executions, got %s twice", first)
	}
}

func TestIdempotencySkipsSafeMethods(t *testing.T) {
	app := setupTestApp(t)
	app.Get("/status", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/status", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected GET without key to pass, got %d", resp.StatusCode)
	}
}
