package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "idempotency:v1:"
	inProgressMarker     = "__in_progress__"

	storeTimeout = 2 * time.Second
)

type storedResponse struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

// Idempotency enforces idempotent semantics on unsafe HTTP methods: the first
// response produced for a given Idempotency-Key is persisted in Redis and
// replayed for retries within the TTL. A retry racing the original request
// receives a conflict instead of a second execution.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	store := &idempotencyStore{cache: cache, ttl: ttl, logger: logger}

	return func(c *fiber.Ctx) error {
		switch strings.ToUpper(c.Method()) {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		key := c.Get(idempotencyKeyHeader)
		if key == "" {
			return fiber.NewError(fiber.StatusBadRequest, "missing Idempotency-Key header")
		}

		replayed, err := store.replay(c, key)
		if err != nil {
			return err
		}
		if replayed {
			return nil
		}

		if err := store.reserve(key); err != nil {
			return err
		}

		if err := c.Next(); err != nil {
			store.release(key)
			return err
		}

		return store.persist(c, key)
	}
}

type idempotencyStore struct {
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// replay writes the previously stored response for the key, if any. It
// reports whether the request was answered from the store.
func (s *idempotencyStore) replay(c *fiber.Ctx, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	cached, err := s.cache.Get(ctx, idempotencyPrefix+key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		s.logger.Error("idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
		return false, fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
	}

	if cached == inProgressMarker {
		return false, fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(cached), &stored); err != nil {
		s.logger.Warn("failed to decode stored idempotent response", slog.String("key", key), slog.Any("error", err))
		return false, fiber.NewError(fiber.StatusConflict, "duplicate request")
	}

	for header, value := range stored.Headers {
		if strings.EqualFold(header, fiber.HeaderContentLength) {
			continue
		}
		c.Set(header, value)
	}
	return true, c.Status(stored.Status).SendString(stored.Body)
}

// reserve marks the key as in flight so concurrent retries conflict.
func (s *idempotencyStore) reserve(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.cache.SetNX(ctx, idempotencyPrefix+key, inProgressMarker, s.ttl).Err(); err != nil {
		s.logger.Error("idempotency reservation failed", slog.String("key", key), slog.Any("error", err))
		return fiber.NewError(fiber.StatusInternalServerError, "idempotency reservation failure")
	}
	return nil
}

// release drops the reservation after a handler error; best effort.
func (s *idempotencyStore) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	s.cache.Del(ctx, idempotencyPrefix+key)
}

// persist replaces the reservation with the final handler response.
func (s *idempotencyStore) persist(c *fiber.Ctx, key string) error {
	stored := storedResponse{
		Status:  c.Response().StatusCode(),
		Body:    string(c.Response().Body()),
		Headers: map[string]string{},
	}
	c.Response().Header.VisitAll(func(k, v []byte) {
		stored.Headers[string(k)] = string(v)
	})

	payload, err := json.Marshal(stored)
	if err != nil {
		s.logger.Error("failed to encode idempotent response", slog.String("key", key), slog.Any("error", err))
		s.release(key)
		return fiber.NewError(fiber.StatusInternalServerError, "idempotency persistence failure")
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.cache.Set(ctx, idempotencyPrefix+key, payload, s.ttl).Err(); err != nil {
		s.logger.Error("failed to persist idempotent response", slog.String("key", key), slog.Any("error", err))
		s.cache.Del(ctx, idempotencyPrefix+key)
		return fiber.NewError(fiber.StatusInternalServerError, "idempotency persistence failure")
	}
	return nil
}
