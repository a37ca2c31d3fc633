package handler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

type idempotencyEntry struct {
	Fingerprint string          `json:"fingerprint"`
	StatusCode  int             `json:"statusCode,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

// pending reports whether the first request holding the key has not finished yet.
func (e *idempotencyEntry) pending() bool {
	return e.StatusCode == 0
}

// recordingWriter tees the response so it can be replayed for a retried key.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(statusCode int) {
	rw.status = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func requestFingerprint(r *http.Request, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(r.Method + " " + r.URL.Path + "\n"))
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}

// idempotency replays the first response for a repeated Idempotency-Key.
// Server errors and panics are not remembered so the client can retry with the same key.
// A key reused with a different request is rejected.
func (h *Handler) idempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
		if key == "" || h.redisClient == nil {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > 255 {
			h.badRequest(w, r, errors.New("Idempotency-Key is too long"))
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			h.badRequest(w, r, errors.New("request body is too large"))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		shop := r.Context().Value(BarbershopCtx).(*domain.Barbershop)
		redisKey := "idem:" + shop.Slug + ":" + key
		fingerprint := requestFingerprint(r, body)
		ttl := time.Duration(h.config.Booking.IdempotencyTTL) * time.Second
		opTimeout := time.Duration(h.config.Redis.OperationTimeout) * time.Second

		pending, err := json.Marshal(idempotencyEntry{Fingerprint: fingerprint})
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
		claimed, err := h.redisClient.SetNX(ctx, redisKey, pending, ttl).Result()
		cancel()
		if err != nil {
			// fail open like rateLimit
			h.logger.Warn("idempotency store unavailable, serving without replay", "key", redisKey, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if !claimed {
			h.replay(w, r, redisKey, fingerprint)
			return
		}

		rw := &recordingWriter{ResponseWriter: w}
		defer func() {
			if p := recover(); p != nil {
				h.releaseIdempotencyKey(r, redisKey)
				panic(p)
			}
		}()
		next.ServeHTTP(rw, r)

		if rw.status >= http.StatusInternalServerError || rw.status == 0 {
			h.releaseIdempotencyKey(r, redisKey)
			return
		}
		h.storeIdempotentResponse(r, redisKey, idempotencyEntry{
			Fingerprint: fingerprint,
			StatusCode:  rw.status,
			Body:        bytes.TrimSpace(rw.body.Bytes()),
		})
	})
}

// settleContext outlives the request, the key must settle even after the client is gone.
func (h *Handler) settleContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
}

func (h *Handler) releaseIdempotencyKey(r *http.Request, redisKey string) {
	ctx, cancel := h.settleContext(r)
	defer cancel()

	if err := h.redisClient.Del(ctx, redisKey).Err(); err != nil {
		h.logger.Warn("failed to release idempotency key", "key", redisKey, "error", err)
	}
}

func (h *Handler) storeIdempotentResponse(r *http.Request, redisKey string, entry idempotencyEntry) {
	ctx, cancel := h.settleContext(r)
	defer cancel()

	stored, err := json.Marshal(entry)
	if err != nil {
		h.logger.Warn("failed to encode idempotent response", "key", redisKey, "error", err)
		h.releaseIdempotencyKey(r, redisKey)
		return
	}
	ttl := time.Duration(h.config.Booking.IdempotencyTTL) * time.Second
	if err := h.redisClient.Set(ctx, redisKey, stored, ttl).Err(); err != nil {
		h.logger.Warn("failed to store idempotent response", "key", redisKey, "error", err)
	}
}

func (h *Handler) replay(w http.ResponseWriter, r *http.Request, redisKey, fingerprint string) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	raw, err := h.redisClient.Get(ctx, redisKey).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		h.conflict(w, r, "request with this Idempotency-Key expired, retry")
		return
	case err != nil:
		h.internalServerError(w, r, err)
		return
	}

	var entry idempotencyEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	switch {
	case entry.Fingerprint != fingerprint:
		h.errorResponse(w, r, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
		return
	case entry.pending():
		h.conflict(w, r, "request with this Idempotency-Key is still in progress")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(entry.StatusCode)
	_, _ = w.Write(entry.Body)
}
