package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	HeaderTimestamp = "X-Klaviyofeed-Timestamp"
	HeaderSignature = "X-Klaviyofeed-Signature"

	signatureVersion = "v0"
	signatureWindow  = 5 * time.Minute
	maxRequestBody   = 1 << 20
)

// LoggingMiddleware creates a chi-compatible logging middleware
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := ctxlog.From(ctx).With("request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(ctxlog.With(r.Context(), logger))

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}

// SignatureMiddleware rejects requests whose body is not signed with secret.
// The signature is "v0=" + hex(HMAC-SHA256(secret, "v0:{timestamp}:{body}")).
func SignatureMiddleware(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
			if err != nil {
				writeError(w, r, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			r.Body.Close()

			if err := verifySignature(secret, r.Header, body, time.Now()); err != nil {
				ctxlog.From(r.Context()).Warn("Invalid request signature", "error", err)
				writeError(w, r, goerr.Wrap(err, "invalid signature"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// Sign computes the signature header value for body at timestamp
func Sign(secret string, timestamp int64, body []byte) string {
	base := fmt.Sprintf("%s:%d:%s", signatureVersion, timestamp, body)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(base))
	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}

func verifySignature(secret string, header http.Header, body []byte, now time.Time) error {
	timestamp := header.Get(HeaderTimestamp)
	if timestamp == "" {
		return goerr.New("missing timestamp header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp", goerr.V("timestamp", timestamp))
	}

	if d := now.Sub(time.Unix(ts, 0)); d > signatureWindow || d < -signatureWindow {
		return goerr.New("timestamp outside allowed window", goerr.V("timestamp", timestamp))
	}

	signature := header.Get(HeaderSignature)
	if signature == "" {
		return goerr.New("missing signature header")
	}

	if !hmac.Equal([]byte(signature), []byte(Sign(secret, ts, body))) {
		return goerr.New("signature mismatch")
	}

	return nil
}
