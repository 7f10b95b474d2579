package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/logging"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	tele "gopkg.in/telebot.v3"
)

const sessionKey = "session"

const (
	rateLimitRequests = 10
	rateLimitWindow   = time.Minute

	maxFileSize = 50 * 1024 * 1024 // 50MB
)

// recoverMiddleware is the outermost guard: it converts any panic or
// unhandled handler error into the generic failure reply so a single
// update can never take the process down.
func recoverMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					logging.Error("handler panic", map[string]interface{}{
						"user_id": senderID(c), "panic": fmt.Sprint(r),
					})
					_ = c.Send(msgGenericError)
				}
			}()

			if err := next(c); err != nil {
				logging.Error("handler error", map[string]interface{}{
					"user_id": senderID(c), "error": err.Error(),
				})
				_ = c.Send(msgGenericError)
			}
			return nil
		}
	}
}

// updateLogger logs every inbound update as a single JSON line with the
// handling duration.
func updateLogger() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := map[string]interface{}{
				"user_id":    senderID(c),
				"callback":   c.Callback() != nil,
				"text":       previewText(c.Text(), 50),
				"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			}
			level := "info"
			if err != nil {
				level = "error"
				fields["error"] = err.Error()
			}
			logging.LogKV(level, "bot_update", fields)
			return err
		}
	}
}

// sessionMiddleware loads the sender's session before the handler and
// writes it back afterwards. Handlers mutate the session through the
// pointer stored on the context; one update is one read-then-write cycle.
func (b *Bot) sessionMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := senderID(c)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			sess := b.sessions.Get(ctx, userID)
			cancel()
			c.Set(sessionKey, &sess)

			err := next(c)

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if saveErr := b.sessions.Set(ctx, userID, sess); saveErr != nil {
				logging.Error("session save failed", map[string]interface{}{
					"user_id": userID, "error": saveErr.Error(),
				})
			}
			return err
		}
	}
}

// rateLimiter rejects users exceeding the sliding-window request budget
type rateLimiter struct {
	mu       sync.Mutex
	requests map[int64][]time.Time
	limit    int
	window   time.Duration
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
	}
}

func (r *rateLimiter) allow(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	valid := r.requests[userID][:0]
	for _, t := range r.requests[userID] {
		if now.Sub(t) < r.window {
			valid = append(valid, t)
		}
	}
	valid = append(valid, now)
	r.requests[userID] = valid
	return len(valid) <= r.limit
}

func (r *rateLimiter) middleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := senderID(c)
			if userID == 0 {
				return next(c)
			}
			if !r.allow(userID) {
				logging.Warn("rate limit exceeded", map[string]interface{}{"user_id": userID})
				return c.Send(msgRateLimit)
			}
			return next(c)
		}
	}
}

// fileSizeLimit rejects voice/audio attachments over the size cap before
// any download happens.
func fileSizeLimit(maxSize int64) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			msg := c.Message()
			if msg == nil {
				return next(c)
			}
			var size int64
			switch {
			case msg.Voice != nil:
				size = msg.Voice.FileSize
			case msg.Audio != nil:
				size = msg.Audio.FileSize
			}
			if size > maxSize {
				return c.Send(fmt.Sprintf(msgFileTooLarge, maxSize/(1024*1024)))
			}
			return next(c)
		}
	}
}

// previewText truncates s to at most n runes, never splitting a
// multi-byte character.
func previewText(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

func senderID(c tele.Context) int64 {
	if s := c.Sender(); s != nil {
		return s.ID
	}
	return 0
}

// sessionFrom returns the session loaded by sessionMiddleware
func sessionFrom(c tele.Context) *models.Session {
	if sess, ok := c.Get(sessionKey).(*models.Session); ok && sess != nil {
		return sess
	}
	def := models.DefaultSession()
	return &def
}
