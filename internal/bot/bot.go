package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/catalog"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/ledger"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/logging"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/session"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/speech"
	tele "gopkg.in/telebot.v3"
)

var errEmptyOrder = errors.New("order has no positive-quantity line item")

// Extractor turns raw order text into structured order data. Satisfied by
// *llm.Client.
type Extractor interface {
	ExtractOrder(ctx context.Context, prompt, text string) (models.OrderData, string, error)
}

// Config wires the bot's collaborators
type Config struct {
	Token     string
	TempDir   string
	Catalog   *catalog.Store
	Sessions  *session.Store
	Extractor Extractor
	Speech    *speech.Client
	Ledger    *ledger.Writer
}

// Bot is the Telegram front end: it owns the handler wiring and the
// session-driven order state machine.
type Bot struct {
	tb        *tele.Bot
	catalog   *catalog.Store
	sessions  *session.Store
	extractor Extractor
	speech    *speech.Client
	ledger    *ledger.Writer
	tempDir   string
}

// New creates the bot, registers middlewares and handlers, but does not
// start polling.
func New(cfg Config) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logging.Error("bot error", map[string]interface{}{"error": err.Error()})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := &Bot{
		tb:        tb,
		catalog:   cfg.Catalog,
		sessions:  cfg.Sessions,
		extractor: cfg.Extractor,
		speech:    cfg.Speech,
		ledger:    cfg.Ledger,
		tempDir:   cfg.TempDir,
	}
	b.setup()
	return b, nil
}

func (b *Bot) setup() {
	// recover stays outermost so no handler can crash the process
	b.tb.Use(recoverMiddleware())
	b.tb.Use(updateLogger())
	b.tb.Use(b.sessionMiddleware())
	b.tb.Use(newRateLimiter(rateLimitRequests, rateLimitWindow).middleware())
	b.tb.Use(fileSizeLimit(maxFileSize))

	b.tb.Handle("/start", b.onStart)
	b.tb.Handle("/help", b.onHelp)
	b.tb.Handle(tele.OnText, b.onText)
	b.tb.Handle(tele.OnVoice, b.onVoiceOrAudio)
	b.tb.Handle(tele.OnAudio, b.onVoiceOrAudio)

	b.tb.Handle(&btnConfirmOrder, b.onConfirm)
	b.tb.Handle(&btnEditOrder, b.onEdit)
	b.tb.Handle(&btnCancelOrder, b.onCancel)
}

// Start begins long polling; it blocks until Stop is called
func (b *Bot) Start() {
	logging.Info("bot started", nil)
	b.tb.Start()
}

// Stop stops long polling
func (b *Bot) Stop() {
	b.tb.Stop()
	logging.Info("bot stopped", nil)
}
