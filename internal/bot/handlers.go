package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/logging"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	tele "gopkg.in/telebot.v3"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

const extractionTimeout = 45 * time.Second

func (b *Bot) onStart(c tele.Context) error {
	sess := sessionFrom(c)
	logging.Info("user started bot", map[string]interface{}{"user_id": senderID(c)})

	if sess.SelectedPoint != nil && sess.State == models.StatePointSelected {
		return c.Send(fmt.Sprintf(msgWelcomeBack, sess.SelectedPoint.Name), tele.ModeMarkdown)
	}
	return c.Send(msgWelcome, helpKeyboard())
}

func (b *Bot) onHelp(c tele.Context) error {
	return c.Send(msgHelp, tele.ModeMarkdown)
}

// onText routes a text update through the session state machine
func (b *Bot) onText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	sess := sessionFrom(c)

	switch text {
	case btnHelpLabel:
		return b.onHelp(c)
	case btnAboutLabel:
		return c.Send(msgAbout, tele.ModeMarkdown)
	}

	// Unauthenticated: every text is a PIN attempt
	if sess.SelectedPoint == nil {
		return b.authorize(c, sess, text)
	}

	// Point change wipes the session from any state
	if text == btnChangePointLabel {
		*sess = models.DefaultSession()
		return c.Send(msgChangePoint, removeKeyboard(), tele.ModeMarkdown)
	}

	if sess.State == models.StateEditing {
		// Edit is a full re-extraction of fresh text
		sess.State = models.StatePointSelected
		sess.OrderData = nil
		sess.RawResponse = ""
		return b.processOrderText(c, sess, text)
	}

	if sess.State == models.StateAwaitingConfirmation {
		return c.Send(msgFinishCurrentOrder)
	}

	switch text {
	case btnTextOrderLabel:
		return c.Send(msgTextOrderHint, tele.ModeMarkdown)
	case btnVoiceOrderLabel:
		return c.Send(msgVoiceOrderHint, tele.ModeMarkdown)
	case btnStatisticsLabel:
		return b.sendStatistics(c)
	}

	return b.processOrderText(c, sess, text)
}

func (b *Bot) authorize(c tele.Context, sess *models.Session, text string) error {
	if !pinPattern.MatchString(text) {
		return c.Send(msgInvalidPIN)
	}

	point := b.catalog.FindPointByPIN(text)
	if point == nil {
		return c.Send(msgInvalidPIN)
	}

	*sess = models.Session{State: models.StatePointSelected, SelectedPoint: point}
	logging.Info("user authorized", map[string]interface{}{
		"user_id": senderID(c), "point": point.Name,
	})
	return c.Send(fmt.Sprintf(msgAuthSuccess, point.Name, point.Address), mainMenuKeyboard(), tele.ModeMarkdown)
}

// processOrderText runs extraction and moves the session to
// awaiting_confirmation. Every failure path restores a clean
// point_selected session so the user can retry with the same point.
func (b *Bot) processOrderText(c tele.Context, sess *models.Session, text string) error {
	if text == "" {
		return c.Send(fmt.Sprintf(msgOrderProcessingErr, "пустое сообщение"))
	}

	if err := c.Send(msgAnalyzing); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
	defer cancel()

	order, raw, err := b.extractor.ExtractOrder(ctx, b.catalog.Prompt(), text)
	if err != nil {
		b.restorePointSelected(sess)
		logging.Error("order extraction failed", map[string]interface{}{
			"user_id": senderID(c), "error": err.Error(),
		})
		return c.Send(fmt.Sprintf(msgOrderProcessingErr, err.Error()))
	}

	order.SetAddress(sess.SelectedPoint.Address)
	order.SetDate(time.Now())

	products := b.catalog.Products()
	if err := validateOrder(order, products); err != nil {
		b.restorePointSelected(sess)
		if errors.Is(err, errEmptyOrder) {
			return c.Send(msgEmptyOrder)
		}
		return c.Send(fmt.Sprintf(msgOrderProcessingErr, err.Error()))
	}

	sess.OrderData = order
	sess.RawResponse = raw
	sess.State = models.StateAwaitingConfirmation

	summary := formatOrderSummary(order, sess.SelectedPoint.Name, products)
	return c.Send(fmt.Sprintf(msgOrderPreview, summary), confirmationKeyboard(), tele.ModeMarkdown)
}

func (b *Bot) restorePointSelected(sess *models.Session) {
	if sess.SelectedPoint == nil {
		*sess = models.DefaultSession()
		return
	}
	sess.State = models.StatePointSelected
	sess.OrderData = nil
	sess.RawResponse = ""
}

// onVoiceOrAudio transcribes a voice attachment and feeds the transcript
// through the same order flow as text.
func (b *Bot) onVoiceOrAudio(c tele.Context) error {
	sess := sessionFrom(c)

	if sess.SelectedPoint == nil {
		return c.Send(msgNoAuth)
	}
	if sess.State != models.StatePointSelected {
		return c.Send(msgFinishCurrentOrder)
	}

	if err := c.Send(msgProcessingAudio); err != nil {
		return err
	}

	transcript, err := b.transcribeAttachment(c)
	if err != nil {
		logging.Error("audio processing failed", map[string]interface{}{
			"user_id": senderID(c), "error": err.Error(),
		})
		return c.Send(fmt.Sprintf(msgAudioProcessingErr, err.Error()))
	}

	logging.Info("voice transcribed", map[string]interface{}{
		"user_id": senderID(c), "text": transcript,
	})
	if err := c.Send(fmt.Sprintf(msgRecognizedText, transcript), tele.ModeMarkdown); err != nil {
		return err
	}

	return b.processOrderText(c, sess, transcript)
}

// transcribeAttachment downloads the voice/audio file into a scratch file
// under the temp dir, sends the bytes for recognition, and removes the
// scratch file afterwards.
func (b *Bot) transcribeAttachment(c tele.Context) (string, error) {
	msg := c.Message()
	var file tele.File
	switch {
	case msg.Voice != nil:
		file = msg.Voice.File
	case msg.Audio != nil:
		file = msg.Audio.File
	default:
		return "", fmt.Errorf("сообщение не содержит аудио")
	}

	rc, err := b.tb.File(&file)
	if err != nil {
		return "", fmt.Errorf("download audio: %w", err)
	}
	defer rc.Close()

	if err := os.MkdirAll(b.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	scratch, err := os.CreateTemp(b.tempDir, "voice-*.ogg")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	scratchPath := scratch.Name()
	defer os.Remove(scratchPath)

	if _, err := io.Copy(scratch, rc); err != nil {
		scratch.Close()
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := scratch.Close(); err != nil {
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	audio, err := os.ReadFile(scratchPath)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
	defer cancel()
	transcript, err := b.speech.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("речь не распознана")
	}
	return strings.TrimSpace(transcript), nil
}

// onConfirm persists the pending order and resets the session back to
// point_selected. A missing order means a corrupted or expired session;
// the ledger is never touched in that case.
func (b *Bot) onConfirm(c tele.Context) error {
	_ = c.Delete()
	sess := sessionFrom(c)

	if sess.OrderData == nil || sess.SelectedPoint == nil {
		return c.Send(msgOrderDataNotFound)
	}

	result, err := b.ledger.Append(sess.OrderData, sess.SelectedPoint.Name, b.catalog.Products(), sess.RawResponse)

	b.restorePointSelected(sess)

	if err != nil {
		logging.Error("order save failed", map[string]interface{}{
			"user_id": senderID(c), "error": err.Error(),
		})
		return c.Send(fmt.Sprintf(msgSaveErr, err.Error()))
	}

	logging.Info("order confirmed", map[string]interface{}{
		"user_id": senderID(c), "point": sess.SelectedPoint.Name, "order": result.TotalOrders,
	})
	return c.Send(fmt.Sprintf(msgOrderSaved, result.TotalOrders, sess.SelectedPoint.Name), tele.ModeMarkdown)
}

func (b *Bot) onEdit(c tele.Context) error {
	_ = c.Delete()
	sess := sessionFrom(c)

	if sess.OrderData == nil {
		return c.Send(msgOrderSessionMissing)
	}

	sess.State = models.StateEditing
	return c.Send(msgEditOrder, tele.ModeMarkdown)
}

func (b *Bot) onCancel(c tele.Context) error {
	_ = c.Delete()
	sess := sessionFrom(c)

	b.restorePointSelected(sess)
	return c.Send(msgOrderCancelled)
}

func (b *Bot) sendStatistics(c tele.Context) error {
	stats, err := b.ledger.Statistics()
	if err != nil {
		return c.Send(fmt.Sprintf(msgSaveErr, err.Error()))
	}

	var sb strings.Builder
	sb.WriteString("📊 *Статистика заказов*\n\n")
	fmt.Fprintf(&sb, "Всего заказов: %d\n", stats.TotalOrders)
	if stats.LastOrder != "" {
		fmt.Fprintf(&sb, "Последний заказ: %s\n", stats.LastOrder)
	}
	if len(stats.Monthly) > 0 {
		sb.WriteString("\n*По месяцам*:\n")
		for _, month := range stats.MonthKeys() {
			m := stats.Monthly[month]
			fmt.Fprintf(&sb, "%s: %d зак. (%d шт.)\n", month, m.Orders, m.Items)
		}
	}
	return c.Send(sb.String(), tele.ModeMarkdown)
}
