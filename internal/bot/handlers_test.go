package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/catalog"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/ledger"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements the handful of tele.Context methods the handlers
// touch; everything else panics via the embedded nil interface.
type fakeContext struct {
	tele.Context
	sender *tele.User
	text   string
	sent   []string
	store  map[string]interface{}
}

func newFakeContext(sess *models.Session, text string) *fakeContext {
	c := &fakeContext{
		sender: &tele.User{ID: 42},
		text:   text,
		store:  map[string]interface{}{},
	}
	c.store[sessionKey] = sess
	return c
}

func (c *fakeContext) Sender() *tele.User { return c.sender }
func (c *fakeContext) Text() string       { return c.text }
func (c *fakeContext) Callback() *tele.Callback {
	return nil
}

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func (c *fakeContext) Delete() error { return nil }

func (c *fakeContext) Set(key string, val interface{}) { c.store[key] = val }
func (c *fakeContext) Get(key string) interface{}      { return c.store[key] }

func (c *fakeContext) lastSent() string {
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1]
}

type stubExtractor struct {
	order models.OrderData
	raw   string
	err   error
}

func (s *stubExtractor) ExtractOrder(ctx context.Context, prompt, text string) (models.OrderData, string, error) {
	return s.order, s.raw, s.err
}

func newTestBot(t *testing.T) (*Bot, string) {
	t.Helper()
	ordersDir := t.TempDir()
	lw, err := ledger.NewWriter(ordersDir)
	require.NoError(t, err)
	return &Bot{
		catalog: catalog.NewStore(t.TempDir()),
		ledger:  lw,
	}, ordersDir
}

func TestAuthorizeValidPIN(t *testing.T) {
	b, _ := newTestBot(t)
	sess := models.DefaultSession()
	c := newFakeContext(&sess, "1234")

	require.NoError(t, b.onText(c))

	assert.Equal(t, models.StatePointSelected, sess.State)
	require.NotNil(t, sess.SelectedPoint)
	assert.Equal(t, `Магазин "Мебель Сити"`, sess.SelectedPoint.Name)
	assert.Equal(t, "ул. Центральная, д. 1", sess.SelectedPoint.Address)
	assert.Contains(t, c.lastSent(), `Магазин "Мебель Сити"`)
	assert.Contains(t, c.lastSent(), "ул. Центральная, д. 1")
}

func TestAuthorizeUnknownPIN(t *testing.T) {
	b, _ := newTestBot(t)
	sess := models.DefaultSession()
	c := newFakeContext(&sess, "0000")

	require.NoError(t, b.onText(c))

	assert.Equal(t, models.DefaultSession(), sess)
	assert.Equal(t, msgInvalidPIN, c.lastSent())
}

func TestAuthorizeMalformedPIN(t *testing.T) {
	b, _ := newTestBot(t)
	sess := models.DefaultSession()
	c := newFakeContext(&sess, "12ab")

	require.NoError(t, b.onText(c))

	assert.Equal(t, models.DefaultSession(), sess)
	assert.Equal(t, msgInvalidPIN, c.lastSent())
}

func TestTextWhileAwaitingConfirmationRejected(t *testing.T) {
	b, _ := newTestBot(t)
	point := &models.PartnerPoint{ID: "1", Name: "Точка", Address: "адрес", PIN: "1234"}
	sess := models.Session{
		State:         models.StateAwaitingConfirmation,
		SelectedPoint: point,
		OrderData:     models.OrderData{"divan_uglovoj_milan": 1},
	}
	c := newFakeContext(&sess, "еще два кресла")

	require.NoError(t, b.onText(c))

	assert.Equal(t, msgFinishCurrentOrder, c.lastSent())
	assert.Equal(t, models.StateAwaitingConfirmation, sess.State)
}

func TestProcessOrderTextMovesToConfirmation(t *testing.T) {
	b, _ := newTestBot(t)
	b.extractor = &stubExtractor{
		order: models.OrderData{"divan_uglovoj_milan": 2},
		raw:   "FINAL raw",
	}
	point := &models.PartnerPoint{ID: "1", Name: "Точка", Address: "ул. Мира, д. 5", PIN: "1234"}
	sess := models.Session{State: models.StatePointSelected, SelectedPoint: point}
	c := newFakeContext(&sess, "два дивана милан")

	require.NoError(t, b.onText(c))

	assert.Equal(t, models.StateAwaitingConfirmation, sess.State)
	require.NotNil(t, sess.OrderData)
	assert.Equal(t, "ул. Мира, д. 5", sess.OrderData.Address())
	assert.Equal(t, "FINAL raw", sess.RawResponse)
	assert.Contains(t, c.lastSent(), "Диван")
}

func TestProcessOrderTextFailureRestoresSession(t *testing.T) {
	b, _ := newTestBot(t)
	b.extractor = &stubExtractor{err: fmt.Errorf("model unavailable")}
	point := &models.PartnerPoint{ID: "1", Name: "Точка", Address: "адрес", PIN: "1234"}
	sess := models.Session{State: models.StatePointSelected, SelectedPoint: point}
	c := newFakeContext(&sess, "два дивана")

	require.NoError(t, b.onText(c))

	// retry with the same point: clean point_selected, no order data
	assert.Equal(t, models.StatePointSelected, sess.State)
	assert.Same(t, point, sess.SelectedPoint)
	assert.Nil(t, sess.OrderData)
	assert.Contains(t, c.lastSent(), "model unavailable")
}

func TestConfirmWithoutOrderDataLeavesLedgerUntouched(t *testing.T) {
	b, ordersDir := newTestBot(t)
	point := &models.PartnerPoint{ID: "1", Name: "Точка", Address: "адрес", PIN: "1234"}
	sess := models.Session{State: models.StateAwaitingConfirmation, SelectedPoint: point}
	c := newFakeContext(&sess, "")

	require.NoError(t, b.onConfirm(c))

	assert.Equal(t, msgOrderDataNotFound, c.lastSent())
	assert.NoFileExists(t, filepath.Join(ordersDir, ledger.FileName))
}

func TestConfirmAppendsAndResets(t *testing.T) {
	b, ordersDir := newTestBot(t)
	point := &models.PartnerPoint{ID: "1", Name: "Точка", Address: "адрес", PIN: "1234"}
	sess := models.Session{
		State:         models.StateAwaitingConfirmation,
		SelectedPoint: point,
		OrderData:     models.OrderData{"address": "адрес", "divan_uglovoj_milan": 2},
		RawResponse:   "raw",
	}
	c := newFakeContext(&sess, "")

	require.NoError(t, b.onConfirm(c))

	assert.FileExists(t, filepath.Join(ordersDir, ledger.FileName))
	assert.Equal(t, models.StatePointSelected, sess.State)
	assert.Nil(t, sess.OrderData)
	assert.Contains(t, c.lastSent(), "#1")
}

func TestCancelRestoresPointSelected(t *testing.T) {
	b, _ := newTestBot(t)
	point := &models.PartnerPoint{ID: "1", Name: "Точка", Address: "адрес", PIN: "1234"}
	sess := models.Session{
		State:         models.StateAwaitingConfirmation,
		SelectedPoint: point,
		OrderData:     models.OrderData{"divan_uglovoj_milan": 1},
	}
	c := newFakeContext(&sess, "")

	require.NoError(t, b.onCancel(c))

	assert.Equal(t, models.StatePointSelected, sess.State)
	assert.Same(t, point, sess.SelectedPoint)
	assert.Nil(t, sess.OrderData)
	assert.Equal(t, msgOrderCancelled, c.lastSent())
}

func TestEditWithoutOrderData(t *testing.T) {
	b, _ := newTestBot(t)
	point := &models.PartnerPoint{ID: "1", Name: "Точка", Address: "адрес", PIN: "1234"}
	sess := models.Session{State: models.StateAwaitingConfirmation, SelectedPoint: point}
	c := newFakeContext(&sess, "")

	require.NoError(t, b.onEdit(c))

	assert.Equal(t, msgOrderSessionMissing, c.lastSent())
	assert.NotEqual(t, models.StateEditing, sess.State)
}

func TestChangePointWipesSession(t *testing.T) {
	b, _ := newTestBot(t)
	point := &models.PartnerPoint{ID: "1", Name: "Точка", Address: "адрес", PIN: "1234"}
	sess := models.Session{State: models.StatePointSelected, SelectedPoint: point}
	c := newFakeContext(&sess, btnChangePointLabel)

	require.NoError(t, b.onText(c))

	assert.Equal(t, models.DefaultSession(), sess)
}

func TestPreviewTextKeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("я", 60)
	got := previewText(long, 50)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 50, utf8.RuneCountInString(got))

	assert.Equal(t, "короткий", previewText("короткий", 50))
}
