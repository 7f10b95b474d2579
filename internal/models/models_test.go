package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStateIsValid(t *testing.T) {
	for _, s := range []SessionState{StateInitial, StatePointSelected, StateAwaitingConfirmation, StateEditing} {
		assert.True(t, s.IsValid(), "state %q", s)
	}
	assert.False(t, SessionState("").IsValid())
	assert.False(t, SessionState("confirmed").IsValid())
}

func TestOrderDataQuantity(t *testing.T) {
	order := OrderData{
		"divan_uglovoj_milan": 2,
		"from_json":           float64(3),
		"as_string":           " 4 ",
		"garbage":             "много",
		"address":             "ул. Мира, д. 5",
	}

	assert.Equal(t, 2, order.Quantity("divan_uglovoj_milan"))
	assert.Equal(t, 3, order.Quantity("from_json"))
	assert.Equal(t, 4, order.Quantity("as_string"))
	assert.Equal(t, 0, order.Quantity("garbage"))
	assert.Equal(t, 0, order.Quantity("missing"))
}

func TestOrderDataTotalUnits(t *testing.T) {
	order := OrderData{
		"address": "ул. Мира, д. 5",
		"a":       2,
		"b":       3,
	}
	order.SetDate(time.Now())

	assert.Equal(t, 5, order.TotalUnits())
	assert.Equal(t, 0, OrderData{}.TotalUnits())
}

func TestOrderDataAddress(t *testing.T) {
	order := OrderData{}
	assert.Equal(t, "", order.Address())

	order.SetAddress("пр. Победы, д. 45")
	assert.Equal(t, "пр. Победы, д. 45", order.Address())
}

func TestProductColumnHeader(t *testing.T) {
	p := Product{Name: `Диван угловой "Милан"`, Unit: "шт"}
	assert.Equal(t, `Диван угловой "Милан" (шт)`, p.ColumnHeader())
}

func TestSessionNormalize(t *testing.T) {
	point := &PartnerPoint{ID: "1", Name: "Точка", Address: "адрес", PIN: "1234"}

	t.Run("invalid state resets", func(t *testing.T) {
		s := Session{State: "bogus", SelectedPoint: point}
		s.Normalize()
		assert.Equal(t, DefaultSession(), s)
	})

	t.Run("authenticated state without point resets", func(t *testing.T) {
		s := Session{State: StateAwaitingConfirmation, OrderData: OrderData{"a": 1}}
		s.Normalize()
		assert.Equal(t, DefaultSession(), s)
	})

	t.Run("order data cleared outside confirmation", func(t *testing.T) {
		s := Session{State: StatePointSelected, SelectedPoint: point, OrderData: OrderData{"a": 1}, RawResponse: "raw"}
		s.Normalize()
		assert.Equal(t, StatePointSelected, s.State)
		assert.Nil(t, s.OrderData)
		assert.Empty(t, s.RawResponse)
	})

	t.Run("pending confirmation kept intact", func(t *testing.T) {
		s := Session{State: StateAwaitingConfirmation, SelectedPoint: point, OrderData: OrderData{"a": 1}}
		s.Normalize()
		assert.Equal(t, StateAwaitingConfirmation, s.State)
		assert.NotNil(t, s.OrderData)
	})
}
