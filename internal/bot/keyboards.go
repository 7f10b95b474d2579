package bot

import (
	tele "gopkg.in/telebot.v3"
)

// Inline confirmation buttons; the unique names are the callback actions
var (
	btnConfirmOrder = tele.Btn{Unique: "confirm_order", Text: "✅ Подтвердить"}
	btnEditOrder    = tele.Btn{Unique: "edit_order", Text: "✏️ Изменить"}
	btnCancelOrder  = tele.Btn{Unique: "cancel_order", Text: "❌ Отменить"}
)

func mainMenuKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(
		m.Row(m.Text(btnTextOrderLabel), m.Text(btnVoiceOrderLabel)),
		m.Row(m.Text(btnStatisticsLabel), m.Text(btnChangePointLabel)),
	)
	return m
}

func helpKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(m.Row(m.Text(btnHelpLabel), m.Text(btnAboutLabel)))
	return m
}

func confirmationKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(btnConfirmOrder, btnEditOrder, btnCancelOrder))
	return m
}

func removeKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}
