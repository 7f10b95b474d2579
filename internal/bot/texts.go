package bot

// Menu button labels
const (
	btnTextOrderLabel   = "📝 Текстовый заказ"
	btnVoiceOrderLabel  = "🎤 Голосовой заказ"
	btnStatisticsLabel  = "📊 Статистика"
	btnChangePointLabel = "🔄 Сменить точку"
	btnHelpLabel        = "📋 Помощь"
	btnAboutLabel       = "ℹ️ О боте"
)

// User-facing replies
const (
	msgWelcome = "👋 Добро пожаловать в FurnitureOrderAI!\n\n" +
		"🤖 Умный бот для заказов мебели с искусственным интеллектом\n\n" +
		"Пожалуйста, введите ваш PIN-код, чтобы начать."

	msgWelcomeBack = "🎉 С возвращением! Вы работаете с точкой *%s*. Можете отправлять заказ."

	msgHelp = "📋 *Помощь по боту*\n\n" +
		"1. *Авторизация* - Введите PIN-код вашей точки\n" +
		"2. *Создание заказа*:\n" +
		"   • Напишите текст с товарами и количествами\n" +
		"   • Или отправьте голосовое сообщение\n" +
		"3. *Подтверждение* - Проверьте заказ и подтвердите\n" +
		"4. *История* - Все заказы сохраняются в Excel\n\n" +
		"📞 *Поддержка*: contact@furnitureorderai.com"

	msgAbout = "🤖 *FurnitureOrderAI*\n\n" +
		"Умный бот для автоматизации заказов мебели.\n\n" +
		"Возможности:\n" +
		"• 📝 Текстовые заказы с AI-парсингом\n" +
		"• 🎤 Голосовые заказы\n" +
		"• 📊 Автосохранение в Excel\n" +
		"• 🔐 Безопасная авторизация\n\n" +
		"Версия: 1.0.0"

	msgInvalidPIN = "❌ Неверный PIN-код. Попробуйте снова."
	msgNoAuth     = "⚠️ Пожалуйста, сначала авторизуйтесь, введя PIN-код."

	msgAuthSuccess = "🔓 *Авторизация успешна!*\n\n" +
		"Вы выбрали точку: *%s*\n" +
		"📍 Адрес: %s\n\n" +
		"Теперь можете отправлять заказ текстом или голосовым сообщением."

	msgTextOrderHint = "📝 *Отправьте текст с заказом*\n\n" +
		"Пример:\n" +
		"«Нужно 2 дивана «Милан», 1 обеденный стол и 3 офисных кресла»"

	msgVoiceOrderHint = "🎤 *Отправьте голосовое сообщение с заказом*\n\n" +
		"Просто нажмите на микрофон и продиктуйте заказ."

	msgChangePoint = "🔄 *Смена точки*\n\nВведите PIN-код новой точки."

	msgFinishCurrentOrder = "❌ Пожалуйста, сначала подтвердите или измените предыдущий заказ."

	msgAnalyzing       = "📝 Анализирую заказ с помощью AI..."
	msgProcessingAudio = "🔍 Обрабатываю аудиосообщение..."
	msgRecognizedText  = "🎤 *Распознанный текст:*\n\n`%s`"

	msgOrderPreview = "📄 *Предварительный заказ*\n\n%s\n\nВсе верно? 🧐"

	msgOrderSaved = "🎉 *Заказ успешно сохранен!*\n\n" +
		"Номер заказа: #%d\n" +
		"Точка: %s\n\n" +
		"✅ Все данные записаны в Excel файл."

	msgOrderCancelled = "❌ Заказ отменен. Можете отправить новый заказ."

	msgEditOrder = "✍️ *Редактирование заказа*\n\n" +
		"Отправьте новый текст с изменениями.\n\n" +
		"Пример:\n" +
		"«Добавьте еще 2 кресла и уберите диван»"

	msgOrderDataNotFound   = "❌ Ошибка: данные заказа не найдены."
	msgOrderSessionMissing = "❌ Ошибка: сессия заказа не найдена. Попробуйте отправить заказ снова."

	msgOrderProcessingErr = "❌ Ошибка обработки заказа: %s"
	msgAudioProcessingErr = "❌ Ошибка обработки аудио: %s"
	msgSaveErr            = "❌ Ошибка сохранения: %s"
	msgEmptyOrder         = "❌ В заказе нет ни одного товара с количеством больше нуля. Попробуйте сформулировать заказ иначе."

	msgRateLimit    = "⚠️ Слишком много запросов. Пожалуйста, подождите немного."
	msgFileTooLarge = "❌ Файл слишком большой. Максимальный размер: %dMB"
	msgGenericError = "❌ Произошла ошибка. Попробуйте снова или обратитесь в поддержку."
)
