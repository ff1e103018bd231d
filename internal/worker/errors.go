package worker

import "errors"

// Ошибки воркера.
var (
	// ErrItemNotFound — элемент очереди не найден в БД.
	ErrItemNotFound = errors.New("queue item not found")

	// ErrItemNotProcessing — элемент не в статусе processing:
	// уже доставлен, провален или возвращён в pending. Повторная
	// доставка — no-op (идемпотентность at-least-once консьюмера).
	ErrItemNotProcessing = errors.New("queue item is not in processing status")

	// ErrResolutionFailed — prospect не резолвится в canonical id
	// провайдера (профиль недоступен, приватен или удалён). Терминально.
	ErrResolutionFailed = errors.New("identity resolution failed")

	// ErrCadenceStopped — каденция prospect'а остановлена (ответил,
	// завершён или провален) — отправка отменяется.
	ErrCadenceStopped = errors.New("prospect cadence stopped")

	// ErrRetryExhausted — попытки доставки исчерпаны.
	ErrRetryExhausted = errors.New("delivery attempts exhausted")
)
