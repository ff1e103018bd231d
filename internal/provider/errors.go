package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error — ошибка вызова провайдера с классификацией permanent/transient.
//
// Провайдер сообщает о permanent отказах текстом ошибки ("already
// connected", "withdrawn", ...), а не отдельным кодом, поэтому
// классификация опирается на статус и содержимое сообщения.
type Error struct {
	StatusCode int
	Message    string

	transient bool
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider: %d: %s", e.StatusCode, e.Message)
	}
	return "provider: " + e.Message
}

// Transient сообщает, имеет ли смысл повторять вызов.
func (e *Error) Transient() bool {
	return e.transient
}

// Маркеры permanent отказов в тексте ошибки провайдера.
var permanentMarkers = []string{
	"already connected",
	"already invited",
	"withdrawn",
	"cannot be invited",
	"blocked",
	"invalid recipient",
}

// NewError создаёт Error с классификацией по HTTP статусу:
// 5xx, 429 и 408 — transient, остальное — permanent.
func NewError(status int, msg string) *Error {
	e := &Error{StatusCode: status, Message: msg}

	switch {
	case status >= 500, status == http.StatusTooManyRequests, status == http.StatusRequestTimeout:
		e.transient = true
	default:
		// 4xx без явного permanent-маркера тоже терминальны:
		// повтор того же запроса даст тот же ответ
		e.transient = false
	}
	return e
}

// parseAPIError строит Error из HTTP ответа с ошибкой.
func parseAPIError(status int, body []byte) *Error {
	msg := extractMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return NewError(status, msg)
}

// extractMessage достаёт человекочитаемое сообщение из тела ошибки.
// Провайдер отдаёт {"title": ...} либо {"message": ...}.
func extractMessage(body []byte) string {
	var parsed struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Title != "" {
			return parsed.Title
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// IsTransient сообщает, стоит ли повторять вызов после ошибки.
// Не-провайдерские ошибки (маршалинг и т.п.) считаются permanent.
func IsTransient(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.transient && !hasPermanentMarker(pe.Message)
	}
	return false
}

// IsPermanent сообщает, что повтор бессмысленен: провайдер отказал
// по существу (уже в контактах, приглашение отозвано, заблокирован).
func IsPermanent(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return !pe.transient || hasPermanentMarker(pe.Message)
	}
	return false
}

func hasPermanentMarker(msg string) bool {
	lower := strings.ToLower(msg)
	for _, m := range permanentMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
