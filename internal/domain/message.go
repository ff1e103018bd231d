package domain

import (
	"fmt"
	"strings"
)

// MessageType — тип сообщения в каденции.
//
// Каденция фиксированная: connection request, до четырёх follow-up'ов,
// прощальное сообщение. Порядок задаётся sequenceOrder.
type MessageType string

const (
	MessageTypeConnectionRequest MessageType = "connection_request"
	MessageTypeFollowUp1         MessageType = "follow_up_1"
	MessageTypeFollowUp2         MessageType = "follow_up_2"
	MessageTypeFollowUp3         MessageType = "follow_up_3"
	MessageTypeFollowUp4         MessageType = "follow_up_4"
	MessageTypeGoodbye           MessageType = "goodbye"
)

// sequenceOrder — порядок шагов каденции.
var sequenceOrder = []MessageType{
	MessageTypeConnectionRequest,
	MessageTypeFollowUp1,
	MessageTypeFollowUp2,
	MessageTypeFollowUp3,
	MessageTypeFollowUp4,
	MessageTypeGoodbye,
}

// Next возвращает следующий шаг каденции.
// Второе значение false — каденция закончена.
func (m MessageType) Next() (MessageType, bool) {
	for i, t := range sequenceOrder {
		if t == m && i+1 < len(sequenceOrder) {
			return sequenceOrder[i+1], true
		}
	}
	return "", false
}

// ProspectStatusAfterSend возвращает статус prospect'а после успешной
// отправки сообщения данного типа.
func (m MessageType) ProspectStatusAfterSend() ProspectStatus {
	switch m {
	case MessageTypeConnectionRequest:
		return ProspectStatusConnectionRequested
	case MessageTypeFollowUp1:
		return ProspectStatusFollowUp1
	case MessageTypeFollowUp2:
		return ProspectStatusFollowUp2
	case MessageTypeFollowUp3:
		return ProspectStatusFollowUp3
	case MessageTypeFollowUp4:
		return ProspectStatusFollowUp4
	case MessageTypeGoodbye:
		return ProspectStatusGoodbyeSent
	default:
		return ProspectStatusFailed
	}
}

// ParseMessageType парсит строку в MessageType.
func ParseMessageType(s string) (MessageType, error) {
	for _, t := range sequenceOrder {
		if MessageType(s) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown message type %q", s)
}

// MessageTemplates — шаблоны сообщений кампании (JSONB поле campaigns.templates).
//
// Шаблоны поддерживают подстановки {first_name}, {last_name},
// {company_name}, {title}. Пустой шаблон означает, что шаг каденции
// пропускается при планировании следующего сообщения.
type MessageTemplates struct {
	// ConnectionRequest — текст приглашения (первый шаг).
	ConnectionRequest string `json:"connection_request"`

	// FollowUps — до четырёх follow-up сообщений по порядку.
	FollowUps []string `json:"follow_ups,omitempty"`

	// Goodbye — прощальное сообщение (последний шаг).
	Goodbye string `json:"goodbye,omitempty"`
}

// ForType возвращает шаблон для типа сообщения.
// Пустая строка — шаблон не задан.
func (t MessageTemplates) ForType(m MessageType) string {
	switch m {
	case MessageTypeConnectionRequest:
		return t.ConnectionRequest
	case MessageTypeGoodbye:
		return t.Goodbye
	case MessageTypeFollowUp1, MessageTypeFollowUp2, MessageTypeFollowUp3, MessageTypeFollowUp4:
		idx := int(m[len(m)-1] - '1')
		if idx >= 0 && idx < len(t.FollowUps) {
			return t.FollowUps[idx]
		}
	}
	return ""
}

// RenderTemplate подставляет данные prospect'а в шаблон.
func RenderTemplate(tmpl string, p *Prospect) string {
	r := strings.NewReplacer(
		"{first_name}", p.FirstName,
		"{last_name}", p.LastName,
		"{company_name}", p.CompanyName,
		"{title}", p.Title,
	)
	return r.Replace(tmpl)
}
