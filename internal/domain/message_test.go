package domain

import (
	"testing"
	"time"
)

func TestMessageTypeNext(t *testing.T) {
	order := []MessageType{
		MessageTypeConnectionRequest,
		MessageTypeFollowUp1,
		MessageTypeFollowUp2,
		MessageTypeFollowUp3,
		MessageTypeFollowUp4,
		MessageTypeGoodbye,
	}

	for i := 0; i < len(order)-1; i++ {
		next, ok := order[i].Next()
		if !ok {
			t.Fatalf("%s.Next() ok = false, want true", order[i])
		}
		if next != order[i+1] {
			t.Errorf("%s.Next() = %s, want %s", order[i], next, order[i+1])
		}
	}

	// Goodbye — последний шаг каденции
	if _, ok := MessageTypeGoodbye.Next(); ok {
		t.Error("goodbye.Next() ok = true, want false")
	}
}

func TestMessageTemplatesForType(t *testing.T) {
	templates := MessageTemplates{
		ConnectionRequest: "cr",
		FollowUps:         []string{"fu1", "", "fu3"},
		Goodbye:           "bye",
	}

	tests := []struct {
		m    MessageType
		want string
	}{
		{MessageTypeConnectionRequest, "cr"},
		{MessageTypeFollowUp1, "fu1"},
		{MessageTypeFollowUp2, ""},
		{MessageTypeFollowUp3, "fu3"},
		{MessageTypeFollowUp4, ""}, // за пределами слайса
		{MessageTypeGoodbye, "bye"},
	}

	for _, tt := range tests {
		if got := templates.ForType(tt.m); got != tt.want {
			t.Errorf("ForType(%s) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestRenderTemplate(t *testing.T) {
	p := &Prospect{
		FirstName:   "Jane",
		LastName:    "Doe",
		CompanyName: "Acme",
		Title:       "CTO",
	}

	got := RenderTemplate("Hi {first_name} {last_name}, {title} at {company_name}", p)
	want := "Hi Jane Doe, CTO at Acme"
	if got != want {
		t.Errorf("RenderTemplate() = %q, want %q", got, want)
	}

	// Отсутствующие данные подставляются пустой строкой
	got = RenderTemplate("Hi {first_name}, {company_name}", &Prospect{FirstName: "Bob"})
	if got != "Hi Bob, " {
		t.Errorf("RenderTemplate() = %q, want %q", got, "Hi Bob, ")
	}
}

func TestProspectStatusAfterSend(t *testing.T) {
	tests := []struct {
		m    MessageType
		want ProspectStatus
	}{
		{MessageTypeConnectionRequest, ProspectStatusConnectionRequested},
		{MessageTypeFollowUp1, ProspectStatusFollowUp1},
		{MessageTypeFollowUp4, ProspectStatusFollowUp4},
		{MessageTypeGoodbye, ProspectStatusGoodbyeSent},
	}
	for _, tt := range tests {
		if got := tt.m.ProspectStatusAfterSend(); got != tt.want {
			t.Errorf("%s.ProspectStatusAfterSend() = %s, want %s", tt.m, got, tt.want)
		}
	}
}

func TestProspectAdvance(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	p := &Prospect{Status: ProspectStatusNotContacted}

	p.Advance(MessageTypeConnectionRequest, now)

	if p.Status != ProspectStatusConnectionRequested {
		t.Errorf("status = %s, want connection_requested", p.Status)
	}
	if p.ContactedAt == nil || !p.ContactedAt.Equal(now) {
		t.Errorf("contacted_at = %v, want %v", p.ContactedAt, now)
	}

	// Повторные шаги не переписывают время первого контакта
	later := now.Add(72 * time.Hour)
	p.Advance(MessageTypeFollowUp1, later)

	if p.Status != ProspectStatusFollowUp1 {
		t.Errorf("status = %s, want follow_up_1", p.Status)
	}
	if !p.ContactedAt.Equal(now) {
		t.Errorf("contacted_at = %v, want unchanged %v", p.ContactedAt, now)
	}
	if p.LastActionAt == nil || !p.LastActionAt.Equal(later) {
		t.Errorf("last_action_at = %v, want %v", p.LastActionAt, later)
	}
}

func TestIsCanonicalID(t *testing.T) {
	if !IsCanonicalID("ACoAABxyz123") {
		t.Error("ACo-prefixed id must be canonical")
	}
	if IsCanonicalID("https://linkedin.com/in/jane-doe") {
		t.Error("profile URL must not be canonical")
	}
	if IsCanonicalID("") {
		t.Error("empty string must not be canonical")
	}
}
