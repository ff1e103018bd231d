package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestGetProfileByVanity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		if r.URL.Path != "/api/v1/users/jane-doe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("account_id"); got != "acc-1" {
			t.Errorf("unexpected account_id %q", got)
		}

		json.NewEncoder(w).Encode(Profile{
			ProviderID:      "ACoAAB123",
			FirstName:       "Jane",
			NetworkDistance: "SECOND_DEGREE",
		})
	})

	profile, err := client.GetProfileByVanity(context.Background(), "acc-1", "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.ProviderID != "ACoAAB123" {
		t.Errorf("expected provider id ACoAAB123, got %s", profile.ProviderID)
	}
}

func TestGetProfileByProviderID_InvitationStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/profile" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Profile{
			ProviderID: "ACoAAB123",
			Invitation: &Invitation{Status: InvitationStatusWithdrawn},
		})
	})

	profile, err := client.GetProfileByProviderID(context.Background(), "acc-1", "ACoAAB123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Invitation == nil || profile.Invitation.Status != InvitationStatusWithdrawn {
		t.Errorf("expected withdrawn invitation, got %+v", profile.Invitation)
	}
}

func TestSendInvitation(t *testing.T) {
	var body map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/users/invite" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := client.SendInvitation(context.Background(), "acc-1", "ACoAAB123", "Hi Jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["provider_id"] != "ACoAAB123" || body["message"] != "Hi Jane" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestSendInvitation_TruncatesLongMessage(t *testing.T) {
	var body map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	})

	long := strings.Repeat("x", 500)
	if err := client.SendInvitation(context.Background(), "acc-1", "ACoAAB123", long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body["message"]) != inviteMessageLimit {
		t.Errorf("expected message truncated to %d, got %d", inviteMessageLimit, len(body["message"]))
	}
}

func TestSendMessage_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		if got := r.FormValue("attendees_ids"); got != "ACoAAB123" {
			t.Errorf("unexpected attendees_ids %q", got)
		}
		if got := r.FormValue("text"); got != "follow up text" {
			t.Errorf("unexpected text %q", got)
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := client.SendMessage(context.Background(), "acc-1", "ACoAAB123", "follow up text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		permanent bool
	}{
		{"500 is transient", 500, `{"message":"internal error"}`, false},
		{"429 is transient", 429, `{"message":"rate limited"}`, false},
		{"422 already connected", 422, `{"title":"Already connected to this user"}`, true},
		{"422 withdrawn", 422, `{"message":"Invitation was withdrawn"}`, true},
		{"404 not found", 404, `{"message":"User not found"}`, true},
		{"400 generic", 400, `{"message":"bad request"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.SendInvitation(context.Background(), "acc-1", "ACoAAB123", "hi")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := IsPermanent(err); got != tt.permanent {
				t.Errorf("IsPermanent = %v, want %v (err: %v)", got, tt.permanent, err)
			}
			if got := IsTransient(err); got == tt.permanent {
				t.Errorf("IsTransient = %v, want %v", got, !tt.permanent)
			}
		})
	}
}

func TestErrorClassification_NetworkError(t *testing.T) {
	// Сервер закрыт — сетевая ошибка должна быть transient
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: url, APIKey: "k"})
	err := client.SendInvitation(context.Background(), "acc-1", "ACoAAB123", "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTransient(err) {
		t.Errorf("expected transient network error, got: %v", err)
	}
}

func TestExtractVanity(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://www.linkedin.com/in/jane-doe/", "jane-doe", false},
		{"https://linkedin.com/in/jane-doe-123?utm=x", "jane-doe-123", false},
		{"linkedin.com/in/jane#section", "jane", false},
		{"jane-doe", "jane-doe", false},
		{"https://www.linkedin.com/company/acme", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ExtractVanity(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ExtractVanity(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExtractVanity(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractVanity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
