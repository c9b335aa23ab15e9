package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := AuthenticateEvent{
		Email:    "admin@example.com",
		ClientIP: "192.168.1.1",
		Success:  true,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.HasPrefix(output, "<") {
		t.Error("Expected output to start with syslog PRI")
	}
	if !strings.Contains(output, "envspace") {
		t.Error("Expected app name 'envspace' in output")
	}
	if !strings.Contains(output, "authn") {
		t.Error("Expected message ID 'authn' in output")
	}
	if !strings.Contains(output, "admin@example.com") {
		t.Error("Expected user email in output")
	}
	if !strings.Contains(output, "192.168.1.1") {
		t.Error("Expected client IP in output")
	}
	if !strings.Contains(output, "successfully authenticated") {
		t.Error("Expected success message in output")
	}
}

func TestLoggerPRIValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	// FacilityAuthPriv(10)*8 + SeverityWarning(4) = 84
	logger.Log(AuthenticateEvent{Email: "admin@example.com", Success: false})

	if !strings.HasPrefix(buf.String(), "<84>1 ") {
		t.Errorf("Expected PRI <84>, got %q", buf.String()[:10])
	}
}

func TestAuthenticateEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     AuthenticateEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful authentication",
			event: AuthenticateEvent{
				Email:    "admin@example.com",
				ClientIP: "10.0.0.1",
				Success:  true,
			},
			wantMsg:   "successfully authenticated",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "authn",
		},
		{
			name: "failed authentication",
			event: AuthenticateEvent{
				Email:    "admin@example.com",
				ClientIP: "10.0.0.1",
				Success:  false,
			},
			wantMsg:   "failed to authenticate",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "authn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %q, want %q", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestGrantEventMessages(t *testing.T) {
	grant := GrantEvent{Actor: "admin@example.com", Space: "prod", Role: "ops", Write: true}
	if !strings.Contains(grant.Message(), "granted read-write access") {
		t.Errorf("unexpected grant message: %q", grant.Message())
	}

	readOnly := GrantEvent{Actor: "admin@example.com", Space: "prod", Role: "ops", Write: false}
	if !strings.Contains(readOnly.Message(), "granted read access") {
		t.Errorf("unexpected read-only grant message: %q", readOnly.Message())
	}

	revoke := GrantEvent{Actor: "admin@example.com", Space: "prod", Role: "ops", Revoked: true}
	if !strings.Contains(revoke.Message(), "revoked access") {
		t.Errorf("unexpected revoke message: %q", revoke.Message())
	}
	if revoke.StructuredData()[SDIDAction]["operation"] != "revoke" {
		t.Error("Expected revoke operation in structured data")
	}
}

func TestEnvEventOmitsValue(t *testing.T) {
	event := EnvEvent{
		Actor:  "admin@example.com",
		Space:  "prod",
		Key:    "DB_PASSWORD",
		Action: "set",
	}

	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.Log(event)

	if !strings.Contains(buf.String(), "DB_PASSWORD") {
		t.Error("Expected variable key in output")
	}
	// The event type has no value field at all; the structured data must
	// only carry space and key subjects.
	sd := event.StructuredData()[SDIDSubject]
	if len(sd) != 2 {
		t.Errorf("Expected exactly space and key in subject data, got %v", sd)
	}
}

func TestMembershipEvent(t *testing.T) {
	added := MembershipEvent{Actor: "admin@example.com", Role: "ops", Email: "dev@example.com", Added: true}
	if !strings.Contains(added.Message(), "added dev@example.com to role ops") {
		t.Errorf("unexpected message: %q", added.Message())
	}
	removed := MembershipEvent{Actor: "admin@example.com", Role: "ops", Email: "dev@example.com"}
	if removed.StructuredData()[SDIDAction]["operation"] != "remove" {
		t.Error("Expected remove operation in structured data")
	}
}

func TestStructuredDataEscaping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`with"quote`, `"with\"quote"`},
		{`with\slash`, `"with\\slash"`},
		{`with]bracket`, `"with\]bracket"`},
	}
	for _, tt := range tests {
		if got := escapeSDValue(tt.in); got != tt.want {
			t.Errorf("escapeSDValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetEnabled(t *testing.T) {
	var buf bytes.Buffer
	oldWriter := DefaultLogger.writer
	DefaultLogger.SetWriter(&buf)
	defer DefaultLogger.SetWriter(oldWriter)

	SetEnabled(false)
	Log(AuthenticateEvent{Email: "admin@example.com", Success: true})
	if buf.Len() != 0 {
		t.Error("Expected no output while disabled")
	}

	SetEnabled(true)
	Log(AuthenticateEvent{Email: "admin@example.com", Success: true})
	if buf.Len() == 0 {
		t.Error("Expected output after re-enabling")
	}
}
