package service

import (
	"testing"
	"time"

	"stackit/qa-api/internal/model"
)

func TestMailerRecordsMockMail(t *testing.T) {
	m := NewMailer()

	token := &model.VerificationToken{
		UserID:    "someuser",
		Token:     "tok123",
		Purpose:   "email_verify",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	record, err := m.SendVerification(token, "a@example.com", "alice")
	if err != nil {
		t.Fatalf("send verification: %v", err)
	}

	got, ok := m.Record(record.ID)
	if !ok {
		t.Fatalf("record %s not found", record.ID)
	}
	if got.To != "a@example.com" || got.Token != "tok123" {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, ok := m.Record("mock_nope"); ok {
		t.Fatal("unknown record id should not resolve")
	}
}

func TestMailerRecordsForReturnsNewestFirst(t *testing.T) {
	m := NewMailer()

	token := &model.VerificationToken{UserID: "u", Token: "t1", Purpose: "email_verify", ExpiresAt: time.Now().Add(time.Hour)}

	first, err := m.SendVerification(token, "a@example.com", "alice")
	if err != nil {
		t.Fatalf("send first: %v", err)
	}

	// Separate the timestamps so the ordering assertion means something
	m.mu.Lock()
	m.records[first.ID].SentAt = m.records[first.ID].SentAt.Add(-time.Minute)
	m.mu.Unlock()

	second, err := m.SendVerification(token, "a@example.com", "alice")
	if err != nil {
		t.Fatalf("send second: %v", err)
	}

	if _, err := m.SendVerification(token, "b@example.com", "bob"); err != nil {
		t.Fatalf("send other: %v", err)
	}

	records := m.RecordsFor("a@example.com")
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d", len(records))
	}
	if records[0].ID != second.ID || records[1].ID != first.ID {
		t.Fatalf("records not newest first: %s, %s", records[0].ID, records[1].ID)
	}
}
