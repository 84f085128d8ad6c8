package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"stackit/qa-api/internal/model"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// MailRecord is one sent (or mock-sent) verification email. In mock mode
// these are queryable over the API so the demo frontend can show them.
type MailRecord struct {
	ID       string    `json:"id"`
	To       string    `json:"to"`
	Username string    `json:"username"`
	Subject  string    `json:"subject"`
	Token    string    `json:"verificationToken"`
	Link     string    `json:"verificationLink"`
	SentAt   time.Time `json:"timestamp"`
	Body     string    `json:"content"`
}

// Mailer delivers verification emails. In mock mode nothing leaves the
// process, records accumulate in memory; in smtp mode delivery goes
// through gomail. The mailer is passed around explicitly, handlers never
// reach for a process-wide store.
type Mailer struct {
	mu      sync.Mutex
	records map[string]*MailRecord
}

func NewMailer() *Mailer {
	return &Mailer{
		records: make(map[string]*MailRecord),
	}
}

// SendVerification renders and delivers the verification mail for t.
func (m *Mailer) SendVerification(t *model.VerificationToken, email, username string) (*MailRecord, error) {
	id, err := gonanoid.New(12)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("http://%s/verify-email?token=%s", viper.GetString("host.domain"), t.Token)

	record := &MailRecord{
		ID:       "mock_" + id,
		To:       email,
		Username: username,
		Subject:  "Welcome to StackIt - Verify Your Email",
		Token:    t.Token,
		Link:     link,
		SentAt:   time.Now(),
		Body: fmt.Sprintf(
			"Hi %s!\n\nThanks for joining StackIt! Click the link below to verify your email.\n\n%s\n\nThis link expires in 24 hours.",
			username, link),
	}

	if viper.GetString("mail.mode") == "smtp" {
		if err := m.sendSMTP(record); err != nil {
			return nil, err
		}
	} else {
		zap.L().Info("Mock verification email recorded",
			zap.String("emailID", record.ID),
			zap.String("to", email),
			zap.String("link", link),
		)
	}

	m.mu.Lock()
	m.records[record.ID] = record
	m.mu.Unlock()

	return record, nil
}

func (m *Mailer) sendSMTP(r *MailRecord) error {
	from := viper.GetString("mail.sender_address")

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", r.To)
	msg.SetHeader("Subject", r.Subject)
	msg.SetBody("text/html", fmt.Sprintf("Hi %s!<br><br>Click <a href='%s'>here</a> to verify your StackIt account.<br><br>This link will expire in 24 hours", r.Username, r.Link))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(msg)
}

// Record returns a recorded email by its ID.
func (m *Mailer) Record(id string) (*MailRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	return r, ok
}

// RecordsFor returns every recorded email addressed to email, newest
// first.
func (m *Mailer) RecordsFor(email string) []*MailRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*MailRecord
	for _, r := range m.records {
		if r.To == email {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SentAt.After(out[j].SentAt)
	})

	return out
}
