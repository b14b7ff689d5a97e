// Package notify sends registration summary emails.
package notify

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

const (
	SubjectConfirmation = "Your Registration Confirmation"
	SubjectUpdate       = "Your Registration Has Been Updated"
)

// Notifier delivers a registration summary to an attendee.
type Notifier interface {
	SendSummary(ctx context.Context, s model.Summary) error
}

//go:embed templates/summary.html
var summaryTemplate string

var summaryTmpl = template.Must(template.New("summary").Parse(summaryTemplate))

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Render builds the subject and HTML body for a summary.
func Render(s model.Summary, now time.Time) (Message, error) {
	subject := SubjectConfirmation
	heading := "Registration Confirmed!"
	if s.IsUpdate {
		subject = SubjectUpdate
		heading = "Registration Updated!"
	}
	name := s.Name
	if name == "" {
		name = "Participant"
	}

	var buf bytes.Buffer
	err := summaryTmpl.Execute(&buf, struct {
		Heading string
		Name    string
		Lines   []model.SummaryLine
		Year    int
	}{heading, name, s.Lines, now.Year()})
	if err != nil {
		return Message{}, fmt.Errorf("render summary: %w", err)
	}
	return Message{To: s.Email, Subject: subject, HTML: buf.String()}, nil
}

// LogNotifier writes summaries to the log instead of sending them. It is
// used when no SMTP server is configured.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendSummary(_ context.Context, s model.Summary) error {
	msg, err := Render(s, time.Now())
	if err != nil {
		return err
	}
	n.log.Info("registration summary (smtp disabled)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("lines", len(s.Lines)),
	)
	return nil
}
