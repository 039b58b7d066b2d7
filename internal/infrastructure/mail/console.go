package mail

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	netmail "net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
)

// ConsoleMailer は送信せずに MIME メッセージを出力先へ書き出す。開発環境用。
// 書き出したメッセージは保持しない。
type ConsoleMailer struct {
	from netmail.Address
	out  io.Writer
	now  func() time.Time

	mu sync.Mutex
}

var _ application.ReportMailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(from netmail.Address, out io.Writer) *ConsoleMailer {
	return &ConsoleMailer{from: from, out: out, now: time.Now}
}

func (m *ConsoleMailer) SendReport(ctx context.Context, msg application.ReportEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To.Address) == "" {
		return application.ErrNoRecipient
	}

	body, err := m.render(msg)
	if err != nil {
		return err
	}

	if m.out == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := io.WriteString(m.out, body); err != nil {
		return errors.Wrap(err, "writing email")
	}
	return nil
}

func (m *ConsoleMailer) render(msg application.ReportEmail) (string, error) {
	from := m.from
	if strings.TrimSpace(msg.FromName) != "" {
		from.Name = msg.FromName
	}

	body := new(strings.Builder)
	altW := multipart.NewWriter(body)

	_, _ = fmt.Fprintf(body, "From: %s\r\n", from.String())
	if msg.ReplyTo != "" {
		_, _ = fmt.Fprintf(body, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	_, _ = fmt.Fprintf(body, "To: %s\r\n", msg.To.String())
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", msg.Subject)
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	_, _ = fmt.Fprint(body, "MIME-Version: 1.0\r\n")
	_, _ = fmt.Fprintf(body, "Content-Type: multipart/alternative; boundary=%s\r\n", altW.Boundary())
	_, _ = fmt.Fprint(body, "\r\n")

	w, err := altW.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return "", errors.Wrap(err, "creating text/plain part")
	}
	_, _ = fmt.Fprintf(w, "%s\r\n", msg.TextBody)

	w, err = altW.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return "", errors.Wrap(err, "creating text/html part")
	}
	_, _ = fmt.Fprintf(w, "%s\r\n", msg.HTMLBody)

	if err := altW.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart writer")
	}
	return body.String(), nil
}
