package mail

import (
	"context"
	"net/http"
	netmail "net/mail"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridMailer は SendGrid v3 API でレポートメールを送る。
type SendgridMailer struct {
	key  string
	host string
	from netmail.Address
}

var _ application.ReportMailer = (*SendgridMailer)(nil)

func NewSendgridMailer(key string, from netmail.Address) *SendgridMailer {
	return &SendgridMailer{key: key, host: sendgridHost, from: from}
}

func (m *SendgridMailer) SendReport(ctx context.Context, msg application.ReportEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To.Address) == "" {
		return application.ErrNoRecipient
	}

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sending email")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (m *SendgridMailer) prepare(msg application.ReportEmail) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	fromName := m.from.Name
	if strings.TrimSpace(msg.FromName) != "" {
		fromName = msg.FromName
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(sgmail.NewEmail(fromName, m.from.Address))
	if strings.TrimSpace(msg.ReplyTo) != "" {
		v3.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}
	v3.AddPersonalizations(p)
	v3.AddContent(
		sgmail.NewContent("text/plain", msg.TextBody),
		sgmail.NewContent("text/html", msg.HTMLBody),
	)
	return v3
}
