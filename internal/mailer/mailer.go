// Package mailer renders and delivers the storefront's transactional
// emails. Delivery errors are returned to the caller; the order flows
// log and swallow them so a dead SMTP relay never fails a checkout.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/skillcart/skillcart/config"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/internal/settings"
	"github.com/skillcart/skillcart/pkg/common"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	TemplateOrderConfirmation = "order_confirmation"
	TemplateDownloadLink      = "download_link"
	TemplatePaymentVerified   = "payment_verified"
)

// Sender is the capability the order lifecycle depends on.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, order *domain.Order, product *domain.Product) error
	SendDownloadLink(ctx context.Context, order *domain.Order, product *domain.Product) error
	SendPaymentVerified(ctx context.Context, order *domain.Order, product *domain.Product) error
}

// Dispatcher renders the named template and hands the message to SMTP.
type Dispatcher struct {
	cfg       config.SmtpConfig
	siteURL   string
	settings  *settings.Service
	templates *template.Template
	// send is swappable for tests.
	send func(m *gomail.Message) error
}

var _ Sender = (*Dispatcher)(nil)

func NewDispatcher(cfg config.SmtpConfig, siteURL string, st *settings.Service) (*Dispatcher, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "mailer templates")
	}
	d := &Dispatcher{cfg: cfg, siteURL: siteURL, settings: st, templates: tpl}
	d.send = func(m *gomail.Message) error {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return dialer.DialAndSend(m)
	}
	return d, nil
}

type mailContext struct {
	Order        *domain.Order
	Product      *domain.Product
	SiteName     string
	SiteURL      string
	SupportEmail string
}

// addresses resolves from/support, preferring site-settings overrides over
// the configured defaults.
func (d *Dispatcher) addresses(ctx context.Context) (siteName, from, support string) {
	siteName = "SKILCART"
	from = d.cfg.FromEmail
	support = d.cfg.SupportEmail
	if d.settings == nil {
		return
	}
	st, err := d.settings.Get(ctx)
	if err != nil {
		return
	}
	siteName = common.IfEmptyStr(st.SiteName, siteName)
	support = common.IfEmptyStr(st.SupportEmail, support)
	from = common.IfEmptyStr(st.FromEmail, common.IfEmptyStr(d.cfg.FromEmail, support))
	return
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)
var blankPattern = regexp.MustCompile(`\n{3,}`)

// StripTags derives the plain-text body from a rendered HTML document.
func StripTags(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&#34;", `"`)
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = blankPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func (d *Dispatcher) deliver(ctx context.Context, name, subjectPrefix string, order *domain.Order, product *domain.Product) error {
	siteName, from, support := d.addresses(ctx)

	var buf bytes.Buffer
	err := d.templates.ExecuteTemplate(&buf, name+".tmpl", mailContext{
		Order:        order,
		Product:      product,
		SiteName:     siteName,
		SiteURL:      d.siteURL,
		SupportEmail: support,
	})
	if err != nil {
		return errors.Wrapf(err, "render %s", name)
	}
	htmlBody := buf.String()

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", order.Email)
	m.SetHeader("Subject", fmt.Sprintf("%s - Order #%d - %s", subjectPrefix, order.ID, siteName))
	m.SetBody("text/plain", StripTags(htmlBody))
	m.AddAlternative("text/html", htmlBody)

	if err := d.send(m); err != nil {
		return errors.Wrapf(err, "send %s to %s", name, order.Email)
	}
	return nil
}

func (d *Dispatcher) SendOrderConfirmation(ctx context.Context, order *domain.Order, product *domain.Product) error {
	return d.deliver(ctx, TemplateOrderConfirmation, "Order Confirmation", order, product)
}

func (d *Dispatcher) SendDownloadLink(ctx context.Context, order *domain.Order, product *domain.Product) error {
	if order.DownloadLink == "" {
		return errors.New("mailer: order has no download link")
	}
	return d.deliver(ctx, TemplateDownloadLink, "Download Link", order, product)
}

func (d *Dispatcher) SendPaymentVerified(ctx context.Context, order *domain.Order, product *domain.Product) error {
	return d.deliver(ctx, TemplatePaymentVerified, "Payment Verified", order, product)
}
