// Package mailer entrega las notificaciones por SMTP con cuerpos HTML renderizados desde plantillas.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Mentoria-api/internal/application/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[notification.Type]string{
	notification.TypeCorporateWelcome: "Welcome to Mentoria",
	notification.TypeMentorWelcome:    "Welcome, mentor",
	notification.TypeSchoolWelcome:    "Your school is registered",
	notification.TypeNewSignup:        "New signup in your programme",
	notification.TypeSchoolInvite:     "You're invited to Mentoria",
}

// Config datos del servidor SMTP.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Renderer compila una plantilla por tipo de notificación.
type Renderer struct {
	templates map[notification.Type]*template.Template
}

// NewRenderer parsea las plantillas embebidas.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[notification.Type]*template.Template, len(subjects))}
	for typ := range subjects {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+string(typ)+".html")
		if err != nil {
			return nil, fmt.Errorf("mailer: plantilla %s: %w", typ, err)
		}
		r.templates[typ] = t
	}
	return r, nil
}

// Render devuelve asunto y cuerpo HTML.
func (r *Renderer) Render(n notification.Notification) (subject, body string, err error) {
	t, ok := r.templates[n.Type]
	if !ok {
		return "", "", fmt.Errorf("mailer: sin plantilla para %q", n.Type)
	}
	subject = subjects[n.Type]
	data := n.Data
	if data == nil {
		data = map[string]string{}
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", map[string]any{"Subject": subject, "Data": data}); err != nil {
		return "", "", fmt.Errorf("mailer: render %s: %w", n.Type, err)
	}
	return subject, buf.String(), nil
}

var _ notification.Sender = (*SMTPSender)(nil)

// SMTPSender implementa notification.Sender con gomail.
type SMTPSender struct {
	cfg      Config
	renderer *Renderer
	dialer   *gomail.Dialer
}

// NewSMTPSender construye el sender.
func NewSMTPSender(cfg Config, renderer *Renderer) *SMTPSender {
	return &SMTPSender{
		cfg:      cfg,
		renderer: renderer,
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send renderiza y envía. gomail no acepta contexto: solo se comprueba antes de conectar.
func (s *SMTPSender) Send(ctx context.Context, to string, n notification.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body, err := s.renderer.Render(n)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mailer: smtp %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}
	return nil
}

var _ notification.Sender = (*LogSender)(nil)

// LogSender registra el email renderizado en lugar de enviarlo (SMTP sin configurar).
type LogSender struct {
	renderer *Renderer
	log      zerolog.Logger
}

// NewLogSender construye el sender de desarrollo.
func NewLogSender(renderer *Renderer, log zerolog.Logger) *LogSender {
	return &LogSender{renderer: renderer, log: log.With().Str("component", "mailer").Logger()}
}

func (s *LogSender) Send(_ context.Context, to string, n notification.Notification) error {
	subject, body, err := s.renderer.Render(n)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("to", to).
		Str("type", string(n.Type)).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("email no enviado (SMTP sin configurar)")
	return nil
}
