package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/parcefx/landing-api/internal/leads"
	"github.com/parcefx/landing-api/pkg/logging"
)

const (
	welcomeSubject    = "🎯 Tu Estrategia de Trading Está Lista"
	dispatchTimeout   = 30 * time.Second
	strategyPDFName   = "Estrategia-ParceFX.pdf"
	notifySubjectBase = "🔔 Nuevo Lead: %s"
)

// Service sends the welcome email to new leads and an optional internal
// notification. All delivery is best effort: failures are logged and
// discarded, never retried, and never visible to the subscriber.
type Service struct {
	sender      EmailSender
	notifyEmail string
	pdfURL      string
	logger      *logging.Logger
}

// ServiceConfig holds notification settings.
type ServiceConfig struct {
	// NotifyEmail, when set, receives an internal email per new lead.
	NotifyEmail string
	// StrategyPDFURL, when set, is attached to the welcome email.
	StrategyPDFURL string
}

// NewService creates a notification service.
func NewService(sender EmailSender, cfg ServiceConfig, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:      sender,
		notifyEmail: cfg.NotifyEmail,
		pdfURL:      cfg.StrategyPDFURL,
		logger:      logger,
	}
}

// DispatchLeadCreated sends the post-signup emails in the background. The
// caller has already committed its response; nothing that happens here may
// propagate back, including panics.
func (s *Service) DispatchLeadCreated(lead *leads.Lead) {
	if s == nil || lead == nil {
		return
	}
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("lead notification panicked", "panic", rec, "lead_id", lead.ID)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := s.NotifyLeadCreated(ctx, lead); err != nil {
			s.logger.Error("lead notification failed", "error", err, "lead_id", lead.ID)
		}
	}()
}

// NotifyLeadCreated sends the welcome email and, when configured, the
// internal notification. Exposed synchronously for tests; production traffic
// goes through DispatchLeadCreated.
func (s *Service) NotifyLeadCreated(ctx context.Context, lead *leads.Lead) error {
	if s.sender == nil {
		s.logger.Debug("no email sender configured, skipping lead notification", "lead_id", lead.ID)
		return nil
	}

	msg := EmailMessage{
		To:      lead.Email,
		ToName:  lead.Nombre,
		Subject: welcomeSubject,
		HTML:    welcomeHTML(lead.Nombre, s.pdfURL != ""),
	}
	if s.pdfURL != "" {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename: strategyPDFName,
			Path:     s.pdfURL,
		})
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: welcome email: %w", err)
	}

	if s.notifyEmail != "" {
		internal := EmailMessage{
			To:      s.notifyEmail,
			Subject: fmt.Sprintf(notifySubjectBase, lead.Nombre),
			HTML:    leadNotificationHTML(lead),
		}
		if err := s.sender.Send(ctx, internal); err != nil {
			// The subscriber got their email; losing the internal copy is
			// only an operator inconvenience.
			s.logger.Error("internal lead notification failed", "error", err, "lead_id", lead.ID)
		}
	}

	return nil
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #FFD700, #FFED4E); color: #0D0D0D; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .header h1 { margin: 0; font-size: 28px; text-transform: uppercase; letter-spacing: 2px; }
    .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
    .content h2 { color: #FFD700; margin-top: 0; }
    .cta-button { display: inline-block; background: linear-gradient(135deg, #FFD700, #FFED4E); color: #0D0D0D; padding: 15px 40px; text-decoration: none; border-radius: 8px; font-weight: bold; text-transform: uppercase; margin: 20px 0; letter-spacing: 1px; }
    .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="header"><h1>PARCEFX</h1></div>
  <div class="content">
    <h2>¡Bienvenido, {{.Nombre}}! 🚀</h2>
    <p>Gracias por unirte a la comunidad de ParceFX.</p>
    {{if .HasPDF}}<p><strong>📎 Tu estrategia en PDF está adjunta a este email.</strong> Descárgala y guárdala.</p>{{end}}
    <p>¿Listo para el siguiente nivel? Únete al Parce VIP y opera en vivo conmigo.</p>
    <p style="text-align:center;"><a href="https://whop.com/parce4x-s-whop/parce-vip-senales-mentoria" class="cta-button">🎯 ÚNETE AL PARCE VIP</a></p>
  </div>
  <div class="footer"><p>ParceFX - Miami, Florida</p><p>Trading implica riesgos. Los resultados pasados no garantizan resultados futuros.</p></div>
</body>
</html>`))

var leadNotificationTmpl = template.Must(template.New("leadNotification").Parse(
	`<p><strong>Nombre:</strong> {{.Nombre}}<br/><strong>Email:</strong> {{.Email}}<br/>{{if .Telefono}}<strong>Teléfono:</strong> {{.Telefono}}<br/>{{end}}<strong>Fecha:</strong> {{.Fecha}}</p>`))

func welcomeHTML(nombre string, hasPDF bool) string {
	var buf bytes.Buffer
	_ = welcomeTmpl.Execute(&buf, struct {
		Nombre string
		HasPDF bool
	}{Nombre: nombre, HasPDF: hasPDF})
	return buf.String()
}

func leadNotificationHTML(lead *leads.Lead) string {
	telefono := ""
	if lead.Telefono != nil {
		telefono = *lead.Telefono
	}
	var buf bytes.Buffer
	_ = leadNotificationTmpl.Execute(&buf, struct {
		Nombre   string
		Email    string
		Telefono string
		Fecha    string
	}{
		Nombre:   lead.Nombre,
		Email:    lead.Email,
		Telefono: telefono,
		Fecha:    lead.CreatedAt.UTC().Format(time.RFC3339),
	})
	return buf.String()
}
