package leads

import (
	"regexp"
	"strings"
	"time"
)

// Source tags every lead captured through this API.
const Source = "landing_page"

// Deliberately permissive: local@domain.tld with no surrounding whitespace,
// not full RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Lead represents a captured prospect from the landing page form
type Lead struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Email       string    `json:"email"`
	Telefono    *string   `json:"telefono"`
	Source      string    `json:"source"`
	UTMSource   *string   `json:"utm_source"`
	UTMCampaign *string   `json:"utm_campaign"`
	UTMMedium   *string   `json:"utm_medium"`
	UTMContent  *string   `json:"utm_content"`
	UTMTerm     *string   `json:"utm_term"`
	CreatedAt   time.Time `json:"created_at"`
}

// SubscribeRequest is the raw form payload from the landing page.
type SubscribeRequest struct {
	Nombre   string  `json:"nombre"`
	Email    string  `json:"email"`
	Telefono *string `json:"telefono"`

	// Website is a decoy input hidden from humans; bots fill it.
	Website string `json:"website"`

	UTMSource   *string `json:"utm_source"`
	UTMCampaign *string `json:"utm_campaign"`
	UTMMedium   *string `json:"utm_medium"`
	UTMContent  *string `json:"utm_content"`
	UTMTerm     *string `json:"utm_term"`

	// SubmitTimestamp is epoch millis captured when the form was first
	// rendered. Zero means the client did not send one.
	SubmitTimestamp int64 `json:"submitTimestamp"`
}

// Validate checks required fields and email shape.
func (r *SubscribeRequest) Validate() error {
	if strings.TrimSpace(r.Nombre) == "" || strings.TrimSpace(r.Email) == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(NormalizeEmail(r.Email)) {
		return ErrInvalidEmail
	}
	return nil
}

// NewLead holds the columns for an insert. The repository assigns id and
// created_at.
type NewLead struct {
	Nombre      string
	Email       string
	Telefono    *string
	Source      string
	UTMSource   *string
	UTMCampaign *string
	UTMMedium   *string
	UTMContent  *string
	UTMTerm     *string
}

// NewLeadFromRequest builds insert parameters from a validated request:
// nombre trimmed, email normalized, telefono trimmed or nil, UTM fields
// passed through.
func NewLeadFromRequest(r *SubscribeRequest) *NewLead {
	var telefono *string
	if r.Telefono != nil {
		if t := strings.TrimSpace(*r.Telefono); t != "" {
			telefono = &t
		}
	}
	return &NewLead{
		Nombre:      strings.TrimSpace(r.Nombre),
		Email:       NormalizeEmail(r.Email),
		Telefono:    telefono,
		Source:      Source,
		UTMSource:   r.UTMSource,
		UTMCampaign: r.UTMCampaign,
		UTMMedium:   r.UTMMedium,
		UTMContent:  r.UTMContent,
		UTMTerm:     r.UTMTerm,
	}
}

// NormalizeEmail lower-cases and trims an address. Uniqueness is enforced
// over this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
