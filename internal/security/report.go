package security

import (
	"net/http"
	"time"
)

// Thresholds below which BuildReport flags a setting.
const (
	MinBcryptCost      = 10
	MaxSessionLifetime = 30 * 24 * time.Hour
	MinSecretLength    = 32
)

type Report struct {
	SigningAlgorithm string
	SessionLifetime  time.Duration
	BcryptCost       int
	PasswordUpgrade  bool
	CookieSecure     bool
	CookieSameSite   string
	CookieHardened   bool
	IssuerBound      bool
	AuditEnabled     bool
	MetricsEnabled   bool
	StoreTimeout     time.Duration
	Warnings         []string
}

type ReportInput struct {
	SigningAlgorithm string
	SecretLength     int
	Issuer           string
	SessionLifetime  time.Duration
	BcryptCost       int
	PasswordUpgrade  bool
	CookieSecure     bool
	CookieSameSite   http.SameSite
	AuditEnabled     bool
	MetricsEnabled   bool
	StoreTimeout     time.Duration
}

// BuildReport summarizes input and lists the settings weaker than the
// production defaults. The secret itself never reaches the report.
func BuildReport(input ReportInput) Report {
	r := Report{
		SigningAlgorithm: input.SigningAlgorithm,
		SessionLifetime:  input.SessionLifetime,
		BcryptCost:       input.BcryptCost,
		PasswordUpgrade:  input.PasswordUpgrade,
		CookieSecure:     input.CookieSecure,
		CookieSameSite:   sameSiteName(input.CookieSameSite),
		CookieHardened:   input.CookieSecure && input.CookieSameSite != http.SameSiteNoneMode,
		IssuerBound:      input.Issuer != "",
		AuditEnabled:     input.AuditEnabled,
		MetricsEnabled:   input.MetricsEnabled,
		StoreTimeout:     input.StoreTimeout,
	}

	if input.SecretLength < MinSecretLength {
		r.Warnings = append(r.Warnings, "signing secret shorter than 32 bytes")
	}
	if input.BcryptCost < MinBcryptCost {
		r.Warnings = append(r.Warnings, "bcrypt cost below 10")
	}
	if !input.CookieSecure {
		r.Warnings = append(r.Warnings, "session cookie sent over plain HTTP")
	}
	if input.SessionLifetime > MaxSessionLifetime {
		r.Warnings = append(r.Warnings, "session lifetime above 30 days")
	}
	if input.StoreTimeout <= 0 {
		r.Warnings = append(r.Warnings, "store calls are unbounded")
	}
	return r
}

func sameSiteName(m http.SameSite) string {
	switch m {
	case http.SameSiteLaxMode:
		return "lax"
	case http.SameSiteStrictMode:
		return "strict"
	case http.SameSiteNoneMode:
		return "none"
	default:
		return "default"
	}
}
