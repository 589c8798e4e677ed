package taskauth

import (
	"github.com/MrEthical07/taskauth/internal/security"
	"github.com/MrEthical07/taskauth/jwt"
)

// SecurityReport describes the security posture of a built engine. Warnings
// lists settings weaker than [DefaultConfig].
type SecurityReport = security.Report

// SecurityReport summarizes the engine configuration. It is safe to log.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}
	return security.BuildReport(security.ReportInput{
		SigningAlgorithm: jwt.Algorithm,
		SecretLength:     len(e.config.JWT.Secret),
		Issuer:           e.config.JWT.Issuer,
		SessionLifetime:  e.config.Session.Lifetime,
		BcryptCost:       e.config.Password.Cost,
		PasswordUpgrade:  e.config.Password.UpgradeOnLogin,
		CookieSecure:     e.config.Cookie.Secure,
		CookieSameSite:   e.config.Cookie.SameSite,
		AuditEnabled:     e.config.Audit.Enabled,
		MetricsEnabled:   e.config.Metrics.Enabled,
		StoreTimeout:     e.config.Store.OperationTimeout,
	})
}
