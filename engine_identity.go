package taskauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/taskauth/store"
	"github.com/MrEthical07/taskauth/user"
)

// Signup registers (or re-registers) the email and signs the caller in.
//
// All three fields are trimmed; each must be non-empty and the password must
// equal its confirmation. An existing account with the same email keeps its
// identifier and gets the new password. Every failure yields Result{Done:
// false} with no detail.
func (e *Engine) Signup(ctx context.Context, tr TokenTransport, form SignupForm) Result {
	if !e.ready() {
		return Result{}
	}
	u, err := e.signup(ctx, tr, form)
	if err != nil {
		e.metricInc(MetricSignupFailure)
		e.log.V(1).Info("signup rejected", "reason", err.Error())
		e.emitAudit(ctx, auditEventSignupFailure, false, "", "", err, nil)
		return Result{}
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, auditEventSignupSuccess, true, u.ID, "", nil, nil)
	return Result{Done: true}
}

func (e *Engine) signup(ctx context.Context, tr TokenTransport, form SignupForm) (*user.User, error) {
	email := strings.TrimSpace(form.Email)
	pw := strings.TrimSpace(form.Password)
	confirm := strings.TrimSpace(form.ConfirmPassword)
	if email == "" || pw == "" || confirm == "" {
		return nil, fmt.Errorf("%w: missing field", ErrSignupInvalid)
	}
	if pw != confirm {
		return nil, fmt.Errorf("%w: password confirmation mismatch", ErrSignupInvalid)
	}

	digest, err := e.hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignupInvalid, err)
	}

	sctx, cancel := e.storeContext(ctx)
	u, _, err := e.users.UpsertByEmail(sctx, email, digest)
	cancel()
	if err != nil {
		e.storeFailure(err, "user upsert failed")
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}

	if _, err := e.IssueSession(ctx, tr, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and signs the caller in. An unknown email
// and a wrong password produce the same Result{Done: false}. A failed login
// never touches tr, so an existing session survives it.
func (e *Engine) Login(ctx context.Context, tr TokenTransport, form LoginForm) Result {
	if !e.ready() {
		return Result{}
	}
	u, err := e.login(ctx, tr, form)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.log.V(1).Info("login rejected", "reason", err.Error())
		e.emitAudit(ctx, auditEventLoginFailure, false, "", "", err, nil)
		return Result{}
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, u.ID, "", nil, nil)
	return Result{Done: true}
}

func (e *Engine) login(ctx context.Context, tr TokenTransport, form LoginForm) (*user.User, error) {
	email := strings.TrimSpace(form.Email)
	pw := strings.TrimSpace(form.Password)
	if email == "" || pw == "" {
		return nil, ErrInvalidCredentials
	}

	sctx, cancel := e.storeContext(ctx)
	u, err := e.users.FindByEmail(sctx, email)
	cancel()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.hasher.Verify(pw, e.dummyDigest)
			return nil, ErrInvalidCredentials
		}
		e.storeFailure(err, "user lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}

	if !e.hasher.Verify(pw, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if _, err := e.IssueSession(ctx, tr, u.ID); err != nil {
		return nil, err
	}

	if e.config.Password.UpgradeOnLogin {
		e.upgradePassword(ctx, u, pw)
	}
	return u, nil
}

// upgradePassword re-hashes a verified password whose digest was produced at
// a different cost. Failures are logged and otherwise ignored.
func (e *Engine) upgradePassword(ctx context.Context, u *user.User, pw string) {
	needs, err := e.hasher.NeedsUpgrade(u.PasswordHash)
	if err != nil || !needs {
		return
	}

	digest, err := e.hasher.Hash(pw)
	if err != nil {
		e.log.Error(err, "password rehash failed", "userID", u.ID)
		return
	}

	sctx, cancel := e.storeContext(ctx)
	err = e.users.UpdatePasswordHash(sctx, u.ID, digest)
	cancel()
	if err != nil {
		e.storeFailure(err, "password rehash store failed", "userID", u.ID)
		return
	}
	e.metricInc(MetricPasswordRehashed)
}

// Logout revokes the caller's session. The client token is always cleared;
// store failures are logged and swallowed.
func (e *Engine) Logout(ctx context.Context, tr TokenTransport) {
	if err := e.RevokeSession(ctx, tr); err != nil {
		if e != nil {
			e.log.Error(err, "logout could not delete session record")
		}
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", "", nil, nil)
}
