package taskauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/taskauth/jwt"
	"github.com/MrEthical07/taskauth/session"
	"github.com/MrEthical07/taskauth/store"
)

// IssueSession creates or replaces the single session of userID, signs a
// token for it, and hands the token to tr. A nil tr is allowed; the token is
// returned in IssuedSession either way.
//
// A replaced session gets a new identifier, so tokens issued earlier for the
// same user stop resolving. Any failure returns ErrSessionCreationFailed and
// leaves tr untouched.
//
//	Performance: one store round trip, one HMAC signature.
func (e *Engine) IssueSession(ctx context.Context, tr TokenTransport, userID string) (*IssuedSession, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrSessionCreationFailed)
	}

	now := e.now()
	expiresAt := e.tokens.ExpiryFor(now)

	sctx, cancel := e.storeContext(ctx)
	rec, outcome, err := e.sessions.UpsertByUser(sctx, userID, expiresAt)
	cancel()
	if err != nil {
		e.metricInc(MetricSessionIssueFailure)
		e.storeFailure(err, "session upsert failed", "userID", userID)
		e.emitAudit(ctx, auditEventSessionFailed, false, userID, "", ErrSessionCreationFailed, nil)
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	// The record stays if signing fails; the next issue for this user
	// replaces it.
	token, tokenExpiry, err := e.tokens.Encode(jwt.Payload{SessionID: rec.ID, IssuedAt: now})
	if err != nil {
		e.metricInc(MetricSessionIssueFailure)
		e.log.Error(err, "session token signing failed", "userID", userID)
		e.emitAudit(ctx, auditEventSessionFailed, false, userID, rec.ID, ErrSessionCreationFailed, nil)
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	if tr != nil {
		tr.SetToken(token, tokenExpiry)
	}

	replaced := outcome == store.OutcomeReplaced
	eventType := auditEventSessionIssued
	if replaced {
		e.metricInc(MetricSessionReplaced)
		eventType = auditEventSessionReplaced
	} else {
		e.metricInc(MetricSessionCreated)
	}
	e.emitAudit(ctx, eventType, true, userID, rec.ID, nil, nil)

	return &IssuedSession{
		SessionID: rec.ID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: tokenExpiry,
		Replaced:  replaced,
	}, nil
}

// ResolveSession returns the session record behind the token presented by
// tr. Every failure, including an unreachable store, is ErrNoSession.
//
// The record's own ExpiresAt is not consulted: token verification already
// rejects expired tokens, and a record only outlives its token when the
// token is gone.
//
//	Performance: one HMAC verification, one store read.
func (e *Engine) ResolveSession(ctx context.Context, tr TokenTransport) (*session.Session, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricResolveLatency, time.Since(start)) }()
	}
	if tr == nil {
		return nil, ErrNoSession
	}

	token := tr.Token()
	if token == "" {
		return nil, ErrNoSession
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		e.metricInc(MetricSessionRejected)
		e.log.V(1).Info("session token rejected", "reason", err.Error())
		return nil, ErrNoSession
	}

	sctx, cancel := e.storeContext(ctx)
	rec, err := e.sessions.FindByID(sctx, claims.SID)
	cancel()
	if err != nil {
		e.metricInc(MetricSessionRejected)
		if errors.Is(err, store.ErrNotFound) {
			e.log.V(1).Info("session record not found", "sessionID", claims.SID)
		} else {
			e.storeFailure(err, "session lookup failed", "sessionID", claims.SID)
		}
		return nil, ErrNoSession
	}

	e.metricInc(MetricSessionResolved)
	return rec, nil
}

// CurrentUser returns the identity behind tr, or nil when there is no valid
// session or its user no longer exists.
func (e *Engine) CurrentUser(ctx context.Context, tr TokenTransport) *CurrentUser {
	rec, err := e.ResolveSession(ctx, tr)
	if err != nil {
		return nil
	}

	sctx, cancel := e.storeContext(ctx)
	profile, err := e.users.FindProfileByID(sctx, rec.UserID)
	cancel()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.storeFailure(err, "user lookup failed", "userID", rec.UserID)
		}
		return nil
	}

	return &CurrentUser{ID: profile.ID, Email: profile.Email}
}

// RevokeSession clears the client token and deletes the session it names.
// The token is cleared first and unconditionally, even when it is garbage,
// expired, or the store is down. Only a verified token leads to a delete.
func (e *Engine) RevokeSession(ctx context.Context, tr TokenTransport) error {
	if tr == nil {
		return nil
	}
	token := tr.Token()
	tr.ClearToken()

	if !e.ready() {
		return ErrEngineNotReady
	}
	if token == "" {
		return nil
	}

	sessionID, ok := e.tokens.Decode(token)
	if !ok {
		e.log.V(1).Info("revoke with unverifiable token")
		return nil
	}

	sctx, cancel := e.storeContext(ctx)
	err := e.sessions.DeleteByID(sctx, sessionID)
	cancel()
	if err != nil {
		e.storeFailure(err, "session delete failed", "sessionID", sessionID)
		return fmt.Errorf("%w: %v", ErrSessionInvalidationFailed, err)
	}

	e.metricInc(MetricSessionRevoked)
	e.emitAudit(ctx, auditEventSessionRevoked, true, "", sessionID, nil, nil)
	return nil
}
