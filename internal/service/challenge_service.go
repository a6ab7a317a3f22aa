package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shareview/shareview/internal/model"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
	"github.com/shareview/shareview/internal/pkg/jwt"
	"github.com/shareview/shareview/internal/pkg/password"
	"github.com/shareview/shareview/internal/pkg/ratelimit"
	"github.com/shareview/shareview/internal/pkg/timeutil"
	"github.com/shareview/shareview/internal/repo"
)

// ChallengeService runs the OTP handshake: it issues emailed codes for
// a (link, email) pair and trades a correct code for an access token.
type ChallengeService struct {
	links        *repo.ShareLinkRepo
	challenges   *repo.OTPChallengeRepo
	sender       EmailSender
	pairLimiter  *ratelimit.Limiter
	ipLimiter    *ratelimit.Limiter
	accessSecret []byte
	sessionTTL   time.Duration
	otpTTL       time.Duration
	attempts     int
}

type ChallengeOptions struct {
	AccessSecret    []byte
	SessionTTL      time.Duration
	OTPTTL          time.Duration
	Attempts        int
	RateLimitWindow time.Duration
	RateLimitBurst  int
}

func NewChallengeService(links *repo.ShareLinkRepo, challenges *repo.OTPChallengeRepo, sender EmailSender, opts ChallengeOptions) *ChallengeService {
	return &ChallengeService{
		links:        links,
		challenges:   challenges,
		sender:       sender,
		pairLimiter:  ratelimit.NewLimiter(opts.RateLimitWindow, opts.RateLimitBurst),
		ipLimiter:    ratelimit.NewLimiter(opts.RateLimitWindow, opts.RateLimitBurst),
		accessSecret: opts.AccessSecret,
		sessionTTL:   opts.SessionTTL,
		otpTTL:       opts.OTPTTL,
		attempts:     opts.Attempts,
	}
}

// RequestChallenge issues a fresh code for the pair, superseding any
// pending one. A delivery failure is reported but leaves the challenge
// in place; re-requesting issues a new code.
func (s *ChallengeService) RequestChallenge(ctx context.Context, linkToken, email, clientIP string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return appErr.ErrInvalid
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return appErr.ErrInvalid
	}
	link, err := s.links.GetByToken(ctx, linkToken)
	if err != nil {
		return err
	}
	now := timeutil.NowUnix()
	if !link.IsLive(now) {
		return appErr.ErrLinkNotLive
	}
	if len(link.AllowedEmails) > 0 && !containsEmail(link.AllowedEmails, email) {
		return appErr.ErrEmailNotAllowed
	}
	if !s.pairLimiter.Allow(linkToken+"|"+email) || !s.ipLimiter.Allow(clientIP) {
		return appErr.ErrTooMany
	}

	code := newOTPCode()
	hash, err := password.Hash(code)
	if err != nil {
		return err
	}
	challenge := &model.OTPChallenge{
		ID:                newID(),
		LinkToken:         linkToken,
		Email:             email,
		CodeHash:          hash,
		State:             model.ChallengeStatePending,
		AttemptsRemaining: s.attempts,
		Ctime:             now,
		ExpiresAt:         now + int64(s.otpTTL/time.Second),
	}
	if err := s.challenges.Replace(ctx, challenge); err != nil {
		return err
	}

	subject := "Your access code"
	body := fmt.Sprintf("Your access code is %s. It expires in %d minutes.", code, int(s.otpTTL/time.Minute))
	if err := s.sender.Send(email, subject, body); err != nil {
		return appErr.ErrDeliveryFailed
	}
	return nil
}

type AccessGrant struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Verify checks a submitted code against the pending challenge for the
// pair. A wrong code burns one attempt; a correct one consumes the
// challenge (single use) and mints a bearer token capped by both the
// session TTL and the link's own expiry.
func (s *ChallengeService) Verify(ctx context.Context, linkToken, email, code string) (*AccessGrant, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, appErr.ErrInvalid
	}
	challenge, err := s.challenges.GetPending(ctx, linkToken, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrNoPendingChallenge
		}
		return nil, err
	}
	now := timeutil.NowUnix()
	if now >= challenge.ExpiresAt {
		return nil, appErr.ErrChallengeExpired
	}
	if challenge.AttemptsRemaining <= 0 {
		return nil, appErr.ErrAttemptsExhausted
	}
	if err := password.Compare(challenge.CodeHash, code); err != nil {
		if err := s.challenges.DecrementAttempts(ctx, challenge.ID); err != nil && !appErr.IsNotFound(err) {
			return nil, err
		}
		return nil, appErr.ErrInvalidCode
	}
	// CAS: of two racing verifiers with the correct code only one may
	// consume the challenge; the loser behaves as if none existed.
	if err := s.challenges.Consume(ctx, challenge.ID); err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrNoPendingChallenge
		}
		return nil, err
	}

	link, err := s.links.GetByToken(ctx, linkToken)
	if err != nil {
		return nil, err
	}
	if !link.IsLive(now) {
		return nil, appErr.ErrLinkNotLive
	}
	expiresAt := now + int64(s.sessionTTL/time.Second)
	if link.ExpiresAt < expiresAt {
		expiresAt = link.ExpiresAt
	}
	token, err := jwt.GenerateShareToken(linkToken, email, s.accessSecret, time.Unix(expiresAt, 0))
	if err != nil {
		return nil, err
	}
	return &AccessGrant{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func containsEmail(allowed []string, email string) bool {
	for _, candidate := range allowed {
		if candidate == email {
			return true
		}
	}
	return false
}
