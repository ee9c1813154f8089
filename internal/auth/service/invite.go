package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/metrics"
	"github.com/aussiebroadwan/lectern/internal/auth/notify"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/idx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

// InviteNotifier is the notification side of the lifecycle. Dispatch must
// not block on delivery.
type InviteNotifier interface {
	Dispatch(ctx context.Context, m notify.Message)
	Deliver(ctx context.Context, m notify.Message) bool
}

// InviteService owns the invite lifecycle. It is the only writer of used_at.
type InviteService struct {
	Store       store.Store
	Notifier    InviteNotifier
	Provisioner *AccountProvisioner

	// PublicURL is the frontend base the acceptance link points at.
	PublicURL string
	TTL       time.Duration
	Clock     Clock
	NewToken  TokenGenerator
}

type IssueInviteParams struct {
	Email    string
	CourseID string
	IssuerID string
}

type IssuedInvite struct {
	Invite        domain.Invite
	Course        domain.Course
	AcceptanceURL string

	// Reused is set when a pending invite already existed and was returned.
	Reused bool
}

// Issue returns the pending invite for (email, course), creating one when
// there is none or the last one expired. Either way the invitee is notified
// in the background; Issue does not wait for it.
func (s *InviteService) Issue(ctx context.Context, p IssueInviteParams) (out IssuedInvite, err error) {
	ctx, span := tracer.Start(ctx, "InviteService.Issue")
	span.SetAttributes(attribute.String("course.id", p.CourseID))
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	email, err := normalizeEmail(p.Email)
	if err != nil {
		return IssuedInvite{}, err
	}
	p.Email = email

	// A unique conflict means another issuer took the slot between our read
	// and insert. The retry finds their invite and reuses it.
	out, err = s.issueOnce(ctx, p)
	if errors.Is(err, store.ErrAlreadyExists) {
		log.Debug("invite slot taken concurrently, retrying",
			slog.String("course_id", p.CourseID),
		)
		out, err = s.issueOnce(ctx, p)
	}
	if err != nil {
		return IssuedInvite{}, err
	}

	span.SetAttributes(attribute.String("invite.id", out.Invite.ID), attribute.Bool("invite.reused", out.Reused))
	if out.Reused {
		metrics.InviteIssued(metrics.IssueReused)
		log.Info("pending invite reused",
			slog.String("invite_id", out.Invite.ID),
			slog.String("course_id", out.Course.ID),
			slog.String("issuer_id", p.IssuerID),
		)
	} else {
		metrics.InviteIssued(metrics.IssueCreated)
		log.Info("invite created",
			slog.String("invite_id", out.Invite.ID),
			slog.String("course_id", out.Course.ID),
			slog.String("issuer_id", p.IssuerID),
			slog.Time("expires_at", out.Invite.ExpiresAt),
		)
	}

	s.Notifier.Dispatch(ctx, s.message(out.Invite, out.Course, out.AcceptanceURL, out.Reused))
	return out, nil
}

func (s *InviteService) issueOnce(ctx context.Context, p IssueInviteParams) (IssuedInvite, error) {
	now := s.Clock.now()
	var out IssuedInvite

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. The course must exist.
		course, err := tx.Courses().GetCourseByID(ctx, p.CourseID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("lookup course: %w", err)
		}
		out.Course = course

		// 2. Reuse the slot holder while it is pending; free it once expired.
		pending, err := tx.Invites().GetPendingInvite(ctx, p.Email, course.ID)
		switch {
		case err == nil && !pending.IsExpiredAt(now):
			token, err := openToken(pending)
			if err != nil {
				return err
			}
			out.Invite = pending
			out.AcceptanceURL = s.acceptanceURL(pending.Email, token)
			out.Reused = true
			return nil
		case err == nil:
			if err := tx.Invites().ReleasePendingSlot(ctx, pending.ID); err != nil {
				return fmt.Errorf("release expired invite: %w", err)
			}
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("lookup pending invite: %w", err)
		}

		// 3. Mint a new invite.
		newToken := s.NewToken
		if newToken == nil {
			newToken = DefaultInviteToken
		}
		token, err := newToken()
		if err != nil {
			return fmt.Errorf("generate invite token: %w", err)
		}
		sealed, err := cryptox.Seal([]byte(token))
		if err != nil {
			return fmt.Errorf("seal invite token: %w", err)
		}

		inv := domain.Invite{
			ID:          idx.NewAt(now).String(),
			Email:       p.Email,
			CourseID:    course.ID,
			TokenHash:   cryptox.FingerprintToken(token),
			TokenSealed: sealed,
			CreatedBy:   p.IssuerID,
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.ttl()),
		}
		if err := tx.Invites().CreateInvite(ctx, inv); err != nil {
			return err
		}

		out.Invite = inv
		out.AcceptanceURL = s.acceptanceURL(inv.Email, token)
		return nil
	})
	return out, err
}

// VerifyStatus is the outcome of Verify.
type VerifyStatus string

const (
	VerifyValid       VerifyStatus = "valid"
	VerifyAlreadyUsed VerifyStatus = "already_used"
	VerifyExpired     VerifyStatus = "expired"
	VerifyNotFound    VerifyStatus = "not_found"
)

type Verification struct {
	Status        VerifyStatus
	Invite        domain.Invite
	Course        domain.Course
	AccountExists bool
}

// Verify classifies a token without changing anything, so it is safe to
// call any number of times. Unknown tokens are ErrInviteNotFound.
func (s *InviteService) Verify(ctx context.Context, token string) (v Verification, err error) {
	ctx, span := tracer.Start(ctx, "InviteService.Verify")
	defer func() { endSpan(span, err) }()

	inv, course, err := s.lookup(ctx, s.Store, token)
	if err != nil {
		return Verification{Status: VerifyNotFound}, err
	}

	v = Verification{Invite: inv, Course: course}
	switch inv.StateAt(s.Clock.now()) {
	case domain.InviteStateConsumed:
		v.Status = VerifyAlreadyUsed
	case domain.InviteStateExpired:
		v.Status = VerifyExpired
	default:
		v.Status = VerifyValid
	}

	_, err = s.Store.Users().GetUserByEmail(ctx, inv.Email)
	switch {
	case err == nil:
		v.AccountExists = true
	case !errors.Is(err, store.ErrNotFound):
		return Verification{}, fmt.Errorf("lookup user: %w", err)
	}

	span.SetAttributes(attribute.String("invite.id", inv.ID), attribute.String("invite.status", string(v.Status)))
	return v, nil
}

// Consume marks the invite used. Checks run in order: unknown token, email
// mismatch (exact), already used, expired. Losing a race to a concurrent
// consumer reports ErrInviteAlreadyUsed, which callers treat as success;
// the returned invite then carries the winner's used_at.
func (s *InviteService) Consume(ctx context.Context, token, expectedEmail string) (inv domain.Invite, err error) {
	ctx, span := tracer.Start(ctx, "InviteService.Consume")
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)
	now := s.Clock.now()

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		inv, err = tx.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteNotFound
			}
			return fmt.Errorf("lookup invite: %w", err)
		}

		if inv.Email != expectedEmail {
			log.Warn("invite consume email mismatch",
				slog.String("invite_id", inv.ID),
				slog.String("invite_email", inv.Email),
				slog.String("supplied_email", expectedEmail),
			)
			return ErrInviteEmailMismatch
		}

		if inv.IsUsed() {
			return ErrInviteAlreadyUsed
		}
		if inv.IsExpiredAt(now) {
			return ErrInviteExpired
		}

		ok, err := tx.Invites().MarkInviteUsed(ctx, inv.ID, now)
		if err != nil {
			return fmt.Errorf("mark invite used: %w", err)
		}
		if !ok {
			inv, err = tx.Invites().GetInviteByID(ctx, inv.ID)
			if err != nil {
				return fmt.Errorf("re-read invite: %w", err)
			}
			if inv.IsUsed() {
				return ErrInviteAlreadyUsed
			}
			return ErrInviteExpired
		}

		inv.UsedAt = &now
		return nil
	})

	metrics.InviteConsumed(consumeOutcome(err))
	if err != nil {
		return inv, err
	}

	span.SetAttributes(attribute.String("invite.id", inv.ID))
	log.Info("invite consumed",
		slog.String("invite_id", inv.ID),
		slog.String("course_id", inv.CourseID),
	)
	return inv, nil
}

func consumeOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInviteNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInviteEmailMismatch):
		return metrics.OutcomeEmailMismatch
	case errors.Is(err, ErrInviteAlreadyUsed):
		return metrics.OutcomeAlreadyUsed
	case errors.Is(err, ErrInviteExpired):
		return metrics.OutcomeExpired
	default:
		return metrics.OutcomeError
	}
}

type AutoLogin struct {
	Email       string
	DisplayName string
	CourseTitle string

	// Created is set when the account was provisioned by this call.
	Created bool
}

// AutoProvision makes sure the invitee has an account so the invite can be
// used to log in. It does not consume the invite.
func (s *InviteService) AutoProvision(ctx context.Context, token, nameHint string) (out AutoLogin, err error) {
	ctx, span := tracer.Start(ctx, "InviteService.AutoProvision")
	defer func() { endSpan(span, err) }()

	inv, course, err := s.lookup(ctx, s.Store, token)
	if err != nil {
		return AutoLogin{}, err
	}
	if err := pendingErr(inv, s.Clock.now()); err != nil {
		return AutoLogin{}, err
	}

	u, created, err := s.Provisioner.EnsureAccount(ctx, inv.Email, nameHint)
	if err != nil {
		return AutoLogin{}, err
	}

	return AutoLogin{
		Email:       u.Email,
		DisplayName: u.Name,
		CourseTitle: course.Title,
		Created:     created,
	}, nil
}

type AcceptParams struct {
	Token    string
	Name     string
	Password string
}

type Accepted struct {
	User   domain.User
	Invite domain.Invite
	Course domain.Course
}

// Accept is the landing page path: the invitee picks a password, the
// account is created and the invite consumed in one transaction. If the
// email already has an account the invitee has to log in instead.
func (s *InviteService) Accept(ctx context.Context, p AcceptParams) (out Accepted, err error) {
	ctx, span := tracer.Start(ctx, "InviteService.Accept")
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	if len(p.Password) < minPasswordLength {
		return Accepted{}, ErrWeakPassword
	}
	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return Accepted{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock.now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, course, err := s.lookup(ctx, tx, p.Token)
		if err != nil {
			return err
		}
		if err := pendingErr(inv, now); err != nil {
			return err
		}

		_, err = tx.Users().GetUserByEmail(ctx, inv.Email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("lookup user: %w", err)
		}

		u := domain.User{
			ID:           idx.NewAt(now).String(),
			Email:        inv.Email,
			Name:         displayName(p.Name, inv.Email),
			PasswordHash: hash,
			Role:         domain.RoleStudent,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}

		ok, err := tx.Invites().MarkInviteUsed(ctx, inv.ID, now)
		if err != nil {
			return fmt.Errorf("mark invite used: %w", err)
		}
		if !ok {
			return ErrInviteAlreadyUsed
		}
		inv.UsedAt = &now

		out = Accepted{User: u, Invite: inv, Course: course}
		return nil
	})
	metrics.InviteConsumed(consumeOutcome(err))
	if err != nil {
		return Accepted{}, err
	}

	log.Info("invite accepted",
		slog.String("invite_id", out.Invite.ID),
		slog.String("user_id", out.User.ID),
		slog.String("course_id", out.Course.ID),
	)
	return out, nil
}

type InviteView struct {
	Invite domain.Invite
	State  domain.InviteState

	// AcceptanceURL is only set for pending invites.
	AcceptanceURL string
}

// ListForCourse returns the course's invites, newest first. Owner only.
func (s *InviteService) ListForCourse(ctx context.Context, courseID, issuerID string) ([]InviteView, error) {
	log := slogx.FromContext(ctx)

	if _, err := requireOwner(ctx, s.Store, courseID, issuerID); err != nil {
		return nil, err
	}

	invites, err := s.Store.Invites().ListInvitesByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}

	now := s.Clock.now()
	out := make([]InviteView, 0, len(invites))
	for _, inv := range invites {
		view := InviteView{Invite: inv, State: inv.StateAt(now)}
		if view.State == domain.InviteStatePending {
			if token, err := openToken(inv); err == nil {
				view.AcceptanceURL = s.acceptanceURL(inv.Email, token)
			} else {
				log.Warn("cannot rebuild acceptance url", slog.String("invite_id", inv.ID))
			}
		}
		out = append(out, view)
	}
	return out, nil
}

type ResendResult struct {
	Invite        domain.Invite
	AcceptanceURL string
	Delivered     bool
}

// Resend sends the notification for a pending invite again and waits for
// the outcome. Owner only. Consumed and expired invites are refused.
func (s *InviteService) Resend(ctx context.Context, inviteID, issuerID string) (out ResendResult, err error) {
	ctx, span := tracer.Start(ctx, "InviteService.Resend")
	span.SetAttributes(attribute.String("invite.id", inviteID))
	defer func() { endSpan(span, err) }()

	inv, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ResendResult{}, ErrInviteNotFound
		}
		return ResendResult{}, fmt.Errorf("lookup invite: %w", err)
	}

	course, err := requireOwner(ctx, s.Store, inv.CourseID, issuerID)
	if err != nil {
		return ResendResult{}, err
	}

	if err := pendingErr(inv, s.Clock.now()); err != nil {
		return ResendResult{}, err
	}

	token, err := openToken(inv)
	if err != nil {
		return ResendResult{}, err
	}

	out = ResendResult{Invite: inv, AcceptanceURL: s.acceptanceURL(inv.Email, token)}
	out.Delivered = s.Notifier.Deliver(ctx, s.message(inv, course, out.AcceptanceURL, true))
	return out, nil
}

// lookup resolves a raw token to its invite and course using r, which may
// be the root store or a transaction.
func (s *InviteService) lookup(ctx context.Context, r store.Store, token string) (domain.Invite, domain.Course, error) {
	if token == "" {
		return domain.Invite{}, domain.Course{}, ErrInviteNotFound
	}

	inv, err := r.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, domain.Course{}, ErrInviteNotFound
		}
		return domain.Invite{}, domain.Course{}, fmt.Errorf("lookup invite: %w", err)
	}

	course, err := r.Courses().GetCourseByID(ctx, inv.CourseID)
	if err != nil {
		return domain.Invite{}, domain.Course{}, fmt.Errorf("lookup course: %w", err)
	}
	return inv, course, nil
}

func pendingErr(inv domain.Invite, now time.Time) error {
	switch inv.StateAt(now) {
	case domain.InviteStateConsumed:
		return ErrInviteAlreadyUsed
	case domain.InviteStateExpired:
		return ErrInviteExpired
	}
	return nil
}

func openToken(inv domain.Invite) (string, error) {
	raw, err := cryptox.Open(inv.TokenSealed)
	if err != nil {
		return "", fmt.Errorf("%w: invite %s", ErrInviteTokenUnavailable, inv.ID)
	}
	return string(raw), nil
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultInviteTTL
	}
	return s.TTL
}

// acceptanceURL is {PublicURL}/login?email=...&token=...
func (s *InviteService) acceptanceURL(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return strings.TrimRight(s.PublicURL, "/") + "/login?" + q.Encode()
}

func (s *InviteService) message(inv domain.Invite, course domain.Course, link string, resend bool) notify.Message {
	return notify.Message{
		InviteID:          inv.ID,
		To:                inv.Email,
		CourseTitle:       course.Title,
		CourseDescription: course.Description,
		AcceptanceURL:     link,
		ExpiresAt:         inv.ExpiresAt,
		Resend:            resend,
	}
}
