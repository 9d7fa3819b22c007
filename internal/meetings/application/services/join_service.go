package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	notificationsDomain "github.com/felixgeelhaar/huddle/internal/notifications/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
)

// RoomGrant describes a requester entering a video room.
type RoomGrant struct {
	Room        string
	Identity    string
	DisplayName string
	MaxUsers    int
}

// RoomTokenIssuer is the video transport boundary. It is only called for
// allowed decisions.
type RoomTokenIssuer interface {
	Issue(ctx context.Context, grant RoomGrant) (string, error)
}

// DecisionRecorder counts access decisions.
type DecisionRecorder interface {
	RecordDecision(meetingType domain.Type, outcome domain.Outcome)
}

// JoinRequest asks to enter the meeting identified by JoinCode.
type JoinRequest struct {
	JoinCode    string
	Requester   sharedDomain.UserID
	DisplayName string
}

// JoinResult is what the caller acts on: enter the room with Token, or
// follow Redirect.
type JoinResult struct {
	Decision     domain.Decision
	Redirect     string
	Notification *notificationsDomain.Notification
	Room         string
	Identity     string
	DisplayName  string
	Token        string
}

// JoinService looks up a meeting, resolves access and carries out the
// caller-side effects of the decision.
type JoinService struct {
	repo     domain.Repository
	inbox    notificationsDomain.Inbox
	issuer   RoomTokenIssuer
	recorder DecisionRecorder
	clock    sharedDomain.Clock
	fallback domain.JoinCodeGenerator
	logger   *slog.Logger
}

// JoinServiceOption configures a JoinService.
type JoinServiceOption func(*JoinService)

// WithDecisionRecorder records every decision.
func WithDecisionRecorder(recorder DecisionRecorder) JoinServiceOption {
	return func(s *JoinService) { s.recorder = recorder }
}

// WithFallbackIdentity replaces the generator used for requesters without
// an identity or display name.
func WithFallbackIdentity(generate domain.JoinCodeGenerator) JoinServiceOption {
	return func(s *JoinService) { s.fallback = generate }
}

// NewJoinService creates a JoinService.
func NewJoinService(
	repo domain.Repository,
	inbox notificationsDomain.Inbox,
	issuer RoomTokenIssuer,
	clock sharedDomain.Clock,
	logger *slog.Logger,
	opts ...JoinServiceOption,
) *JoinService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &JoinService{
		repo:     repo,
		inbox:    inbox,
		issuer:   issuer,
		clock:    clock,
		fallback: domain.GenerateJoinCode,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Join resolves the request. A failed lookup is reported as not found, and
// a failed notification push is logged without failing the join. Only a
// transport error is returned. Anonymous requesters have no inbox of their
// own, so their feedback is only returned in the result.
func (s *JoinService) Join(ctx context.Context, req JoinRequest) (*JoinResult, error) {
	meeting, err := s.repo.FindByJoinCode(ctx, req.JoinCode)
	if err != nil {
		s.logger.Warn("meeting lookup failed",
			"join_code", req.JoinCode,
			"error", err,
		)
		meeting = nil
	}

	decision := domain.Resolve(meeting, req.Requester, s.clock.Now())
	s.record(meeting, decision)

	s.logger.Debug("access resolved",
		"join_code", req.JoinCode,
		"requester", req.Requester.String(),
		"decision", decision.String(),
	)

	result := &JoinResult{
		Decision: decision,
		Redirect: RedirectFor(decision, req.Requester.IsAnonymous()),
	}

	if feedback, ok := FeedbackFor(decision); ok {
		result.Notification = s.deliverFeedback(ctx, req, feedback)
	}

	if !decision.IsAllowed() {
		return result, nil
	}

	grant := s.grantFor(meeting, req)
	token, err := s.issuer.Issue(ctx, grant)
	if err != nil {
		return nil, fmt.Errorf("issue room token: %w", err)
	}

	result.Room = grant.Room
	result.Identity = grant.Identity
	result.DisplayName = grant.DisplayName
	result.Token = token
	return result, nil
}

func (s *JoinService) deliverFeedback(ctx context.Context, req JoinRequest, feedback Feedback) *notificationsDomain.Notification {
	if req.Requester.IsAnonymous() {
		n, err := notificationsDomain.NewNotification(feedback.Title, feedback.Severity)
		if err != nil {
			return nil
		}
		return &n
	}
	n, err := s.inbox.Push(ctx, req.Requester, feedback.Title, feedback.Severity)
	if err != nil {
		s.logger.Warn("failed to push join feedback",
			"join_code", req.JoinCode,
			"error", err,
		)
		return nil
	}
	return &n
}

func (s *JoinService) grantFor(meeting *domain.Meeting, req JoinRequest) RoomGrant {
	identity := req.Requester.String()
	if identity == "" {
		identity = s.fallback()
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = identity
	}
	return RoomGrant{
		Room:        meeting.JoinCode(),
		Identity:    identity,
		DisplayName: displayName,
		MaxUsers:    meeting.MaxUsers(),
	}
}

func (s *JoinService) record(meeting *domain.Meeting, decision domain.Decision) {
	if s.recorder == nil {
		return
	}
	var meetingType domain.Type
	if meeting != nil {
		meetingType = meeting.Type()
	}
	s.recorder.RecordDecision(meetingType, decision.Outcome)
}
