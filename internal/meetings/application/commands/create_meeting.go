package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedApplication "github.com/felixgeelhaar/huddle/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// maxJoinCodeAttempts bounds the retries when a generated join code is taken.
const maxJoinCodeAttempts = 5

// CreateMeetingCommand contains the data needed to create a meeting.
type CreateMeetingCommand struct {
	CreatedBy    sharedDomain.UserID
	Name         string
	Type         string
	InvitedUsers []string
	Date         string
	MaxUsers     int
}

// CreateMeetingResult contains the result of creating a meeting.
type CreateMeetingResult struct {
	MeetingID uuid.UUID
	JoinCode  string
	Message   string
}

// CreateMeetingHandler handles the CreateMeetingCommand.
type CreateMeetingHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	generate   domain.JoinCodeGenerator
	clock      sharedDomain.Clock
}

// NewCreateMeetingHandler creates a new CreateMeetingHandler. A nil
// generator uses domain.GenerateJoinCode.
func NewCreateMeetingHandler(
	repo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	generate domain.JoinCodeGenerator,
	clock sharedDomain.Clock,
) *CreateMeetingHandler {
	if generate == nil {
		generate = domain.GenerateJoinCode
	}
	return &CreateMeetingHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		generate:   generate,
		clock:      clock,
	}
}

// Handle executes the CreateMeetingCommand.
func (h *CreateMeetingHandler) Handle(ctx context.Context, cmd CreateMeetingCommand) (*CreateMeetingResult, error) {
	meetingType, err := domain.ParseType(cmd.Type)
	if err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(cmd.Date)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSchedule(date, h.clock.Now()); err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*CreateMeetingResult, error) {
		joinCode, err := h.allocateJoinCode(txCtx)
		if err != nil {
			return nil, err
		}

		meeting, err := domain.NewMeeting(
			cmd.CreatedBy,
			joinCode,
			cmd.Name,
			meetingType,
			sharedDomain.NewUserIDs(cmd.InvitedUsers),
			date,
			cmd.MaxUsers,
		)
		if err != nil {
			return nil, err
		}

		if err := h.repo.Save(txCtx, meeting); err != nil {
			return nil, err
		}
		if err := enqueueEvents(txCtx, h.outboxRepo, meeting, cmd.CreatedBy); err != nil {
			return nil, err
		}

		return &CreateMeetingResult{
			MeetingID: meeting.ID(),
			JoinCode:  meeting.JoinCode(),
			Message:   CreatedMessage(meetingType),
		}, nil
	})
}

func (h *CreateMeetingHandler) allocateJoinCode(ctx context.Context) (string, error) {
	for range maxJoinCodeAttempts {
		code := h.generate()
		existing, err := h.repo.FindByJoinCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check join code: %w", err)
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", ErrJoinCodeExhausted
}

// CreatedMessage is the confirmation shown after a meeting of the given type is created.
func CreatedMessage(t domain.Type) string {
	switch t {
	case domain.TypeDirectInvite:
		return "One on One Meeting Created Successfully"
	case domain.TypeOpen:
		return "Anyone can join meeting created successfully"
	default:
		return "Video Conference created successfully."
	}
}
