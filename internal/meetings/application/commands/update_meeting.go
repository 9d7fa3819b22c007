package commands

import (
	"context"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedApplication "github.com/felixgeelhaar/huddle/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/outbox"
)

// UpdatedMessage confirms a successful edit.
const UpdatedMessage = "Meeting updated successfully."

// UpdateMeetingCommand contains the data needed to edit a meeting. Nil
// fields are left unchanged.
type UpdateMeetingCommand struct {
	UserID       sharedDomain.UserID
	JoinCode     string
	Name         *string
	Date         *string
	InvitedUsers *[]string
	MaxUsers     *int
}

// UpdateMeetingResult reports the fields that changed.
type UpdateMeetingResult struct {
	ChangedFields []string
	Message       string
}

// UpdateMeetingHandler handles the UpdateMeetingCommand.
type UpdateMeetingHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewUpdateMeetingHandler creates a new UpdateMeetingHandler.
func NewUpdateMeetingHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, clock sharedDomain.Clock) *UpdateMeetingHandler {
	return &UpdateMeetingHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
	}
}

// Handle executes the UpdateMeetingCommand.
func (h *UpdateMeetingHandler) Handle(ctx context.Context, cmd UpdateMeetingCommand) (*UpdateMeetingResult, error) {
	now := h.clock.Now()

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*UpdateMeetingResult, error) {
		meeting, err := h.repo.FindByJoinCode(txCtx, cmd.JoinCode)
		if err != nil {
			return nil, err
		}
		if meeting == nil {
			return nil, ErrMeetingNotFound
		}
		if !meeting.IsCreator(cmd.UserID) {
			return nil, ErrNotCreator
		}

		if cmd.Name != nil {
			if err := meeting.Rename(*cmd.Name, now); err != nil {
				return nil, err
			}
		}
		if cmd.Date != nil {
			date, err := domain.ParseDate(*cmd.Date)
			if err != nil {
				return nil, err
			}
			if err := meeting.Reschedule(date, now); err != nil {
				return nil, err
			}
		}
		if cmd.InvitedUsers != nil {
			if err := meeting.SetInvitees(sharedDomain.NewUserIDs(*cmd.InvitedUsers), now); err != nil {
				return nil, err
			}
		}
		if cmd.MaxUsers != nil {
			if err := meeting.SetMaxUsers(*cmd.MaxUsers, now); err != nil {
				return nil, err
			}
		}

		result := &UpdateMeetingResult{Message: UpdatedMessage}
		if !meeting.RecordUpdate() {
			return result, nil
		}
		if updated, ok := lastUpdate(meeting); ok {
			result.ChangedFields = updated.ChangedFields
		}

		if err := h.repo.Save(txCtx, meeting); err != nil {
			return nil, err
		}
		if err := enqueueEvents(txCtx, h.outboxRepo, meeting, cmd.UserID); err != nil {
			return nil, err
		}
		return result, nil
	})
}

func lastUpdate(meeting *domain.Meeting) (*domain.MeetingUpdated, bool) {
	events := meeting.DomainEvents()
	for i := len(events) - 1; i >= 0; i-- {
		if updated, ok := events[i].(*domain.MeetingUpdated); ok {
			return updated, true
		}
	}
	return nil, false
}
