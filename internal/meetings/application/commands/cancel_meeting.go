package commands

import (
	"context"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedApplication "github.com/felixgeelhaar/huddle/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/outbox"
)

// CancelledMessage confirms a cancellation.
const CancelledMessage = "Meeting cancelled."

// CancelMeetingCommand contains the data needed to cancel a meeting.
type CancelMeetingCommand struct {
	UserID   sharedDomain.UserID
	JoinCode string
}

// CancelMeetingHandler handles the CancelMeetingCommand.
type CancelMeetingHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCancelMeetingHandler creates a new CancelMeetingHandler.
func NewCancelMeetingHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CancelMeetingHandler {
	return &CancelMeetingHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CancelMeetingCommand. Cancelling an already cancelled
// meeting succeeds without writing anything.
func (h *CancelMeetingHandler) Handle(ctx context.Context, cmd CancelMeetingCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		meeting, err := h.repo.FindByJoinCode(txCtx, cmd.JoinCode)
		if err != nil {
			return err
		}
		if meeting == nil {
			return ErrMeetingNotFound
		}
		if !meeting.IsCreator(cmd.UserID) {
			return ErrNotCreator
		}
		if !meeting.IsActive() {
			return nil
		}

		meeting.Cancel()
		if err := h.repo.Save(txCtx, meeting); err != nil {
			return err
		}
		return enqueueEvents(txCtx, h.outboxRepo, meeting, cmd.UserID)
	})
}
