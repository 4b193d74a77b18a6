package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"borrow-system/internal/events"
	"borrow-system/internal/services"
	"borrow-system/pkg/eventbus"
)

type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationListener(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{notificationService: notificationService, logger: logger}
}

// Subscribe registers the listener for every workflow event it reacts to.
func (l *NotificationListener) Subscribe(bus *eventbus.Bus) {
	bus.Subscribe(events.BorrowSubmittedEvent{}.Name(), l.handleBorrowSubmitted)
	bus.Subscribe(events.BorrowApprovedEvent{}.Name(), l.handleBorrowApproved)
	bus.Subscribe(events.BorrowRejectedEvent{}.Name(), l.handleBorrowRejected)
	bus.Subscribe(events.BorrowReturnedEvent{}.Name(), l.handleBorrowReturned)
	bus.Subscribe(events.RepairRequestedEvent{}.Name(), l.handleRepairRequested)
}

func (l *NotificationListener) handleBorrowSubmitted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.BorrowSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %q", event.Name())
	}
	l.notificationService.Notify(ctx, e.Borrow.UserID,
		fmt.Sprintf("borrow request #%d submitted and awaiting approval", e.Borrow.ID))
	return nil
}

func (l *NotificationListener) handleBorrowApproved(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.BorrowApprovedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %q", event.Name())
	}
	l.logger.Debug("borrow approved",
		zap.Uint64("borrowId", e.BorrowID),
		zap.Int("assigned", len(e.Assigned)),
	)
	return nil
}

func (l *NotificationListener) handleBorrowRejected(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.BorrowRejectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %q", event.Name())
	}
	l.logger.Debug("borrow rejected", zap.Uint64("borrowId", e.BorrowID))
	return nil
}

func (l *NotificationListener) handleBorrowReturned(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.BorrowReturnedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %q", event.Name())
	}
	l.logger.Debug("borrow returned, assessments pending", zap.Uint64("borrowId", e.BorrowID))
	return nil
}

func (l *NotificationListener) handleRepairRequested(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RepairRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %q", event.Name())
	}
	l.logger.Debug("repair requested",
		zap.Uint64("repairId", e.RepairID),
		zap.Uint64("equipmentId", e.EquipmentID),
	)
	return nil
}
