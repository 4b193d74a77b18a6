package events

import "borrow-system/internal/entities"

type BorrowSubmittedEvent struct {
	Borrow *entities.BorrowRequest
}

func (e BorrowSubmittedEvent) Name() string { return "borrow.submitted" }

type BorrowApprovedEvent struct {
	BorrowID uint64
	Assigned []entities.BorrowAssignment
}

func (e BorrowApprovedEvent) Name() string { return "borrow.approved" }

type BorrowRejectedEvent struct {
	BorrowID uint64
}

func (e BorrowRejectedEvent) Name() string { return "borrow.rejected" }

type BorrowDeliveredEvent struct {
	BorrowID uint64
}

func (e BorrowDeliveredEvent) Name() string { return "borrow.delivered" }

type BorrowReturnedEvent struct {
	BorrowID uint64
}

func (e BorrowReturnedEvent) Name() string { return "borrow.returned" }

type BorrowCompletedEvent struct {
	BorrowID uint64
}

func (e BorrowCompletedEvent) Name() string { return "borrow.completed" }

type RepairRequestedEvent struct {
	RepairID    uint64
	EquipmentID uint64
}

func (e RepairRequestedEvent) Name() string { return "repair.requested" }
