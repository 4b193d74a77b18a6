package constants

import (
	"fmt"

	apperrors "borrow-system/pkg/errors"
)

// BorrowStatus tracks a borrow request through its lifecycle.
type BorrowStatus string

const (
	BorrowPendingApproval    BorrowStatus = "pending_borrow_approval"
	BorrowPendingDelivery    BorrowStatus = "pending_delivery"
	BorrowBorrowed           BorrowStatus = "borrowed"
	BorrowReturnedPending    BorrowStatus = "returned_pending_assessment"
	BorrowCompleted          BorrowStatus = "completed"
	BorrowRejected           BorrowStatus = "rejected"
)

// EquipmentStatus shadows the borrow status per unit.
type EquipmentStatus string

const (
	EquipmentAvailable             EquipmentStatus = "available"
	EquipmentPendingDelivery       EquipmentStatus = "pending_delivery"
	EquipmentBorrowed              EquipmentStatus = "borrowed"
	EquipmentPendingRepairApproval EquipmentStatus = "pending_repair_approval"
	EquipmentUnderMaintenance      EquipmentStatus = "under_maintenance"
	EquipmentDeleted               EquipmentStatus = "deleted"
)

type RepairStatus string

const (
	RepairPendingApproval RepairStatus = "pending_repair_approval"
	RepairApproved        RepairStatus = "repair_approved"
	RepairCompleted       RepairStatus = "repair_completed"
	RepairRejected        RepairStatus = "repair_rejected"
)

// BorrowEvent is a lifecycle event applied to a borrow request.
type BorrowEvent string

const (
	EventApprove BorrowEvent = "approve"
	EventReject  BorrowEvent = "reject"
	EventDeliver BorrowEvent = "deliver"
	EventReturn  BorrowEvent = "return"
	EventAssess  BorrowEvent = "assess"
)

var borrowTransitions = map[BorrowStatus]map[BorrowEvent]BorrowStatus{
	BorrowPendingApproval: {
		EventApprove: BorrowPendingDelivery,
		EventReject:  BorrowRejected,
	},
	// EventDeliver fires only once every assigned unit has passed
	// pre-delivery assessment, never after a single unit.
	BorrowPendingDelivery: {
		EventDeliver: BorrowBorrowed,
	},
	BorrowBorrowed: {
		EventReturn: BorrowReturnedPending,
	},
	BorrowReturnedPending: {
		EventAssess: BorrowCompleted,
	},
}

// NextBorrowStatus resolves the transition table for borrow requests.
// Unknown (status, event) pairs report an illegal transition.
func NextBorrowStatus(current BorrowStatus, event BorrowEvent) (BorrowStatus, error) {
	if next, ok := borrowTransitions[current][event]; ok {
		return next, nil
	}
	return "", fmt.Errorf("%w: borrow request cannot %q while %q", apperrors.ErrIllegalTransition, event, current)
}

var repairTransitions = map[RepairStatus]map[BorrowEvent]RepairStatus{
	RepairPendingApproval: {
		EventApprove: RepairApproved,
		EventReject:  RepairRejected,
	},
	RepairApproved: {
		EventAssess: RepairCompleted,
	},
}

func NextRepairStatus(current RepairStatus, event BorrowEvent) (RepairStatus, error) {
	if next, ok := repairTransitions[current][event]; ok {
		return next, nil
	}
	return "", fmt.Errorf("%w: repair request cannot %q while %q", apperrors.ErrIllegalTransition, event, current)
}

var borrowFinalStatuses = []BorrowStatus{
	BorrowCompleted,
	BorrowRejected,
}

func IsFinalBorrowStatus(s BorrowStatus) bool {
	for _, f := range borrowFinalStatuses {
		if s == f {
			return true
		}
	}
	return false
}
