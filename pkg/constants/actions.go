package constants

// Activity log action tags. One tag per state-mutating operation.
const (
	ActionCreateBorrowRequest     = "CREATE_BORROW_REQUEST"
	ActionApproveAndAutoAssign    = "APPROVE_AND_AUTO_ASSIGN_BORROW"
	ActionRejectBorrow            = "REJECT_BORROW"
	ActionConfirmDelivery         = "CONFIRM_DELIVERY"
	ActionChangeEquipmentDeliver  = "CHANGE_EQUIPMENT_AND_DELIVER"
	ActionProcessReturn           = "PROCESS_RETURN"
	ActionPostAssessment          = "POST_ASSESSMENT"
	ActionCreateRepairFromAssess  = "CREATE_REPAIR_REQUEST_FROM_ASSESSMENT"
	ActionCreateRepairRequest     = "CREATE_REPAIR_REQUEST"
	ActionApproveRepair           = "APPROVE_REPAIR"
	ActionRejectRepair            = "REJECT_REPAIR"
	ActionCompleteRepair          = "COMPLETE_REPAIR"
	ActionCreateEquipment         = "CREATE_EQUIPMENT"
	ActionUpdateEquipment         = "UPDATE_EQUIPMENT"
	ActionDeleteEquipment         = "DELETE_EQUIPMENT"
	ActionCreateUser              = "CREATE_USER"
	ActionUpdateUser              = "UPDATE_USER"
	ActionClearActivityLog        = "CLEAR_ACTIVITY_LOG"
)
