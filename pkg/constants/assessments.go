package constants

// Assessment phases and per-item checklist results.
const (
	PhasePreDelivery = "pre_delivery"
	PhasePostReturn  = "post_return"

	ResultNormal   = "normal"
	ResultAbnormal = "abnormal"
)

const (
	RoleAdmin      = "admin"
	RoleApprover   = "approver"
	RoleTechnician = "technician"
	RoleUser       = "user"
)
