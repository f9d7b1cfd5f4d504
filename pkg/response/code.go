package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 客户模块错误 100xx
	ErrCustomerNotFound = 10001
	ErrCustomerExists   = 10002

	// 活动模块错误 200xx
	ErrCampaignNotFound       = 20001
	ErrCampaignInvalid        = 20002
	ErrTargetCustomerNotFound = 20003

	// 折扣模块错误 300xx
	ErrNotEligible = 30001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrTokenInvalid    = 50004
	ErrNoPermission    = 50005
	ErrConflict        = 50006
	ErrNotFound        = 50007
)
