package transfer

// Transfer results reported to the MetricsCollector.
const (
	ResultSuccess           = "success"
	ResultInvalidAmount     = "invalid_amount"
	ResultAccountNotFound   = "account_not_found"
	ResultInsufficientFunds = "insufficient_funds"
	ResultError             = "error"
)

// Locking strategies accepted by NewLocker.
const (
	LockingGlobal  = "global"
	LockingAccount = "account"
)
