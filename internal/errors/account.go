package errors

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "transfer amount must be positive",
	}
	ErrAccountNotFound = &DomainError{
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "account not found",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient balance",
	}
	ErrDuplicateAccount = &DomainError{
		Code:    "DUPLICATE_ACCOUNT",
		Message: "account already exists",
	}
	ErrInvalidAccount = &DomainError{
		Code:    "INVALID_ACCOUNT",
		Message: "invalid account data",
	}
)
