package ledger

import (
	"errors"
)

// Error is a rejected precondition. Code is stable and safe to put on the wire.
type Error struct {
	Code    string
	Message string
}

func (self *Error) Error() string {
	return self.Message
}

var (
	ErrInvalidId          = &Error{Code: "InvalidId", Message: "Invalid id"}
	ErrInvalidDeadline    = &Error{Code: "InvalidDeadline", Message: "The deadline should be a date in the future."}
	ErrInvalidTarget      = &Error{Code: "InvalidTarget", Message: "Target should be a positive amount"}
	ErrZeroDonation       = &Error{Code: "ZeroDonation", Message: "Cannot donate 0 ether"}
	ErrTargetExceeded     = &Error{Code: "TargetExceeded", Message: "Should not exceed campaign target"}
	ErrUnauthorized       = &Error{Code: "Unauthorized", Message: "Only the owner can perform this operation"}
	ErrAlreadyWithdrawn   = &Error{Code: "AlreadyWithdrawn", Message: "Funds already withdrawn"}
	ErrAlreadyCanceled    = &Error{Code: "AlreadyCanceled", Message: "Campaign is already canceled"}
	ErrDeadlinePassed     = &Error{Code: "DeadlinePassed", Message: "Campaign deadline has passed"}
	ErrDeadlineNotReached = &Error{Code: "DeadlineNotReached", Message: "Campaign deadline has not been reached yet"}
	ErrInvalidRequest     = &Error{Code: "InvalidRequest", Message: "Invalid request"}
)

// Returns the code of a ledger error, empty for any other error
func Kind(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
