package client

import (
	"errors"
	"fmt"

	"github.com/warp-contracts/crowdfunding/src/ledger"
)

var ErrFailedToParse = errors.New("failed to parse response")

var kinds = map[string]*ledger.Error{}

func init() {
	for _, err := range []*ledger.Error{
		ledger.ErrInvalidId,
		ledger.ErrInvalidDeadline,
		ledger.ErrInvalidTarget,
		ledger.ErrZeroDonation,
		ledger.ErrTargetExceeded,
		ledger.ErrUnauthorized,
		ledger.ErrAlreadyWithdrawn,
		ledger.ErrAlreadyCanceled,
		ledger.ErrDeadlinePassed,
		ledger.ErrDeadlineNotReached,
		ledger.ErrInvalidRequest,
	} {
		kinds[err.Code] = err
	}
}

// Failed request. Ledger rejections unwrap to the ledger's error, so errors.Is works across the wire.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (self *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", self.Status, self.Code, self.Message)
}

func (self *APIError) Unwrap() error {
	kind, ok := kinds[self.Code]
	if !ok {
		return nil
	}
	return kind
}
