package gateway

import (
	"errors"
	"net/http"

	"github.com/warp-contracts/crowdfunding/src/ledger"

	"github.com/gin-gonic/gin"
)

const (
	CodeBadRequest        = "BadRequest"
	CodeUnauthenticated   = "Unauthenticated"
	CodeRateLimited       = "RateLimited"
	CodeRequestInProgress = "RequestInProgress"
	CodeInternal          = "InternalError"
)

var (
	ErrMissingToken      = errors.New("missing bearer token")
	ErrRateLimited       = errors.New("too many requests")
	ErrRequestInProgress = errors.New("request with this idempotency key is in progress")
)

func codeOf(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusConflict:
		return CodeRequestInProgress
	default:
		return CodeInternal
	}
}

// HTTP status of a failed ledger operation
func StatusOf(err error) int {
	switch ledger.Kind(err) {
	case ledger.ErrInvalidId.Code:
		return http.StatusNotFound
	case ledger.ErrUnauthorized.Code:
		return http.StatusForbidden
	case ledger.ErrAlreadyWithdrawn.Code, ledger.ErrAlreadyCanceled.Code:
		return http.StatusConflict
	case ledger.ErrInvalidDeadline.Code,
		ledger.ErrInvalidTarget.Code,
		ledger.ErrZeroDonation.Code,
		ledger.ErrTargetExceeded.Code,
		ledger.ErrDeadlinePassed.Code,
		ledger.ErrDeadlineNotReached.Code,
		ledger.ErrInvalidRequest.Code:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Responds with the error mapped to its status
func (self *Server) fail(c *gin.Context, err error, msg string) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		LOGE(c, err, status).Error(msg)
		return
	}
	self.monitor.GetReport().Gateway.Errors.InvalidRequests.Inc()
	LOGE(c, err, status).Debug(msg)
}
