package gateway

import (
	"net/http"

	"github.com/warp-contracts/crowdfunding/src/gateway/response"
	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	requestIdKey = "request_id"
	identityKey  = "identity"
)

var log = logger.NewSublogger("gateway")

// Logger bound to the request
func LOG(c *gin.Context) *logrus.Entry {
	entry := log.WithField(requestIdKey, c.GetString(requestIdKey))
	if identity := c.GetString(identityKey); identity != "" {
		entry = entry.WithField(identityKey, identity)
	}
	return entry
}

// Aborts the request with an error body and returns a logger for the failure
func LOGE(c *gin.Context, err error, status int) *logrus.Entry {
	body := &response.Error{
		Code:    ledger.Kind(err),
		Message: http.StatusText(status),
	}
	if body.Code == "" {
		body.Code = codeOf(status)
	}
	if err != nil && status < http.StatusInternalServerError {
		body.Message = err.Error()
	}

	if !c.Writer.Written() {
		c.AbortWithStatusJSON(status, body)
	} else {
		c.Abort()
	}

	entry := LOG(c).WithField("status", status)
	if err != nil {
		entry = entry.WithError(err)
	}
	return entry
}
