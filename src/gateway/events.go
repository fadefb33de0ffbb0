package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/warp-contracts/crowdfunding/src/ledger"

	"github.com/gin-gonic/gin"
	"github.com/teivah/onecontext"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const eventWriteTimeout = 10 * time.Second

// Receives notifications for one websocket connection.
// Delivery never blocks the ledger, notifications that don't fit the buffer are dropped.
type subscriber struct {
	server *Server
	output chan *ledger.Notification
}

func (self *subscriber) OnNotification(n *ledger.Notification) {
	select {
	case self.output <- n:
	default:
		self.server.monitor.GetReport().Gateway.Errors.EventsDropped.Inc()
	}
}

// Comma separated kinds, empty means all
func parseKinds(v string) (kinds []ledger.NotificationKind, err error) {
	if strings.TrimSpace(v) == "" {
		return ledger.NotificationKinds, nil
	}

	for _, kind := range strings.Split(v, ",") {
		kind = strings.TrimSpace(kind)
		if !ledger.IsNotificationKind(kind) {
			return nil, fmt.Errorf("unknown notification kind %q", kind)
		}
		kinds = append(kinds, ledger.NotificationKind(kind))
	}
	return
}

// Streams ledger notifications as JSON messages until the client disconnects or the server stops
func (self *Server) onEvents(c *gin.Context) {
	kinds, err := parseKinds(c.Query("kinds"))
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Debug("Bad kinds filter")
		return
	}

	ws, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: self.Config.IsDevelopment,
	})
	if err != nil {
		LOG(c).WithError(err).Debug("Failed to accept websocket")
		return
	}
	defer ws.Close(websocket.StatusInternalError, "")

	// Alive as long as the connection and the server
	ctx, cancel := onecontext.Merge(ws.CloseRead(c.Request.Context()), self.Ctx)
	defer cancel()

	sub := &subscriber{
		server: self,
		output: make(chan *ledger.Notification, self.Config.Gateway.EventBufferSize),
	}
	for _, kind := range kinds {
		self.ledger.Registry().Subscribe(kind, sub)
	}
	defer func() {
		for _, kind := range kinds {
			self.ledger.Registry().Unsubscribe(kind, sub)
		}
	}()

	self.monitor.GetReport().Gateway.State.EventSubscribers.Inc()
	defer self.monitor.GetReport().Gateway.State.EventSubscribers.Dec()

	LOG(c).WithField("kinds", kinds).Debug("Event subscriber connected")

	for {
		select {
		case <-ctx.Done():
			LOG(c).Debug("Event subscriber disconnected")
			ws.Close(websocket.StatusNormalClosure, "")
			return
		case n := <-sub.output:
			err = self.write(ctx, ws, n)
			if err != nil {
				LOG(c).WithError(err).Debug("Failed to send event")
				return
			}
			self.monitor.GetReport().Gateway.State.EventsSent.Inc()
		}
	}
}

func (self *Server) write(ctx context.Context, ws *websocket.Conn, n *ledger.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, ws, n)
}
