package notify

import (
	"context"
	"errors"
	"time"

	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/model"
	"github.com/warp-contracts/crowdfunding/src/utils/monitoring"
	"github.com/warp-contracts/crowdfunding/src/utils/task"

	"github.com/jackc/pgx"
)

// Streams data from postgres notification channel
// puts on output channel
type Streamer struct {
	*task.Task

	pool       *pgx.ConnPool
	connection *pgx.Conn
	monitor    monitoring.Monitor

	channelName string

	Output chan string
}

func NewStreamer(config *config.Config) (self *Streamer) {
	self = new(Streamer)

	self.Output = make(chan string)
	self.channelName = config.Database.NotificationChannel

	self.Task = task.NewTask(config, "streamer").
		WithSubtaskFunc(self.run).
		WithOnBeforeStart(self.connect).
		WithOnAfterStop(func() {
			self.disconnect()
			close(self.Output)
		})

	return
}

func (self *Streamer) WithNotificationChannelName(name string) *Streamer {
	self.channelName = name
	return self
}

func (self *Streamer) WithCapacity(size int) *Streamer {
	self.Output = make(chan string, size)
	return self
}

func (self *Streamer) WithMonitor(monitor monitoring.Monitor) *Streamer {
	self.monitor = monitor
	return self
}

func (self *Streamer) disconnect() {
	if self.pool == nil {
		return
	}

	if self.connection != nil {
		self.pool.Release(self.connection)
	}

	self.pool.Close()
}

func (self *Streamer) connect() (err error) {
	dsn := model.DSN(&self.Config.Database, self.Config.Database.User, self.Config.Database.Password)

	config, err := pgx.ParseDSN(dsn)
	if err != nil {
		return
	}

	self.pool, err = pgx.NewConnPool(pgx.ConnPoolConfig{ConnConfig: config, MaxConnections: 1})
	if err != nil {
		return
	}

	self.connection, err = self.pool.Acquire()
	if err != nil {
		return
	}

	return
}

func (self *Streamer) run() (err error) {
	err = self.connection.Listen(self.channelName)
	if err != nil {
		return
	}

	self.Log.WithField("channel", self.channelName).Info("Listening for notifications")

	defer func() {
		err := self.connection.Unlisten(self.channelName)
		if err != nil {
			self.Log.WithError(err).Error("Failed to unlisten channel")
		}
	}()

	for {
		// Waits for notification unless task gets stopped
		msg, err := self.connection.WaitForNotification(self.Ctx)
		if errors.Is(err, context.Canceled) {
			// Stop() was called
			return nil
		}

		if err != nil {
			self.Log.WithError(err).Error("Failed to wait for notification")
			if self.monitor != nil {
				self.monitor.GetReport().Watcher.Errors.Listen.Inc()
			}

			select {
			case <-self.Ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		// Send notification to output channel
		select {
		case <-self.Ctx.Done():
			return nil
		case self.Output <- msg.Payload:
		}
	}
}
