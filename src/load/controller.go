package load

import (
	"time"

	"github.com/warp-contracts/crowdfunding/src/utils/auth"
	"github.com/warp-contracts/crowdfunding/src/utils/config"
	"github.com/warp-contracts/crowdfunding/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates functionalities
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "load-controller")

	stats := NewStats()

	// Creates campaigns and donates to them
	generator := NewGenerator(config).
		WithAuthenticator(auth.NewAuthenticator(config)).
		WithStats(stats)

	// Periodically logs progress
	reporter := task.NewTask(config, "load-reporter").
		WithPeriodicSubtaskFunc(10*time.Second, func() error {
			stats.Log(self.Log)
			return nil
		})

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(generator.Task).
		WithSubtask(reporter).
		WithOnAfterStop(func() {
			stats.Log(self.Log)
		})
	return
}
