package config

import (
	"github.com/spf13/viper"
)

type Watcher struct {
	// Size of the buffer between the database listener and the handlers
	Capacity int
}

func setWatcherDefaults(v *viper.Viper) {
	v.SetDefault("Watcher.Capacity", "100")
}
