package datasource

import (
	"time"

	"plug-explorer/src/models"
	"plug-explorer/src/utils"
)

const defaultWarmup = 100 * time.Millisecond

// Options is the timer shape and table size shared by the home pollers.
type Options struct {
	Warmup        time.Duration
	Interval      time.Duration
	BlockListSize int
}

// OptionsFromConfig reads the polling section. An unset warmup means 100ms.
func OptionsFromConfig(cfg models.MPollingConfig) Options {
	warmup := defaultWarmup
	if cfg.WarmupSeconds != nil {
		warmup = utils.ChangeSeconds(*cfg.WarmupSeconds)
	}
	return Options{
		Warmup:        warmup,
		Interval:      utils.ChangeSeconds(cfg.IntervalSeconds),
		BlockListSize: cfg.BlockListSize,
	}
}

func (o Options) withDefaults() Options {
	if o.Warmup < 0 {
		o.Warmup = 0
	}
	if o.Interval <= 0 {
		o.Interval = 5 * time.Second
	}
	if o.BlockListSize <= 0 {
		o.BlockListSize = 10
	}
	return o
}
