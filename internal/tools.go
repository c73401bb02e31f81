package internal

import (
	"presetd/internal/kvstore"
	"presetd/internal/providers"
	"presetd/internal/scheduler"
	"presetd/internal/selector"
	"presetd/internal/services"
	"presetd/internal/structures"
)

// Tools bundles the components the one-shot CLI commands work with.
type Tools struct {
	Conf      *structures.Config
	Logger    providers.Logger
	Store     services.PresetStoreInterface
	Selector  selector.ServiceInterface
	Scheduler scheduler.SchedulerInterface
	Backup    *scheduler.BackupManager
	KV        kvstore.Store
}

func NewTools(conf *structures.Config, logger providers.Logger, store services.PresetStoreInterface, sel selector.ServiceInterface, sched scheduler.SchedulerInterface, backup *scheduler.BackupManager, kv kvstore.Store) *Tools {
	return &Tools{
		Conf:      conf,
		Logger:    logger,
		Store:     store,
		Selector:  sel,
		Scheduler: sched,
		Backup:    backup,
		KV:        kv,
	}
}

// Close releases the store backend and the backup compressor.
func (t *Tools) Close() {
	if err := t.KV.Close(); err != nil {
		t.Logger.Warnf(providers.TypeApp, "Closing store backend: %s", err)
	}
	t.Backup.Close()
	t.Logger.Close()
}
