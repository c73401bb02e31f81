package scheduler

import (
	"errors"
	"presetd/internal/providers"
	"presetd/internal/services"
	"presetd/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
)

// Scheduler takes periodic backups of the preset store and restores the latest
// one into an empty store on start.
type Scheduler struct {
	config        *structures.Config
	logger        providers.Logger
	store         services.PresetStoreInterface
	backupManager *BackupManager
	cron          *gron.Cron
	opsMu         sync.Mutex
}

func (s *Scheduler) Init() {
	if !s.config.Backup.Enabled {
		s.logger.Infof(providers.TypeApp, "Backups disabled")
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Backup.Interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.backupManager.SaveToFile(s.config.Backup.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Backup written to %s", s.config.Backup.FilePath)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the backup file into the store when the store holds no
// presets. A missing backup is not an error.
func (s *Scheduler) Restore() error {
	if !s.config.Backup.Enabled {
		return nil
	}
	if len(s.store.Presets()) > 0 {
		s.logger.Debugf(providers.TypeApp, "Store already populated, backup not restored")
		return nil
	}

	snapshot, err := s.backupManager.LoadFromFile(s.config.Backup.FilePath)
	if errors.Is(err, ErrNoBackup) {
		s.logger.Infof(providers.TypeApp, "No backup at %s", s.config.Backup.FilePath)
		return nil
	}
	if err != nil {
		return err
	}

	s.store.Restore(snapshot)
	return nil
}

func (s *Scheduler) Persist() error {
	if !s.config.Backup.Enabled {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Writing backup to %s...", s.config.Backup.FilePath)
	err := s.backupManager.SaveToFile(s.config.Backup.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store services.PresetStoreInterface, backupManager *BackupManager) SchedulerInterface {
	return &Scheduler{
		config:        config,
		logger:        logger,
		store:         store,
		backupManager: backupManager,
	}
}
