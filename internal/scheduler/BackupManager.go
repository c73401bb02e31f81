package scheduler

import (
	"errors"
	"fmt"
	"os"
	"presetd/internal/kvstore"
	"presetd/internal/models"
	"presetd/internal/providers"
	"presetd/internal/services"

	json "github.com/goccy/go-json"
)

// ErrNoBackup is returned by LoadFromFile when the backup file does not exist.
var ErrNoBackup = errors.New("backup file not found")

// BackupManager writes and reads compressed store snapshots.
type BackupManager struct {
	store      services.PresetStoreInterface
	compressor kvstore.Compressor
	logger     providers.Logger
}

func NewBackupManager(compressor kvstore.Compressor, store services.PresetStoreInterface, logger providers.Logger) *BackupManager {
	return &BackupManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

func (b *BackupManager) SaveToFile(fileName string) error {
	return b.WriteSnapshot(fileName, b.store.Snapshot())
}

func (b *BackupManager) WriteSnapshot(fileName string, snapshot models.Snapshot) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := b.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	return kvstore.WriteFileAtomic(fileName, data)
}

// LoadFromFile reads a backup. Besides full snapshots it accepts a bare preset
// array, the layout of the presets record itself.
func (b *BackupManager) LoadFromFile(fileName string) (models.Snapshot, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Snapshot{}, ErrNoBackup
		}
		return models.Snapshot{}, err
	}

	decompressedData, err := b.compressor.Decompress(data)
	if err != nil {
		return models.Snapshot{}, err
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(decompressedData, &snapshot); err == nil && snapshot.Version > 0 {
		if snapshot.Version > models.SnapshotVersion {
			return models.Snapshot{}, fmt.Errorf("backup version %d is newer than supported %d", snapshot.Version, models.SnapshotVersion)
		}
		return snapshot, nil
	}

	b.logger.Warnf(providers.TypeApp, "Backup %s is not a snapshot, trying bare preset list", fileName)
	var presets []models.Preset
	if err := json.Unmarshal(decompressedData, &presets); err != nil {
		b.logger.Warnf(providers.TypeApp, "Migration failed")
		return models.Snapshot{}, err
	}
	b.logger.Warnf(providers.TypeApp, "Migration from bare preset list successful")

	return models.Snapshot{
		Version:        models.SnapshotVersion,
		Presets:        presets,
		ProjectDefault: map[string]string{},
		ImagePresets:   map[string]string{},
	}, nil
}

func (b *BackupManager) Close() {
	b.compressor.Close()
}
