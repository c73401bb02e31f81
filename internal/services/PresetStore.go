package services

import (
	"context"
	"errors"
	"fmt"
	"presetd/internal/kvstore"
	"presetd/internal/models"
	"presetd/internal/providers"
	"presetd/internal/structures"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const (
	KeyActivePreset    = "active_preset"
	KeyPresets         = "presets"
	KeyProjectDefaults = "project_defaults"
	KeyImagePresets    = "image_presets"

	copySuffix = " (Copy)"
)

type PresetStoreInterface interface {
	ActivePresetID() string
	SetActivePresetID(id string)
	Presets() []models.Preset
	ProjectDefaultPresets() map[string]string
	AddPreset(p models.Preset)
	UpdatePreset(id string, patch models.PresetPatch) bool
	DeletePreset(id string) bool
	DuplicatePreset(p models.Preset) models.Preset
	SetProjectDefaultPreset(projectID, presetID string)
	GetProjectDefaultPreset(projectID string) (models.Preset, bool)
	GetPresetByID(id string) (models.Preset, bool)
	TogglePresetSharing(id string, shared bool) bool
	CreatePresetVersion(id string, settings models.PresetSettings, changes []string) bool
	RollbackToVersion(id, versionID string) bool
	ApplyPresetToImage(imageID, presetID string) bool
	ImagePreset(imageID string) (string, bool)
	Load(ctx context.Context) error
	Seed(presets []models.Preset) int
	Snapshot() models.Snapshot
	Restore(snapshot models.Snapshot)
	Revision() uint64
}

// PresetStore is the in-memory preset collection mirrored to a key-value store.
// Every mutation writes the records it touched before returning. Write failures
// are logged and otherwise ignored, so the in-memory state stays authoritative
// for the running process.
type PresetStore struct {
	mu              sync.RWMutex
	activePresetID  string
	presets         []models.Preset
	projectDefaults map[string]string
	imagePresets    map[string]string

	kv        kvstore.Store
	keyPrefix string
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	revision  atomic.Uint64

	now   func() time.Time
	newID func() string
}

func NewPresetStore(conf *structures.Config, kv kvstore.Store, logger providers.Logger, metrics providers.MetricsProviderInterface) *PresetStore {
	return &PresetStore{
		presets:         []models.Preset{},
		projectDefaults: make(map[string]string),
		imagePresets:    make(map[string]string),
		kv:              kv,
		keyPrefix:       conf.Persistence.KeyPrefix,
		logger:          logger,
		metrics:         metrics,
		now:             time.Now,
		newID:           NewPresetID,
	}
}

// NewPresetID returns a time-ordered UUIDv7. The generator is monotonic within
// the process, so ids minted in the same millisecond never collide.
func NewPresetID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *PresetStore) key(name string) string {
	return s.keyPrefix + name
}

func (s *PresetStore) Revision() uint64 {
	return s.revision.Load()
}

func (s *PresetStore) ActivePresetID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activePresetID
}

// SetActivePresetID sets the active preset pointer. An empty id clears it.
// The id is not checked against the collection.
func (s *PresetStore) SetActivePresetID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activePresetID = id
	s.revision.Inc()
	s.persistActive()
}

func (s *PresetStore) Presets() []models.Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePresets(s.presets)
}

func (s *PresetStore) ProjectDefaultPresets() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.projectDefaults)
}

// AddPreset puts p at the front of the collection. Ids are not checked for
// uniqueness.
func (s *PresetStore) AddPreset(p models.Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.presets = append([]models.Preset{p.Clone()}, s.presets...)
	s.revision.Inc()
	s.persistPresets()
}

// UpdatePreset merges patch into every preset carrying id and reports whether
// any did.
func (s *PresetStore) UpdatePreset(id string, patch models.PresetPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.mutate(id, func(p models.Preset) models.Preset {
		return patch.Apply(p)
	})
	if !found {
		return false
	}
	s.revision.Inc()
	s.persistPresets()
	return true
}

// DeletePreset removes every preset carrying id together with the project
// defaults that point at it.
func (s *PresetStore) DeletePreset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.Preset, 0, len(s.presets))
	for _, p := range s.presets {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(s.presets) {
		return false
	}
	s.presets = kept

	pruned := false
	for projectID, presetID := range s.projectDefaults {
		if presetID == id {
			delete(s.projectDefaults, projectID)
			pruned = true
		}
	}

	s.revision.Inc()
	s.persistPresets()
	if pruned {
		s.persistProjectDefaults()
	}
	return true
}

// DuplicatePreset adds a fresh copy of p and returns it. The copy starts a new
// history: version 1, nothing applied, not shared, not active.
func (s *PresetStore) DuplicatePreset(p models.Preset) models.Preset {
	now := s.now()

	dup := p.Clone()
	dup.ID = s.newID()
	dup.Name = p.Name + copySuffix
	dup.CreatedAt = now
	dup.LastEdited = now
	dup.Version = 1
	dup.AppliedCount = 0
	dup.IsActive = false
	dup.SharedWithTeam = false
	dup.PreviousVersions = []models.PresetVersion{}

	s.AddPreset(dup)
	return dup
}

// SetProjectDefaultPreset maps a project to a preset. An empty presetID removes
// the mapping.
func (s *PresetStore) SetProjectDefaultPreset(projectID, presetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if presetID == "" {
		delete(s.projectDefaults, projectID)
	} else {
		s.projectDefaults[projectID] = presetID
	}
	s.revision.Inc()
	s.persistProjectDefaults()
}

func (s *PresetStore) GetProjectDefaultPreset(projectID string) (models.Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	presetID, ok := s.projectDefaults[projectID]
	if !ok {
		return models.Preset{}, false
	}
	return s.find(presetID)
}

func (s *PresetStore) GetPresetByID(id string) (models.Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(id)
}

func (s *PresetStore) TogglePresetSharing(id string, shared bool) bool {
	return s.UpdatePreset(id, models.PresetPatch{SharedWithTeam: &shared})
}

// CreatePresetVersion moves the current settings into history and installs the
// new ones. The history entry always gets an empty change list; the supplied
// notes are only logged. With duplicated ids the first preset is versioned and
// every copy is replaced by the result.
func (s *PresetStore) CreatePresetVersion(id string, settings models.PresetSettings, changes []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.find(id)
	if !ok {
		return false
	}
	p.PreviousVersions = append(p.PreviousVersions, p.Snapshot(nil))
	p.Settings = settings
	p.Version++
	p.LastEdited = s.now()
	s.replaceAll(p)

	if len(changes) > 0 {
		s.logger.Debugf(providers.TypeStore, "Change notes for preset %s not recorded: %v", id, changes)
	}
	s.revision.Inc()
	s.persistPresets()
	return true
}

// RollbackToVersion restores the settings of a history entry as a new version.
// History is never truncated. Only the first preset with id is searched for
// versionID.
func (s *PresetStore) RollbackToVersion(id, versionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.find(id)
	if !ok {
		return false
	}
	target, ok := p.FindVersion(versionID)
	if !ok {
		return false
	}
	p.PreviousVersions = append(p.PreviousVersions, p.Snapshot([]string{
		fmt.Sprintf("Rolled back to version %d", target.Version),
	}))
	p.Settings = target.Settings
	p.Version++
	p.LastEdited = s.now()
	s.replaceAll(p)

	s.revision.Inc()
	s.persistPresets()
	return true
}

// ApplyPresetToImage records that imageID uses presetID and bumps the preset's
// applied counter. Unknown presets are ignored.
func (s *PresetStore) ApplyPresetToImage(imageID, presetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.mutate(presetID, func(p models.Preset) models.Preset {
		p.AppliedCount++
		return p
	})
	if !found {
		return false
	}
	s.imagePresets[imageID] = presetID
	s.logger.Infof(providers.TypeStore, "Applying preset %s to image %s", presetID, imageID)

	s.revision.Inc()
	s.persistPresets()
	s.persistImagePresets()
	return true
}

func (s *PresetStore) ImagePreset(imageID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	presetID, ok := s.imagePresets[imageID]
	return presetID, ok
}

// Load reads every persisted record in parallel. Records that are missing keep
// their defaults. A record that cannot be read or decoded is logged and skipped;
// the first such error is returned after the others have been applied.
func (s *PresetStore) Load(ctx context.Context) error {
	var (
		g               errgroup.Group
		activeID        *string
		presets         []models.Preset
		projectDefaults map[string]string
		imagePresets    map[string]string
	)

	g.Go(func() error {
		raw, err := s.read(ctx, KeyActivePreset)
		if err != nil || raw == nil {
			return err
		}
		id := string(raw)
		activeID = &id
		return nil
	})
	g.Go(func() error {
		return readJSON(ctx, s, KeyPresets, &presets)
	})
	g.Go(func() error {
		return readJSON(ctx, s, KeyProjectDefaults, &projectDefaults)
	})
	g.Go(func() error {
		return readJSON(ctx, s, KeyImagePresets, &imagePresets)
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if activeID != nil {
		s.activePresetID = *activeID
	}
	if presets != nil {
		s.presets = presets
	}
	if projectDefaults != nil {
		s.projectDefaults = projectDefaults
	}
	if imagePresets != nil {
		s.imagePresets = imagePresets
	}
	s.revision.Inc()
	s.metrics.SetPresetsTotal(len(s.presets))

	s.logger.Infof(providers.TypeStore, "Loaded %d presets, %d project defaults", len(s.presets), len(s.projectDefaults))
	return err
}

func (s *PresetStore) read(ctx context.Context, name string) ([]byte, error) {
	raw, err := s.kv.Get(ctx, s.key(name))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Failed to read %s: %s", s.key(name), err)
		return nil, fmt.Errorf("read %s: %w", s.key(name), err)
	}
	return raw, nil
}

// readJSON decodes the record into dst, leaving dst untouched on any failure.
func readJSON[T any](ctx context.Context, s *PresetStore, name string, dst *T) error {
	raw, err := s.read(ctx, name)
	if err != nil || raw == nil {
		return err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Errorf(providers.TypeStore, "Failed to decode %s: %s", s.key(name), err)
		return fmt.Errorf("decode %s: %w", s.key(name), err)
	}
	*dst = v
	return nil
}

// Seed installs presets when the collection is empty and returns how many were
// added.
func (s *PresetStore) Seed(presets []models.Preset) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.presets) > 0 || len(presets) == 0 {
		return 0
	}
	s.presets = clonePresets(presets)
	s.revision.Inc()
	s.persistPresets()
	s.logger.Infof(providers.TypeStore, "Seeded %d presets", len(presets))
	return len(presets)
}

func (s *PresetStore) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Snapshot{
		Version:        models.SnapshotVersion,
		TakenAt:        s.now(),
		ActivePresetID: s.activePresetID,
		Presets:        clonePresets(s.presets),
		ProjectDefault: cloneMap(s.projectDefaults),
		ImagePresets:   cloneMap(s.imagePresets),
	}
}

// Restore replaces the whole state with snapshot and writes every record.
func (s *PresetStore) Restore(snapshot models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activePresetID = snapshot.ActivePresetID
	s.presets = clonePresets(snapshot.Presets)
	s.projectDefaults = cloneMap(snapshot.ProjectDefault)
	s.imagePresets = cloneMap(snapshot.ImagePresets)
	s.revision.Inc()

	s.persistActive()
	s.persistPresets()
	s.persistProjectDefaults()
	s.persistImagePresets()
	s.logger.Infof(providers.TypeStore, "Restored %d presets from snapshot taken at %s", len(s.presets), snapshot.TakenAt.Format(time.RFC3339))
}

// mutate applies fn to every preset carrying id. Caller must hold s.mu.
func (s *PresetStore) mutate(id string, fn func(models.Preset) models.Preset) bool {
	found := false
	for i := range s.presets {
		if s.presets[i].ID == id {
			s.presets[i] = fn(s.presets[i].Clone())
			found = true
		}
	}
	return found
}

// replaceAll overwrites every preset sharing p.ID with a copy of p. Caller
// must hold s.mu.
func (s *PresetStore) replaceAll(p models.Preset) {
	for i := range s.presets {
		if s.presets[i].ID == p.ID {
			s.presets[i] = p.Clone()
		}
	}
}

// find returns the first preset carrying id. Caller must hold s.mu.
func (s *PresetStore) find(id string) (models.Preset, bool) {
	for _, p := range s.presets {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Preset{}, false
}

func (s *PresetStore) persistActive() {
	var err error
	if s.activePresetID == "" {
		err = s.kv.Delete(context.Background(), s.key(KeyActivePreset))
	} else {
		err = s.kv.Set(context.Background(), s.key(KeyActivePreset), []byte(s.activePresetID))
	}
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Failed to persist %s: %s", s.key(KeyActivePreset), err)
	}
}

func (s *PresetStore) persistPresets() {
	s.persistJSON(KeyPresets, s.presets)
	s.metrics.SetPresetsTotal(len(s.presets))
}

func (s *PresetStore) persistProjectDefaults() {
	s.persistJSON(KeyProjectDefaults, s.projectDefaults)
}

func (s *PresetStore) persistImagePresets() {
	s.persistJSON(KeyImagePresets, s.imagePresets)
}

func (s *PresetStore) persistJSON(name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Failed to encode %s: %s", s.key(name), err)
		return
	}
	if err := s.kv.Set(context.Background(), s.key(name), data); err != nil {
		s.logger.Errorf(providers.TypeStore, "Failed to persist %s: %s", s.key(name), err)
	}
}

func clonePresets(in []models.Preset) []models.Preset {
	out := make([]models.Preset, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
