package controllers

import (
	"errors"
	"net/http"
	"presetd/internal/models"
	"presetd/internal/providers"
	"presetd/internal/selector"
	"presetd/internal/services"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

var timeNow = time.Now

type ApiController struct {
	logger   providers.Logger
	store    services.PresetStoreInterface
	selector selector.ServiceInterface
	cache    providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, store services.PresetStoreInterface, sel selector.ServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		store:    store,
		selector: sel,
		cache:    cache,
	}
}

type versionRequest struct {
	Settings models.PresetSettings `json:"settings"`
	Changes  []string              `json:"changes"`
}

type activeResponse struct {
	ID string `json:"id"`
}

type imagePresetResponse struct {
	ImageID  string `json:"imageId"`
	PresetID string `json:"presetId"`
}

// cacheKey scopes a key to the current store revision, so any mutation makes
// earlier entries unreachable.
func (ac *ApiController) cacheKey(parts ...string) string {
	key := strconv.FormatUint(ac.store.Revision(), 10)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Encode %s: %s", r.URL.Path, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Encode %s: %s", r.URL.Path, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrPresetNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		ac.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Bad body on %s: %s", r.URL.Path, err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// requireParam reads a mandatory query parameter and answers 400 when it is
// missing.
func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		http.Error(w, "Bad Request: missing "+name, http.StatusBadRequest)
		return "", false
	}
	return v, true
}

func (ac *ApiController) presetOr404(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := ac.store.GetPresetByID(id)
	if !ok {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.writeJSON(w, r, http.StatusOK, p)
}

func (ac *ApiController) ListPresets(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("presets"), func() (any, error) {
		return ac.store.Presets(), nil
	})
}

// AddPreset stores the posted preset. A missing id is generated and missing
// timestamps and version are filled in; everything else is taken as sent.
func (ac *ApiController) AddPreset(w http.ResponseWriter, r *http.Request) {
	var p models.Preset
	if !ac.decode(w, r, &p) {
		return
	}
	if p.Name == "" {
		http.Error(w, "Bad Request: missing name", http.StatusBadRequest)
		return
	}
	if p.ID == "" {
		p.ID = services.NewPresetID()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = timeNow()
	}
	if p.LastEdited.IsZero() {
		p.LastEdited = p.CreatedAt
	}

	ac.store.AddPreset(p)
	ac.writeJSON(w, r, http.StatusCreated, p)
}

func (ac *ApiController) GetPreset(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("preset", id), func() (any, error) {
		p, found := ac.store.GetPresetByID(id)
		if !found {
			return nil, models.ErrPresetNotFound
		}
		return p, nil
	})
}

func (ac *ApiController) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	var patch models.PresetPatch
	if !ac.decode(w, r, &patch) {
		return
	}
	if !ac.store.UpdatePreset(id, patch) {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.presetOr404(w, r, id)
}

func (ac *ApiController) DeletePreset(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	if !ac.store.DeletePreset(id) {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) DuplicatePreset(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	src, found := ac.store.GetPresetByID(id)
	if !found {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.writeJSON(w, r, http.StatusCreated, ac.store.DuplicatePreset(src))
}

func (ac *ApiController) SetSharing(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	raw, ok := requireParam(w, r, "shared")
	if !ok {
		return
	}
	shared, err := strconv.ParseBool(raw)
	if err != nil {
		http.Error(w, "Bad Request: shared must be a boolean", http.StatusBadRequest)
		return
	}
	if !ac.store.TogglePresetSharing(id, shared) {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.presetOr404(w, r, id)
}

func (ac *ApiController) CreateVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	var req versionRequest
	if !ac.decode(w, r, &req) {
		return
	}
	if !ac.store.CreatePresetVersion(id, req.Settings, req.Changes) {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.presetOr404(w, r, id)
}

func (ac *ApiController) Rollback(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	versionID, ok := requireParam(w, r, "version")
	if !ok {
		return
	}
	if !ac.store.RollbackToVersion(id, versionID) {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.presetOr404(w, r, id)
}

func (ac *ApiController) ApplyToImage(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := requireParam(w, r, "image")
	if !ok {
		return
	}
	if !ac.store.ApplyPresetToImage(imageID, id) {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.presetOr404(w, r, id)
}

func (ac *ApiController) GetImagePreset(w http.ResponseWriter, r *http.Request) {
	imageID, ok := requireParam(w, r, "image")
	if !ok {
		return
	}
	presetID, found := ac.store.ImagePreset(imageID)
	if !found {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.writeJSON(w, r, http.StatusOK, imagePresetResponse{ImageID: imageID, PresetID: presetID})
}

func (ac *ApiController) GetActive(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, r, http.StatusOK, activeResponse{ID: ac.store.ActivePresetID()})
}

func (ac *ApiController) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id")
	if !ok {
		return
	}
	ac.store.SetActivePresetID(id)
	ac.writeJSON(w, r, http.StatusOK, activeResponse{ID: id})
}

func (ac *ApiController) ClearActive(w http.ResponseWriter, r *http.Request) {
	ac.store.SetActivePresetID("")
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetProjectDefault(w http.ResponseWriter, r *http.Request) {
	projectID, ok := requireParam(w, r, "project")
	if !ok {
		return
	}
	p, found := ac.store.GetProjectDefaultPreset(projectID)
	if !found {
		ac.writeError(w, r, models.ErrPresetNotFound)
		return
	}
	ac.writeJSON(w, r, http.StatusOK, p)
}

func (ac *ApiController) SetProjectDefault(w http.ResponseWriter, r *http.Request) {
	projectID, ok := requireParam(w, r, "project")
	if !ok {
		return
	}
	presetID, ok := requireParam(w, r, "preset")
	if !ok {
		return
	}
	ac.store.SetProjectDefaultPreset(projectID, presetID)
	ac.writeJSON(w, r, http.StatusOK, ac.store.ProjectDefaultPresets())
}

func (ac *ApiController) ClearProjectDefault(w http.ResponseWriter, r *http.Request) {
	projectID, ok := requireParam(w, r, "project")
	if !ok {
		return
	}
	ac.store.SetProjectDefaultPreset(projectID, "")
	w.WriteHeader(http.StatusNoContent)
}

// Match suggests a preset for the posted image metadata. With apply=true the
// suggestion becomes the active preset and, when image is given, is applied to
// that image.
func (ac *ApiController) Match(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	var metadata models.ImageMetadata
	if err := json.Unmarshal(body, &metadata); err != nil {
		ac.logger.Warnf(providers.TypeSelector, "Bad metadata: %s", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	if apply, _ := strconv.ParseBool(q.Get("apply")); apply {
		imageID := q.Get("image")
		sug := ac.selector.Apply(metadata, ac.store.Presets(), func(presetID string) {
			ac.store.SetActivePresetID(presetID)
			if imageID != "" {
				ac.store.ApplyPresetToImage(imageID, presetID)
			}
		})
		ac.writeJSON(w, r, http.StatusOK, sug)
		return
	}

	key := ac.cacheKey("match", strconv.FormatUint(xxhash.Sum64(body), 16))
	ac.serveFromCacheOrCompute(w, r, key, func() (any, error) {
		return ac.selector.Suggest(metadata, ac.store.Presets()), nil
	})
}
