package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"presetd/internal/models"
	"presetd/internal/selector"
	"presetd/internal/services"
	"presetd/internal/structures"
	"presetd/internal/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pitLaneBody = `{"iso":1200,"shutterSpeed":0.002,"location":"Silverstone Pit Lane","timestamp":"2024-06-01T14:00:00Z"}`

type apiFixture struct {
	ac      *ApiController
	store   *services.PresetStore
	cache   *testutil.MockCache
	metrics *testutil.MockMetrics
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	conf := &structures.Config{
		Persistence: structures.Persistence{KeyPrefix: "pqtr_"},
		Selector:    structures.SelectorConfig{Timezone: "UTC"},
	}
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}

	store := services.NewPresetStore(conf, testutil.NewMockKVStore(), logger, metrics)
	store.Seed(models.BuiltInPresets())

	sel, err := selector.NewService(conf, logger, metrics)
	require.NoError(t, err)

	cache := testutil.NewMockCache()
	return &apiFixture{
		ac:      NewApiController(logger, store, sel, cache),
		store:   store,
		cache:   cache,
		metrics: metrics,
	}
}

func do(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodePreset(t *testing.T, rr *httptest.ResponseRecorder) models.Preset {
	t.Helper()
	var p models.Preset
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func TestListPresets_ReturnsCatalog(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.ListPresets, http.MethodGet, "/presets", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var presets []models.Preset
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &presets))
	assert.Len(t, presets, len(models.BuiltInPresets()))
}

func TestListPresets_CacheFollowsRevision(t *testing.T) {
	f := newAPIFixture(t)

	do(f.ac.ListPresets, http.MethodGet, "/presets", "")
	assert.Len(t, f.cache.Data, 1)

	f.store.AddPreset(models.Preset{ID: "new", Name: "New"})
	rr := do(f.ac.ListPresets, http.MethodGet, "/presets", "")

	var presets []models.Preset
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &presets))
	assert.Equal(t, "new", presets[0].ID)
	assert.Len(t, f.cache.Data, 2)
}

func TestCacheHit_ServedVerbatim(t *testing.T) {
	f := newAPIFixture(t)
	f.cache.Set(f.ac.cacheKey("presets"), []byte(`["cached"]`))

	rr := do(f.ac.ListPresets, http.MethodGet, "/presets", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["cached"]`, rr.Body.String())
}

func TestAddPreset_FillsDefaults(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.AddPreset, http.MethodPost, "/presets", `{"name":"Rainy Paddock","settings":{"contrast":0.2}}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	p := decodePreset(t, rr)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, p.Version)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.LastEdited)
	assert.Equal(t, 0.2, p.Settings.Contrast)

	stored, ok := f.store.GetPresetByID(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Rainy Paddock", stored.Name)
	assert.Equal(t, p.ID, f.store.Presets()[0].ID)
}

func TestAddPreset_KeepsGivenID(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.AddPreset, http.MethodPost, "/presets", `{"id":"custom","name":"Custom","version":4}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	p := decodePreset(t, rr)
	assert.Equal(t, "custom", p.ID)
	assert.Equal(t, 4, p.Version)
}

func TestAddPreset_BadInput(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusBadRequest, do(f.ac.AddPreset, http.MethodPost, "/presets", `{bad`).Code)
	assert.Equal(t, http.StatusBadRequest, do(f.ac.AddPreset, http.MethodPost, "/presets", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(f.ac.AddPreset, http.MethodPost, "/presets", `{"description":"no name"}`).Code)
}

func TestAddPreset_OversizedBody(t *testing.T) {
	f := newAPIFixture(t)
	big := `{"name":"` + strings.Repeat("x", maxRequestBodySize+1) + `"}`

	rr := do(f.ac.AddPreset, http.MethodPost, "/presets", big)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetPreset(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.GetPreset, http.MethodGet, "/preset?id=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Neutral Film", decodePreset(t, rr).Name)

	assert.Equal(t, http.StatusNotFound, do(f.ac.GetPreset, http.MethodGet, "/preset?id=missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(f.ac.GetPreset, http.MethodGet, "/preset", "").Code)
}

func TestUpdatePreset(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.UpdatePreset, http.MethodPut, "/preset?id=2", `{"name":"Renamed","appliedCount":7}`)

	require.Equal(t, http.StatusOK, rr.Code)
	p := decodePreset(t, rr)
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, 7, p.AppliedCount)
	assert.Equal(t, "Classic film look with natural tones and subtle grain", p.Description)
}

func TestUpdatePreset_IDInBodyIgnored(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.UpdatePreset, http.MethodPut, "/preset?id=2", `{"id":"other","name":"Renamed"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2", decodePreset(t, rr).ID)
	_, ok := f.store.GetPresetByID("other")
	assert.False(t, ok)
}

func TestUpdatePreset_Unknown(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.UpdatePreset, http.MethodPut, "/preset?id=missing", `{"name":"x"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeletePreset(t *testing.T) {
	f := newAPIFixture(t)
	f.store.SetProjectDefaultPreset("p1", "2")

	rr := do(f.ac.DeletePreset, http.MethodDelete, "/preset?id=2", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	_, ok := f.store.GetPresetByID("2")
	assert.False(t, ok)
	assert.NotContains(t, f.store.ProjectDefaultPresets(), "p1")

	assert.Equal(t, http.StatusNotFound, do(f.ac.DeletePreset, http.MethodDelete, "/preset?id=2", "").Code)
}

func TestDuplicatePreset(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.DuplicatePreset, http.MethodPost, "/preset/duplicate?id=1", "")

	require.Equal(t, http.StatusCreated, rr.Code)
	p := decodePreset(t, rr)
	assert.Equal(t, "Track Day (Copy)", p.Name)
	assert.NotEqual(t, "1", p.ID)
	assert.Equal(t, 1, p.Version)
	assert.False(t, p.SharedWithTeam)
	assert.Empty(t, p.PreviousVersions)
	assert.Equal(t, p.ID, f.store.Presets()[0].ID)

	assert.Equal(t, http.StatusNotFound, do(f.ac.DuplicatePreset, http.MethodPost, "/preset/duplicate?id=missing", "").Code)
}

func TestSetSharing(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.SetSharing, http.MethodPut, "/preset/sharing?id=2&shared=true", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodePreset(t, rr).SharedWithTeam)

	assert.Equal(t, http.StatusBadRequest, do(f.ac.SetSharing, http.MethodPut, "/preset/sharing?id=2&shared=maybe", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(f.ac.SetSharing, http.MethodPut, "/preset/sharing?id=2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(f.ac.SetSharing, http.MethodPut, "/preset/sharing?id=missing&shared=false", "").Code)
}

func TestCreateVersionThenRollback(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.CreateVersion, http.MethodPost, "/preset/versions?id=2", `{"settings":{"contrast":0.9},"changes":["Punchier"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	p := decodePreset(t, rr)
	assert.Equal(t, 2, p.Version)
	assert.Equal(t, 0.9, p.Settings.Contrast)
	require.Len(t, p.PreviousVersions, 1)
	assert.Equal(t, "2_v1", p.PreviousVersions[0].ID)

	rr = do(f.ac.Rollback, http.MethodPost, "/preset/rollback?id=2&version=2_v1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	p = decodePreset(t, rr)
	assert.Equal(t, 3, p.Version)
	assert.Equal(t, 0.1, p.Settings.Contrast)
	require.Len(t, p.PreviousVersions, 2)
	assert.Equal(t, []string{"Rolled back to version 1"}, p.PreviousVersions[1].Changes)
}

func TestRollback_UnknownVersion(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusNotFound, do(f.ac.Rollback, http.MethodPost, "/preset/rollback?id=2&version=2_v9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(f.ac.Rollback, http.MethodPost, "/preset/rollback?id=2", "").Code)
}

func TestApplyToImage(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.ApplyToImage, http.MethodPost, "/preset/apply?id=4&image=img-1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decodePreset(t, rr).AppliedCount)

	rr = do(f.ac.GetImagePreset, http.MethodGet, "/image/preset?image=img-1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"imageId":"img-1","presetId":"4"}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, do(f.ac.GetImagePreset, http.MethodGet, "/image/preset?image=img-2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(f.ac.ApplyToImage, http.MethodPost, "/preset/apply?id=missing&image=img-1", "").Code)
}

func TestActivePreset(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.GetActive, http.MethodGet, "/active", "")
	assert.JSONEq(t, `{"id":""}`, rr.Body.String())

	rr = do(f.ac.SetActive, http.MethodPut, "/active?id=3", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "3", f.store.ActivePresetID())

	rr = do(f.ac.ClearActive, http.MethodDelete, "/active", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, f.store.ActivePresetID())

	assert.Equal(t, http.StatusBadRequest, do(f.ac.SetActive, http.MethodPut, "/active", "").Code)
}

func TestProjectDefault(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusNotFound, do(f.ac.GetProjectDefault, http.MethodGet, "/project/default?project=p1", "").Code)

	rr := do(f.ac.SetProjectDefault, http.MethodPut, "/project/default?project=p1&preset=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"p1":"5"}`, rr.Body.String())

	rr = do(f.ac.GetProjectDefault, http.MethodGet, "/project/default?project=p1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Urban Edge", decodePreset(t, rr).Name)

	assert.Equal(t, http.StatusNoContent, do(f.ac.ClearProjectDefault, http.MethodDelete, "/project/default?project=p1", "").Code)
	assert.Empty(t, f.store.ProjectDefaultPresets())

	assert.Equal(t, http.StatusBadRequest, do(f.ac.SetProjectDefault, http.MethodPut, "/project/default?project=p1", "").Code)
}

func TestMatch_Suggests(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.Match, http.MethodPost, "/match", pitLaneBody)

	require.Equal(t, http.StatusOK, rr.Code)
	var sug selector.Suggestion
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sug))
	require.NotNil(t, sug.Preset)
	assert.Equal(t, "1", sug.Preset.ID)
	assert.Equal(t, "track-day", sug.RuleID)
	assert.Equal(t, float64(100), sug.Confidence)
	assert.Empty(t, f.store.ActivePresetID())
}

func TestMatch_CachedPerBody(t *testing.T) {
	f := newAPIFixture(t)

	first := do(f.ac.Match, http.MethodPost, "/match", pitLaneBody)
	second := do(f.ac.Match, http.MethodPost, "/match", pitLaneBody)
	assert.Len(t, f.cache.Data, 1)
	assert.Equal(t, first.Body.String(), second.Body.String())
	// the cached response is not a second evaluation
	assert.Equal(t, map[string]int{"track-day": 1}, f.metrics.SelectorMatches)

	do(f.ac.Match, http.MethodPost, "/match", `{"iso":100,"shutterSpeed":0.004,"location":"Home","timestamp":"2024-06-01T14:00:00Z"}`)
	assert.Len(t, f.cache.Data, 2)
}

func TestMatch_ApplySetsActiveAndImage(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.Match, http.MethodPost, "/match?apply=true&image=img-9", pitLaneBody)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", f.store.ActivePresetID())
	presetID, ok := f.store.ImagePreset("img-9")
	require.True(t, ok)
	assert.Equal(t, "1", presetID)
	assert.Empty(t, f.cache.Data)
}

func TestMatch_NoMatch(t *testing.T) {
	f := newAPIFixture(t)

	rr := do(f.ac.Match, http.MethodPost, "/match?apply=true", `{"iso":3200,"shutterSpeed":0.001,"location":"Hangar","timestamp":"2024-06-01T14:00:00Z"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "preset")
	assert.Equal(t, float64(0), resp["confidence"])
	assert.Empty(t, f.store.ActivePresetID())
}

func TestMatch_BadBody(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusBadRequest, do(f.ac.Match, http.MethodPost, "/match", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(f.ac.Match, http.MethodPost, "/match", `{"iso":"high"}`).Code)
}

func TestMatch_MissingExposureRejected(t *testing.T) {
	f := newAPIFixture(t)
	night := `{"location":"downtown","timestamp":"2024-06-01T23:00:00Z"}`

	for _, target := range []string{"/match", "/match?apply=true"} {
		rr := do(f.ac.Match, http.MethodPost, target, night)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
	rr := do(f.ac.Match, http.MethodPost, "/match", `{"iso":800,"location":"downtown","timestamp":"2024-06-01T23:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Empty(t, f.cache.Data)
	assert.Empty(t, f.store.ActivePresetID())
}
