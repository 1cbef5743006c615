package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/cache"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/handlers"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/middleware"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := storage.NewMemoryStore()
	policy := engine.DefaultPolicy()
	tiers := services.NewTierService(store, policy, nil, services.LogNotifier{})

	health := handlers.NewHealthHandler("test", "memory")
	health.AddCheck("redis", func(context.Context) error { return errors.New("redis unavailable") })

	app := NewApp("test")
	SetupRoutes(app, Services{
		Carriers:   services.NewCarrierService(store, policy),
		Tiers:      tiers,
		Scorecards: services.NewScorecardService(store, policy, tiers, cache.NewLocalLocker()),
		Matches:    services.NewMatchService(store, policy),
		Loads:      services.NewLoadService(store),
	}, health)
	return app
}

// do sends a JSON request and decodes the JSON response into a map
func do(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(b)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

var operator = map[string]string{middleware.OperatorHeader: "ops-7"}

func registerCarrier(t *testing.T, app *fiber.App, onboarding string) string {
	t.Helper()
	code, body := do(t, app, http.MethodPost, "/api/carriers", map[string]any{
		"name":               "Prairie Freight",
		"contact_phone":      "+15550001",
		"equipment":          []string{"DRY_VAN"},
		"regions":            []string{"MIDWEST"},
		"has_w9":             true,
		"has_insurance_cert": true,
		"has_authority_doc":  true,
		"insurance_expiry":   time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
		"safety_score":       90,
		"onboarding_status":  onboarding,
		"source":             models.SourcePlatform,
	}, nil)
	require.Equal(t, http.StatusCreated, code, body)
	carrier := body["carrier"].(map[string]any)
	return carrier["carrier_id"].(string)
}

func referenceMetrics(period string) map[string]any {
	return map[string]any{
		"period": period,
		"metrics": map[string]any{
			"on_time_pickup":      99,
			"on_time_delivery":    99,
			"communication":       98,
			"claim_ratio":         0.5,
			"document_timeliness": 99,
			"acceptance_rate":     97,
			"gps_compliance":      99,
		},
	}
}

func TestCarrierLifecycle(t *testing.T) {
	app := newTestApp(t)
	id := registerCarrier(t, app, models.OnboardingApproved)

	code, body := do(t, app, http.MethodGet, "/api/carriers/"+id, nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "BRONZE", body["tier"])

	code, body = do(t, app, http.MethodGet, "/api/carriers/"+id+"/compliance", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "GREEN", body["status"])

	code, _ = do(t, app, http.MethodGet, "/api/carriers/CR404", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = do(t, app, http.MethodPost, "/api/carriers", map[string]any{"source": "NOPE"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", body["kind"])
}

func TestScorecardEndpoints(t *testing.T) {
	app := newTestApp(t)
	id := registerCarrier(t, app, models.OnboardingApproved)

	code, body := do(t, app, http.MethodPost, "/api/carriers/"+id+"/scorecards", referenceMetrics("2026-W42"), nil)
	require.Equal(t, http.StatusCreated, code, body)
	scorecard := body["scorecard"].(map[string]any)
	assert.Equal(t, 98.78, scorecard["overall_score"])
	assert.Equal(t, "BRONZE", scorecard["tier_at_calculation"])

	code, body = do(t, app, http.MethodPost, "/api/carriers/"+id+"/scorecards", referenceMetrics("2026-W42"), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", body["kind"])

	code, _ = do(t, app, http.MethodPost, "/api/carriers/"+id+"/scorecards", referenceMetrics(""), nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/carriers/"+id+"/scorecards", "{not json", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/carriers/CR404/scorecards", referenceMetrics("2026-W42"), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = do(t, app, http.MethodGet, "/api/carriers/"+id+"/scorecards?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
}

func TestTierOverrideEndpoints(t *testing.T) {
	app := newTestApp(t)
	id := registerCarrier(t, app, models.OnboardingPending)
	reason := map[string]any{"reason": "documents verified by phone"}

	code, _ := do(t, app, http.MethodPost, "/api/carriers/"+id+"/approve", reason, nil)
	assert.Equal(t, http.StatusUnauthorized, code, "operator header is required")

	code, body := do(t, app, http.MethodPost, "/api/carriers/"+id+"/approve", map[string]any{}, operator)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "POLICY_VIOLATION", body["kind"])

	code, body = do(t, app, http.MethodPost, "/api/carriers/"+id+"/approve", reason, operator)
	require.Equal(t, http.StatusOK, code, body)
	transition := body["transition"].(map[string]any)
	assert.Equal(t, "EMERGENCY_APPROVE", transition["kind"])
	assert.Equal(t, "ops-7", transition["operator_id"])
	assert.Equal(t, "BRONZE", transition["to_tier"])

	// already BRONZE: force promotion no longer applies
	code, _ = do(t, app, http.MethodPost, "/api/carriers/"+id+"/tier/promote", reason, operator)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = do(t, app, http.MethodPost, "/api/carriers/"+id+"/tier/recompute", nil, operator)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["changed"])

	code, body = do(t, app, http.MethodGet, "/api/carriers/"+id+"/tier/history", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"], "INITIAL and EMERGENCY_APPROVE")
}

func TestLoadMatchEndpoints(t *testing.T) {
	app := newTestApp(t)
	id := registerCarrier(t, app, models.OnboardingApproved)

	code, body := do(t, app, http.MethodPost, "/api/loads", map[string]any{
		"origin_city":       "Chicago",
		"origin_state":      "IL",
		"destination_city":  "Dallas",
		"destination_state": "TX",
		"equipment":         "dry van",
	}, nil)
	require.Equal(t, http.StatusCreated, code, body)
	loadID := body["load"].(map[string]any)["load_id"].(string)

	code, body = do(t, app, http.MethodPost, "/api/loads/"+loadID+"/matches", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["suggest_dat"])
	matches := body["matches"].([]any)
	require.Len(t, matches, 1)
	match := matches[0].(map[string]any)
	assert.Equal(t, id, match["carrier_id"])
	// no scorecard yet: 30 + 15 + 0 + 10 + 2 + 5 + 5
	assert.Equal(t, float64(67), match["match_score"])

	code, _ = do(t, app, http.MethodPost, "/api/loads/LD404/matches", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, app, http.MethodPost, "/api/loads", map[string]any{"origin_state": "IL"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	code, body := do(t, app, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, code, "redis is not critical")
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["storage"])
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "error: redis unavailable", deps["redis"])
}
