package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobble-app/mobble-engine/internal/session"
	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
	"github.com/mobble-app/mobble-engine/services/access"
	"github.com/mobble-app/mobble-engine/services/checkin"
	"github.com/mobble-app/mobble-engine/services/cosmetics"
	"github.com/mobble-app/mobble-engine/services/entitlement"
	"github.com/mobble-app/mobble-engine/services/points"
	"github.com/mobble-app/mobble-engine/services/prompts"
	"github.com/mobble-app/mobble-engine/services/redeem"
	"github.com/mobble-app/mobble-engine/services/story"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	log := logger.NewNop()
	adapter := storage.NewMemory()

	pointsSvc := points.New(points.NewKVStore(adapter, log), log)
	entitlementSvc := entitlement.New(entitlement.NewKVStore(adapter, log), log)
	cosmeticsSvc := cosmetics.New(cosmetics.NewKVStore(adapter, log), pointsSvc, log)
	storySvc := story.New(story.NewKVStore(adapter, log), log)
	promptSvc := prompts.New(prompts.NewKVStore(adapter, log), log)
	accessSvc := access.New(entitlementSvc, log)
	checkinSvc := checkin.New(pointsSvc, storySvc, promptSvc, log)
	redeemSvc := redeem.New(adapter, pointsSvc, entitlementSvc, log)
	sessions := session.NewManager(adapter, log, promptSvc)

	return NewServer(pointsSvc, entitlementSvc, cosmeticsSvc, storySvc, promptSvc,
		accessSvc, checkinSvc, redeemSvc, sessions, log)
}

func doRequest(t *testing.T, srv *Server, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestAPI_RequiresUserHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/points", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_CheckInAndPoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/checkin", "user-1", map[string]interface{}{
		"note": "went for a run",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result checkin.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.EqualValues(t, 11, result.PointsEarned)
	require.True(t, result.Story.NewScene)

	rec = doRequest(t, srv, http.MethodGet, "/v1/points", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pointsResp struct {
		Available int64 `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pointsResp))
	require.EqualValues(t, 11, pointsResp.Available)
}

func TestAPI_PurchaseFlow(t *testing.T) {
	srv := newTestServer(t)

	// Broke user cannot buy.
	rec := doRequest(t, srv, http.MethodPost, "/v1/store/purchase", "user-1", map[string]string{
		"item_id": "wizard-hat",
	})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	// Earn enough, then buy.
	rec = doRequest(t, srv, http.MethodPost, "/v1/redeem", "user-1", map[string]string{"code": "1000points"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/store/purchase", "user-1", map[string]string{
		"item_id": "wizard-hat",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var wardrobe cosmetics.Wardrobe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wardrobe))
	require.Equal(t, []string{"wizard-hat"}, wardrobe.Owned)
	require.Equal(t, "wizard-hat", wardrobe.Equipped)

	// Premium items are rejected on the points path.
	rec = doRequest(t, srv, http.MethodPost, "/v1/store/purchase", "user-1", map[string]string{
		"item_id": "aurora-crown",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown items 404.
	rec = doRequest(t, srv, http.MethodPost, "/v1/store/purchase", "user-1", map[string]string{
		"item_id": "nope",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_SidePathUnlock(t *testing.T) {
	srv := newTestServer(t)

	// Cannot afford yet.
	rec := doRequest(t, srv, http.MethodPost, "/v1/story/side-paths/stargazing/unlock", "user-1", nil)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/redeem", "user-1", map[string]string{"code": "1000points"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/story/side-paths/stargazing/unlock", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var progress story.Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	require.Equal(t, []string{"stargazing"}, progress.UnlockedSidePaths)

	// Unlocking again is idempotent and charges nothing.
	rec = doRequest(t, srv, http.MethodPost, "/v1/story/side-paths/stargazing/unlock", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/v1/points", "user-1", nil)
	var pointsResp struct {
		Available int64 `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pointsResp))
	require.EqualValues(t, 950, pointsResp.Available)

	rec = doRequest(t, srv, http.MethodPost, "/v1/story/side-paths/stargazing/advance", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/v1/story/side-paths/stargazing", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var spResp struct {
		ScenesUnlocked int  `json:"scenes_unlocked"`
		CanAfford      bool `json:"can_afford"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spResp))
	require.Equal(t, 1, spResp.ScenesUnlocked)
	require.True(t, spResp.CanAfford)

	rec = doRequest(t, srv, http.MethodPost, "/v1/story/side-paths/nope/unlock", "user-1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_BillingAndAccess(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/access", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary access.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.False(t, summary.IsPro)
	require.True(t, summary.CanLogDaily)

	rec = doRequest(t, srv, http.MethodPost, "/v1/billing/lifetime", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/v1/access", "user-1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.True(t, summary.IsPro)
	require.False(t, summary.ShouldShowAds)

	var sub entitlement.Subscription
	rec = doRequest(t, srv, http.MethodGet, "/v1/subscription", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	require.Equal(t, entitlement.TierLifetime, sub.Tier)
}

func TestAPI_PromptLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/prompts/next", "user-1", prompts.Context{})
	require.Equal(t, http.StatusOK, rec.Code)

	var def prompts.Definition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &def))
	require.Equal(t, "complete-profile", def.ID)

	rec = doRequest(t, srv, http.MethodPost, "/v1/prompts/dismiss", "user-1", map[string]string{
		"prompt_id": "complete-profile",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The session slot is consumed.
	rec = doRequest(t, srv, http.MethodPost, "/v1/prompts/next", "user-1", prompts.Context{})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Login resets the session gate; the dismissed prompt stays hidden.
	rec = doRequest(t, srv, http.MethodPost, "/v1/session/login", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/prompts/next", "user-1", prompts.Context{})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &def))
	require.Equal(t, "set-activity-level", def.ID)
}

func TestAPI_RedeemErrors(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/redeem", "user-1", map[string]string{"code": "bogus"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/redeem", "user-1", map[string]string{"code": "welcome50"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/v1/redeem", "user-1", map[string]string{"code": "welcome50"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_LegacyMigrationOnLogin(t *testing.T) {
	srv := newTestServer(t)
	adapter := storage.NewMemory()

	// Rebuild the server over an adapter we can seed with legacy blobs.
	log := logger.NewNop()
	pointsSvc := points.New(points.NewKVStore(adapter, log), log)
	srv.Points = pointsSvc
	srv.Sessions = session.NewManager(adapter, log)

	legacy := points.Account{TotalEarned: 120, TotalSpent: 20}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, adapter.Put(context.Background(), "", storage.KeyPoints, raw))

	rec := doRequest(t, srv, http.MethodPost, "/v1/session/login", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/v1/points", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pointsResp struct {
		Available int64 `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pointsResp))
	require.EqualValues(t, 100, pointsResp.Available)
}
