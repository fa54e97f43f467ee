package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mobble-app/mobble-engine/internal/httputil"
	"github.com/mobble-app/mobble-engine/services/checkin"
	"github.com/mobble-app/mobble-engine/services/cosmetics"
	"github.com/mobble-app/mobble-engine/services/entitlement"
	"github.com/mobble-app/mobble-engine/services/points"
	"github.com/mobble-app/mobble-engine/services/prompts"
	"github.com/mobble-app/mobble-engine/services/redeem"
	"github.com/mobble-app/mobble-engine/services/story"
)

// writeServiceError maps sentinel errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, points.ErrInsufficientBalance):
		httputil.PaymentRequired(w, err.Error())
	case errors.Is(err, points.ErrNegativeAmount),
		errors.Is(err, points.ErrNonPositiveAmount),
		errors.Is(err, cosmetics.ErrPremiumItem),
		errors.Is(err, redeem.ErrInvalidCode),
		errors.Is(err, entitlement.ErrUnknownPurchaseKind):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, cosmetics.ErrUnknownItem),
		errors.Is(err, story.ErrUnknownArc),
		errors.Is(err, story.ErrUnknownSidePath),
		errors.Is(err, prompts.ErrUnknownPrompt):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, cosmetics.ErrNotOwned),
		errors.Is(err, story.ErrSidePathLocked),
		errors.Is(err, redeem.ErrAlreadyRedeemed):
		httputil.Conflict(w, err.Error())
	default:
		httputil.BadRequest(w, err.Error())
	}
}

// --- session ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	sess, err := s.Sessions.Login(r.Context(), userID)
	if err != nil {
		httputil.InternalError(w, "login failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	s.Sessions.Logout(req.SessionID)
	w.WriteHeader(http.StatusNoContent)
}

// --- check-in and points ---

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var entry checkin.Entry
	if !httputil.DecodeJSON(w, r, &entry) {
		return
	}
	result, err := s.CheckIn.Complete(r.Context(), userID, entry)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	account, err := s.Points.Account(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"account":   account,
		"available": account.Available(),
	})
}

// --- cosmetics store ---

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":   cosmetics.Catalog(),
		"bundles": cosmetics.Bundles(),
	})
}

func (s *Server) handleWardrobe(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	wardrobe, err := s.Cosmetics.Wardrobe(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wardrobe)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	wardrobe, err := s.Cosmetics.Purchase(r.Context(), userID, req.ItemID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wardrobe)
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	wardrobe, err := s.Cosmetics.Equip(r.Context(), userID, req.ItemID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wardrobe)
}

// --- entitlements and billing callbacks ---

func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	sub, err := s.Entitlements.Subscription(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

func (s *Server) handleActivateLifetime(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	sub, err := s.Entitlements.ActivateLifetime(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

func (s *Server) handleActivatePlus(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		CustomerID     string    `json:"customer_id"`
		SubscriptionID string    `json:"subscription_id"`
		PeriodEnd      time.Time `json:"period_end"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	sub, err := s.Entitlements.ActivatePlus(r.Context(), userID, req.CustomerID, req.SubscriptionID, req.PeriodEnd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	sub, err := s.Entitlements.CancelAtPeriodEnd(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

func (s *Server) handlePastDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	sub, err := s.Entitlements.MarkPastDue(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

func (s *Server) handleRecordPurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		Kind string `json:"kind"`
		ID   string `json:"id"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	sub, err := s.Entitlements.RecordPurchase(r.Context(), userID, entitlement.PurchaseKind(req.Kind), req.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

// --- story ---

func (s *Server) handleStoryProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	progress, err := s.Story.Progress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	arcProgress, err := s.Story.ArcProgress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"progress":     progress,
		"arc_progress": arcProgress,
	})
}

func (s *Server) handleCurrentScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	arc, scene, err := s.Story.CurrentScene(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"arc":   arc,
		"scene": scene,
	})
}

func (s *Server) handleStartJourney(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	progress, err := s.Story.StartJourney(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progress)
}

// handleUnlockSidePath runs the spend-then-unlock protocol: debit the
// path's cost, then record the unlock. Unlocking an already-unlocked
// path charges nothing.
func (s *Server) handleUnlockSidePath(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	sidePathID := mux.Vars(r)["id"]

	sp, found := story.SidePathByID(sidePathID)
	if !found {
		httputil.NotFound(w, "unknown side path")
		return
	}

	progress, err := s.Story.Progress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	alreadyUnlocked := false
	for _, id := range progress.UnlockedSidePaths {
		if id == sidePathID {
			alreadyUnlocked = true
			break
		}
	}

	if !alreadyUnlocked {
		if _, err := s.Points.Debit(r.Context(), userID, sp.PointsCost); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	progress, err = s.Story.UnlockSidePath(r.Context(), userID, sidePathID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progress)
}

func (s *Server) handleAdvanceSidePath(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	sidePathID := mux.Vars(r)["id"]

	advanced, err := s.Story.AdvanceSidePath(r.Context(), userID, sidePathID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	n, err := s.Story.SidePathProgress(r.Context(), userID, sidePathID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"advanced":        advanced,
		"scenes_unlocked": n,
	})
}

func (s *Server) handleSidePath(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	sidePathID := mux.Vars(r)["id"]

	sp, found := story.SidePathByID(sidePathID)
	if !found {
		httputil.NotFound(w, "unknown side path")
		return
	}
	n, err := s.Story.SidePathProgress(r.Context(), userID, sidePathID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	available, err := s.Points.Available(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"side_path":       sp,
		"scenes_unlocked": n,
		"can_afford":      s.Story.CanAffordSidePath(sidePathID, available),
	})
}

// --- prompts ---

func (s *Server) handleNextPrompt(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var pctx prompts.Context
	if !httputil.DecodeJSON(w, r, &pctx) {
		return
	}
	def, found, err := s.Prompts.NextPrompt(r.Context(), userID, pctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, def)
}

func (s *Server) handleDismissPrompt(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		PromptID string `json:"prompt_id"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := s.Prompts.Dismiss(r.Context(), userID, req.PromptID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDiscoverFeature(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		PromptID string `json:"prompt_id"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := s.Prompts.MarkFeatureDiscovered(r.Context(), userID, req.PromptID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInsightsVisited(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	if err := s.Prompts.MarkInsightsVisited(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- access and redemption ---

func (s *Server) handleAccessSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	summary, err := s.Access.Summary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	result, err := s.Redeem.Redeem(r.Context(), userID, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
