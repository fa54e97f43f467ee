// Package api exposes the engine's operations as a thin REST surface.
// Authentication is out of scope; the X-User-ID header names the user.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mobble-app/mobble-engine/internal/metrics"
	"github.com/mobble-app/mobble-engine/internal/session"
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

// Server wires the engine's services into HTTP handlers.
type Server struct {
	Points       *points.Service
	Entitlements *entitlement.Service
	Cosmetics    *cosmetics.Service
	Story        *story.Service
	Prompts      *prompts.Service
	Access       *access.Service
	CheckIn      *checkin.Service
	Redeem       *redeem.Service
	Sessions     *session.Manager

	log *logger.Logger
}

// NewServer builds the HTTP surface over the given services.
func NewServer(
	pointsSvc *points.Service,
	entitlementSvc *entitlement.Service,
	cosmeticsSvc *cosmetics.Service,
	storySvc *story.Service,
	promptSvc *prompts.Service,
	accessSvc *access.Service,
	checkinSvc *checkin.Service,
	redeemSvc *redeem.Service,
	sessions *session.Manager,
	log *logger.Logger,
) *Server {
	if log == nil {
		log = logger.NewDefault("api")
	}
	return &Server{
		Points:       pointsSvc,
		Entitlements: entitlementSvc,
		Cosmetics:    cosmeticsSvc,
		Story:        storySvc,
		Prompts:      promptSvc,
		Access:       accessSvc,
		CheckIn:      checkinSvc,
		Redeem:       redeemSvc,
		Sessions:     sessions,
		log:          log,
	}
}

// Router returns the mux with every route registered, instrumented for
// metrics.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.InstrumentHandler)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/session/login", s.handleLogin).Methods(http.MethodPost)
	v1.HandleFunc("/session/logout", s.handleLogout).Methods(http.MethodPost)

	v1.HandleFunc("/checkin", s.handleCheckIn).Methods(http.MethodPost)
	v1.HandleFunc("/points", s.handlePoints).Methods(http.MethodGet)

	v1.HandleFunc("/store/catalog", s.handleCatalog).Methods(http.MethodGet)
	v1.HandleFunc("/store/wardrobe", s.handleWardrobe).Methods(http.MethodGet)
	v1.HandleFunc("/store/purchase", s.handlePurchase).Methods(http.MethodPost)
	v1.HandleFunc("/store/equip", s.handleEquip).Methods(http.MethodPost)

	v1.HandleFunc("/subscription", s.handleSubscription).Methods(http.MethodGet)
	v1.HandleFunc("/billing/lifetime", s.handleActivateLifetime).Methods(http.MethodPost)
	v1.HandleFunc("/billing/plus", s.handleActivatePlus).Methods(http.MethodPost)
	v1.HandleFunc("/billing/cancel", s.handleCancel).Methods(http.MethodPost)
	v1.HandleFunc("/billing/past-due", s.handlePastDue).Methods(http.MethodPost)
	v1.HandleFunc("/billing/purchase", s.handleRecordPurchase).Methods(http.MethodPost)

	v1.HandleFunc("/story/progress", s.handleStoryProgress).Methods(http.MethodGet)
	v1.HandleFunc("/story/scene", s.handleCurrentScene).Methods(http.MethodGet)
	v1.HandleFunc("/story/start", s.handleStartJourney).Methods(http.MethodPost)
	v1.HandleFunc("/story/side-paths/{id}/unlock", s.handleUnlockSidePath).Methods(http.MethodPost)
	v1.HandleFunc("/story/side-paths/{id}/advance", s.handleAdvanceSidePath).Methods(http.MethodPost)
	v1.HandleFunc("/story/side-paths/{id}", s.handleSidePath).Methods(http.MethodGet)

	v1.HandleFunc("/prompts/next", s.handleNextPrompt).Methods(http.MethodPost)
	v1.HandleFunc("/prompts/dismiss", s.handleDismissPrompt).Methods(http.MethodPost)
	v1.HandleFunc("/prompts/discover", s.handleDiscoverFeature).Methods(http.MethodPost)
	v1.HandleFunc("/prompts/insights-visited", s.handleInsightsVisited).Methods(http.MethodPost)

	v1.HandleFunc("/access", s.handleAccessSummary).Methods(http.MethodGet)
	v1.HandleFunc("/redeem", s.handleRedeem).Methods(http.MethodPost)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return r
}
