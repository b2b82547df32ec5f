package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/fitbuddy/internal/fitness"
	"github.com/2beens/fitbuddy/internal/session"
	"github.com/2beens/fitbuddy/internal/telemetry/metrics"
	"github.com/2beens/fitbuddy/internal/telemetry/tracing"
	"github.com/2beens/fitbuddy/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type profileProvider interface {
	CurrentUser() *session.UserProfile
}

type Handler struct {
	engine         *Engine
	fitnessStore   *fitness.Store
	profiles       profileProvider
	metricsManager *metrics.Manager
}

func NewHandler(
	engine *Engine,
	fitnessStore *fitness.Store,
	profiles profileProvider,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		engine:         engine,
		fitnessStore:   fitnessStore,
		profiles:       profiles,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.
		HandleFunc("/assistant/message", handler.handleMessage).
		Methods("POST", "OPTIONS").Name("assistant-message")
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

func (handler *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "assistantHandler.message")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var msgReq messageRequest
	if err := json.NewDecoder(r.Body).Decode(&msgReq); err != nil {
		log.Tracef("assistant message, unmarshal json params: %s", err)
		http.Error(w, "assistant message failed", http.StatusBadRequest)
		return
	}

	if msgReq.Text == "" {
		http.Error(w, "error, message text empty", http.StatusBadRequest)
		return
	}

	reply := handler.engine.Respond(
		msgReq.Text,
		Snapshot{
			Workouts: handler.fitnessStore.Workouts(),
			Goals:    handler.fitnessStore.Goals(),
		},
		handler.profiles.CurrentUser(),
	)

	handler.metricsManager.CounterAssistantMessages.Inc()

	respJson, err := json.Marshal(messageResponse{Reply: reply})
	if err != nil {
		log.Errorf("assistant message, marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}
