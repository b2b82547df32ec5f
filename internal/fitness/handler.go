package fitness

import (
	"encoding/json"
	"net/http"
	"time"

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
	store          *Store
	analyzer       *Analyzer
	profiles       profileProvider
	metricsManager *metrics.Manager
}

func NewHandler(store *Store, profiles profileProvider, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:          store,
		analyzer:       NewAnalyzer(store),
		profiles:       profiles,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/workouts", handler.handleListWorkouts).Methods("GET", "OPTIONS").Name("list-workouts")
	mainRouter.HandleFunc("/workouts", handler.handleAddWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	mainRouter.HandleFunc("/meals", handler.handleListMeals).Methods("GET", "OPTIONS").Name("list-meals")
	mainRouter.HandleFunc("/meals", handler.handleAddMeal).Methods("POST", "OPTIONS").Name("new-meal")
	mainRouter.HandleFunc("/goals", handler.handleListGoals).Methods("GET", "OPTIONS").Name("list-goals")
	mainRouter.HandleFunc("/goals", handler.handleAddGoal).Methods("POST", "OPTIONS").Name("new-goal")
	mainRouter.HandleFunc("/goals/{id}", handler.handleUpdateGoal).Methods("PUT", "OPTIONS").Name("update-goal")
	mainRouter.HandleFunc("/dashboard/summary", handler.handleDashboardSummary).Methods("GET", "OPTIONS").Name("dashboard-summary")
}

func (handler *Handler) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "fitnessHandler.listWorkouts")
	defer span.End()

	writeCollection(w, handler.store.Workouts())
}

func (handler *Handler) handleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fitnessHandler.addWorkout")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var draft WorkoutRecord
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if draft.Name == "" {
		http.Error(w, "error, workout name empty", http.StatusBadRequest)
		return
	}
	if !validDate(draft.Date) {
		http.Error(w, "error, workout date invalid", http.StatusBadRequest)
		return
	}

	addedWorkout, err := handler.store.AddWorkout(ctx, draft)
	if err != nil {
		log.Errorf("failed to add new workout [%s]: %s", draft.Name, err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterWorkoutsAdded.Inc()

	addedJson, err := json.Marshal(addedWorkout)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %s", addedJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleListMeals(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "fitnessHandler.listMeals")
	defer span.End()

	writeCollection(w, handler.store.Meals())
}

func (handler *Handler) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fitnessHandler.addMeal")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var draft MealRecord
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		log.Tracef("new meal, unmarshal json params: %s", err)
		http.Error(w, "add meal failed", http.StatusBadRequest)
		return
	}

	if draft.Name == "" || draft.TimeSlot == "" {
		http.Error(w, "error, meal name or time slot empty", http.StatusBadRequest)
		return
	}
	if !validDate(draft.Date) {
		http.Error(w, "error, meal date invalid", http.StatusBadRequest)
		return
	}

	addedMeal, err := handler.store.AddMeal(ctx, draft)
	if err != nil {
		log.Errorf("failed to add new meal [%s]: %s", draft.Name, err)
		http.Error(w, "error, failed to add new meal", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterMealsAdded.Inc()

	addedJson, err := json.Marshal(addedMeal)
	if err != nil {
		log.Errorf("failed to marshal new meal: %s", err)
		http.Error(w, "error, failed to add new meal", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "fitnessHandler.listGoals")
	defer span.End()

	writeCollection(w, handler.store.Goals())
}

func (handler *Handler) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fitnessHandler.addGoal")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var draft Goal
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		log.Tracef("new goal, unmarshal json params: %s", err)
		http.Error(w, "add goal failed", http.StatusBadRequest)
		return
	}

	if draft.Type == "" {
		http.Error(w, "error, goal type empty", http.StatusBadRequest)
		return
	}

	addedGoal, err := handler.store.AddGoal(ctx, draft)
	if err != nil {
		log.Errorf("failed to add new goal [%s]: %s", draft.Type, err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterGoalsAdded.Inc()

	addedJson, err := json.Marshal(addedGoal)
	if err != nil {
		log.Errorf("failed to marshal new goal: %s", err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fitnessHandler.updateGoal")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var update GoalUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Tracef("update goal, unmarshal json params: %s", err)
		http.Error(w, "update goal failed", http.StatusBadRequest)
		return
	}

	// an unknown id is a silent no-op by contract
	if err := handler.store.UpdateGoal(ctx, id, update); err != nil {
		log.Errorf("failed to update goal %s: %s", id, err)
		http.Error(w, "error, failed to update goal", http.StatusInternalServerError)
		return
	}

	writeCollection(w, handler.store.Goals())
}

func (handler *Handler) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "fitnessHandler.dashboardSummary")
	defer span.End()

	var profileWeight float64
	if user := handler.profiles.CurrentUser(); user != nil {
		profileWeight = user.Weight
	}

	summary := handler.analyzer.Summary(profileWeight)
	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal dashboard summary: %s", err)
		http.Error(w, "failed to get dashboard summary", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(summaryJson))
}

func writeCollection[T any](w http.ResponseWriter, collection []T) {
	collectionJson, err := json.Marshal(collection)
	if err != nil {
		log.Errorf("marshal collection error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(collectionJson))
}

func validDate(date string) bool {
	if date == "" {
		return false
	}
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
