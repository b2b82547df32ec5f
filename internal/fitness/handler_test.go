package fitness

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/fitbuddy/internal/keyval"
	"github.com/2beens/fitbuddy/internal/session"
	"github.com/2beens/fitbuddy/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProfileProvider struct {
	user *session.UserProfile
}

func (p *testProfileProvider) CurrentUser() *session.UserProfile {
	return p.user
}

func fitnessHandlerSetup(t *testing.T) (*Store, *testProfileProvider, *mux.Router) {
	t.Helper()

	store := newRestoredStore(t, keyval.NewTestStore())
	profiles := &testProfileProvider{}
	handler := NewHandler(store, profiles, metrics.NewTestManager())

	r := mux.NewRouter()
	handler.SetupRoutes(r)
	return store, profiles, r
}

func TestHandler_ListWorkouts(t *testing.T) {
	_, _, r := fitnessHandlerSetup(t)

	req, err := http.NewRequest("GET", "/workouts", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var workouts []WorkoutRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &workouts))
	require.Len(t, workouts, 2)
	assert.Equal(t, "Morning Run", workouts[0].Name)
}

func TestHandler_AddWorkout(t *testing.T) {
	store, _, r := fitnessHandlerSetup(t)

	req, err := http.NewRequest(
		"POST", "/workouts",
		strings.NewReader(`{"name":"Leg Day","date":"2025-02-01","duration":50,"caloriesBurned":300,"muscleGroup":"Legs","category":"Strength"}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var added WorkoutRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, "test-id-1", added.ID)
	assert.Equal(t, "Leg Day", added.Name)
	assert.Len(t, store.Workouts(), 3)
}

func TestHandler_AddWorkout_invalid(t *testing.T) {
	store, _, r := fitnessHandlerSetup(t)

	for name, body := range map[string]string{
		"empty name":   `{"date":"2025-02-01"}`,
		"missing date": `{"name":"Leg Day"}`,
		"bad date":     `{"name":"Leg Day","date":"01.02.2025"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/workouts", strings.NewReader(body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	assert.Len(t, store.Workouts(), 2)
}

func TestHandler_AddMeal(t *testing.T) {
	store, _, r := fitnessHandlerSetup(t)

	req, err := http.NewRequest(
		"POST", "/meals",
		strings.NewReader(`{"name":"Oatmeal","time":"breakfast","date":"2025-02-01","calories":350,"carbs":60,"protein":12,"fat":6}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var added MealRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, "test-id-1", added.ID)
	assert.Equal(t, TimeSlotBreakfast, added.TimeSlot)
	assert.Len(t, store.Meals(), 1)
}

func TestHandler_AddMeal_missingTimeSlot(t *testing.T) {
	_, _, r := fitnessHandlerSetup(t)

	req, err := http.NewRequest(
		"POST", "/meals",
		strings.NewReader(`{"name":"Oatmeal","date":"2025-02-01"}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_AddGoal(t *testing.T) {
	store, _, r := fitnessHandlerSetup(t)

	req, err := http.NewRequest(
		"POST", "/goals",
		strings.NewReader(`{"type":"strength_goal","target":100,"current":80,"deadline":"2025-09-01"}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, store.Goals(), 2)
}

func TestHandler_UpdateGoal(t *testing.T) {
	store, _, r := fitnessHandlerSetup(t)

	req, err := http.NewRequest(
		"PUT", "/goals/1",
		strings.NewReader(`{"current":77.5}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var goals []Goal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &goals))
	require.Len(t, goals, 1)
	assert.Equal(t, 77.5, goals[0].Current)
	assert.Equal(t, 77.5, store.Goals()[0].Current)
}

func TestHandler_UpdateGoal_unknownID(t *testing.T) {
	store, _, r := fitnessHandlerSetup(t)

	req, err := http.NewRequest(
		"PUT", "/goals/no-such-goal",
		strings.NewReader(`{"current":60}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	// silent no-op, the unchanged collection comes back
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(80), store.Goals()[0].Current)
}

func TestHandler_DashboardSummary(t *testing.T) {
	_, profiles, r := fitnessHandlerSetup(t)
	profiles.user = &session.UserProfile{
		ID:     "1",
		Email:  "a@b.com",
		Weight: 80,
	}

	req, err := http.NewRequest("GET", "/dashboard/summary", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var summary DashboardSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalWorkouts)
	assert.Equal(t, 105, summary.TotalWorkoutMinutes)
	require.Len(t, summary.Goals, 1)
	assert.Equal(t, float64(0), summary.Goals[0].Progress)
}
