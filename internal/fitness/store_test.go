package fitness

import (
	"context"
	"fmt"
	"testing"

	"github.com/2beens/fitbuddy/internal/keyval"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRestoredStore(t *testing.T, kv keyval.Store) *Store {
	t.Helper()

	store := NewStore(kv)
	idCounter := 0
	store.IDFunc = func() string {
		idCounter++
		return fmt.Sprintf("test-id-%d", idCounter)
	}
	require.NoError(t, store.Restore(context.Background()))
	return store
}

func TestStore_Restore_seedsDefaults(t *testing.T) {
	kv := keyval.NewTestStore()
	store := newRestoredStore(t, kv)

	workouts := store.Workouts()
	require.Len(t, workouts, 2)
	assert.Equal(t, "Morning Run", workouts[0].Name)
	assert.Equal(t, CategoryCardio, workouts[0].Category)
	assert.Equal(t, "Chest & Triceps", workouts[1].Name)

	assert.Empty(t, store.Meals())

	goals := store.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, GoalTypeWeightLoss, goals[0].Type)
	assert.Equal(t, float64(75), goals[0].Target)
	assert.Equal(t, float64(80), goals[0].Current)

	// seeds are persisted right away
	values := kv.AllValues()
	assert.Contains(t, values, workoutsKey)
	assert.Contains(t, values, mealsKey)
	assert.Contains(t, values, goalsKey)
}

func TestStore_Restore_malformedBlobReseeds(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	require.NoError(t, kv.Set(ctx, workoutsKey, "><-not-json"))

	store := newRestoredStore(t, kv)
	assert.Len(t, store.Workouts(), 2)
}

func TestStore_AddWorkout(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newRestoredStore(t, kv)

	added, err := store.AddWorkout(ctx, WorkoutRecord{
		Name:           "Leg Day",
		Date:           "2025-02-01",
		Duration:       50,
		CaloriesBurned: 300,
		MuscleGroup:    "Legs",
		Category:       CategoryStrength,
	})
	require.NoError(t, err)
	assert.Equal(t, "test-id-1", added.ID)

	workouts := store.Workouts()
	require.Len(t, workouts, 3)
	// appended at the end, insertion order preserved
	assert.Equal(t, "Leg Day", workouts[2].Name)

	// the whole collection is re-persisted
	restored := newRestoredStore(t, kv)
	assert.Len(t, restored.Workouts(), 3)
}

func TestStore_AddMeal(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newRestoredStore(t, kv)

	added, err := store.AddMeal(ctx, MealRecord{
		Name:     "Oatmeal",
		TimeSlot: TimeSlotBreakfast,
		Date:     "2025-02-01",
		Calories: 350,
		Carbs:    60,
		Protein:  12,
		Fat:      6,
	})
	require.NoError(t, err)
	assert.Equal(t, "test-id-1", added.ID)

	meals := store.Meals()
	require.Len(t, meals, 1)
	assert.Equal(t, "Oatmeal", meals[0].Name)

	restored := newRestoredStore(t, kv)
	assert.Len(t, restored.Meals(), 1)
}

func TestStore_AddGoal(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newRestoredStore(t, kv)

	added, err := store.AddGoal(ctx, Goal{
		Type:     GoalTypeStrength,
		Target:   100,
		Current:  80,
		Deadline: "2025-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "test-id-1", added.ID)
	assert.Len(t, store.Goals(), 2)
}

func TestStore_AddWorkout_persistErr(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newRestoredStore(t, kv)

	kv.ForcedErr = assert.AnError
	_, err := store.AddWorkout(ctx, WorkoutRecord{Name: "doomed"})
	require.ErrorIs(t, err, assert.AnError)

	// the in-memory value stays, optimistic
	assert.Len(t, store.Workouts(), 3)
}

func TestStore_UpdateGoal(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newRestoredStore(t, kv)

	newCurrent := 78.5
	require.NoError(t, store.UpdateGoal(ctx, "1", GoalUpdate{Current: &newCurrent}))

	goals := store.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, 78.5, goals[0].Current)
	// everything else untouched
	assert.Equal(t, GoalTypeWeightLoss, goals[0].Type)
	assert.Equal(t, float64(75), goals[0].Target)
	assert.Equal(t, "2025-06-01", goals[0].Deadline)

	restored := newRestoredStore(t, kv)
	require.Len(t, restored.Goals(), 1)
	assert.Equal(t, 78.5, restored.Goals()[0].Current)
}

func TestStore_UpdateGoal_unknownID(t *testing.T) {
	ctx := context.Background()
	store := newRestoredStore(t, keyval.NewTestStore())

	newCurrent := 60.0
	require.NoError(t, store.UpdateGoal(ctx, "no-such-goal", GoalUpdate{Current: &newCurrent}))
	assert.Equal(t, float64(80), store.Goals()[0].Current)
}

func TestStore_AddWorkout_many(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newRestoredStore(t, kv)

	faker := gofakeit.New(42)
	added := 20
	for i := 0; i < added; i++ {
		_, err := store.AddWorkout(ctx, WorkoutRecord{
			Name:           faker.HipsterWord(),
			Date:           faker.Date().Format(DateLayout),
			Duration:       faker.Number(10, 120),
			CaloriesBurned: faker.Number(50, 900),
			MuscleGroup:    faker.HipsterWord(),
			Category:       CategoryOther,
		})
		require.NoError(t, err)
	}

	workouts := store.Workouts()
	require.Len(t, workouts, 2+added)

	// ids are unique across the collection
	seen := make(map[string]bool, len(workouts))
	for _, w := range workouts {
		assert.False(t, seen[w.ID], "duplicate id: %s", w.ID)
		seen[w.ID] = true
	}

	restored := newRestoredStore(t, kv)
	assert.Equal(t, workouts, restored.Workouts())
}

func TestStore_snapshotsAreCopies(t *testing.T) {
	store := newRestoredStore(t, keyval.NewTestStore())

	workouts := store.Workouts()
	workouts[0].Name = "mutated"
	assert.Equal(t, "Morning Run", store.Workouts()[0].Name)
}
