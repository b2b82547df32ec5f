package fitness

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/2beens/fitbuddy/internal/keyval"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	workoutsKey = "fitbuddy_workouts"
	mealsKey    = "fitbuddy_meals"
	goalsKey    = "fitbuddy_goals"
)

// Store owns the three independent record collections. Every mutation
// appends (or merges) in memory and re-persists the whole collection as
// one blob - no deltas, no versioning.
type Store struct {
	kv keyval.Store

	mutex    sync.Mutex
	workouts []WorkoutRecord
	meals    []MealRecord
	goals    []Goal

	// injectable unique-id generator (for unit and dev testing)
	IDFunc func() string
}

func NewStore(kv keyval.Store) *Store {
	return &Store{
		kv:     kv,
		IDFunc: uuid.NewString,
	}
}

// Restore loads each collection independently. A collection that is
// absent or malformed gets the seeded default and is persisted right away.
func (s *Store) Restore(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	workouts, seeded, err := restoreCollection(ctx, s.kv, workoutsKey, defaultWorkouts())
	if err != nil {
		return err
	}
	s.workouts = workouts
	if seeded {
		log.Debugf("fitness store: seeded %d default workouts", len(workouts))
	}

	meals, _, err := restoreCollection(ctx, s.kv, mealsKey, []MealRecord{})
	if err != nil {
		return err
	}
	s.meals = meals

	goals, seeded, err := restoreCollection(ctx, s.kv, goalsKey, defaultGoals())
	if err != nil {
		return err
	}
	s.goals = goals
	if seeded {
		log.Debugf("fitness store: seeded %d default goals", len(goals))
	}

	log.Debugf(
		"fitness store restored: %d workouts, %d meals, %d goals",
		len(s.workouts), len(s.meals), len(s.goals),
	)
	return nil
}

func restoreCollection[T any](
	ctx context.Context,
	kv keyval.Store,
	key string,
	seed []T,
) (_ []T, seeded bool, err error) {
	blob, err := kv.Get(ctx, key)
	if err != nil {
		if err != keyval.ErrKeyNotFound {
			return nil, false, err
		}
		if err := persistCollection(ctx, kv, key, seed); err != nil {
			return nil, false, err
		}
		return seed, true, nil
	}

	var collection []T
	if err := json.Unmarshal([]byte(blob), &collection); err != nil {
		// incompatible shape is treated as absence, not an error
		log.Warnf("fitness store: malformed blob under %s, re-seeding: %s", key, err)
		if err := persistCollection(ctx, kv, key, seed); err != nil {
			return nil, false, err
		}
		return seed, true, nil
	}

	return collection, false, nil
}

func persistCollection[T any](ctx context.Context, kv keyval.Store, key string, collection []T) error {
	blob, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, string(blob))
}

// AddWorkout assigns a fresh id to the draft, appends it and re-persists
// the workouts collection
func (s *Store) AddWorkout(ctx context.Context, draft WorkoutRecord) (WorkoutRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	draft.ID = s.IDFunc()
	s.workouts = append(s.workouts, draft)

	if err := persistCollection(ctx, s.kv, workoutsKey, s.workouts); err != nil {
		log.Errorf("fitness store: persist workouts: %s", err)
		return draft, err
	}
	return draft, nil
}

func (s *Store) AddMeal(ctx context.Context, draft MealRecord) (MealRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	draft.ID = s.IDFunc()
	s.meals = append(s.meals, draft)

	if err := persistCollection(ctx, s.kv, mealsKey, s.meals); err != nil {
		log.Errorf("fitness store: persist meals: %s", err)
		return draft, err
	}
	return draft, nil
}

func (s *Store) AddGoal(ctx context.Context, draft Goal) (Goal, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	draft.ID = s.IDFunc()
	s.goals = append(s.goals, draft)

	if err := persistCollection(ctx, s.kv, goalsKey, s.goals); err != nil {
		log.Errorf("fitness store: persist goals: %s", err)
		return draft, err
	}
	return draft, nil
}

// UpdateGoal merges the update into the goal with the given id and
// re-persists the collection. An unknown id is a logged no-op, not an
// error.
func (s *Store) UpdateGoal(ctx context.Context, id string, update GoalUpdate) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}
		update.applyTo(&s.goals[i])
		if err := persistCollection(ctx, s.kv, goalsKey, s.goals); err != nil {
			log.Errorf("fitness store: persist goals: %s", err)
			return err
		}
		return nil
	}

	log.Warnf("fitness store: update goal %s skipped, no such goal", id)
	return nil
}

// Workouts returns a snapshot copy of the workouts collection, in
// insertion order
func (s *Store) Workouts() []WorkoutRecord {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	workouts := make([]WorkoutRecord, len(s.workouts))
	copy(workouts, s.workouts)
	return workouts
}

func (s *Store) Meals() []MealRecord {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	meals := make([]MealRecord, len(s.meals))
	copy(meals, s.meals)
	return meals
}

func (s *Store) Goals() []Goal {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	goals := make([]Goal, len(s.goals))
	copy(goals, s.goals)
	return goals
}
