package fitness

// Analyzer derives the aggregated dashboard numbers from the store
// snapshots. Everything is computed on demand - the dataset is diary
// scale, nothing is cached.
type Analyzer struct {
	store *Store
}

func NewAnalyzer(store *Store) *Analyzer {
	return &Analyzer{
		store: store,
	}
}

type GoalProgress struct {
	Goal
	Progress float64 `json:"progress"` // in [0, 1]
}

type DashboardSummary struct {
	TotalWorkouts         int     `json:"totalWorkouts"`
	TotalWorkoutMinutes   int     `json:"totalWorkoutMinutes"`
	TotalCaloriesBurned   int     `json:"totalCaloriesBurned"`
	TotalMeals            int     `json:"totalMeals"`
	TotalCaloriesConsumed int     `json:"totalCaloriesConsumed"`
	TotalCarbs            float64 `json:"totalCarbs"`
	TotalProtein          float64 `json:"totalProtein"`
	TotalFat              float64 `json:"totalFat"`

	WorkoutsPerCategory  map[string]int `json:"workoutsPerCategory"`
	MealsPerTimeSlot     map[string]int `json:"mealsPerTimeSlot"`
	CaloriesBurnedPerDay map[string]int `json:"caloriesBurnedPerDay"`

	Goals []GoalProgress `json:"goals"`
}

// Summary aggregates all three collections. profileWeight feeds the
// weight-loss goal progress derivation and may be zero.
func (a *Analyzer) Summary(profileWeight float64) DashboardSummary {
	summary := DashboardSummary{
		WorkoutsPerCategory:  make(map[string]int),
		MealsPerTimeSlot:     make(map[string]int),
		CaloriesBurnedPerDay: make(map[string]int),
	}

	for _, workout := range a.store.Workouts() {
		summary.TotalWorkouts++
		summary.TotalWorkoutMinutes += workout.Duration
		summary.TotalCaloriesBurned += workout.CaloriesBurned
		summary.WorkoutsPerCategory[workout.Category]++
		summary.CaloriesBurnedPerDay[workout.Date] += workout.CaloriesBurned
	}

	for _, meal := range a.store.Meals() {
		summary.TotalMeals++
		summary.TotalCaloriesConsumed += meal.Calories
		summary.TotalCarbs += meal.Carbs
		summary.TotalProtein += meal.Protein
		summary.TotalFat += meal.Fat
		summary.MealsPerTimeSlot[meal.TimeSlot]++
	}

	for _, goal := range a.store.Goals() {
		summary.Goals = append(summary.Goals, GoalProgress{
			Goal:     goal,
			Progress: goal.Progress(profileWeight),
		})
	}

	return summary
}
