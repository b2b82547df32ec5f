package fitness

// DateLayout is the calendar-date format used by all records; there is no
// time-of-day component.
const DateLayout = "2006-01-02"

// workout categories
const (
	CategoryStrength = "Strength"
	CategoryCardio   = "Cardio"
	CategoryHIIT     = "HIIT"
	CategoryYoga     = "Yoga"
	CategorySports   = "Sports"
	CategoryOther    = "Other"
)

// meal time slots
const (
	TimeSlotBreakfast = "breakfast"
	TimeSlotLunch     = "lunch"
	TimeSlotDinner    = "dinner"
	TimeSlotSnack     = "snack"
)

// goal types
const (
	GoalTypeWeightLoss = "weight_loss"
	GoalTypeWeightGain = "weight_gain"
	GoalTypeMuscleGain = "muscle_gain"
	GoalTypeStrength   = "strength_goal"
	GoalTypeEndurance  = "endurance_goal"
)

type WorkoutRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Date           string `json:"date"`
	Duration       int    `json:"duration"` // minutes
	CaloriesBurned int    `json:"caloriesBurned"`
	MuscleGroup    string `json:"muscleGroup"`
	Category       string `json:"category"`
}

type MealRecord struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	TimeSlot string  `json:"time"`
	Date     string  `json:"date"`
	Calories int     `json:"calories"`
	Carbs    float64 `json:"carbs"`   // grams
	Protein  float64 `json:"protein"` // grams
	Fat      float64 `json:"fat"`     // grams
}

type Goal struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Target   float64 `json:"target"`
	Current  float64 `json:"current"`
	Deadline string  `json:"deadline"`
}

// GoalUpdate is a partial goal change. Current is the only field mutable
// after creation.
type GoalUpdate struct {
	Current *float64 `json:"current,omitempty"`
}

func (u *GoalUpdate) applyTo(goal *Goal) {
	if u.Current != nil {
		goal.Current = *u.Current
	}
}

// Progress derives the goal completion as a value in [0, 1]. For
// weight_loss the starting point is the profile weight (falling back to
// the goal's current value when the profile carries none); for all other
// types it is plain current/target. Degenerate denominators clamp instead
// of erroring - a known approximation kept from the product behavior.
func (g Goal) Progress(profileWeight float64) float64 {
	if g.Type == GoalTypeWeightLoss {
		initialWeight := profileWeight
		if initialWeight == 0 {
			initialWeight = g.Current
		}
		totalToLose := initialWeight - g.Target
		if totalToLose <= 0 {
			if g.Current <= g.Target {
				return 1
			}
			return 0
		}
		return clamp01((initialWeight - g.Current) / totalToLose)
	}

	if g.Target == 0 {
		if g.Current > 0 {
			return 1
		}
		return 0
	}
	return clamp01(g.Current / g.Target)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func defaultWorkouts() []WorkoutRecord {
	return []WorkoutRecord{
		{
			ID:             "1",
			Name:           "Morning Run",
			Date:           "2025-01-06",
			Duration:       45,
			CaloriesBurned: 320,
			MuscleGroup:    "Cardio",
			Category:       CategoryCardio,
		},
		{
			ID:             "2",
			Name:           "Chest & Triceps",
			Date:           "2025-01-05",
			Duration:       60,
			CaloriesBurned: 280,
			MuscleGroup:    "Chest, Triceps",
			Category:       CategoryStrength,
		},
	}
}

func defaultGoals() []Goal {
	return []Goal{
		{
			ID:       "1",
			Type:     GoalTypeWeightLoss,
			Target:   75,
			Current:  80,
			Deadline: "2025-06-01",
		},
	}
}
