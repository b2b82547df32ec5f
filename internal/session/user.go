package session

// profile goal categories
const (
	GoalLoseWeight  = "lose_weight"
	GoalGainWeight  = "gain_weight"
	GoalBuildMuscle = "build_muscle"
	GoalStayFit     = "stay_fit"
)

// UserProfile is the single user of the diary. ID and Email are fixed at
// creation, everything else is mutable through ProfileUpdate.
type UserProfile struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Age            int     `json:"age,omitempty"`
	Weight         float64 `json:"weight,omitempty"` // kilograms
	Height         float64 `json:"height,omitempty"` // centimeters
	Goal           string  `json:"goal,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	ProfilePicture string  `json:"profilePicture,omitempty"`
}

// ProfileUpdate is a partial profile change; nil fields stay untouched.
// ID and Email are deliberately absent - they cannot be updated.
type ProfileUpdate struct {
	Name           *string  `json:"name,omitempty"`
	Age            *int     `json:"age,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	Goal           *string  `json:"goal,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	ProfilePicture *string  `json:"profilePicture,omitempty"`
}

func (u *ProfileUpdate) applyTo(profile *UserProfile) {
	if u.Name != nil {
		profile.Name = *u.Name
	}
	if u.Age != nil {
		profile.Age = *u.Age
	}
	if u.Weight != nil {
		profile.Weight = *u.Weight
	}
	if u.Height != nil {
		profile.Height = *u.Height
	}
	if u.Goal != nil {
		profile.Goal = *u.Goal
	}
	if u.Gender != nil {
		profile.Gender = *u.Gender
	}
	if u.ProfilePicture != nil {
		profile.ProfilePicture = *u.ProfilePicture
	}
}
