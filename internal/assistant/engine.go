// Package assistant implements the canned-response fitness assistant:
// a keyword priority cascade over fixed reply pools, personalized with
// the latest diary state.
package assistant

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fitbuddy/internal/fitness"
	"github.com/2beens/fitbuddy/internal/session"
)

var workoutSuggestions = []string{
	"Based on your recent activity, I'd recommend a full-body strength training session focusing on compound movements like squats, deadlifts, and bench press.",
	"How about trying a 30-minute HIIT workout? It's great for burning calories and improving cardiovascular health.",
	"Since you've been consistent with your training, consider a recovery-focused yoga session today to help with flexibility and muscle recovery.",
	"A good upper body workout with push-ups, pull-ups, and shoulder presses would complement your recent lower body sessions well.",
}

var nutritionAdvice = []string{
	"For lunch, I'd suggest a balanced meal with lean protein (chicken, fish, or tofu), complex carbs (quinoa, brown rice), and plenty of vegetables. Don't forget healthy fats like avocado or nuts!",
	"Post-workout nutrition is crucial! Try a protein-rich meal within 30 minutes of exercising. A protein smoothie with banana and berries is perfect.",
	"Stay hydrated! Aim for at least 8 glasses of water daily, more if you're actively training. Add lemon or cucumber for variety.",
	"For sustainable energy, focus on whole foods: oats for breakfast, lean proteins, colorful vegetables, and moderate amounts of healthy fats.",
}

var motivationalMessages = []string{
	"Remember, every expert was once a beginner. You're making progress with every workout, even when it doesn't feel like it!",
	"Consistency beats perfection every time. It's better to do a 20-minute workout regularly than a 2-hour workout once a week.",
	"Your body can stand almost anything. It's your mind you have to convince. You've got this!",
	"Progress isn't always visible on the scale. You're building strength, endurance, and healthy habits that will last a lifetime.",
	"The hardest part is showing up. Once you start, momentum will carry you forward. Celebrate every small victory!",
}

var defaultResponses = []string{
	"That's an interesting question! I can help you with workout suggestions, nutrition advice, goal setting, and motivation. What specific area would you like to explore?",
	"I'm here to support your fitness journey! Whether you need workout ideas, nutrition tips, or just some encouragement, I'm ready to help.",
	"Great question! As your AI fitness assistant, I can provide personalized advice based on your goals and current progress. What would you like to focus on today?",
}

const smartGoalPrompt = "Setting clear, specific goals is crucial for success! I'd recommend starting with SMART goals - Specific, Measurable, Achievable, Relevant, and Time-bound. What aspect of your fitness would you like to focus on first?"

// Snapshot is the slice of diary state the engine personalizes replies
// with
type Snapshot struct {
	Workouts []fitness.WorkoutRecord
	Goals    []fitness.Goal
}

// Engine picks replies from the pools. The random source is injectable
// so tests can pin the selection; rand.Rand is not goroutine safe, so
// the mutex serializes draws across concurrent requests.
type Engine struct {
	mutex sync.Mutex
	rnd   *rand.Rand
}

func NewEngine(rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		rnd: rnd,
	}
}

// Respond maps the user message to a reply. The keyword checks form a
// priority cascade - workout keywords win over nutrition, goal and
// motivation keywords when a message contains several.
func (e *Engine) Respond(userText string, snapshot Snapshot, profile *session.UserProfile) string {
	lowerText := strings.ToLower(userText)

	if strings.Contains(lowerText, "workout") || strings.Contains(lowerText, "exercise") {
		return e.workoutResponse(snapshot.Workouts)
	}

	if containsAny(lowerText, "eat", "food", "nutrition", "meal") {
		return e.nutritionResponse(profile)
	}

	if strings.Contains(lowerText, "goal") || strings.Contains(lowerText, "target") {
		return goalResponse(snapshot.Goals)
	}

	if containsAny(lowerText, "motivat", "encourage", "help") {
		return e.pick(motivationalMessages)
	}

	return e.pick(defaultResponses)
}

func (e *Engine) workoutResponse(workouts []fitness.WorkoutRecord) string {
	response := e.pick(workoutSuggestions)

	if len(workouts) == 0 {
		return response
	}

	lastWorkout := workouts[len(workouts)-1]
	response += fmt.Sprintf(" I noticed your last workout was %s on %s. ", lastWorkout.Name, lastWorkout.Date)
	switch lastWorkout.Category {
	case fitness.CategoryCardio:
		response += "Maybe it's time for some strength training to balance your routine?"
	case fitness.CategoryStrength:
		response += "Consider adding some cardio or mobility work for recovery."
	}

	return response
}

func (e *Engine) nutritionResponse(profile *session.UserProfile) string {
	response := e.pick(nutritionAdvice)

	if profile == nil {
		return response
	}

	switch profile.Goal {
	case session.GoalLoseWeight:
		response += " Since your goal is weight loss, focus on creating a moderate calorie deficit while maintaining adequate protein intake."
	case session.GoalBuildMuscle:
		response += " For muscle building, ensure you're eating enough protein (0.8-1g per lb of body weight) and don't be afraid of healthy carbs post-workout."
	}

	return response
}

func goalResponse(goals []fitness.Goal) string {
	if len(goals) == 0 {
		return smartGoalPrompt
	}

	currentGoal := goals[0]
	return fmt.Sprintf(
		"I see you're working towards %s. You're currently at %s with a target of %s. Keep up the great work! Consistency is key - small daily actions lead to big results over time.",
		strings.ReplaceAll(currentGoal.Type, "_", " "),
		formatValue(currentGoal.Current),
		formatValue(currentGoal.Target),
	)
}

func (e *Engine) pick(pool []string) string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return pool[e.rnd.Intn(len(pool))]
}

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
