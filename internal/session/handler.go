package session

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/fitbuddy/internal/middleware"
	"github.com/2beens/fitbuddy/internal/telemetry/metrics"
	"github.com/2beens/fitbuddy/internal/telemetry/tracing"
	"github.com/2beens/fitbuddy/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	store          *Store
	metricsManager *metrics.Manager
}

func NewHandler(store *Store, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:          store,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	authSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	authSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	authSubrouter.
		HandleFunc("/register", handler.handleRegister).
		Methods("POST", "OPTIONS").Name("register")
	authSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the auth endpoints to prevent abuse
	authSubrouter.Use(middleware.RateLimit(rateLimiter, "login", allowedPerMin, handler.metricsManager))

	mainRouter.HandleFunc("/profile", handler.handleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	mainRouter.HandleFunc("/profile", handler.handleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		loginReq = loginRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	ok, err := handler.store.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		log.Tracef("failed login attempt for: %s", loginReq.Email)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	handler.metricsManager.CounterSessionLogins.Inc()

	respJson, err := json.Marshal(loginResponse{
		Token: handler.store.Token(),
		User:  handler.store.CurrentUser(),
	})
	if err != nil {
		log.Errorf("login, marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionHandler.register")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var draft UserProfile
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		log.Errorf("register, unmarshal json params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if draft.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}

	ok, err := handler.store.Register(ctx, draft)
	if err != nil || !ok {
		log.Errorf("register failed: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterSessionLogins.Inc()

	respJson, err := json.Marshal(loginResponse{
		Token: handler.store.Token(),
		User:  handler.store.CurrentUser(),
	})
	if err != nil {
		log.Errorf("register, marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := handler.store.Logout(ctx); err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	log.Println("logout success")
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "sessionHandler.getProfile")
	defer span.End()

	user := handler.store.CurrentUser()
	if user == nil {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("get profile, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(userJson))
}

func (handler *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionHandler.updateProfile")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	if handler.store.CurrentUser() == nil {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}

	var update ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	if err := handler.store.UpdateProfile(ctx, update); err != nil {
		log.Errorf("update profile: %s", err)
		http.Error(w, "update profile failed", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(handler.store.CurrentUser())
	if err != nil {
		log.Errorf("update profile, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(userJson))
}
