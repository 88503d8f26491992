package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/database"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskVolunteer{},
		&models.Application{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, nil)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func signupPayload(name, email string) map[string]string {
	return map[string]string{
		"display_name": name,
		"email":        email,
		"password":     "supersecret",
		"location":     "Springfield",
		"cause_focus":  "environment",
		"skills":       "first aid, logistics",
	}
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newSessionRouter(env authTestEnv) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", env.handler.Signup)
	r.POST("/api/auth/login", env.handler.Login)
	return r
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newSessionRouter(env)

	w := postJSON(t, r, "/api/auth/signup", signupPayload("newvolunteer", "New@Example.com"))

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success bool `json:"success"`
		User    struct {
			DisplayName string `json:"display_name"`
			Email       string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.Equal(t, "newvolunteer", response.User.DisplayName)
	// Stored lowercase regardless of the submitted casing
	require.Equal(t, "new@example.com", response.User.Email)
}

func TestAuthHandler_Signup_DuplicateEmailCaseInsensitive(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newSessionRouter(env)

	w := postJSON(t, r, "/api/auth/signup", signupPayload("first", "volunteer@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Same address, different case: normalization must catch it
	w = postJSON(t, r, "/api/auth/signup", signupPayload("second", "Volunteer@Example.COM"))
	require.Equal(t, http.StatusConflict, w.Code)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.False(t, response.Success)
	require.Contains(t, response.Message, "already exists")
}

func TestAuthHandler_Signup_DuplicateDisplayName(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newSessionRouter(env)

	w := postJSON(t, r, "/api/auth/signup", signupPayload("takenname", "one@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/signup", signupPayload("takenname", "two@example.com"))
	require.Equal(t, http.StatusConflict, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Contains(t, response.Message, "display name is already taken")
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newSessionRouter(env)

	payload := signupPayload("shortpw", "short@example.com")
	payload["password"] = "12345"

	w := postJSON(t, r, "/api/auth/signup", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Contains(t, response.Message, "at least 6 characters")
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newSessionRouter(env)

	w := postJSON(t, r, "/api/auth/signup", signupPayload("existing", "existing@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "Existing@Example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success   bool `json:"success"`
		Principal struct {
			Email       string `json:"email"`
			DisplayName string `json:"display_name"`
		} `json:"principal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.Equal(t, "existing@example.com", response.Principal.Email)
	require.Equal(t, "existing", response.Principal.DisplayName)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := newSessionRouter(env)

	w := postJSON(t, r, "/api/auth/signup", signupPayload("wrongpw", "wrongpw@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "wrongpw@example.com",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		DisplayName: "current-user",
		Email:       "current@example.com",
		Password:    "supersecret",
		CauseFocus:  "education",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyEmail, "current@example.com")

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User struct {
			DisplayName string `json:"display_name"`
			CauseFocus  string `json:"cause_focus"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "current-user", response.User.DisplayName)
	require.Equal(t, "education", response.User.CauseFocus)
}

func TestAuthService_UpdateProfile_NameTaken(t *testing.T) {
	env := setupAuthTestEnv(t)

	for _, u := range []struct{ name, email string }{
		{"alpha", "alpha@example.com"},
		{"beta", "beta@example.com"},
	} {
		_, err := env.authService.Signup(services.SignupInput{
			DisplayName: u.name,
			Email:       u.email,
			Password:    "supersecret",
			CauseFocus:  "environment",
		})
		require.NoError(t, err)
	}

	err := env.authService.UpdateProfile("beta@example.com", services.UpdateProfileInput{
		DisplayName: "alpha",
		CauseFocus:  "environment",
	})
	require.ErrorIs(t, err, services.ErrDisplayNameTaken)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		DisplayName: "editable",
		Email:       "editable@example.com",
		Password:    "supersecret",
		CauseFocus:  "environment",
	})
	require.NoError(t, err)

	err = env.authService.UpdateProfile("editable@example.com", services.UpdateProfileInput{
		DisplayName: "edited",
		Location:    "Shelbyville",
		CauseFocus:  "education",
		Skills:      "carpentry",
	})
	require.NoError(t, err)

	updated, err := env.authService.GetUserByEmail("editable@example.com")
	require.NoError(t, err)
	require.Equal(t, "edited", updated.DisplayName)
	require.Equal(t, "Shelbyville", updated.Location)
	require.Equal(t, "education", updated.CauseFocus)
}
