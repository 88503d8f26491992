package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/database"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskVolunteer{},
		&models.Application{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)

	authService := services.NewAuthService(userRepo, nil)
	taskService := services.NewTaskService(taskRepo, userRepo, nil)
	suite.handler = NewTaskHandler(taskService, authService)

	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	// Test stand-in for the session middleware
	suite.router.Use(func(c *gin.Context) {
		if email := c.GetHeader("X-Test-Email"); email != "" {
			c.Set(constants.ContextKeyEmail, email)
		}
		c.Next()
	})
	suite.router.GET("/api/tasks", suite.handler.ListTasks)
	suite.router.GET("/api/tasks/:id", suite.handler.GetTask)
	suite.router.POST("/api/tasks", suite.handler.CreateTask)
	suite.router.PUT("/api/tasks/:id", suite.handler.UpdateTask)
	suite.router.GET("/api/tasks/mine", suite.handler.ListMyTasks)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(name, email string) *models.User {
	user := &models.User{
		DisplayName:  name,
		Email:        email,
		PasswordHash: "hashedpassword",
		CauseFocus:   "environment",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, organizerID uint64, status models.TaskStatus, priority models.PriorityLevel) *models.Task {
	now := time.Now()
	task := &models.Task{
		Title:                   title,
		Description:             "Test Description",
		OrganizerID:             organizerID,
		StartTime:               now.Add(240 * time.Hour),
		Location:                "Community Center",
		ApplicationDeadline:     now.Add(120 * time.Hour),
		MaxVolunteers:           3,
		CauseFocus:              "environment",
		PriorityLevel:           priority,
		Status:                  status,
		IsAcceptingApplications: true,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) request(method, url string, payload interface{}, email string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if email != "" {
		req.Header.Set("X-Test-Email", email)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func taskPayload(start, deadline time.Time, maxVolunteers int, accepting bool) map[string]interface{} {
	return map[string]interface{}{
		"title":                     "Riverbank Cleanup",
		"description":               "Collect litter along the river path.",
		"start_time":                start.Format(time.RFC3339),
		"location":                  "River Park",
		"max_volunteers":            maxVolunteers,
		"cause_focus":               "environment",
		"required_skills":           "waste sorting, teamwork",
		"priority_level":            "high",
		"application_deadline":      deadline.Format(time.RFC3339),
		"is_accepting_applications": accepting,
	}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AcceptingStartsPendingReview() {
	organizer := suite.createTestUser("organizer", "organizer@example.com")
	now := time.Now()

	w := suite.request(http.MethodPost, "/api/tasks",
		taskPayload(now.Add(10*24*time.Hour), now.Add(5*24*time.Hour), 2, true),
		organizer.Email)

	suite.Equal(http.StatusCreated, w.Code)

	var task models.Task
	suite.Require().NoError(suite.db.First(&task).Error)
	suite.Equal(models.TaskStatusPendingReview, task.Status)
	suite.Equal(2, task.MaxVolunteers)
	suite.Equal([]string{"waste sorting", "teamwork"}, task.RequiredSkills)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_NotAcceptingStartsDraft() {
	organizer := suite.createTestUser("organizer", "organizer@example.com")
	now := time.Now()

	w := suite.request(http.MethodPost, "/api/tasks",
		taskPayload(now.Add(10*24*time.Hour), now.Add(5*24*time.Hour), 2, false),
		organizer.Email)

	suite.Equal(http.StatusCreated, w.Code)

	var task models.Task
	suite.Require().NoError(suite.db.First(&task).Error)
	suite.Equal(models.TaskStatusDraft, task.Status)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_DeadlineAfterStart() {
	organizer := suite.createTestUser("organizer", "organizer@example.com")
	now := time.Now()

	w := suite.request(http.MethodPost, "/api/tasks",
		taskPayload(now.Add(5*24*time.Hour), now.Add(10*24*time.Hour), 2, true),
		organizer.Email)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Deadline must be before the Start Time.")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_StartInPast() {
	organizer := suite.createTestUser("organizer", "organizer@example.com")
	now := time.Now()

	w := suite.request(http.MethodPost, "/api/tasks",
		taskPayload(now.Add(-24*time.Hour), now.Add(-48*time.Hour), 2, true),
		organizer.Email)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "future date")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MaxVolunteersTooLow() {
	organizer := suite.createTestUser("organizer", "organizer@example.com")
	now := time.Now()

	payload := taskPayload(now.Add(10*24*time.Hour), now.Add(5*24*time.Hour), 2, true)
	payload["max_volunteers"] = -1

	w := suite.request(http.MethodPost, "/api/tasks", payload, organizer.Email)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "at least 1")
}

func (suite *TaskHandlerTestSuite) TestListTasks_FiltersAndSlots() {
	organizer := suite.createTestUser("riverkeepers", "org@example.com")
	volunteer := suite.createTestUser("helper", "helper@example.com")

	open := suite.createTestTask("Open Task", organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)
	suite.createTestTask("Draft Task", organizer.ID, models.TaskStatusDraft, models.PriorityNormal)
	closed := suite.createTestTask("Closed Task", organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)
	suite.db.Model(closed).Update("is_accepting_applications", false)

	// One committed volunteer: 3 max - 1 = 2 remaining
	suite.db.Create(&models.TaskVolunteer{TaskID: open.ID, UserID: volunteer.ID})

	w := suite.request(http.MethodGet, "/api/tasks", nil, "")

	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Result struct {
			Tasks []struct {
				Title          string `json:"title"`
				Organizer      string `json:"organizer"`
				SlotsRemaining int    `json:"slots_remaining"`
			} `json:"tasks"`
			TotalCount int64 `json:"total_count"`
		} `json:"result"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(1), response.Result.TotalCount)
	suite.Require().Len(response.Result.Tasks, 1)
	suite.Equal("Open Task", response.Result.Tasks[0].Title)
	suite.Equal("riverkeepers", response.Result.Tasks[0].Organizer)
	suite.Equal(2, response.Result.Tasks[0].SlotsRemaining)
}

func (suite *TaskHandlerTestSuite) TestListTasks_PriorityOrder() {
	organizer := suite.createTestUser("organizer", "org@example.com")
	suite.createTestTask("Normal", organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)
	suite.createTestTask("Critical", organizer.ID, models.TaskStatusActiveOpen, models.PriorityCritical)
	suite.createTestTask("High", organizer.ID, models.TaskStatusActiveOpen, models.PriorityHigh)

	w := suite.request(http.MethodGet, "/api/tasks", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Result struct {
			Tasks []struct {
				Title string `json:"title"`
			} `json:"tasks"`
		} `json:"result"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Result.Tasks, 3)
	suite.Equal("Critical", response.Result.Tasks[0].Title)
	suite.Equal("High", response.Result.Tasks[1].Title)
	suite.Equal("Normal", response.Result.Tasks[2].Title)
}

func (suite *TaskHandlerTestSuite) TestListTasks_TitleSearchCaseInsensitive() {
	organizer := suite.createTestUser("organizer", "org@example.com")
	suite.createTestTask("Beach Cleanup", organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)
	suite.createTestTask("Food Drive", organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)

	w := suite.request(http.MethodGet, "/api/tasks?q=bEACH", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Result struct {
			Tasks []struct {
				Title string `json:"title"`
			} `json:"tasks"`
			TotalCount int64 `json:"total_count"`
		} `json:"result"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(1), response.Result.TotalCount)
	suite.Require().Len(response.Result.Tasks, 1)
	suite.Equal("Beach Cleanup", response.Result.Tasks[0].Title)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Pagination() {
	organizer := suite.createTestUser("organizer", "org@example.com")
	for i := 0; i < 5; i++ {
		suite.createTestTask(fmt.Sprintf("Task %d", i), organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)
	}

	w := suite.request(http.MethodGet, "/api/tasks?page=2&limit=2", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Result struct {
			Tasks      []json.RawMessage `json:"tasks"`
			Page       int               `json:"page"`
			TotalCount int64             `json:"total_count"`
		} `json:"result"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(2, response.Result.Page)
	suite.Equal(int64(5), response.Result.TotalCount)
	suite.Len(response.Result.Tasks, 2)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Detail() {
	organizer := suite.createTestUser("riverkeepers", "org@example.com")
	task := suite.createTestTask("Open Task", organizer.ID, models.TaskStatusActiveOpen, models.PriorityHigh)

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Task struct {
			Title          string `json:"title"`
			Organizer      string `json:"organizer"`
			Status         string `json:"status"`
			SlotsRemaining int    `json:"slots_remaining"`
			StartTime      string `json:"start_time"`
		} `json:"task"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Open Task", response.Task.Title)
	suite.Equal("riverkeepers", response.Task.Organizer)
	suite.Equal("ACTIVE_OPEN", response.Task.Status)
	suite.Equal(3, response.Task.SlotsRemaining)

	_, err := time.Parse(time.RFC3339, response.Task.StartTime)
	suite.NoError(err, "start_time should be ISO-8601")
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	w := suite.request(http.MethodGet, "/api/tasks/9999", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Task not found.")
}

func (suite *TaskHandlerTestSuite) TestGetTask_MalformedID() {
	w := suite.request(http.MethodGet, "/api/tasks/not-an-id", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Invalid Task ID format.")
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_OrganizerOnly() {
	organizer := suite.createTestUser("owner", "owner@example.com")
	other := suite.createTestUser("other", "other@example.com")
	task := suite.createTestTask("Open Task", organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)

	now := time.Now()
	w := suite.request(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID),
		taskPayload(now.Add(10*24*time.Hour), now.Add(5*24*time.Hour), 4, true),
		other.Email)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	organizer := suite.createTestUser("owner", "owner@example.com")
	task := suite.createTestTask("Open Task", organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)

	now := time.Now()
	w := suite.request(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID),
		taskPayload(now.Add(10*24*time.Hour), now.Add(5*24*time.Hour), 4, true),
		organizer.Email)

	suite.Equal(http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.First(&updated, task.ID).Error)
	suite.Equal("Riverbank Cleanup", updated.Title)
	suite.Equal(4, updated.MaxVolunteers)
	suite.Equal(models.PriorityHigh, updated.PriorityLevel)
}

func (suite *TaskHandlerTestSuite) TestListMyTasks() {
	organizer := suite.createTestUser("owner", "owner@example.com")
	other := suite.createTestUser("other", "other@example.com")
	suite.createTestTask("Mine", organizer.ID, models.TaskStatusActiveOpen, models.PriorityNormal)
	suite.createTestTask("Theirs", other.ID, models.TaskStatusActiveOpen, models.PriorityNormal)

	w := suite.request(http.MethodGet, "/api/tasks/mine", nil, organizer.Email)
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	suite.Equal("Mine", response.Tasks[0].Title)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
