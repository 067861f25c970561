package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/courseforge/backend/libs/config"
	"github.com/courseforge/backend/services/course-service/internal/clients"
	"github.com/courseforge/backend/services/course-service/internal/handlers"
	"github.com/courseforge/backend/services/course-service/internal/models"
	"github.com/courseforge/backend/services/course-service/internal/repositories"
	"github.com/courseforge/backend/services/course-service/internal/services"
	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var (
	testDB     *sql.DB
	testRouter chi.Router
	testLogger *zap.Logger
)

const outlineText = "```json\n" + `{
	"courseName": "Sorting Algorithms 101",
	"description": "Learn the classic sorting algorithms",
	"chapters": [
		{"chapterName": "Bubble Sort", "about": "Swapping neighbours", "duration": "20 minutes"},
		{"chapterName": "Merge Sort", "about": "Divide and conquer", "duration": "30 minutes"}
	]
}` + "\n```"

const sectionsText = `Here you go: {"sections": [
	{"title": "Idea", "explanation": "Repeatedly swap adjacent elements"},
	{"title": "Code", "explanation": "A simple loop", "codeExample": "for i := range xs {}"},
	{"title": "Complexity", "explanation": "Quadratic in the worst case"}
]}`

// newFakeGemini serves generateContent responses, picking the payload from the prompt
func newFakeGemini() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Contents) == 0 || len(req.Contents[0].Parts) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		text := outlineText
		if strings.Contains(req.Contents[0].Parts[0].Text, `"sections"`) {
			text = sectionsText
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"role": "model", "parts": []map[string]string{{"text": text}}}},
			},
		})
	}))
}

// newFakeYouTube serves search.list responses with two ranked videos
func newFakeYouTube() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"vid-1"},"snippet":{"title":"One"}},
			{"id":{"kind":"youtube#video","videoId":"vid-2"},"snippet":{"title":"Two"}}
		]}`))
	}))
}

// setupTestRouter creates a test router with all handlers
func setupTestRouter(db *sql.DB, logger *zap.Logger, geminiURL, youtubeURL string) (chi.Router, error) {
	courseRepo := repositories.NewCourseRepository(db)
	userRepo := repositories.NewUserRepository(db)

	gemini := clients.NewGeminiClient(geminiURL, "test-key", "test-model", 10*time.Second, logger)
	youtube, err := clients.NewYouTubeClient(context.Background(), "test-key",
		option.WithEndpoint(youtubeURL+"/"),
		option.WithHTTPClient(http.DefaultClient),
	)
	if err != nil {
		return nil, err
	}

	generationHandler := handlers.NewGenerationHandler(
		services.NewCourseGenerationService(courseRepo, gemini, logger),
		services.NewChapterContentService(courseRepo, gemini, logger),
		services.NewVideoEnrichmentService(courseRepo, youtube, logger),
		services.NewPublicationService(courseRepo, logger),
		logger,
	)
	courseHandler := handlers.NewCourseHandler(services.NewCourseService(courseRepo, logger), logger)
	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo), logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		generationHandler.RegisterRoutes(r)
		courseHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
	})
	return r, nil
}

// TestMain sets up and tears down the test environment
func TestMain(m *testing.M) {
	// Initialize logger
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}

	// Without a configured test database every test skips itself
	if cfg.Database.DBName == "" {
		os.Exit(m.Run())
	}

	testDB, err = sql.Open("mysql", cfg.DSN())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}

	// Test connection
	if err = testDB.Ping(); err != nil {
		panic(fmt.Sprintf("Failed to ping test database: %v", err))
	}

	// Setup test schema
	if err := setupTestSchema(testDB); err != nil {
		panic(fmt.Sprintf("Failed to create test schema: %v", err))
	}

	gemini := newFakeGemini()
	youtube := newFakeYouTube()

	testRouter, err = setupTestRouter(testDB, testLogger, gemini.URL, youtube.URL)
	if err != nil {
		panic(fmt.Sprintf("Failed to setup test router: %v", err))
	}

	// Run tests
	code := m.Run()

	// Cleanup
	gemini.Close()
	youtube.Close()
	testDB.Close()
	os.Exit(code)
}

// setupTestSchema creates the tables from the service migrations
func setupTestSchema(db *sql.DB) error {
	for _, file := range []string{
		"../../migrations/000001_create_courses_table.up.sql",
		"../../migrations/000002_create_users_table.up.sql",
		"../../migrations/000003_widen_course_text_columns.up.sql",
	} {
		query, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(query)); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

// cleanupTestData removes all test data
func cleanupTestData(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec("DELETE FROM courses")
	require.NoError(t, err, "Failed to cleanup courses")
	_, err = db.Exec("DELETE FROM users")
	require.NoError(t, err, "Failed to cleanup users")
}

func skipWithoutDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if testDB == nil {
		t.Skip("Skipping integration tests: TEST_DB_* is not configured")
	}
}

func doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func TestIntegration_CourseLifecycle(t *testing.T) {
	skipWithoutDB(t)
	defer cleanupTestData(t, testDB)

	// Generate a draft
	w := doJSON(t, http.MethodPost, "/api/v1/courses/generate", models.GenerateCourseRequest{
		UserID:     "owner",
		Category:   "Programming",
		Topic:      "Sorting",
		Difficulty: "Beginner",
		Duration:   "1 hour",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var generated models.GenerateCourseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&generated))
	courseID := generated.CourseID
	require.NotEmpty(t, courseID)
	assert.Equal(t, "Sorting Algorithms 101", generated.Course.CourseName)
	assert.Equal(t, models.CourseStatusDraft, generated.Course.Status)
	require.Len(t, generated.Course.Chapters, 2)

	// Drafts stay hidden from other users
	w = doJSON(t, http.MethodGet, "/api/v1/courses/"+courseID+"?userId=stranger", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Generate content for the first chapter
	w = doJSON(t, http.MethodPost, "/api/v1/courses/chapters/content", map[string]any{
		"userId": "owner", "courseId": courseID, "chapterIndex": 0,
		"chapterName": "Bubble Sort", "courseTopic": "Sorting", "difficulty": "Beginner",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Out-of-range index is rejected
	w = doJSON(t, http.MethodPost, "/api/v1/courses/chapters/content", map[string]any{
		"userId": "owner", "courseId": courseID, "chapterIndex": 7,
		"chapterName": "Ghost", "courseTopic": "Sorting", "difficulty": "Beginner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Fetch videos for the second chapter
	w = doJSON(t, http.MethodPost, "/api/v1/courses/chapters/videos", map[string]any{
		"userId": "owner", "courseId": courseID, "chapterIndex": 1,
		"chapterName": "Merge Sort", "courseTopic": "Sorting",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Owner sees both enrichments
	w = doJSON(t, http.MethodGet, "/api/v1/courses/"+courseID+"?userId=owner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.CourseDetailResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&detail))
	assert.Len(t, detail.Chapters[0].Content, 3)
	assert.Equal(t, []string{"vid-1", "vid-2"}, detail.Chapters[1].YoutubeVideos)
	assert.Equal(t, 0.5, detail.Completeness)

	// Non-owners cannot publish
	w = doJSON(t, http.MethodPost, "/api/v1/courses/"+courseID+"/publish", map[string]string{"userId": "stranger"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Publish and explore
	w = doJSON(t, http.MethodPost, "/api/v1/courses/"+courseID+"/publish", map[string]string{"userId": "owner"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, http.MethodGet, "/api/v1/courses/explore?search=SORTING", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var explored []models.CourseListItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&explored))
	require.Len(t, explored, 1)
	assert.Equal(t, courseID, explored[0].ID)
	assert.Equal(t, models.CourseStatusPublished, explored[0].Status)
	assert.NotNil(t, explored[0].PublishedAt)
}

func TestIntegration_UserProfile(t *testing.T) {
	skipWithoutDB(t)
	defer cleanupTestData(t, testDB)

	tests := []struct {
		name           string
		body           models.UpsertUserRequest
		expectedStatus int
	}{
		{name: "create", body: models.UpsertUserRequest{Email: "ada@example.com", DisplayName: "Ada"}, expectedStatus: http.StatusOK},
		{name: "refresh", body: models.UpsertUserRequest{Email: "ada@example.com", DisplayName: "Ada L."}, expectedStatus: http.StatusOK},
		{name: "invalid email", body: models.UpsertUserRequest{Email: "nope"}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, http.MethodPut, "/api/v1/users/uid-1", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}

	w := doJSON(t, http.MethodGet, "/api/v1/users/uid-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user models.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&user))
	assert.Equal(t, "Ada L.", user.DisplayName)
}

func TestIntegration_LongFreeTextFields(t *testing.T) {
	skipWithoutDB(t)
	defer cleanupTestData(t, testDB)

	longText := strings.Repeat("Distributed systems fundamentals ", 20)

	w := doJSON(t, http.MethodPost, "/api/v1/courses/generate", models.GenerateCourseRequest{
		UserID:     "owner",
		Category:   longText,
		Topic:      longText,
		Difficulty: longText,
		Duration:   longText,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var generated models.GenerateCourseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&generated))

	longName := strings.Repeat("A very long course title ", 20)
	w = doJSON(t, http.MethodPut, "/api/v1/courses/"+generated.CourseID, map[string]string{
		"userId":     "owner",
		"courseName": longName,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, http.MethodGet, "/api/v1/courses/"+generated.CourseID+"?userId=owner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.CourseDetailResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&detail))
	assert.Equal(t, longName, detail.CourseName)
	assert.Equal(t, longText, detail.Topic)
	assert.Equal(t, longText, detail.Level)
}
