package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/internal/middleware"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTestDB points config.DB at a fresh in-memory database. Handlers go
// through the same global they use in production, so tests must not run in
// parallel.
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Sphere{}, &models.Location{}, &models.AccountingRecord{})
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	config.DB = db
	config.RDB = nil
	config.App = config.Settings{AccessTokenMinutes: 60}
	config.JwtKey = []byte("test-secret")
}

// newTestRouter wires the authenticated API surface the way the server does.
func newTestRouter() *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/token", LoginHandler)
	api.POST("/users/register", RegisterHandler)

	auth := api.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/users/me", MeHandler)
	auth.PUT("/users/me", UpdateMeHandler)
	auth.GET("/admin/users", ListUsersHandler)
	auth.GET("/spheres", ListSpheresHandler)
	auth.POST("/spheres", CreateSphereHandler)
	auth.GET("/spheres/:id", GetSphereHandler)
	auth.PUT("/spheres/:id", UpdateSphereHandler)
	auth.DELETE("/spheres/:id", DeleteSphereHandler)
	auth.GET("/locations", ListLocationsHandler)
	auth.POST("/locations", CreateLocationHandler)
	auth.GET("/locations/:id", GetLocationHandler)
	auth.PUT("/locations/:id", UpdateLocationHandler)
	auth.DELETE("/locations/:id", DeleteLocationHandler)
	auth.GET("/records", ListRecordsHandler)
	auth.POST("/records", CreateRecordHandler)
	auth.GET("/records/export", ExportRecordsHandler)
	auth.PUT("/records/:id", UpdateRecordHandler)
	auth.DELETE("/records/:id", DeleteRecordHandler)
	auth.GET("/dashboard", DashboardHandler)
	return r
}

func createTestUser(t *testing.T, login string, admin bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Login: login, HashedPassword: string(hash), IsAdmin: admin}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %q: %v", login, err)
	}
	return user
}

func bearer(t *testing.T, login string) string {
	t.Helper()
	token, err := IssueToken(login, time.Hour)
	if err != nil {
		t.Fatalf("issue token for %q: %v", login, err)
	}
	return "Bearer " + token
}

// doJSON performs a request with an optional JSON body and auth header.
func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func createTestSphere(t *testing.T, owner models.User, name string, readers, editors []models.User) models.Sphere {
	t.Helper()
	sphere := models.Sphere{Name: name, OwnerID: owner.ID, Readers: readers, Editors: editors}
	if err := config.DB.Create(&sphere).Error; err != nil {
		t.Fatalf("create sphere %q: %v", name, err)
	}
	return sphere
}

func createTestLocation(t *testing.T, owner models.User, name string, readers, editors []models.User) models.Location {
	t.Helper()
	location := models.Location{Name: name, OwnerID: owner.ID, Readers: readers, Editors: editors}
	if err := config.DB.Create(&location).Error; err != nil {
		t.Fatalf("create location %q: %v", name, err)
	}
	return location
}

func sphereURL(id uint) string   { return fmt.Sprintf("/api/v1/spheres/%d", id) }
func locationURL(id uint) string { return fmt.Sprintf("/api/v1/locations/%d", id) }
func recordURL(id uint) string   { return fmt.Sprintf("/api/v1/records/%d", id) }

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
