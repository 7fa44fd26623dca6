package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"shoppit/config"
	"shoppit/db"
	"shoppit/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:  config.ServerConfig{AppEnv: "test", AllowOrigins: "*"},
		Auth:    config.AuthConfig{JWTSecret: testSecret},
		Uploads: config.UploadsConfig{Dir: t.TempDir()},
	}
}

// newTestApp points db.DB at a fresh sqlite file and mounts every route.
func newTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()

	conn, err := db.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	previous := db.DB
	db.DB = conn
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
		db.DB = previous
	})

	app := NewApp(cfg, zap.NewNop())
	SetupRoutes(app, cfg)
	return app
}

func setupApp(t *testing.T) *fiber.App {
	return newTestApp(t, testConfig(t))
}

type testResponse struct {
	Status int
	Body   []byte
}

func (r testResponse) decode(t *testing.T, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, dst), "body: %s", r.Body)
}

func (r testResponse) errorMessage(t *testing.T) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	r.decode(t, &body)
	return body.Error
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{Status: resp.StatusCode, Body: raw}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) testResponse {
	t.Helper()
	return doRequest(t, app, method, path, body, nil)
}

func bearer(t *testing.T, email string) map[string]string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return map[string]string{fiber.HeaderAuthorization: "Bearer " + token}
}

func seedCategory(t *testing.T, name, slug string) models.Category {
	t.Helper()
	cat := models.Category{Name: name, Slug: slug, Image: "/uploads/" + slug + ".png"}
	require.NoError(t, db.DB.Create(&cat).Error)
	return cat
}

type productSeed struct {
	Name        string
	Slug        string
	Description string
	Price       string
	Featured    bool
	Category    *models.Category
}

func seedProduct(t *testing.T, s productSeed) models.Product {
	t.Helper()
	price := s.Price
	if price == "" {
		price = "1.00"
	}
	product := models.Product{
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Price:       decimal.RequireFromString(price),
		Image:       "/uploads/" + s.Slug + ".png",
		Featured:    s.Featured,
	}
	if s.Category != nil {
		product.CategoryID = &s.Category.ID
	}
	require.NoError(t, db.DB.Create(&product).Error)
	return product
}

func seedUser(t *testing.T, email string) models.User {
	t.Helper()
	user := models.User{Email: email, FirstName: "Test", LastName: "User", ProfilePictureURL: "https://img.example.com/u.png"}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
