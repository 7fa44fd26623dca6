package routes

import (
	"fmt"
	"testing"

	"shoppit/db"
	"shoppit/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewEnvelope struct {
	Data    ReviewResponse `json:"data"`
	Message string         `json:"message"`
}

func seedReview(t *testing.T, app *fiber.App, productID uint, email string) ReviewResponse {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/add_review", fiber.Map{
		"product_id": productID,
		"email":      email,
		"rating":     4,
		"review":     "Nice fit",
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))

	var body reviewEnvelope
	resp.decode(t, &body)
	return body.Data
}

func TestAddReview(t *testing.T) {
	app := setupApp(t)
	product := seedProduct(t, productSeed{Name: "Shirt", Slug: "shirt"})
	user := seedUser(t, "ada@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/add_review", fiber.Map{
		"product_id": product.ID,
		"email":      "ada@example.com",
		"rating":     5,
		"review":     "Great shirt",
	})
	require.Equal(t, fiber.StatusCreated, resp.Status)

	var body reviewEnvelope
	resp.decode(t, &body)
	assert.Equal(t, "Review added successfully", body.Message)
	assert.NotZero(t, body.Data.ID)
	assert.Equal(t, 5, body.Data.Rating)
	assert.Equal(t, "Great shirt", body.Data.Review)
	assert.Equal(t, UserResponse{
		ID:                user.ID,
		Email:             "ada@example.com",
		FirstName:         "Test",
		LastName:          "User",
		ProfilePictureURL: "https://img.example.com/u.png",
	}, body.Data.User)
	assert.False(t, body.Data.Created.IsZero())
}

func TestAddReviewTwiceIsRejected(t *testing.T) {
	app := setupApp(t)
	product := seedProduct(t, productSeed{Name: "Shirt", Slug: "shirt"})
	user := seedUser(t, "ada@example.com")
	seedReview(t, app, product.ID, user.Email)

	resp := doJSON(t, app, fiber.MethodPost, "/api/add_review", fiber.Map{
		"product_id": product.ID,
		"email":      user.Email,
		"rating":     1,
		"review":     "Changed my mind",
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "You have already reviewed this product", resp.errorMessage(t))
	assert.EqualValues(t, 1, count(t, &models.Review{}, "user_id = ? AND product_id = ?", user.ID, product.ID))
}

func TestAddReviewLookupFailures(t *testing.T) {
	app := setupApp(t)
	product := seedProduct(t, productSeed{Name: "Shirt", Slug: "shirt"})
	seedUser(t, "ada@example.com")

	cases := []struct {
		name    string
		body    fiber.Map
		status  int
		message string
	}{
		{"unknown product", fiber.Map{"product_id": 999, "email": "ada@example.com", "rating": 3, "review": "ok"}, fiber.StatusNotFound, "Product not found"},
		{"unknown user", fiber.Map{"product_id": product.ID, "email": "bob@example.com", "rating": 3, "review": "ok"}, fiber.StatusNotFound, "User not found"},
		{"missing email", fiber.Map{"product_id": product.ID, "rating": 3, "review": "ok"}, fiber.StatusBadRequest, "Email is required"},
		{"rating out of range", fiber.Map{"product_id": product.ID, "email": "ada@example.com", "rating": 6, "review": "ok"}, fiber.StatusBadRequest, "Validation failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, fiber.MethodPost, "/api/add_review", tc.body)
			assert.Equal(t, tc.status, resp.Status)
			assert.Equal(t, tc.message, resp.errorMessage(t))
		})
	}
	assert.Zero(t, count(t, &models.Review{}, "1 = 1"))
}

func TestUpdateReview(t *testing.T) {
	app := setupApp(t)
	product := seedProduct(t, productSeed{Name: "Shirt", Slug: "shirt"})
	seedUser(t, "ada@example.com")
	seedUser(t, "mallory@example.com")
	review := seedReview(t, app, product.ID, "ada@example.com")
	path := fmt.Sprintf("/api/update_review/%d", review.ID)

	t.Run("other user is forbidden", func(t *testing.T) {
		resp := doJSON(t, app, fiber.MethodPut, path, fiber.Map{"email": "mallory@example.com", "rating": 1, "review": "Bad"})
		assert.Equal(t, fiber.StatusForbidden, resp.Status)
		assert.Equal(t, "You can only update your own reviews", resp.errorMessage(t))

		var stored models.Review
		require.NoError(t, db.DB.First(&stored, review.ID).Error)
		assert.Equal(t, 4, stored.Rating)
		assert.Equal(t, "Nice fit", stored.Review)
	})

	t.Run("owner can update", func(t *testing.T) {
		resp := doJSON(t, app, fiber.MethodPut, path, fiber.Map{"email": "ada@example.com", "rating": 2, "review": "Shrunk"})
		require.Equal(t, fiber.StatusOK, resp.Status)

		var body reviewEnvelope
		resp.decode(t, &body)
		assert.Equal(t, "Review updated successfully", body.Message)
		assert.Equal(t, 2, body.Data.Rating)
		assert.Equal(t, "Shrunk", body.Data.Review)
		assert.Equal(t, "ada@example.com", body.Data.User.Email)

		var stored models.Review
		require.NoError(t, db.DB.First(&stored, review.ID).Error)
		assert.Equal(t, 2, stored.Rating)
		assert.Equal(t, "Shrunk", stored.Review)
	})

	t.Run("unknown review", func(t *testing.T) {
		resp := doJSON(t, app, fiber.MethodPut, "/api/update_review/999", fiber.Map{"email": "ada@example.com", "rating": 2, "review": "x"})
		assert.Equal(t, fiber.StatusNotFound, resp.Status)
		assert.Equal(t, "Review not found", resp.errorMessage(t))
	})
}

func TestDeleteReview(t *testing.T) {
	app := setupApp(t)
	product := seedProduct(t, productSeed{Name: "Shirt", Slug: "shirt"})
	seedUser(t, "ada@example.com")
	review := seedReview(t, app, product.ID, "ada@example.com")
	path := fmt.Sprintf("/api/delete_review/%d", review.ID)

	resp := doJSON(t, app, fiber.MethodDelete, path, fiber.Map{"email": "mallory@example.com"})
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
	assert.Equal(t, "You can only delete your own reviews", resp.errorMessage(t))
	assert.EqualValues(t, 1, count(t, &models.Review{}, "id = ?", review.ID))

	resp = doJSON(t, app, fiber.MethodDelete, path, fiber.Map{"email": "ada@example.com"})
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.JSONEq(t, `{"message": "Review deleted successfully"}`, string(resp.Body))
	assert.Zero(t, count(t, &models.Review{}, "id = ?", review.ID))

	resp = doJSON(t, app, fiber.MethodDelete, path, fiber.Map{"email": "ada@example.com"})
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestReviewOwnershipFollowsVerifiedIdentity(t *testing.T) {
	app := setupApp(t)
	product := seedProduct(t, productSeed{Name: "Shirt", Slug: "shirt"})
	seedUser(t, "ada@example.com")
	seedUser(t, "mallory@example.com")
	review := seedReview(t, app, product.ID, "ada@example.com")
	path := fmt.Sprintf("/api/update_review/%d", review.ID)

	// A spoofed email in the body does not override the token.
	resp := doRequest(t, app, fiber.MethodPut, path,
		fiber.Map{"email": "ada@example.com", "rating": 1, "review": "Spoofed"},
		bearer(t, "mallory@example.com"))
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = doRequest(t, app, fiber.MethodPut, path,
		fiber.Map{"rating": 3, "review": "From token"},
		bearer(t, "ada@example.com"))
	assert.Equal(t, fiber.StatusOK, resp.Status)

	resp = doRequest(t, app, fiber.MethodDelete, fmt.Sprintf("/api/delete_review/%d", review.ID), nil, bearer(t, "ada@example.com"))
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestReviewsRequireTokenWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Required = true
	app := newTestApp(t, cfg)
	product := seedProduct(t, productSeed{Name: "Shirt", Slug: "shirt"})
	seedUser(t, "ada@example.com")

	body := fiber.Map{"product_id": product.ID, "email": "ada@example.com", "rating": 4, "review": "ok"}

	resp := doJSON(t, app, fiber.MethodPost, "/api/add_review", body)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Missing token", resp.errorMessage(t))

	resp = doRequest(t, app, fiber.MethodPost, "/api/add_review", body, bearer(t, "ada@example.com"))
	assert.Equal(t, fiber.StatusCreated, resp.Status)
}
