package routes

import (
	"errors"

	"shoppit/db"
	"shoppit/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errAlreadyReviewed = badRequest("You have already reviewed this product")

type addReviewRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Review    string `json:"review" validate:"required"`
}

type updateReviewRequest struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"required"`
}

type deleteReviewRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// findUser resolves the acting user; a blank email is treated as unknown.
func findUser(conn *gorm.DB, email string) (models.User, error) {
	var user models.User
	if email == "" {
		return user, badRequest("Email is required")
	}
	if err := conn.Where("email = ?", email).First(&user).Error; err != nil {
		return user, lookupError(err, "User not found")
	}
	return user, nil
}

func addReview(c *fiber.Ctx) error {
	var req addReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	conn := db.DB.WithContext(c.UserContext())

	var product models.Product
	if err := conn.First(&product, req.ProductID).Error; err != nil {
		return lookupError(err, "Product not found")
	}
	user, err := findUser(conn, actingEmail(c, req.Email))
	if err != nil {
		return err
	}

	review := models.Review{
		UserID:    user.ID,
		ProductID: product.ID,
		Rating:    req.Rating,
		Review:    req.Review,
	}
	err = conn.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND product_id = ?", user.ID, product.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errAlreadyReviewed
		}
		return tx.Omit(clause.Associations).Create(&review).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errAlreadyReviewed
	}
	if err != nil {
		return err
	}

	review.User = user
	return c.Status(fiber.StatusCreated).JSON(DataResponse{
		Data:    newReview(review),
		Message: "Review added successfully",
	})
}

func findReview(c *fiber.Ctx, conn *gorm.DB) (models.Review, error) {
	var review models.Review
	id, err := c.ParamsInt("pk")
	if err != nil || id <= 0 {
		return review, notFound("Review not found")
	}
	if err := conn.Preload("User").First(&review, id).Error; err != nil {
		return review, lookupError(err, "Review not found")
	}
	return review, nil
}

// updateReview lets only the owner of a review change it.
func updateReview(c *fiber.Ctx) error {
	var req updateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	conn := db.DB.WithContext(c.UserContext())

	review, err := findReview(c, conn)
	if err != nil {
		return err
	}
	if review.User.Email != actingEmail(c, req.Email) {
		return forbidden("You can only update your own reviews")
	}

	review.Rating = req.Rating
	review.Review = req.Review
	if err := conn.Model(&review).Omit(clause.Associations).Updates(map[string]interface{}{
		"rating": req.Rating,
		"review": req.Review,
	}).Error; err != nil {
		return err
	}

	return c.JSON(DataResponse{
		Data:    newReview(review),
		Message: "Review updated successfully",
	})
}

func deleteReview(c *fiber.Ctx) error {
	var req deleteReviewRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	conn := db.DB.WithContext(c.UserContext())

	review, err := findReview(c, conn)
	if err != nil {
		return err
	}
	if review.User.Email != actingEmail(c, req.Email) {
		return forbidden("You can only delete your own reviews")
	}

	if err := conn.Delete(&models.Review{}, review.ID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}
