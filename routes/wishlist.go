package routes

import (
	"errors"

	"shoppit/db"
	"shoppit/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type wishlistRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// toggleWishlist removes the (user, product) row when present and creates it
// otherwise.
func toggleWishlist(c *fiber.Ctx) error {
	var req wishlistRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	conn := db.DB.WithContext(c.UserContext())

	user, err := findUser(conn, actingEmail(c, req.Email))
	if err != nil {
		return err
	}
	var product models.Product
	if err := conn.First(&product, req.ProductID).Error; err != nil {
		return lookupError(err, "Product not found")
	}

	var (
		entry   models.Wishlist
		removed bool
	)
	err = conn.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND product_id = ?", user.ID, product.ID).First(&entry).Error
		switch {
		case err == nil:
			removed = true
			return tx.Delete(&models.Wishlist{}, entry.ID).Error
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		entry = models.Wishlist{UserID: user.ID, ProductID: product.ID}
		err = tx.Omit(clause.Associations).Create(&entry).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent toggle added it first; report the stored row.
			return tx.Where("user_id = ? AND product_id = ?", user.ID, product.ID).First(&entry).Error
		}
		return err
	})
	if err != nil {
		return err
	}

	if removed {
		return c.Status(fiber.StatusNoContent).JSON(fiber.Map{
			"message": "Product removed from wishlist",
		})
	}

	entry.User = user
	entry.Product = product
	return c.Status(fiber.StatusCreated).JSON(DataResponse{
		Data:    newWishlist(entry),
		Message: "Product added to wishlist",
	})
}
