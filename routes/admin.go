package routes

import (
	"errors"

	"shoppit/db"
	"shoppit/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errDuplicateProductSlug  = badRequest("Product with this slug already exists")
	errDuplicateCategorySlug = badRequest("Category with this slug already exists")
)

// Prices must fit decimal(10,2).
type createProductRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Slug        string           `json:"slug" validate:"required,max=100"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lt=100000000"`
	Image       string           `json:"image"`
	Featured    bool             `json:"featured"`
	CategoryID  *uint            `json:"category_id"`
}

// updateProductRequest only touches the fields present in the body.
type updateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string          `json:"slug" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lt=100000000"`
	Image       *string          `json:"image"`
	Featured    *bool            `json:"featured"`
	CategoryID  *uint            `json:"category_id"`
}

type createCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Slug  string `json:"slug" validate:"required,max=100"`
	Image string `json:"image"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug  *string `json:"slug" validate:"omitempty,min=1,max=100"`
	Image *string `json:"image"`
}

// checkCategory fails with 400 when a product points at a missing category.
func checkCategory(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var category models.Category
	if err := tx.First(&category, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest("Category not found")
		}
		return err
	}
	return nil
}

func createProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product := models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Image:       req.Image,
		Featured:    req.Featured,
		CategoryID:  req.CategoryID,
	}
	err := db.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, req.CategoryID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&product).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errDuplicateProductSlug
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(DataResponse{
		Data:    newProductDetail(product),
		Message: "Product created successfully",
	})
}

func updateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return notFound("Product not found")
	}

	var req updateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = req.Price.Round(2)
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}

	var product models.Product
	err = db.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return lookupError(err, "Product not found")
		}
		if err := checkCategory(tx, req.CategoryID); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&product).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&product, id).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errDuplicateProductSlug
	}
	if err != nil {
		return err
	}

	return c.JSON(DataResponse{
		Data:    newProductDetail(product),
		Message: "Product updated successfully",
	})
}

// deleteProduct removes the product together with the cart items, reviews
// and wishlist rows that reference it.
func deleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return notFound("Product not found")
	}

	err = db.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return lookupError(err, "Product not found")
		}
		for _, dependent := range []interface{}{&models.CartItem{}, &models.Review{}, &models.Wishlist{}} {
			if err := tx.Where("product_id = ?", product.ID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

func createCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	category := models.Category{Name: req.Name, Slug: req.Slug, Image: req.Image}
	err := db.DB.WithContext(c.UserContext()).Omit(clause.Associations).Create(&category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errDuplicateCategorySlug
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(DataResponse{
		Data:    newCategoryList(category),
		Message: "Category created successfully",
	})
}

func updateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return notFound("Category not found")
	}

	var req updateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}

	var category models.Category
	err = db.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return lookupError(err, "Category not found")
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&category).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&category, id).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errDuplicateCategorySlug
	}
	if err != nil {
		return err
	}

	return c.JSON(DataResponse{
		Data:    newCategoryList(category),
		Message: "Category updated successfully",
	})
}

// deleteCategory detaches the category's products before removing it.
func deleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return notFound("Category not found")
	}

	err = db.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return lookupError(err, "Category not found")
		}
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
