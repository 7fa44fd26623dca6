package routes

import (
	"strings"

	"shoppit/db"
	"shoppit/models"

	"github.com/gofiber/fiber/v2"
)

// getFeaturedProducts lists products flagged as featured.
func getFeaturedProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := db.DB.WithContext(c.UserContext()).
		Where("featured = ?", true).
		Order("id").
		Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(newProductLists(products))
}

func getProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := db.DB.WithContext(c.UserContext()).
		Where("slug = ?", c.Params("slug")).
		First(&product).Error; err != nil {
		return lookupError(err, "Product not found")
	}
	return c.JSON(newProductDetail(product))
}

func getAllCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := db.DB.WithContext(c.UserContext()).Order("id").Find(&categories).Error; err != nil {
		return err
	}

	out := make([]CategoryListResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, newCategoryList(cat))
	}
	return c.JSON(out)
}

// getCategory answers with the flat category projection; products are not
// nested.
func getCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := db.DB.WithContext(c.UserContext()).
		Where("slug = ?", c.Params("slug")).
		First(&category).Error; err != nil {
		return lookupError(err, "Category not found")
	}
	return c.JSON(newCategoryList(category))
}

// likeEscaper escapes LIKE wildcards with '!' which both sqlite and mysql
// accept as an ESCAPE character without string-literal quoting issues.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// searchProducts matches the query against product name, product description
// and category name, case-insensitively. sqlite's LOWER folds ASCII only, so
// "ÉTÉ" does not match "été" there; mysql folds per the column collation.
func searchProducts(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return badRequest("No search query provided")
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	var products []models.Product
	if err := db.DB.WithContext(c.UserContext()).
		Select("products.*").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("LOWER(products.name) LIKE ? ESCAPE '!' OR LOWER(products.description) LIKE ? ESCAPE '!' OR LOWER(categories.name) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern).
		Order("products.id").
		Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(newProductLists(products))
}
