package routes

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"shoppit/db"
	"shoppit/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type addItemRequest struct {
	CartCode  string `json:"cart_code" validate:"required,max=64"`
	ProductID uint   `json:"product_id" validate:"required"`
}

// updateQuantityRequest keeps quantity loose so both 3 and "3" are accepted.
type updateQuantityRequest struct {
	ItemID   uint        `json:"item_id" validate:"required"`
	Quantity interface{} `json:"quantity"`
}

// addToCart puts a product in the cart identified by cart_code, creating the
// cart on first use. The item quantity is always reset to 1.
func addToCart(c *fiber.Ctx) error {
	var req addItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			return lookupError(err, "Product not found")
		}

		cart, err := getOrCreateCart(tx, req.CartCode)
		if err != nil {
			return err
		}

		item := models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}
		return tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   1,
				"updated_at": time.Now(),
			}),
		}).Create(&item).Error
	})
	if err != nil {
		return err
	}

	cart, err := loadCart(ctx, req.CartCode)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newCart(cart))
}

// getOrCreateCart tolerates a concurrent insert of the same code.
func getOrCreateCart(tx *gorm.DB, code string) (models.Cart, error) {
	var cart models.Cart
	err := tx.Where(models.Cart{CartCode: code}).FirstOrCreate(&cart).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = tx.Where("cart_code = ?", code).First(&cart).Error
	}
	return cart, err
}

func loadCart(ctx context.Context, code string) (models.Cart, error) {
	var cart models.Cart
	err := db.DB.WithContext(ctx).
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("cart_items.id") }).
		Preload("Items.Product").
		Where("cart_code = ?", code).
		First(&cart).Error
	return cart, err
}

func getCart(c *fiber.Ctx) error {
	code := c.Query("cart_code")
	if code == "" {
		return badRequest("cart_code is required")
	}

	cart, err := loadCart(c.UserContext(), code)
	if err != nil {
		return lookupError(err, "Cart not found")
	}
	return c.JSON(newCart(cart))
}

func getCartStat(c *fiber.Ctx) error {
	code := c.Query("cart_code")
	if code == "" {
		return badRequest("cart_code is required")
	}

	cart, err := loadCart(c.UserContext(), code)
	if err != nil {
		return lookupError(err, "Cart not found")
	}
	return c.JSON(CartStatResponse{ID: cart.ID, CartCode: cart.CartCode, TotalQuantity: cart.TotalQuantity()})
}

// productInCart reports whether the product sits in the given cart. An
// unknown cart simply contains nothing.
func productInCart(c *fiber.Ctx) error {
	code := c.Query("cart_code")
	productID := c.QueryInt("product_id", 0)
	if code == "" || productID <= 0 {
		return badRequest("cart_code and product_id are required")
	}

	var count int64
	if err := db.DB.WithContext(c.UserContext()).
		Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.cart_code = ? AND cart_items.product_id = ?", code, productID).
		Count(&count).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"product_in_cart": count > 0})
}

// parseQuantity accepts a whole JSON number or a numeric string. Zero and
// negative quantities are rejected so sub_total and cart_total never go
// negative; removing an item is DELETE /delete_cartitem/:pk.
func parseQuantity(raw interface{}) (int, error) {
	var n int
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, errors.New("not an integer")
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, err
		}
		n = parsed
	default:
		return 0, errors.New("missing or unsupported quantity")
	}
	if n < 1 {
		return 0, errors.New("quantity must be at least 1")
	}
	return n, nil
}

func updateCartItemQuantity(c *fiber.Ctx) error {
	var req updateQuantityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		return &apiError{Status: fiber.StatusBadRequest, Message: "Invalid quantity", Details: err.Error()}
	}

	conn := db.DB.WithContext(c.UserContext())

	var item models.CartItem
	if err := conn.Preload("Product").First(&item, req.ItemID).Error; err != nil {
		return lookupError(err, "Cart item not found")
	}

	item.Quantity = quantity
	if err := conn.Model(&item).Omit(clause.Associations).Update("quantity", quantity).Error; err != nil {
		return err
	}

	return c.JSON(DataResponse{
		Data:    newCartItem(item),
		Message: "Cart item updated successfully",
	})
}

func deleteCartItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("pk")
	if err != nil || id <= 0 {
		return notFound("Cart item not found")
	}

	conn := db.DB.WithContext(c.UserContext())

	var item models.CartItem
	if err := conn.First(&item, id).Error; err != nil {
		return lookupError(err, "Cart item not found")
	}
	if err := conn.Delete(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).JSON(fiber.Map{
		"message": "Cart item deleted successfully",
	})
}
