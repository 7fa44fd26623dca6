package routes

import (
	"reflect"

	"shoppit/config"
	"shoppit/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var validate = newValidator()

// newValidator lets decimal fields take numeric tags such as gte=0.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// NewApp builds the fiber app with the JSON error handler and the common
// middleware stack. Routes are mounted separately by SetupRoutes.
func NewApp(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "shoppit",
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.AllowOrigins}))

	return app
}

func SetupRoutes(app *fiber.App, cfg *config.Config) {
	identity := middleware.Identity(cfg.Auth.JWTSecret, cfg.Auth.Required)

	// Serve uploaded images
	app.Static("/uploads", cfg.Uploads.Dir)
	app.Post("/upload", identity, uploadImage(cfg.Uploads.Dir))

	api := app.Group("/api", identity)

	// Catalog routes
	api.Get("/products", getFeaturedProducts)
	api.Get("/products/:slug", getProduct)
	api.Get("/categories", getAllCategories)
	api.Get("/categories/:slug", getCategory)
	api.Get("/search", searchProducts)

	// Catalog management
	admin := api.Group("/admin")
	admin.Post("/products", createProduct)
	admin.Put("/products/:id", updateProduct)
	admin.Delete("/products/:id", deleteProduct)
	admin.Post("/categories", createCategory)
	admin.Put("/categories/:id", updateCategory)
	admin.Delete("/categories/:id", deleteCategory)

	// Cart routes
	api.Post("/add_item", addToCart)
	api.Get("/get_cart", getCart)
	api.Get("/get_cart_stat", getCartStat)
	api.Get("/product_in_cart", productInCart)
	api.Put("/update_quantity", updateCartItemQuantity)
	api.Delete("/delete_cartitem/:pk", deleteCartItem)

	// Review routes
	api.Post("/add_review", addReview)
	api.Put("/update_review/:pk", updateReview)
	api.Delete("/delete_review/:pk", deleteReview)

	// Wishlist routes
	api.Post("/add_to_wishlist", toggleWishlist)
}
