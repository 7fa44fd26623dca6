package routes

import (
	"time"

	"shoppit/models"

	"github.com/shopspring/decimal"
)

// Money is rendered with two decimal places, as a string.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type ProductListResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

type ProductDetailResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Slug        string `json:"slug"`
	Image       string `json:"image"`
}

type CategoryListResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Slug  string `json:"slug"`
}

type CartItemResponse struct {
	ID       uint                `json:"id"`
	Product  ProductListResponse `json:"product"`
	Quantity int                 `json:"quantity"`
	SubTotal string              `json:"sub_total"`
}

type CartResponse struct {
	ID        uint               `json:"id"`
	CartCode  string             `json:"cart_code"`
	CartItems []CartItemResponse `json:"cartitems"`
	CartTotal string             `json:"cart_total"`
}

type CartStatResponse struct {
	ID            uint   `json:"id"`
	CartCode      string `json:"cart_code"`
	TotalQuantity int    `json:"total_quantity"`
}

type UserResponse struct {
	ID                uint   `json:"id"`
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

type ReviewResponse struct {
	ID      uint         `json:"id"`
	User    UserResponse `json:"user"`
	Rating  int          `json:"rating"`
	Review  string       `json:"review"`
	Created time.Time    `json:"created"`
	Updated time.Time    `json:"updated"`
}

type WishlistResponse struct {
	ID      uint                `json:"id"`
	User    UserResponse        `json:"user"`
	Product ProductListResponse `json:"product"`
	Created time.Time           `json:"created"`
}

// DataResponse wraps a mutated record with a human readable message.
type DataResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func newProductList(p models.Product) ProductListResponse {
	return ProductListResponse{ID: p.ID, Name: p.Name, Price: money(p.Price), Slug: p.Slug, Image: p.Image}
}

func newProductLists(products []models.Product) []ProductListResponse {
	out := make([]ProductListResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductList(p))
	}
	return out
}

func newProductDetail(p models.Product) ProductDetailResponse {
	return ProductDetailResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Slug:        p.Slug,
		Image:       p.Image,
	}
}

func newCategoryList(cat models.Category) CategoryListResponse {
	return CategoryListResponse{ID: cat.ID, Name: cat.Name, Image: cat.Image, Slug: cat.Slug}
}

func newCartItem(item models.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:       item.ID,
		Product:  newProductList(item.Product),
		Quantity: item.Quantity,
		SubTotal: money(item.SubTotal()),
	}
}

// newCart expects Items and Items.Product to be preloaded.
func newCart(cart models.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, newCartItem(item))
	}
	return CartResponse{
		ID:        cart.ID,
		CartCode:  cart.CartCode,
		CartItems: items,
		CartTotal: money(cart.Total()),
	}
}

func newUser(u models.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

func newReview(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		User:    newUser(r.User),
		Rating:  r.Rating,
		Review:  r.Review,
		Created: r.CreatedAt,
		Updated: r.UpdatedAt,
	}
}

func newWishlist(w models.Wishlist) WishlistResponse {
	return WishlistResponse{
		ID:      w.ID,
		User:    newUser(w.User),
		Product: newProductList(w.Product),
		Created: w.CreatedAt,
	}
}
