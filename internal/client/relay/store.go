package relay

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"starmobiles/internal/delivery/api/dto"

	"github.com/google/uuid"
)

// ProductQuery narrows a product listing. Zero values are not sent.
type ProductQuery struct {
	Category string
	Brand    string
	MinPrice *int64
	MaxPrice *int64
	Featured bool
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Brand != "" {
		v.Set("brand", q.Brand)
	}
	if q.MinPrice != nil {
		v.Set("minPrice", strconv.FormatInt(*q.MinPrice, 10))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatInt(*q.MaxPrice, 10))
	}
	if q.Featured {
		v.Set("featured", "true")
	}

	return v
}

func (c *Client) Health(ctx context.Context) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodGet, path: "/health"})
}

func (c *Client) Services(ctx context.Context) Result[*dto.ServiceCatalog] {
	return call[*dto.ServiceCatalog](ctx, c, request{method: http.MethodGet, path: "/services"})
}

// Products

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) Result[[]dto.Product] {
	return call[[]dto.Product](ctx, c, request{method: http.MethodGet, path: "/products", query: q.values()})
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) Result[*dto.Product] {
	return call[*dto.Product](ctx, c, request{method: http.MethodGet, path: "/products/" + id.String()})
}

func (c *Client) CreateProduct(ctx context.Context, token string, req dto.ProductRequest) Result[*dto.Product] {
	return call[*dto.Product](ctx, c, request{method: http.MethodPost, path: "/products", token: token, body: req})
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id uuid.UUID, req dto.ProductRequest) Result[*dto.Product] {
	return call[*dto.Product](ctx, c, request{method: http.MethodPut, path: "/products/" + id.String(), token: token, body: req})
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id uuid.UUID) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodDelete, path: "/products/" + id.String(), token: token})
}

// UploadImage sends a product picture as the multipart "image" field.
func (c *Client) UploadImage(ctx context.Context, token, filename, contentType string, image io.Reader) Result[*dto.ImageUploaded] {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {multipartDisposition(filename)},
		"Content-Type":        {contentType},
	})
	if err == nil {
		_, err = io.Copy(part, image)
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		return Err[*dto.ImageUploaded](&Error{Kind: KindInvalid, Message: "Unreadable image file", cause: err})
	}

	return call[*dto.ImageUploaded](ctx, c, request{
		method:      http.MethodPost,
		path:        "/upload/image",
		token:       token,
		rawBody:     &buf,
		contentType: w.FormDataContentType(),
	})
}

func multipartDisposition(filename string) string {
	return mime.FormatMediaType("form-data", map[string]string{"name": "image", "filename": filename})
}

// Cart

func (c *Client) ListCart(ctx context.Context, token string) Result[[]dto.CartItem] {
	return call[[]dto.CartItem](ctx, c, request{method: http.MethodGet, path: "/cart", token: token})
}

func (c *Client) AddToCart(ctx context.Context, token string, req dto.AddToCartRequest) Result[*dto.CartItem] {
	return call[*dto.CartItem](ctx, c, request{method: http.MethodPost, path: "/cart", token: token, body: req})
}

func (c *Client) UpdateCartItem(ctx context.Context, token string, id uuid.UUID, quantity int) Result[Empty] {
	return call[Empty](ctx, c, request{
		method: http.MethodPut,
		path:   "/cart/" + id.String(),
		token:  token,
		body:   dto.UpdateCartRequest{Quantity: quantity},
	})
}

func (c *Client) RemoveCartItem(ctx context.Context, token string, id uuid.UUID) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodDelete, path: "/cart/" + id.String(), token: token})
}

func (c *Client) ClearCart(ctx context.Context, token string) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodDelete, path: "/cart", token: token})
}

// Bookings

func (c *Client) ListBookings(ctx context.Context, token string) Result[[]dto.Booking] {
	return call[[]dto.Booking](ctx, c, request{method: http.MethodGet, path: "/bookings", token: token})
}

func (c *Client) CreateBooking(ctx context.Context, token string, req dto.BookingRequest) Result[*dto.Booking] {
	return call[*dto.Booking](ctx, c, request{method: http.MethodPost, path: "/bookings", token: token, body: req})
}

func (c *Client) UpdateBooking(ctx context.Context, token string, id uuid.UUID, req dto.UpdateBookingRequest) Result[*dto.Booking] {
	return call[*dto.Booking](ctx, c, request{method: http.MethodPut, path: "/bookings/" + id.String(), token: token, body: req})
}

func (c *Client) DeleteBooking(ctx context.Context, token string, id uuid.UUID) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodDelete, path: "/bookings/" + id.String(), token: token})
}

// Orders

func (c *Client) ListOrders(ctx context.Context, token string) Result[[]dto.Order] {
	return call[[]dto.Order](ctx, c, request{method: http.MethodGet, path: "/orders", token: token})
}

func (c *Client) CreateOrder(ctx context.Context, token string, req dto.OrderRequest) Result[*dto.Order] {
	return call[*dto.Order](ctx, c, request{method: http.MethodPost, path: "/orders", token: token, body: req})
}

func (c *Client) UpdateOrder(ctx context.Context, token string, id uuid.UUID, req dto.UpdateOrderRequest) Result[*dto.Order] {
	return call[*dto.Order](ctx, c, request{method: http.MethodPut, path: "/orders/" + id.String(), token: token, body: req})
}

func (c *Client) CancelOrder(ctx context.Context, token string, id uuid.UUID) Result[*dto.Order] {
	return call[*dto.Order](ctx, c, request{method: http.MethodDelete, path: "/orders/" + id.String(), token: token})
}

func (c *Client) PaymentQR(ctx context.Context, token string, id uuid.UUID) Result[*dto.PaymentQR] {
	return call[*dto.PaymentQR](ctx, c, request{method: http.MethodGet, path: "/orders/" + id.String() + "/payment-qr", token: token})
}

// Devices and back-office

func (c *Client) RegisterDevice(ctx context.Context, token string, req dto.RegisterDeviceRequest) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodPost, path: "/devices", token: token, body: req})
}

func (c *Client) AdminStats(ctx context.Context, token string) Result[*dto.AdminStats] {
	return call[*dto.AdminStats](ctx, c, request{method: http.MethodGet, path: "/admin/stats", token: token})
}
