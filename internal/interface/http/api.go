package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	domaddress "example.com/storefront/internal/domain/address"
	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
	dompayment "example.com/storefront/internal/domain/payment"
	domproduct "example.com/storefront/internal/domain/product"
	domuser "example.com/storefront/internal/domain/user"
	"example.com/storefront/internal/infra/security"
	domreview "example.com/storefront/internal/domain/review"
	addressuc "example.com/storefront/internal/usecase/address"
	cartuc "example.com/storefront/internal/usecase/cart"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	orderuc "example.com/storefront/internal/usecase/order"
	productuc "example.com/storefront/internal/usecase/product"
	reviewuc "example.com/storefront/internal/usecase/review"
)

// TokenService validates bearer tokens into session claims.
type TokenService interface {
	ParseToken(token string) (*security.Claims, error)
}

type API struct {
	cartSvc     *cartuc.Service
	checkoutSvc *checkoutuc.Service
	orderSvc    *orderuc.Service
	productSvc  *productuc.Service
	addressSvc  *addressuc.Service
	reviewSvc   *reviewuc.Service
	tokenSvc    TokenService
	validator   *validator.Validate
	log         *slog.Logger
}

type Dependencies struct {
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	OrderService    *orderuc.Service
	ProductService  *productuc.Service
	AddressService  *addressuc.Service
	ReviewService   *reviewuc.Service
	TokenService    TokenService
	Logger          *slog.Logger
}

func NewAPI(deps Dependencies) *API {
	return &API{
		cartSvc:     deps.CartService,
		checkoutSvc: deps.CheckoutService,
		orderSvc:    deps.OrderService,
		productSvc:  deps.ProductService,
		addressSvc:  deps.AddressService,
		reviewSvc:   deps.ReviewService,
		tokenSvc:    deps.TokenService,
		validator:   validator.New(),
		log:         deps.Logger,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/products/{id}/reviews", a.handleListProductReviews)

		// Server-to-server gateway callback; also reused by the
		// client's post-redirect poll. Deliberately unauthenticated.
		r.Post("/order/phonepe/verify", a.handleVerifyPayment)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authenticate)

			pr.Route("/cart", func(cr chi.Router) {
				cr.Post("/toggle", a.handleToggleCart)
				cr.Get("/mycart", a.handleGetMyCart)
				cr.Get("/count", a.handleCartCount)
			})

			pr.Post("/order/phonepe/initiate", a.handleInitiatePayment)
			pr.Post("/order/cod/create", a.handleCreateCODOrder)
			pr.Get("/order/my-orders", a.handleMyOrders)

			pr.Post("/products/{id}/reviews", a.handleCreateReview)
			pr.Get("/products/{id}/reviews/check", a.handleCheckPurchased)

			pr.Get("/me/address", a.handleGetAddress)
			pr.Put("/me/address", a.handleSaveAddress)
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authenticate)
			ar.Use(a.adminOnly)

			ar.Get("/order/admin/all-orders", a.handleAllOrders)
			ar.Patch("/order/admin/orders/{id}/delivery", a.handleUpdateDeliveryStatus)
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Success: false, Message: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkoutuc.ErrInvalidPayload),
		errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, addressuc.ErrInvalidAddress),
		errors.Is(err, reviewuc.ErrInvalidReview):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, reviewuc.ErrNotPurchased):
		respondError(w, http.StatusForbidden, err)
	case errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domcart.ErrItemNotFound),
		errors.Is(err, dompayment.ErrIntentNotFound),
		errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, domaddress.ErrAddressNotFound),
		errors.Is(err, domreview.ErrReviewNotFound),
		errors.Is(err, domuser.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domreview.ErrDuplicateReview):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domorder.ErrInvalidDeliveryStatus),
		errors.Is(err, domorder.ErrEmptyItems):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, checkoutuc.ErrGatewayUnavailable):
		respondError(w, http.StatusBadGateway, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":              p.ID,
		"name":            p.Name,
		"description":     p.Description,
		"price":           p.Price,
		"offer_price":     p.OfferPrice,
		"images":          p.Images,
		"stock":           p.Stock,
		"ratings_count":   p.RatingsCount,
		"ratings_average": p.RatingsAverage,
	}
}

func mapReview(rv *domreview.Review) map[string]any {
	return map[string]any{
		"id":         rv.ID,
		"product_id": rv.ProductID,
		"user_id":    rv.UserID,
		"order_id":   rv.OrderID,
		"rating":     rv.Rating,
		"comment":    rv.Comment,
		"reviewer":   rv.ReviewerName,
		"created_at": rv.CreatedAt,
	}
}

func mapCartItem(item domcart.DetailedItem) map[string]any {
	return map[string]any{
		"id":       item.ID,
		"quantity": item.Quantity,
		"product": map[string]any{
			"id":     item.ProductID,
			"name":   item.ProductName,
			"price":  item.UnitPrice,
			"images": item.Images,
		},
		"price": item.UnitPrice,
		"total": item.LineTotal,
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      item.Price,
			"quantity":   item.Quantity,
			"img":        item.Image,
		})
	}

	resp := map[string]any{
		"id":              o.ID,
		"user_id":         o.UserID,
		"address_id":      o.AddressID,
		"payment_method":  o.PaymentMethod,
		"payment_status":  o.PaymentStatus,
		"delivery_status": o.DeliveryStatus,
		"subtotal_amount": o.SubTotal,
		"total_amount":    o.Total,
		"email_sent":      o.EmailSent,
		"created_at":      o.CreatedAt,
		"products":        items,
	}
	if o.Invoice != nil {
		resp["invoice"] = map[string]any{
			"url":          o.Invoice.URL,
			"object_id":    o.Invoice.ObjectID,
			"generated_at": o.Invoice.GeneratedAt,
		}
	}
	return resp
}

func mapAddress(a *domaddress.Address) map[string]any {
	return map[string]any{
		"id":        a.ID,
		"user_id":   a.UserID,
		"full_name": a.FullName,
		"line1":     a.Line1,
		"line2":     a.Line2,
		"city":      a.City,
		"state":     a.State,
		"pincode":   a.Pincode,
		"phone":     a.Phone,
	}
}
