package http

import (
	"net/http"
)

type toggleCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gte=1,lte=50"`
}

func (a *API) handleToggleCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req toggleCartRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.cartSvc.Toggle(r.Context(), sess.UserID, req.ProductID, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(result.Cart.Items))
	for _, item := range result.Cart.Items {
		items = append(items, mapCartItem(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"action":    result.Action,
		"cartCount": len(result.Cart.Items),
		"cartItems": items,
	})
}

func (a *API) handleGetMyCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	cart, err := a.cartSvc.GetCart(r.Context(), sess.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	data := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		data = append(data, mapCartItem(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(cart.Items),
		"cartTotal": cart.Total,
		"data":      data,
	})
}

func (a *API) handleCartCount(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	count, err := a.cartSvc.Count(r.Context(), sess.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   count,
	})
}
