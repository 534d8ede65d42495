package http

import (
	"errors"
	"net/http"

	domorder "example.com/storefront/internal/domain/order"
	dompayment "example.com/storefront/internal/domain/payment"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
)

type checkoutLineRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gte=1"`
}

type checkoutRequest struct {
	AddressID    int64                 `json:"addressId" validate:"required,gt=0"`
	CheckoutType string                `json:"checkoutType" validate:"required"`
	TotalAmount  float64               `json:"totalAmount" validate:"required,gt=0"`
	Products     []checkoutLineRequest `json:"products" validate:"required,min=1,dive"`
}

type verifyRequest struct {
	TransactionID string `json:"transactionId"`
}

type updateDeliveryRequest struct {
	Status string `json:"status" validate:"required"`
}

func (req *checkoutRequest) toInput(userID int64) checkoutuc.CheckoutInput {
	lines := make([]checkoutuc.LineInput, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, checkoutuc.LineInput{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return checkoutuc.CheckoutInput{
		UserID:       userID,
		AddressID:    req.AddressID,
		TotalAmount:  req.TotalAmount,
		CheckoutType: dompayment.CheckoutType(req.CheckoutType),
		Lines:        lines,
	}
}

func (a *API) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	redirectURL, err := a.checkoutSvc.InitiateOnline(r.Context(), req.toInput(sess.UserID))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"redirectUrl": redirectURL,
	})
}

// handleVerifyPayment serves both the provider's callback and the client's
// poll. Business failures (gateway declined) are answered 200 with
// success:false so the provider stops retrying; only missing/unknown
// transaction ids and infrastructure trouble get error statuses.
func (a *API) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.TransactionID == "" {
		respondError(w, http.StatusBadRequest, errors.New("transaction id missing"))
		return
	}

	result, err := a.checkoutSvc.Verify(r.Context(), req.TransactionID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if result.Success {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": false,
		"reason":  result.Reason,
	})
}

func (a *API) handleCreateCODOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.checkoutSvc.PlaceCOD(r.Context(), req.toInput(sess.UserID))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order placed successfully (Cash on Delivery)",
		"orderId": o.ID,
	})
}

func (a *API) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	orders, err := a.orderSvc.ListByUser(r.Context(), sess.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  resp,
	})
}

func (a *API) handleAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderSvc.ListAll(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  resp,
	})
}

func (a *API) handleUpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateDeliveryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.UpdateDeliveryStatus(r.Context(), id, domorder.DeliveryStatus(req.Status))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Delivery status updated",
		"order":   mapOrder(o),
	})
}
