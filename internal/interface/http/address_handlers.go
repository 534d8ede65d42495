package http

import (
	"net/http"

	domaddress "example.com/storefront/internal/domain/address"
)

type saveAddressRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Line1    string `json:"line1" validate:"required"`
	Line2    string `json:"line2"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

func (a *API) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	addr, err := a.addressSvc.GetMine(r.Context(), sess.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    mapAddress(addr),
	})
}

func (a *API) handleSaveAddress(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req saveAddressRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	addr, err := a.addressSvc.Save(r.Context(), &domaddress.Address{
		UserID:   sess.UserID,
		FullName: req.FullName,
		Line1:    req.Line1,
		Line2:    req.Line2,
		City:     req.City,
		State:    req.State,
		Pincode:  req.Pincode,
		Phone:    req.Phone,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    mapAddress(addr),
	})
}
