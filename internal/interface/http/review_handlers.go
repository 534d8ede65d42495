package http

import (
	"net/http"

	reviewuc "example.com/storefront/internal/usecase/review"
)

type createReviewRequest struct {
	Rating  int64  `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

func (a *API) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req createReviewRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	rv, err := a.reviewSvc.Create(r.Context(), reviewuc.CreateInput{
		UserID:    sess.UserID,
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Review created successfully",
		"review":  mapReview(rv),
	})
}

func (a *API) handleListProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	reviews, err := a.reviewSvc.ListByProduct(r.Context(), productID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(reviews))
	for _, rv := range reviews {
		resp = append(resp, mapReview(rv))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(resp),
		"reviews": resp,
	})
}

// handleCheckPurchased tells the client whether to offer the review form:
// only buyers with a delivered order containing the product may review it.
func (a *API) handleCheckPurchased(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	purchased, err := a.reviewSvc.HasPurchased(r.Context(), sess.UserID, productID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"purchased": purchased,
	})
}
