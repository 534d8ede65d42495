package http

import "net/http"

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	products, err := a.productSvc.List(r.Context(), search)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(products))
	for _, p := range products {
		resp = append(resp, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    resp,
	})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.productSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    mapProduct(p),
	})
}
