package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/toronyi/bakery-api/internal/product"
)

type UpdatePriceRequest struct {
	Price int `json:"price" validate:"required,gt=0"`
}

type UpdateProductStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type ProductHandler struct {
	service  product.Service
	validate *validator.Validate
}

func NewProductHandler(service product.Service) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Get("/products", h.handleGetProducts)
	router.Get("/products/{id}", h.handleGetProductByID)
	router.Put("/products/{id}/price", h.handleUpdatePrice)
	router.Put("/products/{id}/status", h.handleUpdateStatus)
}

func (h *ProductHandler) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get products via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get products")
		return
	}

	count := len(products)
	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Data: products, Count: &count})
}

func (h *ProductHandler) handleGetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, statusCode, "Product not found")
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to get product via service")
		respondWithError(w, statusCode, "Failed to get product")
		return
	}

	respondWithData(w, http.StatusOK, found, "")
}

func (h *ProductHandler) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	var requestPayload UpdatePriceRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "A valid price is required")
		return
	}

	updated, err := h.service.UpdatePrice(r.Context(), id, requestPayload.Price)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, statusCode, "Product not found")
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to update product price via service")
		respondWithError(w, statusCode, "Failed to update product price")
		return
	}

	respondWithData(w, http.StatusOK, updated, "Price updated successfully")
}

func (h *ProductHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateProductStatusRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "is_active is required")
		return
	}

	updated, err := h.service.SetActive(r.Context(), id, *requestPayload.IsActive)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, statusCode, "Product not found")
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to update product status via service")
		respondWithError(w, statusCode, "Failed to update product status")
		return
	}

	message := "Product deactivated"
	if updated.IsActive {
		message = "Product activated"
	}
	respondWithData(w, http.StatusOK, updated, message)
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid product id: %s", idParam))
		return 0, false
	}
	return id, true
}
