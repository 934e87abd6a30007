package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/toronyi/bakery-api/internal/order"
)

type OrderItemRequest struct {
	ProductID  int64 `json:"product_id" validate:"required,gt=0"`
	Quantity   int   `json:"quantity" validate:"required,gt=0"`
	UnitPrice  int   `json:"unit_price" validate:"gte=0"`
	TotalPrice int   `json:"total_price" validate:"gte=0"`
}

type CreateOrderRequest struct {
	PickupDate      string             `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	PickupTimeStart string             `json:"pickup_time_start" validate:"required"`
	PickupTimeEnd   string             `json:"pickup_time_end" validate:"required"`
	ConvenienceFee  *int               `json:"convenience_fee" validate:"omitempty,gte=0"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=waiting delivered expired"`
}

type CreateOrderResponse struct {
	OrderID         int64  `json:"order_id"`
	OrderCode       string `json:"order_code"`
	TotalAmount     int    `json:"total_amount"`
	PickupDate      string `json:"pickup_date"`
	PickupTimeStart string `json:"pickup_time_start"`
	PickupTimeEnd   string `json:"pickup_time_end"`
	Status          string `json:"status"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the order endpoints. The literal-segment routes
// (/today, /date/{date}) must stay ahead of the {orderCode} catch-all.
func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders/today", h.handleGetTodayOrders)
	router.Get("/orders/date/{date}", h.handleGetOrdersByDate)
	router.Put("/orders/{id}/status", h.handleUpdateOrderStatus)
	router.Get("/orders/{orderCode}", h.handleGetOrderByCode)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode create order request")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithErrorDetail(w, http.StatusBadRequest, "Incomplete order data", formatValidationErrors(validationErrors))
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	items := make([]order.ItemInput, 0, len(requestPayload.Items))
	for _, item := range requestPayload.Items {
		items = append(items, order.ItemInput{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	created, err := h.service.CreateOrder(r.Context(), order.CreateInput{
		PickupDate:      requestPayload.PickupDate,
		PickupTimeStart: requestPayload.PickupTimeStart,
		PickupTimeEnd:   requestPayload.PickupTimeEnd,
		ConvenienceFee:  requestPayload.ConvenienceFee,
		Items:           items,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")
		statusCode := mapErrorToStatusCode(err)
		if errors.Is(err, order.ErrCodeExists) {
			respondWithError(w, statusCode, "Could not allocate a unique order code, please retry")
			return
		}
		respondWithError(w, statusCode, "Failed to create order")
		return
	}

	responsePayload := CreateOrderResponse{
		OrderID:         created.ID,
		OrderCode:       created.OrderCode,
		TotalAmount:     created.TotalAmount,
		PickupDate:      created.PickupDate,
		PickupTimeStart: created.PickupTimeStart,
		PickupTimeEnd:   created.PickupTimeEnd,
		Status:          created.Status.String(),
	}

	respondWithData(w, http.StatusCreated, responsePayload, "Order created successfully")
}

func (h *OrderHandler) handleGetTodayOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetTodayOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get today orders via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get today orders")
		return
	}

	respondWithList(w, orders, len(orders), time.Now().Format("2006-01-02"))
}

func (h *OrderHandler) handleGetOrdersByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	orders, err := h.service.GetOrdersByDate(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("Failed to get orders by date via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get orders for date")
		return
	}

	respondWithList(w, orders, len(orders), date)
}

func (h *OrderHandler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	orderID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var requestPayload UpdateOrderStatusRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid status. Allowed values: waiting, delivered, expired")
		return
	}

	updated, err := h.service.UpdateOrderStatus(r.Context(), orderID, order.Status(requestPayload.Status))
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, statusCode, "Order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to update order status via service")
		respondWithError(w, statusCode, "Failed to update order status")
		return
	}

	respondWithData(w, http.StatusOK, updated, fmt.Sprintf("Order status updated: %s", updated.Status))
}

func (h *OrderHandler) handleGetOrderByCode(w http.ResponseWriter, r *http.Request) {
	// order codes carry a slash (MMDD-XX/NN), so clients send them
	// percent-encoded and chi hands the parameter back still escaped
	orderCode := chi.URLParam(r, "orderCode")
	if unescaped, err := url.PathUnescape(orderCode); err == nil {
		orderCode = unescaped
	}

	found, err := h.service.GetOrderByCode(r.Context(), orderCode)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, statusCode, "Order not found")
			return
		}
		log.Error().Err(err).Str("order_code", orderCode).Msg("Failed to get order by code via service")
		respondWithError(w, statusCode, "Failed to get order")
		return
	}

	respondWithData(w, http.StatusOK, found, "")
}
