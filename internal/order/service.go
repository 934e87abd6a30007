package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultConvenienceFee is added to every order when the request does not
	// carry an explicit fee.
	DefaultConvenienceFee = 50

	// codeRetryAttempts bounds regeneration when a freshly generated order
	// code collides with an existing one. The original backend failed the
	// order outright on a collision; retrying here is a deliberate fix.
	codeRetryAttempts = 3

	dateLayout = "2006-01-02"
)

type ItemInput struct {
	ProductID  int64
	Quantity   int
	UnitPrice  int
	TotalPrice int
}

type CreateInput struct {
	PickupDate      string
	PickupTimeStart string
	PickupTimeEnd   string
	ConvenienceFee  *int
	Items           []ItemInput
}

type Service interface {
	CreateOrder(ctx context.Context, input CreateInput) (*Order, error)
	GetOrderByCode(ctx context.Context, code string) (*Order, error)
	GetTodayOrders(ctx context.Context) ([]Summary, error)
	GetOrdersByDate(ctx context.Context, date string) ([]Summary, error)
	UpdateOrderStatus(ctx context.Context, id int64, status Status) (*Order, error)
}

type service struct {
	repo Repository
	rng  Rand
}

func NewService(repo Repository) Service {
	return &service{repo: repo, rng: globalRand{}}
}

// NewServiceWithRand is used by tests that need deterministic order codes.
func NewServiceWithRand(repo Repository, rng Rand) Service {
	return &service{repo: repo, rng: rng}
}

// CreateOrder computes the total, generates an order code and persists the
// order atomically. On an order-code collision it regenerates and retries a
// bounded number of times before giving up with ErrCodeExists.
func (s *service) CreateOrder(ctx context.Context, input CreateInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, errors.New("service: order must contain at least one item")
	}

	pickupDate, err := time.Parse(dateLayout, input.PickupDate)
	if err != nil {
		return nil, fmt.Errorf("service: invalid pickup date %q: %w", input.PickupDate, err)
	}

	totalAmount := 0
	items := make([]Item, 0, len(input.Items))
	for _, in := range input.Items {
		if in.ProductID <= 0 {
			return nil, errors.New("service: order item product id must be positive")
		}
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("service: order item quantity for product %d must be greater than zero", in.ProductID)
		}
		if in.UnitPrice < 0 || in.TotalPrice < 0 {
			return nil, fmt.Errorf("service: order item price for product %d cannot be negative", in.ProductID)
		}
		items = append(items, Item{
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			TotalPrice: in.TotalPrice,
		})
		totalAmount += in.TotalPrice
	}

	fee := DefaultConvenienceFee
	if input.ConvenienceFee != nil {
		fee = *input.ConvenienceFee
	}
	totalAmount += fee

	for attempt := 1; attempt <= codeRetryAttempts; attempt++ {
		o := &Order{
			OrderCode:       GenerateCode(pickupDate, s.rng),
			PickupDate:      input.PickupDate,
			PickupTimeStart: input.PickupTimeStart,
			PickupTimeEnd:   input.PickupTimeEnd,
			TotalAmount:     totalAmount,
			ConvenienceFee:  fee,
			Items:           items,
		}

		created, err := s.repo.Create(ctx, o)
		if errors.Is(err, ErrCodeExists) {
			log.Warn().Str("order_code", o.OrderCode).Int("attempt", attempt).Msg("service: order code collision, regenerating")
			continue
		}
		if err != nil {
			log.Error().Err(err).Msg("service: failed to create order")
			return nil, fmt.Errorf("service: failed to create order: %w", err)
		}

		log.Info().Int64("order_id", created.ID).Str("order_code", created.OrderCode).Int("total_amount", created.TotalAmount).Msg("Order created")
		return created, nil
	}

	log.Error().Int("attempts", codeRetryAttempts).Msg("service: exhausted order code regeneration attempts")
	return nil, ErrCodeExists
}

func (s *service) GetOrderByCode(ctx context.Context, code string) (*Order, error) {
	o, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("order_code", code).Msg("service: failed to fetch order by code")
		return nil, fmt.Errorf("service: failed to fetch order by code: %w", err)
	}
	return o, nil
}

func (s *service) GetTodayOrders(ctx context.Context) ([]Summary, error) {
	orders, err := s.repo.GetTodayOrders(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch today orders")
		return nil, fmt.Errorf("service: failed to fetch today orders: %w", err)
	}
	return orders, nil
}

func (s *service) GetOrdersByDate(ctx context.Context, date string) ([]Summary, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("service: invalid date %q: %w", date, err)
	}

	orders, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("service: failed to fetch orders by date")
		return nil, fmt.Errorf("service: failed to fetch orders by date: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus performs an unconditional overwrite. Status membership is
// validated at the HTTP layer; no transition rules apply here.
func (s *service) UpdateOrderStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	o, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("order_id", id).Str("status", status.String()).Msg("service: failed to update order status")
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Int64("order_id", id).Str("status", status.String()).Msg("Order status updated")
	return o, nil
}
