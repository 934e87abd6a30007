package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	GetProducts(ctx context.Context) ([]Product, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	UpdatePrice(ctx context.Context, id int64, price int) (*Product, error)
	SetActive(ctx context.Context, id int64, active bool) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProducts(ctx context.Context) ([]Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch products")
		return nil, fmt.Errorf("service: failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *service) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to fetch product")
		return nil, fmt.Errorf("service: failed to fetch product: %w", err)
	}
	return p, nil
}

func (s *service) UpdatePrice(ctx context.Context, id int64, price int) (*Product, error) {
	if price <= 0 {
		return nil, fmt.Errorf("service: price must be positive, got %d", price)
	}

	p, err := s.repo.UpdatePrice(ctx, id, price)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to update product price")
		return nil, fmt.Errorf("service: failed to update product price: %w", err)
	}

	log.Info().Int64("product_id", id).Int("price", price).Msg("Product price updated")
	return p, nil
}

func (s *service) SetActive(ctx context.Context, id int64, active bool) (*Product, error) {
	p, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to set product active flag")
		return nil, fmt.Errorf("service: failed to set product active flag: %w", err)
	}

	log.Info().Int64("product_id", id).Bool("is_active", active).Msg("Product active flag updated")
	return p, nil
}
