package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals an unknown order id or order code.
	ErrNotFound = errors.New("order not found")
	// ErrCodeExists signals a unique-constraint collision on order_code.
	ErrCodeExists = errors.New("order code already exists")
)

type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByCode(ctx context.Context, code string) (*Order, error)
	GetTodayOrders(ctx context.Context) ([]Summary, error)
	GetByDate(ctx context.Context, date string) ([]Summary, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// Create inserts the order row and all of its item rows in one transaction.
// Status is forced to waiting regardless of the input. If anything fails the
// transaction rolls back, so an order is never observable without its full
// item set.
func (r *postgresRepository) Create(ctx context.Context, o *Order) (*Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created := *o
	created.Status = StatusWaiting
	created.Items = nil

	queryOrder := `
		INSERT INTO orders (order_code, pickup_date, pickup_time_start, pickup_time_end,
			total_amount, convenience_fee, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, pickup_date::text, pickup_time_start::text, pickup_time_end::text,
			created_at, updated_at
	`
	err = tx.QueryRow(ctx, queryOrder,
		o.OrderCode,
		o.PickupDate,
		o.PickupTimeStart,
		o.PickupTimeEnd,
		o.TotalAmount,
		o.ConvenienceFee,
		string(StatusWaiting),
	).Scan(
		&created.ID,
		&created.PickupDate,
		&created.PickupTimeStart,
		&created.PickupTimeEnd,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "orders_order_code_key") {
			return nil, ErrCodeExists
		}
		return nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range o.Items {
		_, err = tx.Exec(ctx, queryItem,
			created.ID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to insert order item for order %s: %w", o.OrderCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit transaction: %w", err)
	}

	return &created, nil
}

// GetByCode returns the full order document: the order row plus every item
// joined with its product name, in insertion order. An itemless order comes
// back with an empty item slice.
func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*Order, error) {
	queryOrder := `
		SELECT id, order_code, pickup_date::text, pickup_time_start::text, pickup_time_end::text,
			total_amount, convenience_fee, status, created_at, updated_at
		FROM orders
		WHERE order_code = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, queryOrder, code).Scan(
		&o.ID,
		&o.OrderCode,
		&o.PickupDate,
		&o.PickupTimeStart,
		&o.PickupTimeEnd,
		&o.TotalAmount,
		&o.ConvenienceFee,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by code %s: %w", code, err)
	}

	queryItems := `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price, oi.total_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	rows, err := r.db.Query(ctx, queryItems, o.ID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query items for order %s: %w", code, err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan item for order %s: %w", code, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating items for order %s: %w", code, err)
	}

	o.Items = items

	return &o, nil
}

// GetTodayOrders lists orders picked up today (server-local date), most
// recently created first, with the narrow staff item projection.
func (r *postgresRepository) GetTodayOrders(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT id, order_code, pickup_date::text, pickup_time_start::text, pickup_time_end::text,
			total_amount, convenience_fee, status, created_at, updated_at
		FROM orders
		WHERE pickup_date = CURRENT_DATE
		ORDER BY created_at DESC
	`
	return r.listWithItems(ctx, query, false)
}

// GetByDate lists orders for an explicit pickup date in chronological pickup
// order. The item projection additionally carries the unit price.
func (r *postgresRepository) GetByDate(ctx context.Context, date string) ([]Summary, error) {
	query := `
		SELECT id, order_code, pickup_date::text, pickup_time_start::text, pickup_time_end::text,
			total_amount, convenience_fee, status, created_at, updated_at
		FROM orders
		WHERE pickup_date = $1
		ORDER BY pickup_time_start
	`
	return r.listWithItems(ctx, query, true, date)
}

// listWithItems runs an order listing query, then attaches item summaries in
// a second query keyed by order id. Two round-trips instead of a
// join-then-group keeps itemless orders as empty slices rather than null
// placeholders.
func (r *postgresRepository) listWithItems(ctx context.Context, query string, withUnitPrice bool, args ...any) ([]Summary, error) {
	orderRows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer orderRows.Close()

	summaries := make([]Summary, 0)
	byID := make(map[int64]*Summary)
	var orderIDs []int64

	for orderRows.Next() {
		var s Summary
		err := orderRows.Scan(
			&s.ID,
			&s.OrderCode,
			&s.PickupDate,
			&s.PickupTimeStart,
			&s.PickupTimeEnd,
			&s.TotalAmount,
			&s.ConvenienceFee,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		s.Items = make([]ItemSummary, 0)
		summaries = append(summaries, s)
		orderIDs = append(orderIDs, s.ID)
	}
	if err := orderRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return summaries, nil
	}

	for i := range summaries {
		byID[summaries[i].ID] = &summaries[i]
	}

	queryItems := `
		SELECT oi.order_id, p.name, oi.quantity, oi.unit_price, oi.total_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`
	itemRows, err := r.db.Query(ctx, queryItems, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item ItemSummary
		var unitPrice int
		err := itemRows.Scan(&orderID, &item.ProductName, &item.Quantity, &unitPrice, &item.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		if withUnitPrice {
			item.UnitPrice = unitPrice
		}
		if s, ok := byID[orderID]; ok {
			s.Items = append(s.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return summaries, nil
}

// UpdateStatus overwrites the status and refreshes updated_at. Any status may
// move to any other status; there is deliberately no transition check here.
func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING id, order_code, pickup_date::text, pickup_time_start::text, pickup_time_end::text,
			total_amount, convenience_fee, status, created_at, updated_at
	`

	var o Order
	err := r.db.QueryRow(ctx, query, string(status), id).Scan(
		&o.ID,
		&o.OrderCode,
		&o.PickupDate,
		&o.PickupTimeStart,
		&o.PickupTimeEnd,
		&o.TotalAmount,
		&o.ConvenienceFee,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to update status for order %d: %w", id, err)
	}

	return &o, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == constraint
}
