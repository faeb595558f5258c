package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	InsertItems(ctx context.Context, orderID string, items []Item) error
	Delete(ctx context.Context, orderID string) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	MarkPaid(ctx context.Context, razorpayOrderID, paymentID string, paidAt time.Time) (*Order, error)
	UpdateStatus(ctx context.Context, orderID string, next Status, at time.Time) error
	History(ctx context.Context, orderID string) ([]StatusChange, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const orderColumns = `id, user_id, total_amount, status,
         ship_name, ship_phone, ship_address, ship_city, ship_state, ship_pincode,
         payment_method, razorpay_order_id, razorpay_payment_id, idempotency_key,
         created_at, paid_at`

// Insert writes the order row and its initial status_history entry in one
// transaction. Line items are inserted separately so that the caller owns the
// compensation step when they fail.
func (r *repo) Insert(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, total_amount, status,
             ship_name, ship_phone, ship_address, ship_city, ship_state, ship_pincode,
             payment_method, razorpay_order_id, idempotency_key, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.UserID, o.TotalAmount, string(o.Status),
		o.ShippingAddress.Name, o.ShippingAddress.Phone, o.ShippingAddress.Address,
		o.ShippingAddress.City, o.ShippingAddress.State, o.ShippingAddress.Pincode,
		string(o.PaymentMethod), o.RazorpayOrderID, nullString(o.IdempotencyKey), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_status_history (id, order_id, status, changed_at)
         VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), o.ID, string(o.Status), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) InsertItems(ctx context.Context, orderID string, items []Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, price)
             VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), orderID, it.ProductID, it.Quantity, it.Price,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, orderID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) GetByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND idempotency_key = $2`,
		userID, key)
	return scanOrder(row)
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// MarkPaid transitions the order matching the gateway order id to paid. The
// row is locked so a duplicate callback cannot interleave; a callback replay
// for an already-paid order with the same payment id is a no-op success.
func (r *repo) MarkPaid(ctx context.Context, razorpayOrderID, paymentID string, paidAt time.Time) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE razorpay_order_id = $1 FOR UPDATE`,
		razorpayOrderID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}

	if o.Status == StatusPaid {
		if o.RazorpayPaymentID != nil && *o.RazorpayPaymentID == paymentID {
			return o, tx.Commit()
		}
		return nil, fmt.Errorf("%w: order %s already paid", ErrInvalidTransition, o.ID)
	}
	if o.Status != StatusOrderPlaced {
		return nil, fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, o.ID, o.Status)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, razorpay_payment_id = $2, paid_at = $3 WHERE id = $4`,
		string(StatusPaid), paymentID, paidAt, o.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_status_history (id, order_id, status, changed_at)
         VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), o.ID, string(StatusPaid), paidAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	o.Status = StatusPaid
	o.RazorpayPaymentID = &paymentID
	o.PaidAt = &paidAt
	return o, nil
}

// UpdateStatus writes the new status and appends the history row in one
// transaction. Transition validity is the service's job.
func (r *repo) UpdateStatus(ctx context.Context, orderID string, next Status, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`,
		string(next), orderID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_status_history (id, order_id, status, changed_at)
         VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), orderID, string(next), at,
	)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) History(ctx context.Context, orderID string) ([]StatusChange, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, changed_at FROM order_status_history
         WHERE order_id = $1 ORDER BY changed_at ASC`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("select status history: %w", err)
	}
	defer rows.Close()

	var history []StatusChange
	for rows.Next() {
		var h StatusChange
		var status string
		if err := rows.Scan(&status, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		h.Status = Status(status)
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return history, nil
}

func (r *repo) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity, price FROM order_items WHERE order_id = $1`,
		o.ID)
	if err != nil {
		return fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o         Order
		status    string
		method    string
		gwOrderID sql.NullString
		gwPayID   sql.NullString
		idemKey   sql.NullString
		paidAt    sql.NullTime
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &status,
		&o.ShippingAddress.Name, &o.ShippingAddress.Phone, &o.ShippingAddress.Address,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.Pincode,
		&method, &gwOrderID, &gwPayID, &idemKey,
		&o.CreatedAt, &paidAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	o.Status = Status(status)
	o.PaymentMethod = PaymentMethod(method)
	if gwOrderID.Valid {
		o.RazorpayOrderID = &gwOrderID.String
	}
	if gwPayID.Valid {
		o.RazorpayPaymentID = &gwPayID.String
	}
	if idemKey.Valid {
		o.IdempotencyKey = idemKey.String
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return &o, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
