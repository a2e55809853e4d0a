package purchase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manna-erp/manna-erp/internal/platform/db"
	"github.com/manna-erp/manna-erp/internal/platform/httpx"
	"github.com/manna-erp/manna-erp/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Order, int, error)
	Get(ctx context.Context, id int64) (Order, error)
	Create(ctx context.Context, order Order) (Order, error)
	Update(ctx context.Context, order Order) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const orderColumns = `id, order_no, ref_no, order_date, supplier_id, status, item_total, discount_total, net_amount, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Order, int, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM purchase_orders WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (order_no ILIKE $` + strconv.Itoa(argCount) + ` OR ref_no ILIKE $` + strconv.Itoa(argCount) + `)`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.SupplierID != nil {
		argCount++
		cond := ` AND supplier_id = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.SupplierID)
	}
	if filters.Status != "" {
		argCount++
		cond := ` AND status = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, filters.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Lines, err = r.lines(ctx, id)
	return o, err
}

func (r *repository) lines(ctx context.Context, orderID int64) ([]Line, error) {
	query := `SELECT id, item_id, item_no, name, stock_unit, packing_unit, order_qty, unit_price, item_amount, discount, net_amount, line_order
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY line_order`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ID, &l.ItemID, &l.ItemNo, &l.Name, &l.StockUnit, &l.PackingUnit,
			&l.OrderQty, &l.UnitPrice, &l.ItemAmount, &l.Discount, &l.NetAmount, &l.LineOrder,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Create inserts the header and its lines in one transaction.
func (r *repository) Create(ctx context.Context, order Order) (Order, error) {
	now := time.Now()
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO purchase_orders (order_no, ref_no, order_date, supplier_id, status, item_total, discount_total, net_amount, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`,
			order.OrderNo, order.RefNo, order.OrderDate, order.SupplierID, order.Status,
			order.ItemTotal, order.DiscountTotal, order.NetAmount, now,
		).Scan(&order.ID)
		if err != nil {
			return err
		}
		return insertLines(ctx, tx, order.ID, order.Lines)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Order{}, httpx.ErrDuplicate
		}
		return Order{}, err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

// Update rewrites the header and replaces the full line set in one
// transaction.
func (r *repository) Update(ctx context.Context, order Order) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE purchase_orders SET ref_no = $1, order_date = $2, supplier_id = $3,
			item_total = $4, discount_total = $5, net_amount = $6, updated_at = $7 WHERE id = $8`,
			order.RefNo, order.OrderDate, order.SupplierID,
			order.ItemTotal, order.DiscountTotal, order.NetAmount, time.Now(), order.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_lines WHERE order_id = $1`, order.ID); err != nil {
			return err
		}
		return insertLines(ctx, tx, order.ID, order.Lines)
	})
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE purchase_orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_lines WHERE order_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}
		return nil
	})
}

func insertLines(ctx context.Context, tx pgx.Tx, orderID int64, lines []Line) error {
	for _, l := range lines {
		_, err := tx.Exec(ctx,
			`INSERT INTO purchase_order_lines (order_id, item_id, item_no, name, stock_unit, packing_unit, order_qty, unit_price, item_amount, discount, net_amount, line_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			orderID, l.ItemID, l.ItemNo, l.Name, l.StockUnit, l.PackingUnit,
			l.OrderQty, l.UnitPrice, l.ItemAmount, l.Discount, l.NetAmount, l.LineOrder,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNo, &o.RefNo, &o.OrderDate, &o.SupplierID, &o.Status,
		&o.ItemTotal, &o.DiscountTotal, &o.NetAmount, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}
