package items

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manna-erp/manna-erp/internal/platform/db"
	"github.com/manna-erp/manna-erp/internal/platform/httpx"
	"github.com/manna-erp/manna-erp/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]Item, error)
	DistinctSupplierIDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, id int64) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, id int64, item Item) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const itemColumns = `id, item_no, name, brand, category, location, supplier_id, unit_price, stock_unit, status, images, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM items WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR item_no ILIKE $` + strconv.Itoa(argCount) + ` OR brand ILIKE $` + strconv.Itoa(argCount) + `)`
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

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)

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

	var result []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, item)
	}
	return result, total, rows.Err()
}

// ListBySupplier returns the enabled items of one supplier, the slice served
// to purchase order drafts.
func (r *repository) ListBySupplier(ctx context.Context, supplierID int64) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE supplier_id = $1 AND status = $2 ORDER BY name`
	rows, err := r.db.Query(ctx, query, supplierID, StatusEnabled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *repository) DistinctSupplierIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT supplier_id FROM items WHERE status = $1`, StatusEnabled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, httpx.ErrNotFound
	}
	return item, err
}

func (r *repository) Create(ctx context.Context, item Item) (Item, error) {
	query := `INSERT INTO items (item_no, name, brand, category, location, supplier_id, unit_price, stock_unit, status, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id`
	now := time.Now()
	item.ItemNo = generateItemNo(now)
	err := r.db.QueryRow(ctx, query,
		item.ItemNo, item.Name, item.Brand, item.Category, item.Location,
		item.SupplierID, item.UnitPrice, item.StockUnit, item.Status, item.Images, now,
	).Scan(&item.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Item{}, httpx.ErrDuplicate
		}
		return Item{}, err
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *repository) Update(ctx context.Context, id int64, item Item) error {
	query := `UPDATE items SET name = $1, brand = $2, category = $3, location = $4, supplier_id = $5,
		unit_price = $6, stock_unit = $7, status = $8, images = $9, updated_at = $10 WHERE id = $11`
	tag, err := r.db.Exec(ctx, query,
		item.Name, item.Brand, item.Category, item.Location, item.SupplierID,
		item.UnitPrice, item.StockUnit, item.Status, item.Images, time.Now(), id,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return httpx.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(
		&item.ID, &item.ItemNo, &item.Name, &item.Brand, &item.Category, &item.Location,
		&item.SupplierID, &item.UnitPrice, &item.StockUnit, &item.Status, &item.Images,
		&item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

func generateItemNo(now time.Time) string {
	return fmt.Sprintf("ITM-%d", now.UnixNano())
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "item_no":
		return "item_no " + dir
	case "unit_price":
		return "unit_price " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
