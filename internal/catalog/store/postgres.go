package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sellarte/internal/catalog"
	"sellarte/internal/pricing"
	id "sellarte/pkg/domain"
	"sellarte/pkg/sentinel"
)

// Postgres persists products via database/sql and the pq driver. Every column
// is mapped explicitly; rows with shapes we do not expect fail at this
// boundary instead of reaching the pricing engine.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const productColumns = `
	id, name, retail_price,
	default_width, default_height, stamp_unit,
	customizable,
	min_width, max_width, min_height, max_height, dimension_unit,
	max_lines, max_chars_per_line,
	ink_colors, default_color,
	dimension_multiplier, text_multiplier, color_multiplier,
	created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, product *catalog.Product) error {
	stamp := product.Stamp
	custom := product.Customization

	args := []any{
		uuid.UUID(product.ID), product.Name, product.RetailPrice,
		nullFloat(stamp != nil, func() float64 { return stamp.DefaultWidth }),
		nullFloat(stamp != nil, func() float64 { return stamp.DefaultHeight }),
		nullString(stamp != nil, func() string { return stamp.Unit }),
		custom != nil,
	}
	if custom != nil {
		args = append(args,
			custom.Dimensions.MinWidth, custom.Dimensions.MaxWidth,
			custom.Dimensions.MinHeight, custom.Dimensions.MaxHeight, custom.Dimensions.Unit,
			custom.Text.MaxLines, custom.Text.MaxCharsPerLine,
			pq.Array(custom.Colors.Available), custom.Colors.DefaultColor,
			custom.Multipliers.DimensionMultiplier, custom.Multipliers.TextMultiplier,
			custom.Multipliers.ColorMultiplier,
		)
	} else {
		args = append(args, 0.0, 0.0, 0.0, 0.0, "", 0, 0, pq.Array([]string(nil)), "", int64(0), int64(0), int64(0))
	}
	args = append(args, product.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $20)
	`, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, productID id.ProductID) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1
	`, uuid.UUID(productID))
	return scanProduct(row)
}

func (s *Postgres) List(ctx context.Context) ([]*catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (s *Postgres) Update(ctx context.Context, product *catalog.Product) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET name = $2, retail_price = $3, updated_at = now()
		WHERE id = $1
	`, uuid.UUID(product.ID), product.Name, product.RetailPrice)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var (
		product      catalog.Product
		rawID        uuid.UUID
		defaultW     sql.NullFloat64
		defaultH     sql.NullFloat64
		stampUnit    sql.NullString
		customizable bool
		custom       pricing.CustomizationOptions
		inkColors    []string
	)
	err := row.Scan(
		&rawID, &product.Name, &product.RetailPrice,
		&defaultW, &defaultH, &stampUnit,
		&customizable,
		&custom.Dimensions.MinWidth, &custom.Dimensions.MaxWidth,
		&custom.Dimensions.MinHeight, &custom.Dimensions.MaxHeight, &custom.Dimensions.Unit,
		&custom.Text.MaxLines, &custom.Text.MaxCharsPerLine,
		pq.Array(&inkColors), &custom.Colors.DefaultColor,
		&custom.Multipliers.DimensionMultiplier, &custom.Multipliers.TextMultiplier,
		&custom.Multipliers.ColorMultiplier,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}

	product.ID = id.ProductID(rawID)
	if product.RetailPrice < 0 {
		return nil, fmt.Errorf("product %s has negative retail price %d", product.ID, product.RetailPrice)
	}
	if defaultW.Valid && defaultH.Valid {
		product.Stamp = &pricing.StampInfo{
			DefaultWidth:  defaultW.Float64,
			DefaultHeight: defaultH.Float64,
			Unit:          stampUnit.String,
		}
	}
	if customizable {
		custom.Colors.Available = inkColors
		product.Customization = &custom
	}
	return &product, nil
}

func nullFloat(ok bool, value func() float64) sql.NullFloat64 {
	if !ok {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: value(), Valid: true}
}

func nullString(ok bool, value func() string) sql.NullString {
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: value(), Valid: true}
}
