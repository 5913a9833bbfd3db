package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
)

// Relation names usable in specifications.
const (
	RelationBrand          = "brand"
	RelationType           = "type"
	RelationItems          = "items"
	RelationDeliveryMethod = "delivery_method"
)

func productMapping() Mapping[domain.Product] {
	return Mapping[domain.Product]{
		Name:     "product",
		Table:    "products p",
		IDColumn: "p.id",
		Columns: []string{
			"p.id", "p.name", "p.description", "p.price", "p.picture_url",
			"p.stock", "p.brand_id", "p.type_id", "p.created_at", "p.updated_at",
		},
		Filterable: map[string]string{
			"id":       "p.id",
			"name":     "p.name",
			"price":    "p.price",
			"stock":    "p.stock",
			"brand_id": "p.brand_id",
			"type_id":  "p.type_id",
		},
		Relations: map[string]Relation{
			RelationBrand: {
				Join:    "LEFT JOIN brands b ON b.id = p.brand_id",
				Columns: []string{"b.id", "b.name"},
			},
			RelationType: {
				Join:    "LEFT JOIN product_types t ON t.id = p.type_id",
				Columns: []string{"t.id", "t.name"},
			},
		},
		ID: func(p *domain.Product) int64 { return p.ID },
		Scan: func(rows pgx.Rows, includes []string) (*domain.Product, error) {
			var p domain.Product
			targets := []any{
				&p.ID, &p.Name, &p.Description, &p.Price, &p.PictureURL,
				&p.Stock, &p.BrandID, &p.TypeID, &p.CreatedAt, &p.UpdatedAt,
			}
			var brand domain.Brand
			var productType domain.ProductType
			for _, include := range includes {
				switch include {
				case RelationBrand:
					targets = append(targets, &brand.ID, &brand.Name)
				case RelationType:
					targets = append(targets, &productType.ID, &productType.Name)
				}
			}
			if err := rows.Scan(targets...); err != nil {
				return nil, err
			}
			for _, include := range includes {
				switch include {
				case RelationBrand:
					p.Brand = &brand
				case RelationType:
					p.Type = &productType
				}
			}
			return &p, nil
		},
		Insert: func(ctx context.Context, tx pgx.Tx, p *domain.Product) (int64, error) {
			now := time.Now().UTC()
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			p.UpdatedAt = now

			query := `
				INSERT INTO products (name, description, price, picture_url, stock, brand_id, type_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id`

			err := tx.QueryRow(ctx, query,
				p.Name, p.Description, p.Price, p.PictureURL,
				p.Stock, p.BrandID, p.TypeID, p.CreatedAt, p.UpdatedAt,
			).Scan(&p.ID)
			if err != nil {
				return 0, fmt.Errorf("insert product: %w", err)
			}
			return 1, nil
		},
		Update: func(ctx context.Context, tx pgx.Tx, p *domain.Product) (int64, error) {
			p.UpdatedAt = time.Now().UTC()

			query := `
				UPDATE products
				SET name = $1, description = $2, price = $3, picture_url = $4, stock = $5, brand_id = $6, type_id = $7, updated_at = $8
				WHERE id = $9`

			ct, err := tx.Exec(ctx, query,
				p.Name, p.Description, p.Price, p.PictureURL,
				p.Stock, p.BrandID, p.TypeID, p.UpdatedAt, p.ID,
			)
			if err != nil {
				return 0, fmt.Errorf("update product: %w", err)
			}
			return ct.RowsAffected(), nil
		},
		Delete: func(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
			ct, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
			if err != nil {
				return 0, fmt.Errorf("delete product: %w", err)
			}
			return ct.RowsAffected(), nil
		},
	}
}

func brandMapping() Mapping[domain.Brand] {
	return Mapping[domain.Brand]{
		Name:     "brand",
		Table:    "brands b",
		IDColumn: "b.id",
		Columns:  []string{"b.id", "b.name"},
		Filterable: map[string]string{
			"id":   "b.id",
			"name": "b.name",
		},
		ID: func(b *domain.Brand) int64 { return b.ID },
		Scan: func(rows pgx.Rows, _ []string) (*domain.Brand, error) {
			var b domain.Brand
			if err := rows.Scan(&b.ID, &b.Name); err != nil {
				return nil, err
			}
			return &b, nil
		},
		Insert: func(ctx context.Context, tx pgx.Tx, b *domain.Brand) (int64, error) {
			err := tx.QueryRow(ctx, `INSERT INTO brands (name) VALUES ($1) RETURNING id`, b.Name).Scan(&b.ID)
			if err != nil {
				return 0, fmt.Errorf("insert brand: %w", err)
			}
			return 1, nil
		},
		Update: func(ctx context.Context, tx pgx.Tx, b *domain.Brand) (int64, error) {
			ct, err := tx.Exec(ctx, `UPDATE brands SET name = $1 WHERE id = $2`, b.Name, b.ID)
			if err != nil {
				return 0, fmt.Errorf("update brand: %w", err)
			}
			return ct.RowsAffected(), nil
		},
		Delete: func(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
			ct, err := tx.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
			if err != nil {
				return 0, fmt.Errorf("delete brand: %w", err)
			}
			return ct.RowsAffected(), nil
		},
	}
}

func typeMapping() Mapping[domain.ProductType] {
	return Mapping[domain.ProductType]{
		Name:     "product type",
		Table:    "product_types t",
		IDColumn: "t.id",
		Columns:  []string{"t.id", "t.name"},
		Filterable: map[string]string{
			"id":   "t.id",
			"name": "t.name",
		},
		ID: func(t *domain.ProductType) int64 { return t.ID },
		Scan: func(rows pgx.Rows, _ []string) (*domain.ProductType, error) {
			var t domain.ProductType
			if err := rows.Scan(&t.ID, &t.Name); err != nil {
				return nil, err
			}
			return &t, nil
		},
		Insert: func(ctx context.Context, tx pgx.Tx, t *domain.ProductType) (int64, error) {
			err := tx.QueryRow(ctx, `INSERT INTO product_types (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
			if err != nil {
				return 0, fmt.Errorf("insert product type: %w", err)
			}
			return 1, nil
		},
		Update: func(ctx context.Context, tx pgx.Tx, t *domain.ProductType) (int64, error) {
			ct, err := tx.Exec(ctx, `UPDATE product_types SET name = $1 WHERE id = $2`, t.Name, t.ID)
			if err != nil {
				return 0, fmt.Errorf("update product type: %w", err)
			}
			return ct.RowsAffected(), nil
		},
		Delete: func(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
			ct, err := tx.Exec(ctx, `DELETE FROM product_types WHERE id = $1`, id)
			if err != nil {
				return 0, fmt.Errorf("delete product type: %w", err)
			}
			return ct.RowsAffected(), nil
		},
	}
}

func deliveryMethodMapping() Mapping[domain.DeliveryMethod] {
	return Mapping[domain.DeliveryMethod]{
		Name:     "delivery method",
		Table:    "delivery_methods dm",
		IDColumn: "dm.id",
		Columns:  []string{"dm.id", "dm.short_name", "dm.delivery_time", "dm.description", "dm.price"},
		Filterable: map[string]string{
			"id":         "dm.id",
			"short_name": "dm.short_name",
			"price":      "dm.price",
		},
		ID: func(dm *domain.DeliveryMethod) int64 { return dm.ID },
		Scan: func(rows pgx.Rows, _ []string) (*domain.DeliveryMethod, error) {
			var dm domain.DeliveryMethod
			if err := rows.Scan(&dm.ID, &dm.ShortName, &dm.DeliveryTime, &dm.Description, &dm.Price); err != nil {
				return nil, err
			}
			return &dm, nil
		},
		Insert: func(ctx context.Context, tx pgx.Tx, dm *domain.DeliveryMethod) (int64, error) {
			query := `
				INSERT INTO delivery_methods (short_name, delivery_time, description, price)
				VALUES ($1, $2, $3, $4)
				RETURNING id`

			err := tx.QueryRow(ctx, query, dm.ShortName, dm.DeliveryTime, dm.Description, dm.Price).Scan(&dm.ID)
			if err != nil {
				return 0, fmt.Errorf("insert delivery method: %w", err)
			}
			return 1, nil
		},
		Update: func(ctx context.Context, tx pgx.Tx, dm *domain.DeliveryMethod) (int64, error) {
			query := `
				UPDATE delivery_methods
				SET short_name = $1, delivery_time = $2, description = $3, price = $4
				WHERE id = $5`

			ct, err := tx.Exec(ctx, query, dm.ShortName, dm.DeliveryTime, dm.Description, dm.Price, dm.ID)
			if err != nil {
				return 0, fmt.Errorf("update delivery method: %w", err)
			}
			return ct.RowsAffected(), nil
		},
		Delete: func(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
			ct, err := tx.Exec(ctx, `DELETE FROM delivery_methods WHERE id = $1`, id)
			if err != nil {
				return 0, fmt.Errorf("delete delivery method: %w", err)
			}
			return ct.RowsAffected(), nil
		},
	}
}

func orderMapping() Mapping[domain.Order] {
	return Mapping[domain.Order]{
		Name:     "order",
		Table:    "orders o",
		IDColumn: "o.id",
		Columns: []string{
			"o.id", "o.buyer_email", "o.status", "o.delivery_method_id",
			"o.subtotal", "o.delivery_price", "o.total", "o.ship_to_address",
			"o.payment_intent_id", "o.created_at", "o.updated_at",
		},
		Filterable: map[string]string{
			"id":                "o.id",
			"buyer_email":       "o.buyer_email",
			"status":            "o.status",
			"payment_intent_id": "o.payment_intent_id",
			"created_at":        "o.created_at",
		},
		Relations: map[string]Relation{
			// Items are aggregated in a correlated subquery so the base
			// statement needs no GROUP BY.
			RelationItems: {
				Columns: []string{`(
					SELECT COALESCE(
						JSONB_AGG(
							JSONB_BUILD_OBJECT(
								'id', oi.id,
								'order_id', oi.order_id,
								'product_id', oi.product_id,
								'name', oi.name,
								'picture_url', oi.picture_url,
								'price', oi.price,
								'quantity', oi.quantity
							) ORDER BY oi.id
						),
						'[]'::jsonb
					)
					FROM order_items oi
					WHERE oi.order_id = o.id
				) AS items`},
			},
			RelationDeliveryMethod: {
				Join:    "LEFT JOIN delivery_methods dm ON dm.id = o.delivery_method_id",
				Columns: []string{"dm.id", "dm.short_name", "dm.delivery_time", "dm.description", "dm.price"},
			},
		},
		ID: func(o *domain.Order) int64 { return o.ID },
		Scan: func(rows pgx.Rows, includes []string) (*domain.Order, error) {
			var (
				o           domain.Order
				addressJSON []byte
				itemsJSON   []byte
				dm          domain.DeliveryMethod
			)
			targets := []any{
				&o.ID, &o.BuyerEmail, &o.Status, &o.DeliveryMethodID,
				&o.Subtotal, &o.DeliveryPrice, &o.Total, &addressJSON,
				&o.PaymentIntentID, &o.CreatedAt, &o.UpdatedAt,
			}
			for _, include := range includes {
				switch include {
				case RelationItems:
					targets = append(targets, &itemsJSON)
				case RelationDeliveryMethod:
					targets = append(targets, &dm.ID, &dm.ShortName, &dm.DeliveryTime, &dm.Description, &dm.Price)
				}
			}
			if err := rows.Scan(targets...); err != nil {
				return nil, err
			}

			if len(addressJSON) > 0 && string(addressJSON) != "null" {
				if err := json.Unmarshal(addressJSON, &o.ShipToAddress); err != nil {
					return nil, fmt.Errorf("unmarshal ship-to address: %w", err)
				}
			}

			for _, include := range includes {
				switch include {
				case RelationItems:
					o.Items = []domain.OrderItem{}
					if len(itemsJSON) > 0 && string(itemsJSON) != "null" {
						if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
							return nil, fmt.Errorf("unmarshal order items: %w", err)
						}
					}
				case RelationDeliveryMethod:
					o.DeliveryMethod = &dm
				}
			}
			return &o, nil
		},
		Insert: func(ctx context.Context, tx pgx.Tx, o *domain.Order) (int64, error) {
			now := time.Now().UTC()
			if o.CreatedAt.IsZero() {
				o.CreatedAt = now
			}
			o.UpdatedAt = now

			addressJSON, err := json.Marshal(o.ShipToAddress)
			if err != nil {
				return 0, fmt.Errorf("marshal ship-to address: %w", err)
			}

			orderQuery := `
				INSERT INTO orders (buyer_email, status, delivery_method_id, subtotal, delivery_price, total, ship_to_address, payment_intent_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id`

			err = tx.QueryRow(ctx, orderQuery,
				o.BuyerEmail, o.Status, o.DeliveryMethodID,
				o.Subtotal, o.DeliveryPrice, o.Total, addressJSON,
				o.PaymentIntentID, o.CreatedAt, o.UpdatedAt,
			).Scan(&o.ID)
			if err != nil {
				return 0, fmt.Errorf("insert order: %w", err)
			}

			itemQuery := `
				INSERT INTO order_items (order_id, product_id, name, picture_url, price, quantity)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`

			for i := range o.Items {
				o.Items[i].OrderID = o.ID
				item := &o.Items[i]
				err := tx.QueryRow(ctx, itemQuery,
					item.OrderID, item.ProductID, item.Name,
					item.PictureURL, item.Price, item.Quantity,
				).Scan(&item.ID)
				if err != nil {
					return 0, fmt.Errorf("insert order item: %w", err)
				}
			}

			return int64(1 + len(o.Items)), nil
		},
		Update: func(ctx context.Context, tx pgx.Tx, o *domain.Order) (int64, error) {
			o.UpdatedAt = time.Now().UTC()

			query := `
				UPDATE orders
				SET status = $1, payment_intent_id = $2, updated_at = $3
				WHERE id = $4`

			ct, err := tx.Exec(ctx, query, o.Status, o.PaymentIntentID, o.UpdatedAt, o.ID)
			if err != nil {
				return 0, fmt.Errorf("update order: %w", err)
			}
			return ct.RowsAffected(), nil
		},
		Delete: func(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
			if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
				return 0, fmt.Errorf("delete order items: %w", err)
			}
			ct, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
			if err != nil {
				return 0, fmt.Errorf("delete order: %w", err)
			}
			return ct.RowsAffected(), nil
		},
	}
}
