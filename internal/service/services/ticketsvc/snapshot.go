package ticketsvc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/lineitem"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
	"github.com/driano7/XocoCafe-sub000/internal/service/shape"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type snapshot struct {
	items  []lineitem.LineItem
	source lineitem.Source
}

// buildSnapshot reconstructs the purchased items from the first source that
// yields any: the order's embedded snapshot, the order_items table joined with
// products, then the ticket QR payload. Sources are never merged.
func (s *TicketService) buildSnapshot(
	ctx context.Context,
	loc located,
) ([]lineitem.LineItem, lineitem.Source, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "Service.buildSnapshot")
	defer span.End()

	orderID := loc.order.ID

	candidate := func(source lineitem.Source, build func() ([]lineitem.LineItem, error)) func() (snapshot, bool, error) {
		return func() (snapshot, bool, error) {
			items, err := build()
			if err != nil {
				return snapshot{}, false, err
			}
			items = qualifying(items)

			return snapshot{items: items, source: source}, len(items) > 0, nil
		}
	}

	snap, ok, err := shape.FirstOf(
		candidate(lineitem.SourceOrderSnapshot, func() ([]lineitem.LineItem, error) {
			return fromEntries(shape.Array(loc.order.Items, "items"), orderID+"-snapshot-"), nil
		}),
		candidate(lineitem.SourceOrderItems, func() ([]lineitem.LineItem, error) {
			return s.fromOrderItems(ctx, orderID)
		}),
		candidate(lineitem.SourceTicketQR, func() ([]lineitem.LineItem, error) {
			if loc.ticket == nil {
				return nil, nil
			}
			entries := shape.Array(loc.ticket.QRPayload, "items", "lineItems")
			if len(entries) == 0 {
				entries = shape.Array(loc.ticket.Metadata, "items", "lineItems")
			}
			prefix := *shape.FirstNonEmpty(orderID, loc.ticket.ID, loc.identifier)

			return fromEntries(entries, prefix+"-qr-"), nil
		}),
	)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		snap = snapshot{items: []lineitem.LineItem{}, source: lineitem.SourceNone}
	}

	span.SetAttributes(attribute.String("snapshot.source", string(snap.source)))

	return snap.items, snap.source, nil
}

// qualifying drops lines whose quantity is not positive.
func qualifying(items []lineitem.LineItem) []lineitem.LineItem {
	out := make([]lineitem.LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}

	return out
}

// quantity coerces a stored quantity. Missing, non-numeric and non-positive
// values count as one unit.
func quantity(v any) float64 {
	q, ok := shape.Number(v)
	if !ok || q <= 0 {
		return 1
	}

	return q
}

// price keeps only finite positive prices.
func price(v any) decimal.NullDecimal {
	d := record.ToDecimal(v)
	if !d.Valid || !d.Decimal.IsPositive() {
		return decimal.NullDecimal{}
	}

	return d
}

func text(obj map[string]any, paths ...string) *string {
	candidates := make([]any, len(paths))
	for i, p := range paths {
		candidates[i] = shape.Lookup(obj, p)
	}

	return shape.FirstNonEmpty(candidates...)
}

// fromEntries maps embedded snapshot entries. Entries that are not objects are
// skipped; ids keep the entry's position in the payload.
func fromEntries(entries []any, idPrefix string) []lineitem.LineItem {
	items := make([]lineitem.LineItem, 0, len(entries))
	for i, raw := range entries {
		entry := shape.Object(raw)
		if entry == nil {
			continue
		}

		productID := text(entry, "productId", "product_id", "id", "product.id")
		product := &lineitem.Product{
			ID:          productID,
			Name:        text(entry, "name", "productName", "product.name", "title", "product"),
			Category:    text(entry, "category", "categoryName", "product.category"),
			Subcategory: text(entry, "subcategory", "subCategory", "product.subcategory"),
		}
		if product.ID == nil && product.Name == nil && product.Category == nil && product.Subcategory == nil {
			product = nil
		}

		items = append(items, lineitem.LineItem{
			ID:          idPrefix + strconv.Itoa(i),
			ProductID:   productID,
			Quantity:    quantity(shape.Pick(entry, "quantity", "qty", "amount")),
			Price:       price(shape.Pick(entry, "price", "amount", "unitPrice", "unit_price")),
			Product:     product,
			SizeID:      text(entry, "sizeId", "size_id", "size.id"),
			SizeLabel:   text(entry, "sizeLabel", "size_label", "size.label", "size"),
			PackageID:   text(entry, "packageId", "package_id", "package.id"),
			PackageName: text(entry, "packageName", "package_name", "package.name", "package"),
			Metadata:    shape.Object(entry["metadata"]),
		})
	}

	return items
}

// fromOrderItems reads the normalized order lines and batch-fetches their
// product descriptors.
func (s *TicketService) fromOrderItems(ctx context.Context, orderID string) ([]lineitem.LineItem, error) {
	rows, err := s.findMany(ctx, lineitem.ItemsTable, "order_id", []any{orderID}, lineitem.ItemColumns)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find order items: %w", ErrUpstreamLookup, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(rows))
	productIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		id := shape.FirstNonEmpty(row.Text("product_id", "productId"))
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		productIDs = append(productIDs, *id)
	}

	products := make(map[string]*lineitem.Product, len(productIDs))
	if len(productIDs) > 0 {
		productRows, err := s.findMany(ctx, lineitem.ProductsTable, "id", productIDs, lineitem.ProductColumns)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to find products: %w", ErrUpstreamLookup, err)
		}
		for _, row := range productRows {
			id := shape.FirstNonEmpty(row.Text("id"))
			if id == nil {
				continue
			}
			products[*id] = &lineitem.Product{
				ID:          id,
				Name:        shape.FirstNonEmpty(row.Text("name")),
				Category:    shape.FirstNonEmpty(row.Text("category")),
				Subcategory: shape.FirstNonEmpty(row.Text("subcategory", "sub_category")),
			}
		}
	}

	items := make([]lineitem.LineItem, 0, len(rows))
	for i, row := range rows {
		productID := shape.FirstNonEmpty(row.Text("product_id", "productId"))

		var product *lineitem.Product
		if productID != nil {
			product = products[*productID]
		}

		id := fmt.Sprintf("%s-item-%d", orderID, i)
		if rowID := shape.FirstNonEmpty(row.Text("id")); rowID != nil {
			id = *rowID
		}

		items = append(items, lineitem.LineItem{
			ID:          id,
			ProductID:   productID,
			Quantity:    quantity(row.Value("quantity", "qty")),
			Price:       price(row.Value("price", "unit_price", "unitPrice")),
			Product:     product,
			SizeID:      shape.FirstNonEmpty(row.Text("size_id", "sizeId")),
			SizeLabel:   shape.FirstNonEmpty(row.Text("size_label", "sizeLabel")),
			PackageID:   shape.FirstNonEmpty(row.Text("package_id", "packageId")),
			PackageName: shape.FirstNonEmpty(row.Text("package_name", "packageName")),
			Metadata:    shape.Object(row.Value("metadata")),
		})
	}

	return items, nil
}
