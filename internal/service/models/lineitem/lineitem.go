package lineitem

import (
	"github.com/shopspring/decimal"
)

const (
	// ItemsTable holds normalized order lines written by point-of-sale intake.
	ItemsTable = "order_items"
	// ProductsTable holds product descriptors joined onto order lines.
	ProductsTable = "products"
)

var ItemColumns = []string{
	"id",
	"order_id",
	"product_id",
	"quantity",
	"price",
	"size_id",
	"size_label",
	"package_id",
	"package_name",
	"metadata",
}

var ProductColumns = []string{
	"id",
	"name",
	"category",
	"subcategory",
}

// Source names where a snapshot was reconstructed from.
type Source string

const (
	SourceOrderSnapshot Source = "order_snapshot"
	SourceOrderItems    Source = "order_items"
	SourceTicketQR      Source = "ticket_qr"
	SourceNone          Source = "none"
)

// Product is the descriptor shown next to a line.
type Product struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`
}

// LineItem is a response-only reconstruction of one purchased unit. It is never persisted.
type LineItem struct {
	ID          string              `json:"id"`
	ProductID   *string             `json:"productId"`
	Quantity    float64             `json:"quantity"`
	Price       decimal.NullDecimal `json:"price"`
	Product     *Product            `json:"product"`
	SizeID      *string             `json:"sizeId"`
	SizeLabel   *string             `json:"sizeLabel"`
	PackageID   *string             `json:"packageId"`
	PackageName *string             `json:"packageName"`
	Metadata    map[string]any      `json:"metadata"`
}
