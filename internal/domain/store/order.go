package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineTotalPlaces is the number of decimal places a stored line total keeps
const LineTotalPlaces = 2

// Order is created once per OrderID; its attributes come from the first row
// carrying that OrderID.
type Order struct {
	OrderID       string          `json:"order_id"`
	OrderDate     time.Time       `json:"order_date"`
	CustomerID    string          `json:"customer_id"`
	Customer      *Customer       `json:"customer,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// OrderItem is one product line of an order
type OrderItem struct {
	ID        uint            `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	SellerID  string          `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	LineTotal decimal.Decimal `json:"line_total"`
	Product   *Product        `json:"product,omitempty"`
}

// ComputeLineTotal returns quantity × unitPrice × (1 − discount) + tax + shippingCost,
// rounded half-to-even to two places.
func ComputeLineTotal(quantity int, unitPrice, discount, tax, shippingCost decimal.Decimal) decimal.Decimal {
	gross := decimal.NewFromInt(int64(quantity)).Mul(unitPrice)
	net := gross.Mul(decimal.NewFromInt(1).Sub(discount))
	return net.Add(tax).Add(shippingCost).RoundBank(LineTotalPlaces)
}

// NewOrderItem builds an item for the order with its line total computed from
// the row's shipping cost.
func NewOrderItem(orderID, productID, sellerID string, quantity int, unitPrice, discount, tax, shippingCost decimal.Decimal) *OrderItem {
	return &OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		SellerID:  sellerID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Discount:  discount,
		Tax:       tax,
		LineTotal: ComputeLineTotal(quantity, unitPrice, discount, tax, shippingCost),
	}
}
