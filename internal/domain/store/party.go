package store

// Customer is a buyer identified by the CustomerID carried in the source file.
// Name and address come from the first row that mentions the customer.
type Customer struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
}

// Seller is a marketplace seller. The import file carries no seller name,
// so Name stays nil for imported sellers.
type Seller struct {
	SellerID string  `json:"seller_id"`
	Name     *string `json:"name,omitempty"`
}

// DisplayName returns the seller name, falling back to the seller ID
func (s Seller) DisplayName() string {
	if s.Name != nil && *s.Name != "" {
		return *s.Name
	}
	return s.SellerID
}
