package dto

// ProductRequest is the payload of both create and full-update calls: the
// same identity-less value either becomes a new record or overwrites an
// existing one. Category is validated against the catalog literals in the
// service layer.
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
}
