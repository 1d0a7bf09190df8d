package domain

// Product is a sellable item. CategoryID references a Category for display
// and filtering only; nothing enforces the reference.
type Product struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Stock       int     `json:"stock" bson:"stock"`
	CategoryID  string  `json:"category_id" bson:"category_id"`
	ImageURL    string  `json:"imageUrl" bson:"imageUrl"`
	Audit       `bson:",inline"`
}

// Category groups products on the storefront.
type Category struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	ImageURL    string `json:"imageUrl" bson:"imageUrl"`
	Audit       `bson:",inline"`
}

// Role describes a back-office role. Name is the machine key stored on users.
type Role struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Audit       `bson:",inline"`
}
