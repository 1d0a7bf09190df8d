package ports

// Patch types carry only the fields an update sets; nil pointers are left untouched.

type UserInput struct {
	Email          string
	Password       string
	DisplayName    string
	FirstName      string
	SecondName     string
	FirstLastname  string
	SecondLastname string
	Role           string
}

type UserPatch struct {
	Email          *string
	DisplayName    *string
	FirstName      *string
	SecondName     *string
	FirstLastname  *string
	SecondLastname *string
	Role           *string
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryID  string
	ImageURL    string
}

type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	CategoryID  *string
	ImageURL    *string
}

type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
}

type CategoryPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
}

type RoleInput struct {
	Name        string
	Title       string
	Description string
}

type RolePatch struct {
	Name        *string
	Title       *string
	Description *string
}

// ProductFilter narrows the public product listing.
type ProductFilter struct {
	CategoryIDs  []string
	CategoryName string
	Search       string
}
