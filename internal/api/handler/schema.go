package handler

import "github.com/onestopshop/storefront/internal/core/fetch"

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	FullName        string `json:"fullName"        validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type createUserRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	DisplayName     string `json:"displayName"`
	FirstName       string `json:"f_name"`
	SecondName      string `json:"s_name"`
	FirstLastname   string `json:"f_lastname"`
	SecondLastname  string `json:"s_lastname"`
	Role            string `json:"role"            validate:"omitempty,oneof=admin client"`
}

type updateUserRequest struct {
	Email          string `json:"email"       validate:"required,email"`
	DisplayName    string `json:"displayName"`
	FirstName      string `json:"f_name"`
	SecondName     string `json:"s_name"`
	FirstLastname  string `json:"f_lastname"`
	SecondLastname string `json:"s_lastname"`
	Role           string `json:"role"        validate:"required,oneof=admin client"`
}

type productRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	CategoryID  string  `json:"category_id"`
	ImageURL    string  `json:"imageUrl"    validate:"omitempty,url"`
}

type categoryRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"    validate:"omitempty,url"`
}

// roleRequest is checked by the role form descriptor rather than tags.
type roleRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gte=1,lte=999"`
}

type adjustCartRequest struct {
	Delta int `json:"delta" validate:"required,gte=-999,lte=999"`
}

// --- Response types ---

// screenState is the three-way state of a loader-backed screen.
type screenState string

const (
	stateLoading screenState = "loading"
	stateError   screenState = "error"
	stateSuccess screenState = "success"
)

// screen renders a fetch resource: loading, error with a retry link, or data.
// Data from an earlier successful load is kept alongside an error.
type screen[T any] struct {
	State      screenState `json:"state"`
	Data       T           `json:"data"`
	Error      string      `json:"error,omitempty"`
	Retry      string      `json:"retry,omitempty"`
	Generation uint64      `json:"generation"`
}

func newScreen[T any](st fetch.State[T], retry string) screen[T] {
	s := screen[T]{Data: st.Data, Generation: st.Generation}
	switch {
	case st.Loading:
		s.State = stateLoading
	case st.Failed():
		s.State = stateError
		s.Error = st.Error
		s.Retry = retry
	default:
		s.State = stateSuccess
	}
	return s
}

type storeInfoResponse struct {
	Name    string `json:"name"`
	About   string `json:"about,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}
