package domain

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// ValidRole reports whether role is one of the roles a user document may hold.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleClient
}

// User is the profile document stored at users/{uid}. Its ID is the UID
// assigned by the identity provider.
type User struct {
	ID             string `json:"id" bson:"_id"`
	Email          string `json:"email" bson:"email"`
	DisplayName    string `json:"displayName" bson:"displayName"`
	FirstName      string `json:"f_name,omitempty" bson:"f_name,omitempty"`
	SecondName     string `json:"s_name,omitempty" bson:"s_name,omitempty"`
	FirstLastname  string `json:"f_lastname,omitempty" bson:"f_lastname,omitempty"`
	SecondLastname string `json:"s_lastname,omitempty" bson:"s_lastname,omitempty"`
	Role           string `json:"role" bson:"role"`
	Audit          `bson:",inline"`
}

// IsAdmin reports whether the user holds the back-office role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Identity is the credential record owned by the identity provider.
type Identity struct {
	UID          string
	Email        string
	PasswordHash string
}
