package form

import "sort"

// Names of the forms served to clients.
const (
	LoginForm    = "login"
	RegisterForm = "register"
	RoleForm     = "role"
	ProductForm  = "product"
)

var catalog = map[string]*Form{
	LoginForm: MustNew(LoginForm, "Iniciar sesión",
		Field{Name: "email", Label: "Correo electrónico", Kind: KindEmail, Placeholder: "correo@ejemplo.com", Required: true},
		Field{Name: "password", Label: "Contraseña", Kind: KindPassword, Placeholder: "********", Required: true},
	),
	RegisterForm: MustNew(RegisterForm, "Crear cuenta",
		Field{Name: "fullName", Label: "Nombre completo", Kind: KindText, Required: true},
		Field{Name: "email", Label: "Correo electrónico", Kind: KindEmail, Required: true},
		Field{Name: "password", Label: "Contraseña", Kind: KindPassword, Required: true},
		Field{Name: "confirmPassword", Label: "Confirmar contraseña", Kind: KindPassword, Required: true},
	),
	RoleForm: MustNew(RoleForm, "Rol",
		Field{Name: "name", Label: "Nombre", Kind: KindText, Required: true},
		Field{Name: "title", Label: "Titulo", Kind: KindText, Required: true},
		Field{Name: "description", Label: "Descripción", Kind: KindTextarea},
	),
	ProductForm: Product(nil),
}

// Product returns the product editor form. Given categories, category_id is
// a select over them; otherwise it is a free text field.
func Product(categories []Option) *Form {
	category := Field{Name: "category_id", Label: "Categoría", Kind: KindText}
	if len(categories) > 0 {
		category.Kind = KindSelect
		category.Options = categories
	}
	return MustNew(ProductForm, "Producto",
		Field{Name: "name", Label: "Nombre", Kind: KindText, Required: true},
		Field{Name: "description", Label: "Descripción", Kind: KindTextarea},
		Field{Name: "price", Label: "Precio", Kind: KindNumber, Required: true},
		Field{Name: "stock", Label: "Existencias", Kind: KindNumber, Default: "0"},
		category,
		Field{Name: "imageUrl", Label: "Imagen", Kind: KindURL, Placeholder: "https://"},
	)
}

// Lookup returns the descriptor registered under name.
func Lookup(name string) (*Form, bool) {
	f, ok := catalog[name]
	return f, ok
}

// Names lists the registered forms in alphabetical order.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
