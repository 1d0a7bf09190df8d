// Package menu holds the back-office sidebar tree.
package menu

import (
	"slices"
	"sort"
	"time"

	"github.com/onestopshop/storefront/internal/core/domain"
)

type Item struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	URL         string     `json:"url,omitempty"`
	Roles       []string   `json:"roles"`
	Order       int        `json:"order"`
	Icon        string     `json:"icon"`
	Status      bool       `json:"status"`
	Deleted     bool       `json:"deleted"`
	DeletedAt   *time.Time `json:"deleted_at"`
	Children    []Item     `json:"children,omitempty"`
}

// IsGroup reports whether the item only groups children and has no target.
func (i Item) IsGroup() bool { return i.URL == "" }

var admin = []string{domain.RoleAdmin}

// Sidebar is the full back-office tree, before any filtering.
var Sidebar = []Item{
	{
		Name: "Dashboard", Description: "Indicadores", URL: "/admin",
		Roles: admin, Order: 1, Icon: "LayoutDashboard", Status: true,
	},
	{
		Name: "Productos", Description: "Productos disponibles",
		Roles: admin, Order: 1, Icon: "Briefcase", Status: true,
		Children: []Item{
			{Name: "Nuevo", Description: "Crear un nuevo producto", URL: "/admin/products/new", Roles: admin, Order: 1, Icon: "CirclePlus", Status: true},
			{Name: "Consulta", Description: "Gestiona los productos", URL: "/admin/products", Roles: admin, Order: 2, Icon: "FileSearch", Status: true},
		},
	},
	{
		Name: "Configuración", Description: "Opciones avanzadas del sistema",
		Roles: admin, Order: 4, Icon: "Settings", Status: true,
		Children: []Item{
			{Name: "Menús", Description: "Gestión del menú del sistema", URL: "/admin/menus", Roles: admin, Order: 1, Icon: "MenuSquare", Status: false},
			{Name: "Permisos", Description: "Control de acceso y permisos por rol", URL: "/admin/permissions", Roles: admin, Order: 2, Icon: "KeyRound", Status: false},
			{Name: "Categorías", Description: "Gestión de categorías del sistema", URL: "/admin/categories", Roles: admin, Order: 3, Icon: "LayoutList", Status: true},
			{Name: "Roles", Description: "Administración de los roles de usuario", URL: "/admin/roles", Roles: admin, Order: 4, Icon: "Shield", Status: true},
			{Name: "Usuarios", Description: "Gestión de usuarios del sistema", URL: "/admin/users", Roles: admin, Order: 5, Icon: "Users", Status: true},
		},
	},
}

// ForRole returns the items of Sidebar visible to role.
func ForRole(role string) []Item {
	return Filter(Sidebar, role)
}

// Filter keeps active, non-deleted items granted to role, sorted by Order.
// Groups left without visible children are dropped. The input is not modified.
func Filter(items []Item, role string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.Status || it.Deleted || !slices.Contains(it.Roles, role) {
			continue
		}
		if len(it.Children) > 0 || it.IsGroup() {
			it.Children = Filter(it.Children, role)
			if len(it.Children) == 0 {
				continue
			}
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out
}

// Active returns the name of the group holding path, or "" when none does.
func Active(items []Item, path string) string {
	for _, it := range items {
		for _, ch := range it.Children {
			if ch.URL == path {
				return it.Name
			}
		}
	}
	return ""
}
