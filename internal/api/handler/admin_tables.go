package handler

import (
	"context"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/table"
)

const dateLayout = "02/01/2006"

// actionsColumn links every row to its edit and delete routes under base.
func actionsColumn(base string) table.Column {
	return table.Column{
		Key:   table.ActionsKey,
		Label: "Acciones",
		Kind:  table.KindRender,
		Align: "center",
		Render: func(row table.Record) table.Cell {
			id, _ := row.Lookup("id").(table.Text)
			return table.Record{
				"edit":    table.Text(base + "/" + string(id)),
				"delete":  table.Text(base + "/" + string(id)),
				"restore": table.Text(base + "/" + string(id) + "/restore"),
			}
		},
	}
}

var (
	usersTable = table.MustNew("usuarios", table.DefaultPageSize,
		table.Column{Key: "roleIcon", Label: "Tipo", Kind: table.KindIcon},
		table.Column{Key: "displayName", Label: "Nombre"},
		table.Column{Key: "email", Label: "Correo"},
		table.Column{Key: "role", Label: "Rol"},
		table.Column{Key: "createdAt", Label: "Creado"},
		actionsColumn("/admin/users"),
	)

	productsTable = table.MustNew("productos", table.DefaultPageSize,
		table.Column{Key: "name", Label: "Producto"},
		table.Column{Key: "category.name", Label: "Categoría"},
		table.Column{Key: "price", Label: "Precio", Align: "right"},
		table.Column{Key: "stock", Label: "Stock", Align: "right"},
		table.Column{Key: "createdAt", Label: "Creado"},
		actionsColumn("/admin/products"),
	)

	categoriesTable = table.MustNew("categorias", table.DefaultPageSize,
		table.Column{Key: "name", Label: "Nombre"},
		table.Column{Key: "description", Label: "Descripción"},
		table.Column{Key: "createdAt", Label: "Creado"},
		actionsColumn("/admin/categories"),
	)

	rolesTable = table.MustNew("roles", table.DefaultPageSize,
		table.Column{Key: "name", Label: "Nombre"},
		table.Column{Key: "title", Label: "Titulo"},
		table.Column{Key: "description", Label: "Descripción"},
		actionsColumn("/admin/roles"),
	)
)

func withAudit(r table.Record, a domain.Audit) table.Record {
	r["createdAt"] = table.Text(a.CreatedAt.Format(dateLayout))
	r["deleted"] = table.Bool(a.Deleted)
	return r
}

func userRecords(_ context.Context, users []domain.User) []table.Record {
	out := make([]table.Record, 0, len(users))
	for _, u := range users {
		icon := ""
		if u.Role == domain.RoleAdmin {
			icon = "Shield"
		}
		out = append(out, withAudit(table.Record{
			"id":          table.Text(u.ID),
			"displayName": table.Text(u.DisplayName),
			"email":       table.Text(u.Email),
			"role":        table.Text(u.Role),
			"roleIcon":    table.Text(icon),
			"names": table.Record{
				"first":          table.Text(u.FirstName),
				"second":         table.Text(u.SecondName),
				"lastname":       table.Text(u.FirstLastname),
				"secondLastname": table.Text(u.SecondLastname),
			},
		}, u.Audit))
	}
	return out
}

// productRecords nests the category so search also matches its name.
func productRecords(products []domain.Product, categories map[string]domain.Category) []table.Record {
	out := make([]table.Record, 0, len(products))
	for _, p := range products {
		cat := table.Record{"id": table.Text(p.CategoryID)}
		if c, ok := categories[p.CategoryID]; ok {
			cat["name"] = table.Text(c.Name)
		}
		out = append(out, withAudit(table.Record{
			"id":          table.Text(p.ID),
			"name":        table.Text(p.Name),
			"description": table.Text(p.Description),
			"price":       table.Number(p.Price),
			"stock":       table.Number(p.Stock),
			"imageUrl":    table.Text(p.ImageURL),
			"category":    cat,
		}, p.Audit))
	}
	return out
}

func categoryRecords(_ context.Context, categories []domain.Category) []table.Record {
	out := make([]table.Record, 0, len(categories))
	for _, c := range categories {
		out = append(out, withAudit(table.Record{
			"id":          table.Text(c.ID),
			"name":        table.Text(c.Name),
			"description": table.Text(c.Description),
			"imageUrl":    table.Text(c.ImageURL),
		}, c.Audit))
	}
	return out
}

func roleRecords(_ context.Context, roles []domain.Role) []table.Record {
	out := make([]table.Record, 0, len(roles))
	for _, r := range roles {
		out = append(out, withAudit(table.Record{
			"id":          table.Text(r.ID),
			"name":        table.Text(r.Name),
			"title":       table.Text(r.Title),
			"description": table.Text(r.Description),
		}, r.Audit))
	}
	return out
}
