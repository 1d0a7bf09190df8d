package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/metrics"
	"github.com/onestopshop/storefront/internal/api/response"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/form"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/core/service"
	"github.com/onestopshop/storefront/internal/core/table"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Collection is the read and soft-delete half every back-office collection shares.
type Collection[T any] interface {
	List(ctx context.Context) envelope.Envelope[[]T]
	GetByID(ctx context.Context, id string) envelope.Envelope[*T]
	SoftDelete(ctx context.Context, id string) envelope.Envelope[service.Ref]
	Restore(ctx context.Context, id string) envelope.Envelope[service.Ref]
}

// adminResource serves the generic table, detail, soft-delete, restore and
// export endpoints of one collection.
type adminResource[T any] struct {
	name    string
	items   Collection[T]
	table   *table.Table
	records func(ctx context.Context, items []T) []table.Record
	now     func() time.Time
}

func newAdminResource[T any](name string, items Collection[T], t *table.Table, records func(context.Context, []T) []table.Record) adminResource[T] {
	return adminResource[T]{name: name, items: items, table: t, records: records, now: time.Now}
}

// List renders one page of the collection table, honouring ?q, ?page and ?pageSize.
func (r *adminResource[T]) List(c echo.Context) error {
	var q table.Query
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	ctx := c.Request().Context()
	env := r.items.List(ctx)
	if !env.Success {
		return response.JSON(c, http.StatusOK, env)
	}
	page := r.table.View(r.records(ctx, env.Data), q)
	return response.JSON(c, http.StatusOK, envelope.OK(env.Message, page, env.Context))
}

func (r *adminResource[T]) Get(c echo.Context) error {
	return response.JSON(c, http.StatusOK, r.items.GetByID(c.Request().Context(), c.Param("id")))
}

func (r *adminResource[T]) Delete(c echo.Context) error {
	return response.JSON(c, http.StatusOK, r.items.SoftDelete(c.Request().Context(), c.Param("id")))
}

func (r *adminResource[T]) Restore(c echo.Context) error {
	return response.JSON(c, http.StatusOK, r.items.Restore(c.Request().Context(), c.Param("id")))
}

// Export streams every non-deleted row, not only the current page, as an
// .xlsx workbook.
func (r *adminResource[T]) Export(c echo.Context) error {
	ctx := c.Request().Context()
	env := r.items.List(ctx)
	if !env.Success {
		return response.JSON(c, http.StatusOK, env)
	}

	rows := r.records(ctx, env.Data)
	var buf bytes.Buffer
	if err := r.table.Export(&buf, rows); err != nil {
		result := "error"
		if errors.Is(err, domain.ErrNothingToExport) {
			result = "empty"
		}
		metrics.ExportsTotal.WithLabelValues(r.name, result).Inc()
		return response.Fail(c, err, "export", "")
	}
	metrics.ExportsTotal.WithLabelValues(r.name, "ok").Inc()
	metrics.ExportRows.Observe(float64(len(rows)))

	name := table.FileName(r.table.ExportName, r.now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

// --- Users ---

type UserAdmin interface {
	Collection[domain.User]
	Create(ctx context.Context, in ports.UserInput) envelope.Envelope[service.Ref]
	Update(ctx context.Context, id string, p ports.UserPatch) envelope.Envelope[service.Ref]
}

type UserAdminHandler struct {
	adminResource[domain.User]
	users UserAdmin
}

func NewUserAdminHandler(users UserAdmin) *UserAdminHandler {
	return &UserAdminHandler{
		adminResource: newAdminResource[domain.User]("users", users, usersTable, userRecords),
		users:         users,
	}
}

// Create handles POST /admin/users.
//
// @Summary      Create a user
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  envelope.Envelope[service.Ref]
// @Failure      409   {object}  response.Failure
// @Failure      422   {object}  response.Failure
// @Router       /admin/users [post]
func (h *UserAdminHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, err, "createUser", "")
	}
	env := h.users.Create(c.Request().Context(), ports.UserInput{
		Email:          req.Email,
		Password:       req.Password,
		DisplayName:    req.DisplayName,
		FirstName:      req.FirstName,
		SecondName:     req.SecondName,
		FirstLastname:  req.FirstLastname,
		SecondLastname: req.SecondLastname,
		Role:           req.Role,
	})
	return response.JSON(c, http.StatusCreated, env)
}

// Update handles PUT /admin/users/:id. The email changes on the profile
// only; sign-in keeps using the identity email.
//
// @Summary      Update a user
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "User"
// @Success      200   {object}  envelope.Envelope[service.Ref]
// @Failure      404   {object}  response.Failure
// @Failure      422   {object}  response.Failure
// @Router       /admin/users/{id} [put]
func (h *UserAdminHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, err, "updateUser", "")
	}
	env := h.users.Update(c.Request().Context(), c.Param("id"), ports.UserPatch{
		Email:          &req.Email,
		DisplayName:    &req.DisplayName,
		FirstName:      &req.FirstName,
		SecondName:     &req.SecondName,
		FirstLastname:  &req.FirstLastname,
		SecondLastname: &req.SecondLastname,
		Role:           &req.Role,
	})
	return response.JSON(c, http.StatusOK, env)
}

// --- Products ---

type ProductAdmin interface {
	Collection[domain.Product]
	Create(ctx context.Context, in ports.ProductInput) envelope.Envelope[service.Ref]
	Update(ctx context.Context, id string, p ports.ProductPatch) envelope.Envelope[service.Ref]
}

type ProductAdminHandler struct {
	adminResource[domain.Product]
	products   ProductAdmin
	categories Collection[domain.Category]
}

func NewProductAdminHandler(products ProductAdmin, categories Collection[domain.Category]) *ProductAdminHandler {
	h := &ProductAdminHandler{products: products, categories: categories}
	h.adminResource = newAdminResource[domain.Product]("products", products, productsTable, h.records)
	return h
}

// records resolves category names for the table. A failed category lookup
// leaves the names blank rather than failing the whole table.
func (h *ProductAdminHandler) records(ctx context.Context, products []domain.Product) []table.Record {
	cats := map[string]domain.Category{}
	if env := h.categories.List(ctx); env.Success {
		for _, c := range env.Data {
			cats[c.ID] = c
		}
	}
	return productRecords(products, cats)
}

// New handles GET /admin/products/new: the product form with the live
// categories as choices.
//
// @Summary      Product form
// @Tags         admin-products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  form.Form
// @Router       /admin/products/new [get]
func (h *ProductAdminHandler) New(c echo.Context) error {
	var options []form.Option
	if env := h.categories.List(c.Request().Context()); env.Success {
		for _, cat := range env.Data {
			options = append(options, form.Option{Label: cat.Name, Value: cat.ID})
		}
	}
	return c.JSON(http.StatusOK, form.Product(options))
}

// Create handles POST /admin/products.
//
// @Summary      Create a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  envelope.Envelope[service.Ref]
// @Failure      422   {object}  response.Failure
// @Router       /admin/products [post]
func (h *ProductAdminHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, err, "createProduct", "")
	}
	env := h.products.Create(c.Request().Context(), ports.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	})
	return response.JSON(c, http.StatusCreated, env)
}

// Update handles PUT /admin/products/:id.
//
// @Summary      Update a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  envelope.Envelope[service.Ref]
// @Failure      404   {object}  response.Failure
// @Failure      422   {object}  response.Failure
// @Router       /admin/products/{id} [put]
func (h *ProductAdminHandler) Update(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, err, "updateProduct", "")
	}
	env := h.products.Update(c.Request().Context(), c.Param("id"), ports.ProductPatch{
		Name:        &req.Name,
		Description: &req.Description,
		Price:       &req.Price,
		Stock:       &req.Stock,
		CategoryID:  &req.CategoryID,
		ImageURL:    &req.ImageURL,
	})
	return response.JSON(c, http.StatusOK, env)
}

// --- Categories ---

type CategoryAdmin interface {
	Collection[domain.Category]
	Create(ctx context.Context, in ports.CategoryInput) envelope.Envelope[service.Ref]
	Update(ctx context.Context, id string, p ports.CategoryPatch) envelope.Envelope[service.Ref]
}

type CategoryAdminHandler struct {
	adminResource[domain.Category]
	categories CategoryAdmin
}

func NewCategoryAdminHandler(categories CategoryAdmin) *CategoryAdminHandler {
	return &CategoryAdminHandler{
		adminResource: newAdminResource[domain.Category]("categories", categories, categoriesTable, categoryRecords),
		categories:    categories,
	}
}

// Create handles POST /admin/categories.
//
// @Summary      Create a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  envelope.Envelope[service.Ref]
// @Failure      422   {object}  response.Failure
// @Router       /admin/categories [post]
func (h *CategoryAdminHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, err, "createCategory", "")
	}
	env := h.categories.Create(c.Request().Context(), ports.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	return response.JSON(c, http.StatusCreated, env)
}

// Update handles PUT /admin/categories/:id.
//
// @Summary      Update a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Category id"
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  envelope.Envelope[service.Ref]
// @Failure      404   {object}  response.Failure
// @Failure      422   {object}  response.Failure
// @Router       /admin/categories/{id} [put]
func (h *CategoryAdminHandler) Update(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, err, "updateCategory", "")
	}
	env := h.categories.Update(c.Request().Context(), c.Param("id"), ports.CategoryPatch{
		Name:        &req.Name,
		Description: &req.Description,
		ImageURL:    &req.ImageURL,
	})
	return response.JSON(c, http.StatusOK, env)
}

// --- Roles ---

type RoleAdmin interface {
	Collection[domain.Role]
	Create(ctx context.Context, in ports.RoleInput) envelope.Envelope[service.Ref]
	Update(ctx context.Context, id string, p ports.RolePatch) envelope.Envelope[service.Ref]
}

// RoleAdminHandler validates submissions with the role form descriptor, the
// same one served to clients at /forms/role.
type RoleAdminHandler struct {
	adminResource[domain.Role]
	roles RoleAdmin
}

func NewRoleAdminHandler(roles RoleAdmin) *RoleAdminHandler {
	return &RoleAdminHandler{
		adminResource: newAdminResource[domain.Role]("roles", roles, rolesTable, roleRecords),
		roles:         roles,
	}
}

func (h *RoleAdminHandler) submit(c echo.Context, op string, status int, call func(values map[string]string) envelope.Envelope[service.Ref]) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	desc, _ := form.Lookup(form.RoleForm)
	var env envelope.Envelope[service.Ref]
	err := desc.Submit(map[string]string{
		"name":        req.Name,
		"title":       req.Title,
		"description": req.Description,
	}, func(values map[string]string) error {
		env = call(values)
		return nil
	})
	if err != nil {
		return response.Fail(c, err, op, "")
	}
	return response.JSON(c, status, env)
}

// Create handles POST /admin/roles.
//
// @Summary      Create a role
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role"
// @Success      201   {object}  envelope.Envelope[service.Ref]
// @Failure      422   {object}  response.Failure
// @Router       /admin/roles [post]
func (h *RoleAdminHandler) Create(c echo.Context) error {
	return h.submit(c, "createRole", http.StatusCreated, func(v map[string]string) envelope.Envelope[service.Ref] {
		return h.roles.Create(c.Request().Context(), ports.RoleInput{
			Name:        v["name"],
			Title:       v["title"],
			Description: v["description"],
		})
	})
}

// Update handles PUT /admin/roles/:id.
//
// @Summary      Update a role
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Role id"
// @Param        body  body      roleRequest  true  "Role"
// @Success      200   {object}  envelope.Envelope[service.Ref]
// @Failure      404   {object}  response.Failure
// @Failure      422   {object}  response.Failure
// @Router       /admin/roles/{id} [put]
func (h *RoleAdminHandler) Update(c echo.Context) error {
	return h.submit(c, "updateRole", http.StatusOK, func(v map[string]string) envelope.Envelope[service.Ref] {
		name, title, desc := v["name"], v["title"], v["description"]
		return h.roles.Update(c.Request().Context(), c.Param("id"), ports.RolePatch{
			Name:        &name,
			Title:       &title,
			Description: &desc,
		})
	})
}
