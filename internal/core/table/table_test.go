package table

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/onestopshop/storefront/internal/core/domain"
)

func productTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New("productos", 10,
		Column{Key: "name", Label: "Nombre"},
		Column{Key: "price", Label: "Precio"},
		Column{Key: "category.name", Label: "Categoría"},
		Column{Key: ActionsKey, Label: "Acciones", Kind: KindRender, Render: func(r Record) Cell {
			return Record{"edit": Text("/admin/products/" + r["id"].Value().(string))}
		}},
	)
	require.NoError(t, err)
	return tbl
}

func productRows(n int) []Record {
	rows := make([]Record, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, Record{
			"id":       Text(fmt.Sprintf("p%d", i)),
			"name":     Text(fmt.Sprintf("Helado %d", i)),
			"price":    Number(float64(i) * 1.5),
			"category": Record{"name": Text("Postres")},
		})
	}
	return rows
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name string
		cols []Column
	}{
		{"missing key", []Column{{Label: "x"}}},
		{"duplicate key", []Column{{Key: "a"}, {Key: "a"}}},
		{"render without func", []Column{{Key: "a", Kind: KindRender}}},
		{"unknown kind", []Column{{Key: "a", Kind: "chart"}}},
		{"actions not render", []Column{{Key: ActionsKey, Kind: KindText}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("x", 10, tc.cols...)
			assert.ErrorIs(t, err, ErrInvalidColumn)
		})
	}
}

func TestNew_DefaultsKindAndPageSize(t *testing.T) {
	tbl, err := New("roles", 7, Column{Key: "name", Label: "Nombre"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, tbl.PageSize)
	assert.Equal(t, KindText, tbl.Columns()[0].Kind)
}

func TestView_Paging(t *testing.T) {
	tbl := productTable(t)
	rows := productRows(23)

	p := tbl.View(rows, Query{Page: 3})
	assert.Equal(t, 23, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 10, p.PageSize)
	require.Len(t, p.Rows, 3)
	assert.Equal(t, "Helado 21", p.Rows[0]["name"])
}

func TestView_ClampsPage(t *testing.T) {
	tbl := productTable(t)
	rows := productRows(12)

	assert.Equal(t, 2, tbl.View(rows, Query{Page: 9}).Page)
	assert.Equal(t, 1, tbl.View(rows, Query{Page: -4}).Page)

	empty := tbl.View(nil, Query{Page: 3})
	assert.Equal(t, 1, empty.Page)
	assert.Zero(t, empty.TotalPages)
	assert.Empty(t, empty.Rows)
	assert.Empty(t, empty.Window)
}

func TestView_PageSizeMustBeAllowed(t *testing.T) {
	tbl := productTable(t)
	rows := productRows(30)

	assert.Equal(t, 20, tbl.View(rows, Query{PageSize: 20}).PageSize)
	assert.Equal(t, 10, tbl.View(rows, Query{PageSize: 13}).PageSize)
}

func TestView_SearchIsDeepAndCaseInsensitive(t *testing.T) {
	tbl := productTable(t)
	rows := productRows(3)
	rows[1]["category"] = Record{"name": Text("Bebidas"), "tags": List{Text("FRÍO")}}

	p := tbl.View(rows, Query{Search: "bebidas"})
	require.Equal(t, 1, p.Total)
	assert.Equal(t, "Bebidas", p.Rows[0]["category.name"])

	assert.Equal(t, 1, tbl.View(rows, Query{Search: "frío"}).Total)
	assert.Equal(t, 1, tbl.View(rows, Query{Search: "4.5"}).Total, "numbers are searchable")
	assert.Equal(t, 0, tbl.View(rows, Query{Search: "zzz"}).Total)
}

func TestView_RenderAndIconColumns(t *testing.T) {
	tbl, err := New("menu", 5,
		Column{Key: "icon", Label: "Icono", Kind: KindIcon},
		Column{Key: ActionsKey, Label: "Acciones", Kind: KindRender, Render: func(r Record) Cell {
			return Text("edit:" + r["id"].Value().(string))
		}},
	)
	require.NoError(t, err)

	p := tbl.View([]Record{{"id": Text("x1")}, {"id": Text("x2"), "icon": Text("Users")}}, Query{})
	assert.Equal(t, DefaultIcon, p.Rows[0]["icon"])
	assert.Equal(t, "Users", p.Rows[1]["icon"])
	assert.Equal(t, "edit:x1", p.Rows[0][ActionsKey])
}

func TestWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Window(1, 10))
	assert.Equal(t, []int{4, 5, 6}, Window(5, 10))
	assert.Equal(t, []int{8, 9, 10}, Window(10, 10))
	assert.Equal(t, []int{1, 2}, Window(2, 2))
	assert.Equal(t, []int{1}, Window(1, 1))
}

func TestExport_WritesAllRowsWithoutActions(t *testing.T) {
	tbl := productTable(t)
	rows := productRows(15)

	var buf bytes.Buffer
	require.NoError(t, tbl.Export(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, 16, "header plus every row, not just one page")
	assert.Equal(t, []string{"Nombre", "Precio", "Categoría"}, got[0])
	assert.Equal(t, "Helado 1", got[1][0])
	assert.Equal(t, "Postres", got[1][2])
}

func TestExport_NothingToExport(t *testing.T) {
	tbl := productTable(t)
	err := tbl.Export(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, domain.ErrNothingToExport)
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 3, 7, 9, 5, 2, 0, time.UTC)
	assert.Equal(t, "usuarios_07-03-2025_09-05-02.xlsx", FileName("usuarios", now))
	assert.Equal(t, "data_export_07-03-2025_09-05-02.xlsx", FileName("", now))
}
