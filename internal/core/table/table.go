// Package table implements the generic back-office table: deep search,
// pagination with a small page window, and spreadsheet export.
package table

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/onestopshop/storefront/internal/core/domain"
)

// Kind selects how a column produces its displayed value.
type Kind string

const (
	KindText   Kind = "text"
	KindRender Kind = "render"
	KindIcon   Kind = "icon"
)

// ActionsKey is the key of the per-row actions column. It is never exported.
const ActionsKey = "actions"

const (
	DefaultPageSize = 10
	SheetName       = "Datos"
	windowSize      = 3
	// DefaultIcon is shown when an icon column holds no icon name.
	DefaultIcon = "Circle"
)

// PageSizes lists the page sizes a client may pick.
var PageSizes = []int{5, 10, 20, 50}

var ErrInvalidColumn = errors.New("invalid column")

// Column describes one table column. Render is required for KindRender and
// ignored otherwise.
type Column struct {
	Key    string                `json:"key"`
	Label  string                `json:"label"`
	Kind   Kind                  `json:"kind"`
	Align  string                `json:"align,omitempty"`
	Render func(row Record) Cell `json:"-"`
}

// Table holds validated columns plus the export name and default page size.
type Table struct {
	ExportName string
	PageSize   int
	columns    []Column
}

// New validates the column descriptors.
func New(exportName string, pageSize int, columns ...Column) (*Table, error) {
	if !allowedPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	columns = append([]Column(nil), columns...)
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if c.Key == "" {
			return nil, fmt.Errorf("%w: column %d has no key", ErrInvalidColumn, i)
		}
		if _, dup := seen[c.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidColumn, c.Key)
		}
		seen[c.Key] = struct{}{}

		if c.Kind == "" {
			c.Kind = KindText
			columns[i] = c
		}
		switch c.Kind {
		case KindText, KindIcon:
		case KindRender:
			if c.Render == nil {
				return nil, fmt.Errorf("%w: render column %q has no render func", ErrInvalidColumn, c.Key)
			}
		default:
			return nil, fmt.Errorf("%w: column %q has unknown kind %q", ErrInvalidColumn, c.Key, c.Kind)
		}
		if c.Key == ActionsKey && c.Kind != KindRender {
			return nil, fmt.Errorf("%w: %q must be a render column", ErrInvalidColumn, ActionsKey)
		}
	}
	return &Table{ExportName: exportName, PageSize: pageSize, columns: columns}, nil
}

// MustNew is New for package-level table definitions.
func MustNew(exportName string, pageSize int, columns ...Column) *Table {
	t, err := New(exportName, pageSize, columns...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Query is the client-controlled view state.
type Query struct {
	Search   string `query:"q"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

// Page is one rendered page of the table.
type Page struct {
	Columns    []Column         `json:"columns"`
	Rows       []map[string]any `json:"rows"`
	Search     string           `json:"search,omitempty"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	PageSizes  []int            `json:"pageSizes"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
	Window     []int            `json:"window"`
	Exportable bool             `json:"exportable"`
}

// View filters rows by q.Search, then slices the requested page.
func (t *Table) View(rows []Record, q Query) Page {
	size := q.PageSize
	if !allowedPageSize(size) {
		size = t.PageSize
	}

	filtered := Filter(rows, q.Search)
	total := len(filtered)
	totalPages := (total + size - 1) / size

	page := q.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	out := make([]map[string]any, 0, end-start)
	for _, row := range filtered[start:end] {
		out = append(out, t.render(row))
	}

	return Page{
		Columns:    t.Columns(),
		Rows:       out,
		Search:     q.Search,
		Page:       page,
		PageSize:   size,
		PageSizes:  PageSizes,
		Total:      total,
		TotalPages: totalPages,
		Window:     Window(page, totalPages),
		Exportable: t.ExportName != "",
	}
}

func (t *Table) render(row Record) map[string]any {
	out := make(map[string]any, len(t.columns)+1)
	if id, ok := row["id"]; ok {
		out["id"] = id.Value()
	}
	for _, c := range t.columns {
		var cell Cell
		switch c.Kind {
		case KindRender:
			cell = c.Render(row)
		case KindIcon:
			cell = row.Lookup(c.Key)
			if s, ok := cell.(Text); !ok || s == "" {
				cell = Text(DefaultIcon)
			}
		default:
			cell = row.Lookup(c.Key)
		}
		if cell == nil {
			out[c.Key] = nil
			continue
		}
		out[c.Key] = cell.Value()
	}
	return out
}

// Filter keeps the rows where any scalar, at any depth, contains search
// case-insensitively. An empty search keeps every row.
func Filter(rows []Record, search string) []Record {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return rows
	}
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		if contains(r, term) {
			out = append(out, r)
		}
	}
	return out
}

// Window returns up to three page numbers centred on page.
func Window(page, totalPages int) []int {
	start := max(1, page-1)
	end := min(totalPages, start+windowSize-1)
	if end-start+1 < windowSize {
		start = max(1, end-windowSize+1)
	}
	out := make([]int, 0, windowSize)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// Export writes every row (not only the current page) as an .xlsx workbook
// with a single sheet. The actions column is left out.
func (t *Table) Export(w io.Writer, rows []Record) error {
	if len(rows) == 0 {
		return domain.ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	cols := make([]Column, 0, len(t.columns))
	for _, c := range t.columns {
		if c.Key != ActionsKey {
			cols = append(cols, c)
		}
	}

	for i, c := range cols {
		if err := setCell(f, i+1, 1, c.Label); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for i, c := range cols {
			if err := setCell(f, i+1, r+2, plain(row.Lookup(c.Key))); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(SheetName, name, value); err != nil {
		return fmt.Errorf("set cell %s: %w", name, err)
	}
	return nil
}

// FileName builds "<name>_<DD-MM-YYYY>_<HH-MM-SS>.xlsx".
func FileName(name string, now time.Time) string {
	if name == "" {
		name = "data_export"
	}
	return fmt.Sprintf("%s_%s.xlsx", name, now.Format("02-01-2006_15-04-05"))
}

func allowedPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}
