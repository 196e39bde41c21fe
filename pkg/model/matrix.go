package model

import (
	"slices"
	"strconv"

	"github.com/aretw0/tracer/pkg/domain"
)

// Row is one fixed-length row of a Matrix. Rows are always embedded.
type Row struct {
	list
}

// Set stores x at an existing column index. Rows cannot be resized.
func (r *Row) Set(key string, x any) (*Path, error) {
	if key == lengthKey {
		return nil, domain.ConfigurationError("cannot resize %s", r.Name())
	}
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= r.length {
		return nil, domain.ConfigurationError("%s has no column %q", r.Name(), key)
	}
	return r.setWrapped(strconv.Itoa(i), x)
}

// Matrix is a grid of rows with row and column index markers, displayed as "Matrix N".
type Matrix struct {
	base
	rows       int
	rowOrder   []string
	rowIndexes map[string]int
	colOrder   []string
	colIndexes map[string]int
}

// NewMatrix creates a matrix from its rows. Rows may be ragged.
func NewMatrix(a *Arena, rows [][]any) (*Matrix, error) {
	m := &Matrix{rowIndexes: make(map[string]int), colIndexes: make(map[string]int)}
	m.init(a, m, "Matrix")
	for i, cells := range rows {
		r := &Row{}
		r.init(a, r, "")
		if err := r.fill(cells); err != nil {
			return nil, err
		}
		v, err := a.Wrap(r)
		if err != nil {
			return nil, err
		}
		if _, err := m.store(strconv.Itoa(i), v); err != nil {
			return nil, err
		}
		m.rows++
	}
	return m, nil
}

// Set is not supported: the row structure of a matrix is fixed.
func (m *Matrix) Set(key string, _ any) (*Path, error) {
	return nil, domain.ConfigurationError("cannot replace row %q of %s", key, m.Name())
}

// Delete is not supported on a matrix.
func (m *Matrix) Delete(string) bool { return false }

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Row returns row i, or nil when out of range.
func (m *Matrix) Row(i int) *Row {
	p := m.slots[strconv.Itoa(i)]
	if p == nil {
		return nil
	}
	r, _ := p.value.Node().(*Row)
	return r
}

// At returns the cell slot at (i, j), or nil when out of range.
func (m *Matrix) At(i, j int) *Path {
	r := m.Row(i)
	if r == nil {
		return nil
	}
	return r.At(j)
}

// SetAt stores x in the existing cell (i, j).
func (m *Matrix) SetAt(i, j int, x any) (*Path, error) {
	r := m.Row(i)
	if r == nil {
		return nil, domain.ConfigurationError("%s has no row %d", m.Name(), i)
	}
	return r.Set(strconv.Itoa(j), x)
}

// SetRowIndex places a marker beside row pos.
func (m *Matrix) SetRowIndex(name string, pos int) {
	m.rowOrder = setMarker(m.rowOrder, m.rowIndexes, name, pos)
}

// SetColumnIndex places a marker under column pos.
func (m *Matrix) SetColumnIndex(name string, pos int) {
	m.colOrder = setMarker(m.colOrder, m.colIndexes, name, pos)
}

// DeleteRowIndex removes a row marker.
func (m *Matrix) DeleteRowIndex(name string) {
	delete(m.rowIndexes, name)
	m.rowOrder = slices.DeleteFunc(m.rowOrder, func(s string) bool { return s == name })
}

// DeleteColumnIndex removes a column marker.
func (m *Matrix) DeleteColumnIndex(name string) {
	delete(m.colIndexes, name)
	m.colOrder = slices.DeleteFunc(m.colOrder, func(s string) bool { return s == name })
}

// RowIndexesAt returns the markers beside row pos.
func (m *Matrix) RowIndexesAt(pos int) []string {
	return markersAt(m.rowOrder, m.rowIndexes, pos)
}

// ColumnIndexesAt returns the markers under column pos.
func (m *Matrix) ColumnIndexesAt(pos int) []string {
	return markersAt(m.colOrder, m.colIndexes, pos)
}

func setMarker(order []string, indexes map[string]int, name string, pos int) []string {
	if _, ok := indexes[name]; !ok {
		order = append(order, name)
	}
	indexes[name] = pos
	return order
}
