package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Matrix is a dense state × label matrix stored row by row.
type Matrix struct {
	entries  []int
	rowCount int
	colCount int
}

func NewMatrix(entries []int, colCount int) (*Matrix, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("a matrix needs at least one entry")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("a column count must be >= 1; got: %v", colCount)
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries do not fill whole rows; entries: %v, columns: %v", len(entries), colCount)
	}

	return &Matrix{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (m *Matrix) Size() (int, int) {
	return m.rowCount, m.colCount
}

func (m *Matrix) row(r int) []int {
	return m.entries[r*m.colCount : (r+1)*m.colCount]
}

type Compressor interface {
	Compress(m *Matrix) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueEntriesTable stores each distinct row once. RowNums maps an original row to its unique row.
type UniqueEntriesTable struct {
	UniqueEntries    []int
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Compress(m *Matrix) error {
	var uniqueEntries []int
	rowNums := make([]int, m.rowCount)
	key2RowNum := map[string]int{}
	for r := 0; r < m.rowCount; r++ {
		row := m.row(r)
		key := rowKey(row)
		rowNum, ok := key2RowNum[key]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[key] = rowNum
			uniqueEntries = append(uniqueEntries, row...)
		}
		rowNums[r] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = m.rowCount
	tab.OriginalColCount = m.colCount

	return nil
}

func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*binary.MaxVarintLen64)
	b := make([]byte, binary.MaxVarintLen64)
	for _, v := range row {
		n := binary.PutVarint(b, int64(v))
		buf = append(buf, b[:n]...)
	}
	return string(buf)
}

// ForbiddenValue marks a slot of Bounds that no row owns.
const ForbiddenValue = -1

// RowDisplacementTable overlays sparse rows on one another. Each row is shifted by RowDisplacement
// so that its non-empty entries land on free slots; Bounds records which row owns each slot.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type sparseRow struct {
	num     int
	usedCol []int
}

func (tab *RowDisplacementTable) Compress(m *Matrix) error {
	rows := make([]sparseRow, m.rowCount)
	for r := 0; r < m.rowCount; r++ {
		rows[r].num = r
		for c, v := range m.row(r) {
			if v != tab.EmptyValue {
				rows[r].usedCol = append(rows[r].usedCol, c)
			}
		}
	}
	// Placing dense rows first leaves the gaps for sparse ones.
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].usedCol) > len(rows[j].usedCol)
	})

	size := len(m.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := range entries {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	rowDisplacement := make([]int, m.rowCount)
	bottom := m.colCount

	d := 0
	for _, row := range rows {
		if len(row.usedCol) == 0 {
			continue
		}
		for !fits(bounds, d, row.usedCol) {
			d++
		}
		rowDisplacement[row.num] = d
		orig := m.row(row.num)
		for _, c := range row.usedCol {
			entries[d+c] = orig[c]
			bounds[d+c] = row.num
		}
		if d+m.colCount > bottom {
			bottom = d + m.colCount
		}
		d++
	}

	tab.OriginalRowCount = m.rowCount
	tab.OriginalColCount = m.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, c := range cols {
		if bounds[d+c] != ForbiddenValue {
			return false
		}
	}
	return true
}
