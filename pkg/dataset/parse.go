package dataset

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/tilewall/pkg/errors"
)

// Column order used when the header does not name a column.
var columns = []string{"name", "photo", "age", "country", "interest", "net worth"}

// Parse reads CSV records. The first row is the header. Quoted fields may
// contain commas, rows may have fewer fields than the header, and all
// fields are trimmed.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read csv header")
	}
	idx := columnIndex(header)

	var out []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read csv row %d", len(out)+2)
		}
		if blank(row) {
			continue
		}
		field := func(col int) string {
			i := idx[col]
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		out = append(out, Record{
			Name:     field(0),
			Photo:    field(1),
			Age:      field(2),
			Country:  field(3),
			Interest: field(4),
			NetWorth: ParseNetWorth(field(5)),
		})
	}
	return out, nil
}

// columnIndex maps each known column to its position in header, falling back
// to the default order for columns the header does not name.
func columnIndex(header []string) []int {
	idx := make([]int, len(columns))
	named := 0
	for c, want := range columns {
		idx[c] = -1
		for i, h := range header {
			if normalize(h) == want {
				idx[c] = i
				named++
				break
			}
		}
	}
	if named == 0 {
		for c := range idx {
			idx[c] = c
		}
		return idx
	}
	for c := range idx {
		if idx[c] < 0 && !taken(idx, c) {
			idx[c] = c
		}
	}
	return idx
}

func taken(idx []int, pos int) bool {
	for _, i := range idx {
		if i == pos {
			return true
		}
	}
	return false
}

func normalize(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
