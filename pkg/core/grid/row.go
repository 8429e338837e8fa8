package grid

import "github.com/matzehuels/scrapbook/pkg/core/media"

// Cell is one sized cover within a row.
type Cell struct {
	Item  media.Item `json:"item"`
	Width float64    `json:"width"`
}

// Row is a horizontal run of covers sharing one height.
type Row struct {
	Height float64 `json:"height"`
	Items  []Cell  `json:"items"`
}

// Width returns the row's span including the gaps between its cells.
func (r Row) Width(gap float64) float64 {
	if len(r.Items) == 0 {
		return 0
	}
	w := float64(len(r.Items)-1) * gap
	for _, c := range r.Items {
		w += c.Width
	}
	return w
}

// TotalHeight returns the stacked height of rows including the gaps between them.
func TotalHeight(rows []Row, gap float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	h := float64(len(rows)-1) * gap
	for _, r := range rows {
		h += r.Height
	}
	return h
}

// IDs returns the item IDs of each row, in order.
func IDs(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		ids := make([]string, len(r.Items))
		for j, c := range r.Items {
			ids[j] = c.Item.ID
		}
		out[i] = ids
	}
	return out
}
