package grid

import (
	"fmt"

	"github.com/matzehuels/scrapbook/pkg/core/media"
)

// Packer packs items using a configurable aspect ratio source.
// The zero value resolves ratios with [media.Resolve].
type Packer struct {
	// Resolve returns the display ratio for an item. Nil means media.Resolve.
	Resolve func(media.Item) float64
}

// Pack partitions items into rows using the default resolver.
func Pack(items []media.Item, p Params) []Row {
	return Packer{}.Pack(items, p)
}

// chunk is one row's worth of items with their resolved ratios.
type chunk struct {
	items  []media.Item
	ratios []float64
	sum    float64
}

// Pack partitions items into rows of at most p.Columns and sizes them per p.Policy.
func (pk Packer) Pack(items []media.Item, p Params) []Row {
	if len(items) == 0 || p.Columns < 1 || !p.Measured() {
		return []Row{}
	}

	chunks := pk.chunks(items, p.Columns)
	if p.Policy == PolicyChimney {
		return packChimney(chunks, p)
	}
	return packFixedRowHeight(chunks, p, len(items))
}

func (pk Packer) chunks(items []media.Item, columns int) []chunk {
	resolve := pk.Resolve
	if resolve == nil {
		resolve = media.Resolve
	}

	out := make([]chunk, 0, (len(items)+columns-1)/columns)
	for start := 0; start < len(items); start += columns {
		end := min(start+columns, len(items))
		c := chunk{
			items:  items[start:end],
			ratios: make([]float64, end-start),
		}
		for i, it := range c.items {
			r := resolve(it)
			if !media.ValidRatio(r) {
				panic(fmt.Sprintf("grid: item %q has invalid aspect ratio %v", it.ID, r))
			}
			c.ratios[i] = r
			c.sum += r
		}
		out = append(out, c)
	}
	return out
}

// naturalHeight is the height at which the chunk exactly fills width side by side.
func naturalHeight(c chunk, p Params) float64 {
	avail := p.Width - float64(len(c.items)-1)*p.Gap
	return max(avail/c.sum, 0)
}

func sized(c chunk, height float64) Row {
	cells := make([]Cell, len(c.items))
	for i, it := range c.items {
		cells[i] = Cell{Item: it, Width: height * c.ratios[i]}
	}
	return Row{Height: height, Items: cells}
}

func packFixedRowHeight(chunks []chunk, p Params, n int) []Row {
	budget := p.RowBudget(n)
	rows := make([]Row, len(chunks))
	for i, c := range chunks {
		rows[i] = sized(c, min(naturalHeight(c, p), budget))
	}
	return rows
}

func packChimney(chunks []chunk, p Params) []Row {
	heights := make([]float64, len(chunks))
	var totalBase float64
	for i, c := range chunks {
		heights[i] = naturalHeight(c, p)
		totalBase += heights[i]
	}
	totalGap := float64(len(chunks)-1) * p.Gap

	scale := 1.0
	if totalBase > 0 {
		scale = min(1, max((p.Height-totalGap)/totalBase, 0))
	}

	rows := make([]Row, len(chunks))
	for i, c := range chunks {
		rows[i] = sized(c, heights[i]*scale)
	}
	return rows
}
