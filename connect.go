package backdrop

import (
	"cmp"
	"math"
	"slices"
)

// Segment is a connection line between particles I and J (I < J). Falloff is
// 1 - distance/ConnectDistance and is always in (0, 1].
type Segment struct {
	I, J    int
	Falloff float64
}

// connectionFalloff returns the linear opacity falloff for two particles d
// apart. It is 0 at and beyond maxDist.
func connectionFalloff(d, maxDist float64) float64 {
	if maxDist <= 0 || !(d < maxDist) {
		return 0
	}
	return 1 - d/maxDist
}

// connector finds connection segments. Buffers are reused between frames.
type connector struct {
	segs      []Segment
	cellOf    []int
	cellStart []int
	cellItems []int
	cellFill  []int
}

// connect returns every unordered pair closer than maxDist, sorted by (I, J).
// The returned slice is owned by the connector and valid until the next call.
func (c *connector) connect(ps []Particle, maxDist float64, index ConnectIndex) []Segment {
	c.segs = c.segs[:0]
	if maxDist <= 0 || len(ps) < 2 {
		return c.segs
	}
	if index == ConnectGrid {
		return c.grid(ps, maxDist)
	}
	return c.bruteForce(ps, maxDist)
}

func (c *connector) bruteForce(ps []Particle, maxDist float64) []Segment {
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			c.test(ps, i, j, maxDist)
		}
	}
	return c.segs
}

func (c *connector) test(ps []Particle, i, j int, maxDist float64) {
	d := math.Hypot(ps[i].X-ps[j].X, ps[i].Y-ps[j].Y)
	if f := connectionFalloff(d, maxDist); f > 0 {
		c.segs = append(c.segs, Segment{I: i, J: j, Falloff: f})
	}
}

// maxGridCells caps the grid so a few far-flung particles cannot blow up
// memory; beyond it the brute-force pass is used.
const maxGridCells = 1 << 16

// grid buckets particles into maxDist-sized cells with a counting sort and
// only tests pairs in neighboring cells.
func (c *connector) grid(ps []Particle, maxDist float64) []Segment {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range ps {
		minX = math.Min(minX, ps[i].X)
		minY = math.Min(minY, ps[i].Y)
		maxX = math.Max(maxX, ps[i].X)
		maxY = math.Max(maxY, ps[i].Y)
	}
	spanX := (maxX - minX) / maxDist
	spanY := (maxY - minY) / maxDist
	if !finite(spanX) || !finite(spanY) || (spanX+1)*(spanY+1) > maxGridCells {
		return c.bruteForce(ps, maxDist)
	}
	cols := int(spanX) + 1
	rows := int(spanY) + 1
	cells := cols * rows

	c.cellOf = slices.Grow(c.cellOf[:0], len(ps))[:len(ps)]
	c.cellStart = slices.Grow(c.cellStart[:0], cells+1)[:cells+1]
	c.cellItems = slices.Grow(c.cellItems[:0], len(ps))[:len(ps)]
	clear(c.cellStart)

	for i := range ps {
		cx := min(int((ps[i].X-minX)/maxDist), cols-1)
		cy := min(int((ps[i].Y-minY)/maxDist), rows-1)
		cell := cy*cols + cx
		c.cellOf[i] = cell
		c.cellStart[cell+1]++
	}
	for k := 1; k <= cells; k++ {
		c.cellStart[k] += c.cellStart[k-1]
	}
	c.cellFill = append(c.cellFill[:0], c.cellStart[:cells]...)
	fill := c.cellFill
	for i := range ps {
		cell := c.cellOf[i]
		c.cellItems[fill[cell]] = i
		fill[cell]++
	}

	for i := range ps {
		cx := c.cellOf[i] % cols
		cy := c.cellOf[i] / cols
		for ny := max(cy-1, 0); ny <= min(cy+1, rows-1); ny++ {
			for nx := max(cx-1, 0); nx <= min(cx+1, cols-1); nx++ {
				cell := ny*cols + nx
				for _, j := range c.cellItems[c.cellStart[cell]:c.cellStart[cell+1]] {
					if j > i {
						c.test(ps, i, j, maxDist)
					}
				}
			}
		}
	}

	slices.SortFunc(c.segs, func(a, b Segment) int {
		if a.I != b.I {
			return cmp.Compare(a.I, b.I)
		}
		return cmp.Compare(a.J, b.J)
	})
	return c.segs
}
