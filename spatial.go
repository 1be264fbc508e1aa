package glscene

import (
	"github.com/soypat/glscene/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// minTreeSize is the number of pending points scanned linearly
// before pointIndex rebuilds its tree.
const minTreeSize = 64

// pointIndex finds accepted points within a per-coordinate tolerance
// of a query. Accepted points live in a balanced k-d tree rebuilt
// whenever the linearly scanned tail grows as large as the tree.
type pointIndex struct {
	points []indexedPoint
	// tree holds points[:indexed].
	tree    *kdtree.Tree
	indexed int
}

// add accepts p and returns its index.
func (pi *pointIndex) add(p r3.Vec) int {
	id := len(pi.points)
	pi.points = append(pi.points, indexedPoint{Vec: p, id: id})
	if pending := len(pi.points) - pi.indexed; pending >= minTreeSize && pending >= pi.indexed {
		pi.rebuild()
	}
	return id
}

// find returns the lowest index of the accepted points equal to q within
// tol on every coordinate, or -1 if there is none.
func (pi *pointIndex) find(q r3.Vec, tol float64) int {
	best := -1
	if pi.tree != nil {
		// Points within tol on every axis are within sqrt(3)*tol.
		keep := kdtree.NewDistKeeper(3 * tol * tol)
		pi.tree.NearestSet(keep, indexedPoint{Vec: q})
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue // Sentinel.
			}
			p := c.Comparable.(indexedPoint)
			if (best < 0 || p.id < best) && d3.EqualWithin(p.Vec, q, tol) {
				best = p.id
			}
		}
	}
	if best >= 0 {
		return best // Tree points precede all pending points.
	}
	for _, p := range pi.points[pi.indexed:] {
		if d3.EqualWithin(p.Vec, q, tol) {
			return p.id
		}
	}
	return -1
}

func (pi *pointIndex) rebuild() {
	// kdtree.New reorders its input so the tree gets its own copy.
	pts := append(indexedPoints(nil), pi.points...)
	pi.tree = kdtree.New(pts, false)
	pi.indexed = len(pi.points)
}

type indexedPoint struct {
	r3.Vec
	id int
}

var _ kdtree.Comparable = indexedPoint{}

func (p indexedPoint) coord(d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	return p.Z
}

// Compare returns the signed distance of p from the plane passing
// through c and perpendicular to dimension d.
func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.coord(d) - c.(indexedPoint).coord(d)
}

func (p indexedPoint) Dims() int { return 3 }

// Distance returns the squared euclidean distance.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.Vec, c.(indexedPoint).Vec))
}

type indexedPoints []indexedPoint

var _ kdtree.Interface = indexedPoints{}

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p indexedPoints) Pivot(d kdtree.Dim) int {
	pl := kdPlane{dim: d, points: p}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

type kdPlane struct {
	dim    kdtree.Dim
	points indexedPoints
}

func (p kdPlane) Less(i, j int) bool {
	return p.points[i].coord(p.dim) < p.points[j].coord(p.dim)
}
func (p kdPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p kdPlane) Len() int {
	return len(p.points)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
