package layout

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/netlist"
)

// unitLength is the drawing length of a component of size 1.
const unitLength = 2.0

// Graph is the view of a component store needed by the solver.
type Graph interface {
	Components() []netlist.Component
	NodeNames() []string
}

// Point is a node coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout is a coordinate assignment for every node of a schematic.
//
// X and Y are indexed like Nodes. All coordinates are non-negative and the
// minimum on each axis is zero.
type Layout struct {
	Nodes   []string  `json:"nodes"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	CenterX float64   `json:"center_x"`
	CenterY float64   `json:"center_y"`

	index map[string]int
}

// Position returns the coordinate of node.
func (l *Layout) Position(node string) (Point, bool) {
	if l.index == nil {
		l.reindex()
	}
	i, ok := l.index[node]
	if !ok {
		return Point{}, false
	}
	return Point{X: l.X[i], Y: l.Y[i]}, true
}

// Terminals returns the positions of a component's positive and negative
// nodes.
func (l *Layout) Terminals(c netlist.Component) (pos1, pos2 Point, err error) {
	var ok bool
	if pos1, ok = l.Position(c.Nodes[0]); !ok {
		return Point{}, Point{}, errors.New(errors.ErrCodeNotFound, "node %s of %s has no position", c.Nodes[0], c.Name)
	}
	if pos2, ok = l.Position(c.Nodes[1]); !ok {
		return Point{}, Point{}, errors.New(errors.ErrCodeNotFound, "node %s of %s has no position", c.Nodes[1], c.Name)
	}
	return pos1, pos2, nil
}

// Width returns the largest x coordinate.
func (l *Layout) Width() float64 { return maxOf(l.X) }

// Height returns the largest y coordinate.
func (l *Layout) Height() float64 { return maxOf(l.Y) }

// Covers reports whether the layout has a position for every given node.
func (l *Layout) Covers(nodes []string) bool {
	if len(nodes) != len(l.Nodes) {
		return false
	}
	for _, n := range nodes {
		if _, ok := l.Position(n); !ok {
			return false
		}
	}
	return true
}

func (l *Layout) reindex() {
	l.index = make(map[string]int, len(l.Nodes))
	for i, n := range l.Nodes {
		l.index[n] = i
	}
}

// Solve computes the layout of g. Components are taken in g's order; the
// anchor row fixes the positive node of the first component.
func Solve(g Graph) (*Layout, error) {
	nodes := g.NodeNames()
	components := g.Components()

	l := &Layout{
		Nodes: nodes,
		X:     make([]float64, len(nodes)),
		Y:     make([]float64, len(nodes)),
	}
	l.reindex()
	if len(components) == 0 || len(nodes) == 0 {
		return l, nil
	}

	rows := len(components) + 1
	a := mat.NewDense(rows, len(nodes), nil)
	bx := mat.NewVecDense(rows, nil)
	by := mat.NewVecDense(rows, nil)

	for k, c := range components {
		m1, ok1 := l.index[c.Nodes[0]]
		m2, ok2 := l.index[c.Nodes[1]]
		if !ok1 || !ok2 {
			return nil, errors.New(errors.ErrCodeInternal, "component %s references unregistered node", c.Name)
		}
		if k == 0 {
			a.Set(0, m1, 1)
		}

		row := k + 1
		a.Set(row, m1, -1)
		a.Set(row, m2, 1)

		length := c.Hints.Size * unitLength
		switch c.Hints.Dir {
		case netlist.Right:
			bx.SetVec(row, -length)
		case netlist.Left:
			bx.SetVec(row, length)
		case netlist.Up:
			by.SetVec(row, -length)
		case netlist.Down:
			by.SetVec(row, length)
		default:
			return nil, errors.New(errors.ErrCodeInvalidConfig, "component %s: unknown direction %q", c.Name, c.Hints.Dir)
		}
	}

	p, err := pseudoInverse(a)
	if err != nil {
		return nil, err
	}

	var x, y mat.VecDense
	x.MulVec(p, bx)
	y.MulVec(p, by)

	for i := range nodes {
		l.X[i] = x.AtVec(i)
		l.Y[i] = y.AtVec(i)
	}
	l.CenterX = normalize(l.X)
	l.CenterY = normalize(l.Y)
	return l, nil
}

// pseudoInverse returns the Moore-Penrose pseudo-inverse of a. Singular
// values below max(rows, cols)·eps·σmax are treated as zero.
func pseudoInverse(a *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, errors.New(errors.ErrCodeInternal, "layout: SVD did not converge")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	r, c := a.Dims()
	eps := math.Nextafter(1, 2) - 1
	tol := float64(max(r, c)) * eps * values[0]

	inv := make([]float64, len(values))
	for i, s := range values {
		if s > tol {
			inv[i] = 1 / s
		}
	}

	var p mat.Dense
	p.Product(&v, mat.NewDiagDense(len(inv), inv), u.T())
	return &p, nil
}

// normalize shifts v so its minimum is zero and returns the shifted mean.
func normalize(v []float64) float64 {
	lo := math.Inf(1)
	for _, f := range v {
		lo = math.Min(lo, f)
	}
	var sum float64
	for i := range v {
		v[i] -= lo
		sum += v[i]
	}
	return sum / float64(len(v))
}

func maxOf(v []float64) float64 {
	var hi float64
	for _, f := range v {
		hi = math.Max(hi, f)
	}
	return hi
}
