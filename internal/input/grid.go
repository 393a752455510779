package input

import (
	"math"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/geom"
)

// gridCellSize is the edge length of a spatial-grid bucket in pixels.
const gridCellSize = 64

type gridCell struct {
	col int
	row int
}

// spatialGrid buckets shape ids by the grid cells their hit bounds touch, so
// crowded frames avoid a full linear scan per pointer event. It tolerates a
// bounded amount of drift (stale or missing entries) before rebuilding.
type spatialGrid struct {
	cells      map[gridCell][]draw.ShapeId
	shapeCells map[draw.ShapeId][]gridCell
	drift      int
}

func newSpatialGrid() *spatialGrid {
	return &spatialGrid{
		cells:      make(map[gridCell][]draw.ShapeId),
		shapeCells: make(map[draw.ShapeId][]gridCell),
	}
}

func cellsForRect(r geom.Rect) []gridCell {
	minCol := floorDiv(r.X, gridCellSize)
	minRow := floorDiv(r.Y, gridCellSize)
	maxCol := floorDiv(r.MaxX()-1, gridCellSize)
	maxRow := floorDiv(r.MaxY()-1, gridCellSize)
	cells := make([]gridCell, 0, (maxCol-minCol+1)*(maxRow-minRow+1))
	for col := minCol; col <= maxCol; col++ {
		for row := minRow; row <= maxRow; row++ {
			cells = append(cells, gridCell{col: col, row: row})
		}
	}
	return cells
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func (g *spatialGrid) insert(id draw.ShapeId, bounds geom.Rect) {
	cells := cellsForRect(bounds)
	g.shapeCells[id] = cells
	for _, c := range cells {
		g.cells[c] = append(g.cells[c], id)
	}
}

// remove drops the reverse mapping and counts one unit of drift; forward
// entries are purged lazily on rebuild.
func (g *spatialGrid) remove(id draw.ShapeId) {
	if _, ok := g.shapeCells[id]; !ok {
		return
	}
	delete(g.shapeCells, id)
	g.drift++
}

// needsRebuild reports whether accumulated drift outgrew the tracked set.
func (g *spatialGrid) needsRebuild() bool {
	return g.drift > len(g.shapeCells)/5+1
}

// candidates returns the ids whose bounds may cover (x, y) within tolerance.
// Order is unspecified; callers re-rank by frame z-order.
func (g *spatialGrid) candidates(x, y int, tolerance float64) map[draw.ShapeId]struct{} {
	radius := 1 + int(math.Ceil(tolerance/gridCellSize))
	centerCol := floorDiv(x, gridCellSize)
	centerRow := floorDiv(y, gridCellSize)
	out := make(map[draw.ShapeId]struct{})
	for col := centerCol - radius; col <= centerCol+radius; col++ {
		for row := centerRow - radius; row <= centerRow+radius; row++ {
			for _, id := range g.cells[gridCell{col: col, row: row}] {
				if _, live := g.shapeCells[id]; live {
					out[id] = struct{}{}
				}
			}
		}
	}
	return out
}

// rebuildGrid repopulates the grid from the active frame's shapes.
func (s *State) rebuildGrid() {
	s.grid = newSpatialGrid()
	for i := range s.boards.ActiveFrame().Shapes() {
		drawn := &s.boards.ActiveFrame().Shapes()[i]
		if b, ok := s.hitBoundsFor(drawn.Id, drawn.Shape); ok {
			s.grid.insert(drawn.Id, b)
		}
	}
}
