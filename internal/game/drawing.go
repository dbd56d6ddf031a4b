package game

// DefaultCanvasPoints caps the number of points a session keeps on its shared
// canvas.
const DefaultCanvasPoints = 1000

type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Tool struct {
	Color  Color   `json:"color"`
	Weight float64 `json:"weight"`
}

type Shape struct {
	Coords []Coord `json:"coords"`
	Tool   Tool    `json:"tool"`
}

func Pencil() Tool {
	return Tool{Color: mustColor(&GreyColors, "is-grey-darkest"), Weight: 7}
}

// Highlighter uses yellow when color is the zero value.
func Highlighter(color Color) Tool {
	if color == (Color{}) {
		color = mustColor(&MainColors, "is-yellow")
	}
	return Tool{Color: color, Weight: 20}
}

func Eraser() Tool {
	return Tool{Color: mustColor(&GreyColors, "is-white"), Weight: 15}
}

type shapeMark struct {
	start int64
	tool  Tool
}

// Buffer is the bounded record of strokes on a canvas. Points live in a ring
// of limit+1 slots addressed by a monotonically increasing sequence number;
// shapes are stored as the sequence number of their first point. Evicting the
// oldest point is a counter increment.
type Buffer struct {
	limit  int
	coords []Coord
	marks  []shapeMark

	first, next           int64
	firstShape, nextShape int64
}

func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultCanvasPoints
	}
	return &Buffer{
		limit:  limit,
		coords: make([]Coord, limit+1),
		marks:  make([]shapeMark, limit+1),
	}
}

func (b *Buffer) Limit() int {
	return b.limit
}

// Size is the number of points currently held.
func (b *Buffer) Size() int {
	return int(b.next - b.first)
}

// Len is the number of shapes currently held.
func (b *Buffer) Len() int {
	return int(b.nextShape - b.firstShape)
}

func (b *Buffer) AddShape(first Coord, tool Tool) {
	b.marks[b.slot(b.nextShape)] = shapeMark{start: b.next, tool: tool}
	b.nextShape++
	b.append(first)
}

func (b *Buffer) PushCoord(c Coord) error {
	if b.nextShape == b.firstShape {
		return newError(KindUnknownShape, "no shape has been started on this canvas")
	}
	b.append(c)
	return nil
}

func (b *Buffer) Clear() {
	b.first, b.next = 0, 0
	b.firstShape, b.nextShape = 0, 0
}

// Shapes copies the held shapes, oldest first.
func (b *Buffer) Shapes() []Shape {
	shapes := make([]Shape, 0, b.Len())
	for i := b.firstShape; i < b.nextShape; i++ {
		mark := b.marks[b.slot(i)]
		start := mark.start
		if start < b.first {
			start = b.first
		}
		end := b.shapeEnd(i)
		coords := make([]Coord, 0, end-start)
		for seq := start; seq < end; seq++ {
			coords = append(coords, b.coords[b.slot(seq)])
		}
		shapes = append(shapes, Shape{Coords: coords, Tool: mark.tool})
	}
	return shapes
}

func (b *Buffer) append(c Coord) {
	b.coords[b.slot(b.next)] = c
	b.next++
	for b.Size() > b.limit {
		b.popBack()
	}
}

// popBack drops the oldest point and any shape left without points.
func (b *Buffer) popBack() {
	b.first++
	for b.firstShape < b.nextShape && b.shapeEnd(b.firstShape) <= b.first {
		b.firstShape++
	}
}

func (b *Buffer) shapeEnd(i int64) int64 {
	if i+1 < b.nextShape {
		return b.marks[b.slot(i+1)].start
	}
	return b.next
}

func (b *Buffer) slot(seq int64) int {
	return int(seq % int64(b.limit+1))
}
