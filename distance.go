package tmin

import (
	"fmt"
	"io"
	"strings"
)

type cell struct {
	dist    int
	edit    Edit
	hasEdit bool
	prev    int // index of the predecessor cell
}

// Table is the dynamic programming table of the edit distance between two byte sequences. Cell (i,j) holds the minimum number of edits that turn from[:i] into to[:j]. The cells are stored row-major in a single slice.
type Table struct {
	from, to []byte
	cols     int
	cells    []cell
}

// NewTable fills the edit distance table of from and to. Insertions are preferred over deletions, and deletions over substitutions when their costs are equal.
func NewTable(from, to []byte) *Table {
	cols := len(to) + 1
	t := &Table{
		from:  from,
		to:    to,
		cols:  cols,
		cells: make([]cell, (len(from)+1)*cols),
	}

	// the edit positions are valid when the trace is applied from the end of the table towards the start,
	// edits of cell (i,j) never touch the buffer before position i-1
	for i := 1; i <= len(from); i++ {
		t.cells[i*cols] = cell{i, Del(i - 1), true, (i - 1) * cols}
	}
	for j := 1; j <= len(to); j++ {
		t.cells[j] = cell{j, Ins(0, to[j-1]), true, j - 1}
	}
	for i := 1; i <= len(from); i++ {
		for j := 1; j <= len(to); j++ {
			cur := i*cols + j
			ins, del, sub := cur-1, cur-cols, cur-cols-1
			if from[i-1] == to[j-1] {
				t.cells[cur] = cell{t.cells[sub].dist, Edit{}, false, sub}
				continue
			}

			dist := t.cells[ins].dist
			if t.cells[del].dist < dist {
				dist = t.cells[del].dist
			}
			if t.cells[sub].dist < dist {
				dist = t.cells[sub].dist
			}
			if dist == t.cells[ins].dist {
				t.cells[cur] = cell{dist + 1, Ins(i, to[j-1]), true, ins}
			} else if dist == t.cells[del].dist {
				t.cells[cur] = cell{dist + 1, Del(i - 1), true, del}
			} else {
				t.cells[cur] = cell{dist + 1, Sub(i-1, to[j-1]), true, sub}
			}
		}
	}
	return t
}

// Distance returns the edit distance between the two sequences.
func (t *Table) Distance() int {
	return t.cells[len(t.cells)-1].dist
}

// At returns the distance between from[:i] and to[:j].
func (t *Table) At(i, j int) int {
	return t.cells[i*t.cols+j].dist
}

// Trace returns the edits along the path from the last cell back to the first, in the order the cells are visited. Applying the trace to from yields to.
func (t *Table) Trace() Trace {
	trace := make(Trace, 0, t.Distance())
	for cur := len(t.cells) - 1; cur != 0; {
		c := t.cells[cur]
		if c.hasEdit {
			trace = append(trace, c.edit)
		}
		cur = c.prev
	}
	return trace
}

// Fprint writes the distance table to w, with from along the rows and to along the columns.
func (t *Table) Fprint(w io.Writer) error {
	width := len(fmt.Sprint(max(len(t.from), len(t.to))))
	for _, b := range [][]byte{t.from, t.to} {
		for _, c := range b {
			width = max(width, len(byteText(c)))
		}
	}
	pad := func(s string) string {
		return strings.Repeat(" ", width-len(s)) + s
	}

	sb := strings.Builder{}
	sb.WriteString(pad("") + " " + pad(""))
	for _, c := range t.to {
		sb.WriteString(" " + pad(byteText(c)))
	}
	sb.WriteByte('\n')
	for i := 0; i <= len(t.from); i++ {
		if i == 0 {
			sb.WriteString(pad(""))
		} else {
			sb.WriteString(pad(byteText(t.from[i-1])))
		}
		for j := 0; j < t.cols; j++ {
			sb.WriteString(" " + pad(fmt.Sprint(t.At(i, j))))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Distance returns the minimum number of single-byte insertions, deletions, and substitutions that turn from into to, and a trace realizing it.
func Distance(from, to []byte) (int, Trace) {
	t := NewTable(from, to)
	return t.Distance(), t.Trace()
}
