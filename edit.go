package tmin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
)

// Op is the kind of a single-byte edit.
type Op uint8

// Edit operations.
const (
	Insert Op = iota
	Delete
	Substitute
)

func (op Op) String() string {
	switch op {
	case Insert:
		return "Ins"
	case Delete:
		return "Del"
	case Substitute:
		return "Sub"
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// Edit is a single-byte edit. Pos is an offset into the buffer as it is at the moment the edit gets applied, not into the original sequences. Byte is unused for Delete.
type Edit struct {
	Op   Op
	Pos  int
	Byte byte
}

// Ins returns an edit inserting c at pos.
func Ins(pos int, c byte) Edit {
	return Edit{Insert, pos, c}
}

// Del returns an edit deleting the byte at pos.
func Del(pos int) Edit {
	return Edit{Delete, pos, 0}
}

// Sub returns an edit overwriting the byte at pos by c.
func Sub(pos int, c byte) Edit {
	return Edit{Substitute, pos, c}
}

func (e Edit) String() string {
	if e.Op == Delete {
		return fmt.Sprintf("Del(%d)", e.Pos)
	}
	return fmt.Sprintf("%v(%d, %s)", e.Op, e.Pos, printableByte(e.Byte))
}

// Trace is an ordered edit script. Edits are applied in slice order.
type Trace []Edit

// Mask selects edits of a trace, entry i selects edit i. Edits beyond the length of the mask are selected.
type Mask []bool

// Filter returns a new trace with only the edits selected by mask.
func (t Trace) Filter(mask Mask) Trace {
	filtered := make(Trace, 0, len(t))
	for i, e := range t {
		if i < len(mask) && !mask[i] {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func (t Trace) String() string {
	sb := strings.Builder{}
	sb.WriteByte('[')
	for i, e := range t {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// chunkMask selects the edits in [start,end), or all others when complement is set.
func chunkMask(n, start, end int, complement bool) Mask {
	mask := make(Mask, n)
	for i := range mask {
		mask[i] = (start <= i && i < end) != complement
	}
	return mask
}

// byteText renders c as an ASCII string: graphic ASCII characters as themselves and all other bytes in hex. Bytes from 0x80 are not decoded as Latin-1.
func byteText(c byte) string {
	if c < 0x80 {
		return parse.Printable(rune(c))
	}
	return fmt.Sprintf("0x%02X", c)
}

func printableByte(c byte) string {
	if s := byteText(c); len(s) == 1 {
		return fmt.Sprintf("0x%02X('%s')", c, s)
	}
	return fmt.Sprintf("0x%02X", c)
}

func printableBytes(b []byte) string {
	sb := strings.Builder{}
	for _, c := range b {
		sb.WriteString(byteText(c))
	}
	return sb.String()
}
