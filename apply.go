package tmin

import (
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
)

// Apply applies the edits of trace selected by mask to a copy of base and returns the result. A nil mask selects all edits. Out-of-range positions are clamped to the buffer. A deletion on an empty buffer ends the application, since every edit that follows was computed for bytes that no longer exist.
func Apply(trace Trace, base []byte, mask Mask) []byte {
	return apply(nil, trace, base, mask)
}

// ApplyLog is like Apply but writes every applied edit and its effect on the buffer to w.
func ApplyLog(w io.Writer, trace Trace, base []byte, mask Mask) []byte {
	return apply(w, trace, base, mask)
}

func apply(w io.Writer, trace Trace, base []byte, mask Mask) []byte {
	b := parse.Copy(base)
	if w != nil {
		fmt.Fprintf(w, "Total edits: %d (%d masked)\n", len(trace), len(mask))
	}
	for i, e := range trace {
		if i < len(mask) && !mask[i] {
			continue
		}

		var before string
		if w != nil {
			before = printableBytes(b)
		}

		pos := max(e.Pos, 0)
		switch e.Op {
		case Insert:
			if len(b) < pos {
				pos = len(b)
			}
			b = append(b, 0)
			copy(b[pos+1:], b[pos:])
			b[pos] = e.Byte
		case Delete:
			if len(b) == 0 {
				if w != nil {
					fmt.Fprintf(w, "[%d] Delete on empty buffer, skip remaining edits\n", i)
				}
				return b
			}
			if len(b) <= pos {
				pos = len(b) - 1
			}
			b = append(b[:pos], b[pos+1:]...)
		case Substitute:
			if len(b) == 0 {
				if w != nil {
					fmt.Fprintf(w, "[%d] Replace on empty buffer, skipped\n", i)
				}
				continue
			}
			if len(b) <= pos {
				pos = len(b) - 1
			}
			b[pos] = e.Byte
		}

		if w != nil {
			switch e.Op {
			case Insert:
				fmt.Fprintf(w, "[%d] Insert %s at %d", i, printableByte(e.Byte), pos)
			case Delete:
				fmt.Fprintf(w, "[%d] Delete %d", i, pos)
			case Substitute:
				fmt.Fprintf(w, "[%d] Replace %s at %d", i, printableByte(e.Byte), pos)
			}
			fmt.Fprintf(w, " (%s -> %s)\n", before, printableBytes(b))
		}
	}
	return b
}
