package scanner

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// MaxLineLength is the length above which a line is probably not hand
// written source (minified or generated) and is skipped by the extractor.
const MaxLineLength = 4096

// maxBufferedLine bounds the memory held for one physical line. Longer
// lines are dropped unscrubbed and come back as an empty Line.
const maxBufferedLine = 16 * 1024 * 1024

// Line is a scrubbed logical line of source with its 1-based line number.
type Line struct {
	Text   string
	Number int

	// Dropped is set when the physical line exceeded the read buffer and
	// its content was discarded.
	Dropped bool
}

type markerKind int

const (
	markerLineComment markerKind = iota
	markerBlockOpen
	markerBlockClose
	markerQuote2
	markerQuote1
)

var markerText = [...]string{
	markerLineComment: "//",
	markerBlockOpen:   "/*",
	markerBlockClose:  "*/",
	markerQuote2:      `"`,
	markerQuote1:      "'",
}

type marker struct {
	idx  int
	kind markerKind
}

// span is a half open byte range [beg, end) to delete from a line.
type span struct {
	beg, end int
}

// Reader returns the lines of a Java source file with comments and string
// or character literals removed. Block comment state carries across lines,
// so one Reader must be used per file.
//
// Escaped quotes inside literals are not recognized.
type Reader struct {
	br        *bufio.Reader
	maxLine   int
	line      int
	blockOpen bool

	markers  []marker
	removals []span
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024), maxLine: maxBufferedLine}
}

// Next returns the next scrubbed line, or io.EOF once the input is
// exhausted. A block comment left open at the end of the input swallows
// the rest of the file.
func (r *Reader) Next() (Line, error) {
	raw, dropped, err := r.readLine()
	if err != nil {
		return Line{}, err
	}
	r.line++
	if dropped {
		return Line{Number: r.line, Dropped: true}, nil
	}
	text := strings.TrimSuffix(string(raw), "\r")
	return Line{Text: r.Scrub(text), Number: r.line}, nil
}

// readLine returns one physical line without its terminator. Fragments past
// maxLine are consumed and discarded so the following line still starts
// clean.
func (r *Reader) readLine() ([]byte, bool, error) {
	var buf []byte
	dropped := false
	for {
		frag, isPrefix, err := r.br.ReadLine()
		if err != nil {
			if len(buf) > 0 || dropped {
				return buf, dropped, nil
			}
			return nil, false, err
		}
		if !dropped {
			buf = append(buf, frag...)
			if len(buf) > r.maxLine {
				buf, dropped = nil, true
			}
		}
		if !isPrefix {
			return buf, dropped, nil
		}
	}
}

// LineNumber is the number of physical lines read so far.
func (r *Reader) LineNumber() int {
	return r.line
}

// InComment reports whether a block comment is open after the last line.
func (r *Reader) InComment() bool {
	return r.blockOpen
}

// Scrub removes comments and literals from one raw line, updating the
// block comment state.
func (r *Reader) Scrub(text string) string {
	r.markers = r.markers[:0]
	r.removals = r.removals[:0]
	for kind, want := range markerText {
		r.markers = findAll(r.markers, text, want, markerKind(kind))
	}
	sort.SliceStable(r.markers, func(i, j int) bool {
		return r.markers[i].idx < r.markers[j].idx
	})

	blockStart := 0
	quoteStart := -1
	var quote markerKind
	// next is the first column not consumed by an accepted marker, so
	// "/*/" does not close itself and "*/*" does not reopen.
	next := 0

	for _, m := range r.markers {
		if m.idx < next {
			continue
		}
		switch {
		case r.blockOpen:
			if m.kind == markerBlockClose {
				r.removals = append(r.removals, span{blockStart, m.idx + 2})
				r.blockOpen = false
				next = m.idx + 2
			}
		case quoteStart >= 0:
			if m.kind == quote {
				r.removals = append(r.removals, span{quoteStart, m.idx + 1})
				quoteStart = -1
				next = m.idx + 1
			}
		default:
			switch m.kind {
			case markerLineComment:
				return r.removeSpans(text[:m.idx])
			case markerBlockOpen:
				r.blockOpen = true
				blockStart = m.idx
				next = m.idx + 2
			case markerQuote2, markerQuote1:
				quote = m.kind
				quoteStart = m.idx
				next = m.idx + 1
			}
		}
	}

	if r.blockOpen {
		text = text[:blockStart]
	}
	return r.removeSpans(text)
}

// removeSpans deletes the recorded spans back to front so earlier offsets
// stay valid.
func (r *Reader) removeSpans(text string) string {
	for i := len(r.removals) - 1; i >= 0; i-- {
		s := r.removals[i]
		if s.beg >= len(text) {
			continue
		}
		end := min(s.end, len(text))
		text = text[:s.beg] + text[end:]
	}
	return text
}

func findAll(found []marker, have, want string, kind markerKind) []marker {
	off := 0
	for {
		i := strings.Index(have[off:], want)
		if i < 0 {
			return found
		}
		found = append(found, marker{idx: off + i, kind: kind})
		off += i + 1
	}
}
