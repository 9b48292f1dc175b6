package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

type Align byte

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

// Character size for GS !
const (
	SizeNormal byte = 0x00
	SizeDouble byte = 0x11
	SizeWide   byte = 0x10
	SizeTall   byte = 0x01
)

// Document builds an ESC/POS byte stream. Width is in characters:
// 32 for 58mm paper, 48 for 80mm paper.
type Document struct {
	buf   bytes.Buffer
	width int
}

func NewDocument(width int) *Document {
	if width <= 0 {
		width = 32
	}
	d := &Document{width: width}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

func (d *Document) Width() int {
	return d.width
}

func (d *Document) Feed(lines int) *Document {
	for i := 0; i < lines; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) Align(a Align) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) Size(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s and ends the line
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// Rule prints a full-width line of ch
func (d *Document) Rule(ch rune) *Document {
	return d.Text(strings.Repeat(string(ch), d.width))
}

// Columns prints left and right on one line. A left part that does not
// fit is wrapped onto its own lines first.
func (d *Document) Columns(left, right string) *Document {
	room := d.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		room = 1
	}
	lines := wrap(left, room)
	for _, l := range lines[:len(lines)-1] {
		d.Text(l)
	}
	last := lines[len(lines)-1]
	pad := d.width - utf8.RuneCountInString(last) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	return d.Text(last + strings.Repeat(" ", pad) + right)
}

// QRCode prints data as a model 2 QR symbol with the given module size (1-16)
func (d *Document) QRCode(data string, moduleSize byte) *Document {
	if moduleSize < 1 || moduleSize > 16 {
		moduleSize = 6
	}
	// model 2
	d.buf.Write([]byte{GS, '(', 'k', 4, 0, 49, 65, 50, 0})
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 67, moduleSize})
	// error correction level M
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 69, 49})
	n := len(data) + 3
	d.buf.Write([]byte{GS, '(', 'k', byte(n % 256), byte(n / 256), 49, 80, 48})
	d.buf.WriteString(data)
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 81, 48})
	d.buf.WriteByte(LF)
	return d
}

// Cut feeds past the tear bar and performs a partial cut
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 66, 3})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// wrap splits s on spaces into lines of at most width runes.
// Words longer than width are hard split.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur []rune
	for _, w := range words {
		rw := []rune(w)
		for len(rw) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(rw[:width]))
			rw = rw[width:]
		}
		switch {
		case len(cur) == 0:
			cur = rw
		case len(cur)+1+len(rw) <= width:
			cur = append(append(cur, ' '), rw...)
		default:
			lines = append(lines, string(cur))
			cur = rw
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
