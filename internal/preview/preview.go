package preview

import (
	"bytes"
	"fmt"
	"image"
	"strconv"
	"strings"
	"unicode/utf8"

	// Decoders register themselves with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/encoding/unicode"
)

// FieldSep separates the id from the preview text in a listing line.
const FieldSep = "\t"

// Ellipsis is appended to previews cut at the width limit.
const Ellipsis = "…"

// Image describes a payload recognized as an image.
type Image struct {
	Format string
	Width  int
	Height int
}

// Classify reports whether payload decodes as an image in one of the
// registered formats. Truncated or corrupt images are not images.
func Classify(payload []byte) (Image, bool) {
	if len(payload) == 0 {
		return Image{}, false
	}
	img, format, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return Image{}, false
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Image{}, false
	}
	return Image{Format: format, Width: b.Dx(), Height: b.Dy()}, true
}

// Text decodes payload as UTF-8, replacing invalid sequences with U+FFFD.
func Text(payload []byte) string {
	if utf8.Valid(payload) {
		return string(payload)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(payload)
	if err != nil {
		return strings.ToValidUTF8(string(payload), "�")
	}
	return string(out)
}

// Collapse trims s and joins its whitespace-separated fields with one space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate keeps the first width runes of s, appending Ellipsis when anything
// was cut.
func Truncate(s string, width int) string {
	if width < 0 {
		width = 0
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	n := 0
	for i := range s {
		if n == width {
			return s[:i] + Ellipsis
		}
		n++
	}
	return s
}

// Body renders the preview text of payload without the id prefix.
func Body(payload []byte, width int) string {
	if img, ok := Classify(payload); ok {
		return fmt.Sprintf("[[ binary data %s %s %dx%d ]]", HumanSize(len(payload)), img.Format, img.Width, img.Height)
	}
	return Truncate(Collapse(Text(payload)), width)
}

// Format renders a listing line "{id}\t{preview}". It never fails.
func Format(id uint64, payload []byte, width int) string {
	return strconv.FormatUint(id, 10) + FieldSep + Body(payload, width)
}

var sizeUnits = [...]string{"B", "KiB", "MiB"}

// HumanSize formats n bytes in B, KiB or MiB rounded to a whole number.
func HumanSize(n int) string {
	size := float64(n)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.0f %s", size, sizeUnits[unit])
}
