// Package plate validates raw recognizer text against the RA-series plate
// format and builds a consensus reading from several noisy detections.
package plate

// Length is the fixed length of an RA-series plate: three letters, three
// digits, one letter (e.g. RAB123C).
const Length = 7

// Normalize trims recognizer text to the plate length and reports whether
// it is a well-formed RA-series plate. OCR output often carries trailing
// junk, so anything after the seventh character is ignored.
func Normalize(text string) (string, bool) {
	if len(text) < Length || text[0] != 'R' || text[1] != 'A' {
		return "", false
	}

	p := text[:Length]
	for i := 0; i < 3; i++ {
		if !isUpper(p[i]) {
			return "", false
		}
	}
	for i := 3; i < 6; i++ {
		if !isDigit(p[i]) {
			return "", false
		}
	}
	if !isUpper(p[6]) {
		return "", false
	}
	return p, true
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
