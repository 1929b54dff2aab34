package sanitize

import "regexp"

var (
	hexColor   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbColor   = regexp.MustCompile(`^rgba?\(\s*\d{1,3}%?\s*,\s*\d{1,3}%?\s*,\s*\d{1,3}%?\s*(?:,\s*(?:0|1|0?\.\d+)\s*)?\)$`)
	namedColor = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
)

// IsCSSColor reports whether s is a colour value that is safe to place in
// a stylesheet: a hex colour, an rgb()/rgba() triple or a bare colour name.
func IsCSSColor(s string) bool {
	return hexColor.MatchString(s) || rgbColor.MatchString(s) || namedColor.MatchString(s)
}
