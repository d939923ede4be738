package directory

import "strings"

// CodeWidth is the width of a DART corp code
const CodeWidth = 8

// PadCode left-pads a numeric corp code with zeros to eight digits
func PadCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || len(code) >= CodeWidth {
		return code
	}
	return strings.Repeat("0", CodeWidth-len(code)) + code
}
