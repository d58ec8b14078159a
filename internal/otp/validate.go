package otp

// IsValidCellInput reports whether text is made only of ASCII letters and
// digits. The empty string is not valid input; deletions are accepted by the
// caller before this check is reached.
func IsValidCellInput(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if !isAlnum(text[i]) {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
