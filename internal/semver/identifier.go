package semver

// IsNumericIdentifier reports whether s is a non empty run of digits without
// leading zeroes ("0" is valid, "01" is not).
func IsNumericIdentifier(s string) bool {
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	return isDigits(s)
}

// IsAlphanumericIdentifier reports whether s is a non empty string made only
// of ASCII letters, digits and hyphens.
func IsAlphanumericIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentifierChar(s[i]) {
			return false
		}
	}
	return true
}

// IsPrereleaseIdentifier reports whether s is valid as a prerelease
// identifier: numeric identifiers can't have leading zeroes.
func IsPrereleaseIdentifier(s string) bool {
	if isDigits(s) {
		return IsNumericIdentifier(s)
	}
	return IsAlphanumericIdentifier(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isIdentifierChar(c byte) bool { return isDigit(c) || isLetter(c) || c == '-' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
