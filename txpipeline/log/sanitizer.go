package log

const addressVisibleChars = 6

// MaskAddress keeps the leading and trailing characters of an address and
// replaces the rest with "...". Short values are returned unchanged.
func MaskAddress(address string) string {
	if len(address) <= 2*addressVisibleChars {
		return address
	}

	return address[:addressVisibleChars] + "..." + address[len(address)-addressVisibleChars:]
}
