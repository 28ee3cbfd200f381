package hexconv

// Halfbyte maps a hex digit into its value. Non-hex characters map into 0xff.
var Halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xff
	}

	for i, char := range "0123456789abcdef" {
		table[char] = byte(i)
	}

	for i, char := range "ABCDEF" {
		table[char] = byte(10 + i)
	}

	return table
}()

// Parse decodes a two-digit hex number. ok is false if either of the digits is invalid.
func Parse(hi, lo byte) (value byte, ok bool) {
	h, l := Halfbyte[hi], Halfbyte[lo]
	if h|l == 0xff || h > 0xf || l > 0xf {
		return 0, false
	}

	return h<<4 | l, true
}
