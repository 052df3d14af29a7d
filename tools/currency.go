package tools

import "strconv"

// FormatRupiah renders an amount the way Indonesian receipts print it:
// "Rp 2.100" — dot-grouped thousands, no decimals.
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	n := len(s)
	if n > 3 {
		var b []byte
		first := n % 3
		if first > 0 {
			b = append(b, s[:first]...)
		}
		for i := first; i < n; i += 3 {
			if len(b) > 0 {
				b = append(b, '.')
			}
			b = append(b, s[i:i+3]...)
		}
		s = string(b)
	}

	if neg {
		return "-Rp " + s
	}
	return "Rp " + s
}
