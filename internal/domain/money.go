package domain

import "strconv"

// FormatBRL renders integer cents as a pt-BR currency string, e.g.
// 1234567 -> "R$ 12.345,67". All arithmetic stays on integers so rendering
// is deterministic byte for byte.
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	reais := cents / 100
	centavos := cents % 100

	digits := strconv.FormatInt(reais, 10)
	grouped := make([]byte, 0, len(digits)+len(digits)/3)
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	frac := strconv.FormatInt(centavos, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}

	return sign + "R$ " + string(grouped) + "," + frac
}
