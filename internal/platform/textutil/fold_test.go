package textutil

import "testing"

func TestFold(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "PIX", "pix"},
		{"trims", "  pix \t", "pix"},
		{"strips diacritics", "Maracujá", "maracuja"},
		{"collapses whitespace", "Vulcão   Leite\tNinho", "vulcao leite ninho"},
		{"card spelling", "Cartão de Crédito", "cartao de credito"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fold(tc.input); got != tc.want {
				t.Fatalf("Fold(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestFoldIdempotent(t *testing.T) {
	inputs := []string{"Vulcão Metade Ninho + Chocolate", "MASSA  BRANCA", "prestígio"}
	for _, input := range inputs {
		once := Fold(input)
		if twice := Fold(once); twice != once {
			t.Fatalf("Fold not idempotent for %q: %q != %q", input, twice, once)
		}
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"keeps accents", "Av. Miguel Hatzinakis, 2384", 200, "Av. Miguel Hatzinakis, 2384"},
		{"strips markup", "<script>alert(1)</script>Maria", 50, "Maria"},
		{"drops control runes", "Jo\x00ão​ Silva", 50, "João Silva"},
		{"collapses whitespace", "  Rua   das   Flores ", 200, "Rua das Flores"},
		{"tab is a control rune, deleted before collapse", "Rua das\tFlores", 200, "Rua dasFlores"},
		{"clips to limit", "abcdefghij", 4, "abcd"},
		{"keeps ampersand", "Doces & Cia", 50, "Doces & Cia"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.input, tc.limit); got != tc.want {
				t.Fatalf("Sanitize(%q, %d) = %q, want %q", tc.input, tc.limit, got, tc.want)
			}
		})
	}
}
