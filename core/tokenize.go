package core

// tokenize folds s to ASCII lowercase and splits on every byte that is
// not an ASCII letter or digit, dropping empty tokens. Punctuation such
// as apostrophes acts as a separator, so "enemy's" yields ["enemy", "s"].
func tokenize(s string) []string {
	var tokens []string
	var cur []byte

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			cur = append(cur, c+('a'-'A'))
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			cur = append(cur, c)
		default:
			flush()
		}
	}
	flush()

	return tokens
}
