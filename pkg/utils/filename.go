package utils

import "strings"

// SanitizeFilename normaliza o nome original de um arquivo enviado para uma chave
// segura de armazenamento: apenas [a-z0-9.-], sem "--" e sem "-" nas pontas.
// Qualquer caractere fora do conjunto permitido vira separador. Separadores
// colados a um "." são descartados ("foto (1).png" -> "foto-1.png").
//
// O resultado pode ser vazio; quem chama deve prefixar a chave.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	var last rune
	pendingSeparator := false

	for _, r := range strings.ToLower(name) {
		if !isFilenameRune(r) || r == '-' {
			pendingSeparator = true
			continue
		}

		if pendingSeparator && b.Len() > 0 && r != '.' && last != '.' {
			b.WriteByte('-')
		}
		pendingSeparator = false

		b.WriteRune(r)
		last = r
	}

	return b.String()
}

func isFilenameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-'
}
