package fsutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameBytes laisse la place de l'extension et d'un suffixe _N sous la limite
// de 255 octets des systèmes de fichiers courants.
const maxNameBytes = 200

var (
	forbiddenRunes = regexp.MustCompile(`[<>"/\\|?*\x00-\x1F]`)
	spaceRuns      = regexp.MustCompile(`\s+`)
)

// SanitizeFilename fait d'un titre de film un nom de fichier portable :
// "Star Wars: Episode IV" -> "Star Wars- Episode IV".
// La coupe à maxNameBytes ne tombe jamais au milieu d'un caractère UTF-8.
func SanitizeFilename(title string) string {
	s := strings.ReplaceAll(title, ":", "-")
	s = forbiddenRunes.ReplaceAllString(s, " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = truncateUTF8(strings.TrimSpace(s), maxNameBytes)

	// ni points ni espaces en fin de nom (refusés par Windows)
	s = strings.TrimRight(s, ". ")
	if s == "" {
		return "untitled"
	}
	return upperFirst(s)
}

// truncateUTF8 coupe s à au plus n octets, en reculant jusqu'au début d'une rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
