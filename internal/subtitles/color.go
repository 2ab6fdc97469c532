package subtitles

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// préfixes de mode IRC et décorations retirés avant le hash
const nickTrimChars = "+@~_<>-* \t"

// ColorOf retourne une couleur RGB sur 6 chiffres hexadécimaux, stable pour un pseudo.
// Pas de garantie d'unicité : deux pseudos peuvent partager une couleur.
func ColorOf(nickname string) string {
	sum := md5.Sum([]byte(strings.Trim(nickname, nickTrimChars)))
	return hex.EncodeToString(sum[:])[:6]
}

// BGR inverse l'ordre des octets d'une couleur RGB (format attendu par l'ASS).
func BGR(rgb string) string {
	if len(rgb) != 6 {
		return rgb
	}
	return rgb[4:6] + rgb[2:4] + rgb[0:2]
}
