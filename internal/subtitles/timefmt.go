package subtitles

import (
	"fmt"
	"math"
	"strconv"
)

// splitClock découpe un nombre de secondes en heures/minutes/secondes avec une
// division euclidienne : les temps négatifs restent cohérents (-3 -> -1:59:57).
func splitClock(sec float64) (h, m int, s float64) {
	h = int(math.Floor(sec / 3600))
	m = int(math.Floor(floorMod(sec, 3600) / 60))
	s = floorMod(sec, 60)
	return h, m, s
}

func floorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// fraction retourne les `digits` derniers chiffres de s arrondi à `digits` décimales.
func fraction(s float64, digits int) string {
	str := strconv.FormatFloat(s, 'f', digits, 64)
	return str[len(str)-digits:]
}

// SRTTime formate un temps au format SubRip : HH:MM:SS,mmm
func SRTTime(sec float64) string {
	h, m, s := splitClock(sec)
	return fmt.Sprintf("%02d:%02d:%02d,%s", h, m, int(math.Floor(s)), fraction(s, 3))
}

// ASSTime formate un temps au format ASS : H:MM:SS.cc
func ASSTime(sec float64) string {
	h, m, s := splitClock(sec)
	return fmt.Sprintf("%d:%02d:%02d.%s", h, m, int(math.Floor(s)), fraction(s, 2))
}
