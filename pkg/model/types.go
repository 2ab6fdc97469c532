package model

import "fmt"

// Seconds est un alias explicite pour représenter une durée en secondes.
type Seconds int64

// TimestampHHMMSS formate Seconds en "HH:MM:SS" (toujours 2 chiffres par composant).
// Exemple : 65 -> "00:01:05", 3661 -> "01:01:01".
func (s Seconds) TimestampHHMMSS() string {
	total := int64(s)
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// constantes pour les formats de sous-titres produits
type Format string

const (
	FormatAdvanced Format = "advanced" // Advanced SubStation Alpha (.ass)
	FormatSimple   Format = "simple"   // SubRip (.srt)
)

// du format en chaine à la constante de type Format, return une erreur si format inconnu
func ParseFormat(s string) (Format, error) {
	switch s {
	case "advanced", "ass":
		return FormatAdvanced, nil
	case "simple", "srt":
		return FormatSimple, nil
	default:
		return "", fmt.Errorf("format demandé inconnu: %s", s)
	}
}

func (f Format) Extension() string {
	if f == FormatSimple {
		return ".srt"
	}
	return ".ass"
}

func (f Format) String() string {
	return string(f)
}
