package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrEmpty : rien à copier.
var ErrEmpty = errors.New("le texte à copier ne peut pas être vide")

// ReadAll lit le contenu texte du presse-papier.
func ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return text, nil
}

// WriteAll écrit le document dans le presse-papier.
func WriteAll(text string) error {
	if text == "" {
		return ErrEmpty
	}
	return clipboard.WriteAll(text)
}

// ClipboardEquals vérifie si le contenu actuel du presse-papier est strictement égal à text.
// En cas d'erreur de lecture, retourne false.
// Sert à confirmer une copie.
func ClipboardEquals(text string) bool {
	current, err := clipboard.ReadAll()
	if err != nil {
		return false
	}
	return current == text
}
