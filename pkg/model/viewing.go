package model

import (
	"fmt"
	"strings"
)

// Viewing regroupe les informations d'une annonce de film (un "pick").
type Viewing struct {
	Day      string
	Title    string
	Year     string
	Director string
	Comment  string
	Date     string
	PTP      string // lien de référence
	Nickname string // la personne qui a choisi le film
	AbsTime  string
	RelTime  string
	Honcho   string // la personne qui anime la séance

	Announcement Event
}

// Label retourne "Titre (Année)" ou "Titre" si l'année est inconnue.
func (v Viewing) Label() string {
	if v.Year == "" {
		return v.Title
	}
	return fmt.Sprintf("%s (%s)", v.Title, v.Year)
}

// Key retourne le titre normalisé (majuscules + année) utilisé pour retrouver
// le décompte de lancement dans le log.
func (v Viewing) Key() string {
	return ViewingKey(v.Title, v.Year)
}

// ViewingKey normalise un couple titre/année.
func ViewingKey(title, year string) string {
	key := strings.ToUpper(title)
	if year != "" {
		key += " (" + year + ")"
	}
	return key
}

func (v Viewing) String() string {
	return fmt.Sprintf("Viewing[Title=%q, Year=%s, Picker=%s, Honcho=%s]", v.Title, v.Year, v.Nickname, v.Honcho)
}

// DialogueEntry est une ligne de sous-titre, en secondes depuis le début du film.
type DialogueEntry struct {
	Start    float64
	End      float64
	Nickname string
	Text     string
	Alpha    *int // opacité forcée (nil = pas d'override)
}

// QuoteEntry est la note et la citation d'une personne en fin de séance.
type QuoteEntry struct {
	Nickname string
	Rating   string
	Quote    string
}

// Identities regroupe les pseudos réservés (bots et cas particuliers).
type Identities struct {
	Announcer     string `yaml:"announcer"`
	ConcessionBot string `yaml:"concession_bot"`
	Registration  string `yaml:"registration"`
	Translucent   string `yaml:"translucent"`
}

// DefaultIdentities retourne les identités utilisées sur #drive-in.
func DefaultIdentities() Identities {
	return Identities{
		Announcer:     "Snackbot",
		ConcessionBot: "Snackbot",
		Registration:  "NickServ",
		Translucent:   "Hummingbird",
	}
}
