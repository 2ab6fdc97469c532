// Package viewing retrouve les annonces de films dans les événements d'un log
// et délimite la portion du log correspondant à une séance.
package viewing

import (
	"errors"
	"regexp"

	"github.com/patrickprogramme/drivein/internal/ordered"
	"github.com/patrickprogramme/drivein/pkg/model"
)

var (
	ErrInvalidViewing = errors.New("Invalid viewing")
	ErrNoLines        = errors.New("no lines found")
)

// announceRe reconnaît l'annonce d'un film par le bot :
// "SATURDAY: Titre [1979] by Réalisateur // https://passthepopcorn.me/... // Picked by X //
// Viewing starts at ... according ... (2 hours until next viewing) // Run by Y"
var announceRe = regexp.MustCompile(`^(?P<day>[^:]*?MONDAY[^:]*|[^:]*?TUESDAY[^:]*|[^:]*?WEDNESDAY[^:]*|[^:]*?THURSDAY[^:]*|[^:]*?FRIDAY[^:]*|[^:]*?SATURDAY[^:]*|[^:]*?SUNDAY[^:]*): (?P<title>.+?)(?: \[(?P<year>\d+)\] (?:by (?P<director>.+?)|// (?P<comment>.+?) // (?P<date>.+?)))? // (?P<ptp>https://passthepopcorn\.me/.*?) // Picked by (?P<nickname>.+?) // Viewing starts at (?P<abstime>.+?) according.+?\((?P<reltime>[^)]+) until next viewing\)\s*// Run by (?P<honcho>.+)`)

// Index est l'index des films annoncés, par titre, dans l'ordre de première annonce.
// Une annonce répétée pour un même titre remplace les valeurs mais garde la position.
type Index struct {
	picks *ordered.Map[string, model.Viewing]
}

// ParseAnnouncement extrait un Viewing du texte d'une annonce.
func ParseAnnouncement(words string) (model.Viewing, bool) {
	m := announceRe.FindStringSubmatch(words)
	if m == nil {
		return model.Viewing{}, false
	}
	g := func(name string) string {
		return m[announceRe.SubexpIndex(name)]
	}
	return model.Viewing{
		Day:      g("day"),
		Title:    g("title"),
		Year:     g("year"),
		Director: g("director"),
		Comment:  g("comment"),
		Date:     g("date"),
		PTP:      g("ptp"),
		Nickname: g("nickname"),
		AbsTime:  g("abstime"),
		RelTime:  g("reltime"),
		Honcho:   g("honcho"),
	}, true
}

// BuildIndex parcourt tous les événements et indexe les annonces du bot.
func BuildIndex(events []model.Event, ids model.Identities) *Index {
	idx := &Index{picks: ordered.New[string, model.Viewing]()}
	for _, ev := range events {
		if ev.Role != model.RoleNotice || ev.Nickname != ids.Announcer || !ev.HasWords() {
			continue
		}
		v, ok := ParseAnnouncement(ev.Words)
		if !ok {
			continue
		}
		v.Announcement = ev
		idx.picks.Put(v.Title, v)
	}
	return idx
}

func (i *Index) Len() int {
	return i.picks.Len()
}

// Viewings retourne les films dans l'ordre de l'index.
func (i *Index) Viewings() []model.Viewing {
	return i.picks.Values()
}

// Select retourne le film n° ordinal (1-based).
func (i *Index) Select(ordinal int) (model.Viewing, bool) {
	if ordinal < 1 || ordinal > i.Len() {
		return model.Viewing{}, false
	}
	return i.picks.Values()[ordinal-1], true
}

// Select construit l'index et retourne le film n° ordinal, ou ErrInvalidViewing.
func Select(events []model.Event, ordinal int, ids model.Identities) (model.Viewing, error) {
	v, ok := BuildIndex(events, ids).Select(ordinal)
	if !ok {
		return model.Viewing{}, ErrInvalidViewing
	}
	return v, nil
}
