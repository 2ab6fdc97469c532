package viewing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/patrickprogramme/drivein/pkg/model"
)

// startRe reconnaît le décompte de lancement "10 SECONDS UNTIL TITRE [1979] BY RÉALISATEUR".
// Les décomptes de reprise/entracte sont écartés par startNotice (pas de look-ahead en RE2).
var startRe = regexp.MustCompile(`10 SECONDS UNTIL (?P<title>.+?)(?: \[(?P<year>\d+)\] BY (?P<director>.+))?$`)

var notStartPrefixes = []string{"RESUMATION", "INTERMISSION"}

// startNotice retourne le titre normalisé d'un décompte de lancement, si ev en est un.
func startNotice(ev model.Event, ids model.Identities) (string, bool) {
	if ev.Role != model.RoleNotice || ev.Nickname != ids.Announcer {
		return "", false
	}
	m := startRe.FindStringSubmatch(ev.Words)
	if m == nil {
		return "", false
	}
	title := m[startRe.SubexpIndex("title")]
	for _, p := range notStartPrefixes {
		if strings.HasPrefix(title, p) {
			return "", false
		}
	}
	return model.ViewingKey(title, m[startRe.SubexpIndex("year")]), true
}

// Slice retrouve le décompte de lancement de v et retourne les événements de la séance :
// tout ce qui suit le décompte, jusqu'au premier "split" (rotation du log) ou au
// décompte du film suivant.
//
// Un second décompte pour le même titre est un redémarrage : la collecte est annulée
// et ErrNoLines est retourné. Un décompte immédiatement suivi d'un split est écarté
// et la recherche continue.
func Slice(events []model.Event, v model.Viewing, ids model.Identities) (model.Event, []model.Event, error) {
	key := v.Key()

	var (
		start      model.Event
		collecting bool
		lines      []model.Event
	)

scan:
	for _, ev := range events {
		noticeKey, isStart := startNotice(ev, ids)

		if !collecting {
			if isStart && noticeKey == key {
				start = ev
				collecting = true
				lines = nil
			}
			continue
		}

		switch {
		case ev.Role == model.RoleSplit:
			if len(lines) > 0 {
				break scan
			}
			collecting = false
		case isStart && noticeKey == key:
			lines = nil
			break scan
		case isStart:
			break scan
		default:
			lines = append(lines, ev)
		}
	}

	if len(lines) == 0 {
		return model.Event{}, nil, fmt.Errorf("Could not find lines for %s: %w", v.Label(), ErrNoLines)
	}
	return start, lines, nil
}
