package subtitles

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/patrickprogramme/drivein/internal/ordered"
	"github.com/patrickprogramme/drivein/pkg/model"
)

const (
	DefaultIntermission = 600 // secondes

	countdown        = 10   // "10 SECONDS UNTIL ..." précède le début du film
	sessionEndGap    = 3600 // au-delà, la séance de notes est terminée
	minDuration      = 2.0
	maxDuration      = 15.0
	translucentAlpha = 80
)

// textes exacts du bot qui annoncent un entracte
var intermissionNotices = map[string]struct{}{
	"INTERMISSION! RESUME IN 10 MINUTES": {},
	"RESUME IN 10 MINUTES":               {},
}

// demandes de notes, comparées après Trim des points
var ratingsPrompts = map[string]struct{}{
	"!starthelper":               {},
	"RATINGS AND QUOTES, PLEASE": {},
	`PLEASE GIVE ME YOUR QUOTES AS FOLLOWS x/10 "quote"`:            {},
	`PLEASE GIVE ME YOUR SCORES AND QUOTES AS FOLLOW x/10 "quote"`:  {},
	`PLEASE GIVE ME YOUR SCORES AND QUOTES AS FOLLOWS x/10 "quote"`: {},
	`PLEASE GIVE ME YOUR SCORES AND QUTOES AS FOLLOWS x/10 "quote"`: {},
}

// ratingRe : `7/10 "quote"`, guillemets droits ou typographiques
var ratingRe = regexp.MustCompile(`^\s?(?P<rating>[^/]+)/10 ["“”](?P<quote>.+)["“”]`)

// Timeline est le résultat de la reconstruction d'une séance.
type Timeline struct {
	Entries       []model.DialogueEntry
	Quotes        []model.QuoteEntry // vide si la séance de notes n'a jamais commencé
	RatingsPrompt *model.Event
	LastEnd       float64 // fin de la dernière ligne, ou début de la séance de notes
	Stopped       bool    // true si la séance s'est terminée (plus d'une heure après la demande de notes)
}

// TimeBetween retourne le nombre de secondes d'horloge entre a et b,
// en passant minuit si l'heure de b est inférieure à celle de a.
func TimeBetween(a, b model.Event) int {
	hdiff := b.Hours - a.Hours
	if a.Hours > b.Hours {
		hdiff = 24 + b.Hours - a.Hours
	}
	return hdiff*3600 + (b.Minutes-a.Minutes)*60 + (b.Seconds - a.Seconds)
}

// Duration estime le temps de lecture d'une ligne : 0,14 s par caractère, entre 2 et 15 s.
func Duration(text string) float64 {
	d := float64(utf8.RuneCountInString(text)*14) / 100
	return math.Min(maxDuration, math.Max(minDuration, d))
}

// Build parcourt une seule fois les événements de la séance et construit les lignes
// de dialogue et les notes. Aucune décision ne dépend des événements suivants.
func Build(events []model.Event, v model.Viewing, start model.Event, opts RenderOptions) Timeline {
	ids := opts.identities()
	intermission := opts.Intermission

	var (
		tl      Timeline
		offset  int
		lastEnd float64
		prompt  *model.Event
	)
	quotes := ordered.New[string, model.QuoteEntry]()

	for i := range events {
		ev := events[i]

		if prompt != nil && TimeBetween(*prompt, ev) > sessionEndGap {
			tl.Stopped = true
			break
		}

		if ev.Role == model.RoleNotice && ev.Nickname == ids.ConcessionBot {
			if _, ok := intermissionNotices[ev.Words]; ok {
				offset += intermission
			}
		}

		startSec := float64(TimeBetween(start, ev) - countdown - offset)

		if prompt == nil && (ev.Nickname == ids.ConcessionBot || ev.Nickname == v.Honcho) {
			if _, ok := ratingsPrompts[strings.Trim(ev.Words, ".")]; ok {
				prompt = &events[i]
				lastEnd = startSec
			}
		}

		if prompt != nil {
			if m := ratingRe.FindStringSubmatch(ev.Words); m != nil {
				quotes.Put(ev.Nickname, model.QuoteEntry{
					Nickname: ev.Nickname,
					Rating:   m[ratingRe.SubexpIndex("rating")],
					Quote:    m[ratingRe.SubexpIndex("quote")],
				})
			}
			continue
		}

		if ev.Nickname == ids.ConcessionBot || ev.Nickname == ids.Registration || !ev.HasWords() {
			continue
		}

		if snaps(startSec, lastEnd) {
			startSec = lastEnd
		}
		lastEnd = startSec + Duration(ev.Words)

		entry := model.DialogueEntry{
			Start:    startSec,
			End:      lastEnd,
			Nickname: ev.Nickname,
			Text:     ev.Words,
		}
		if ids.Translucent != "" && ev.Nickname == ids.Translucent {
			alpha := translucentAlpha
			entry.Alpha = &alpha
		}
		tl.Entries = append(tl.Entries, entry)
	}

	tl.Quotes = quotes.Values()
	tl.RatingsPrompt = prompt
	tl.LastEnd = lastEnd
	return tl
}

// snaps indique si une ligne commence à floor(lastEnd) ou à la seconde suivante :
// elle est alors recalée exactement sur la fin de la précédente.
func snaps(start, lastEnd float64) bool {
	base := math.Floor(lastEnd)
	return start == base || start == base+1
}
