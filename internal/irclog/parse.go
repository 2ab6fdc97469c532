package irclog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/patrickprogramme/drivein/pkg/model"
)

// taille max d'une ligne de log (les longues lignes de topic dépassent les 64k de bufio)
const maxLineBytes = 1 << 20

// Stats compte les lignes classifiées par rôle et les lignes ignorées.
type Stats struct {
	Lines   int
	Dropped int
	ByRole  map[model.Role]int
}

// Classify applique la table à une ligne. Retourne false si la ligne est ignorée
// (règle "ignore") ou ne correspond à aucune règle : ce n'est pas une erreur.
func Classify(line string, table RuleTable) (model.Event, bool) {
	line = strings.TrimRight(line, "\r\n")

	var ev model.Event
	if table.time != nil {
		if m := table.time.FindStringSubmatch(line); m != nil {
			ev.HasTime = true
			for i, name := range table.time.SubexpNames() {
				switch name {
				case "hours":
					ev.Hours = atoiOrZero(m[i])
				case "minutes":
					ev.Minutes = atoiOrZero(m[i])
				case "seconds":
					ev.Seconds = atoiOrZero(m[i])
				}
			}
		}
	}

	for _, rule := range table.Rules {
		m := rule.Pattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		if rule.Role == model.RoleIgnore {
			return model.Event{}, false
		}
		ev.Role = rule.Role
		for i, name := range rule.Pattern.SubexpNames() {
			// groupe optionnel non capturé
			if name == "" || m[2*i] < 0 {
				continue
			}
			value := line[m[2*i]:m[2*i+1]]
			switch name {
			case "nickname":
				ev.Nickname = value
			case "words":
				ev.Words = value
			default:
				if ev.Fields == nil {
					ev.Fields = make(map[string]string)
				}
				ev.Fields[name] = value
			}
		}
		return ev, true
	}
	return model.Event{}, false
}

// Parse lit toutes les lignes de r et retourne les événements classifiés, dans l'ordre.
// Seules les erreurs de lecture sont remontées.
func Parse(r io.Reader, table RuleTable) ([]model.Event, Stats, error) {
	stats := Stats{ByRole: make(map[model.Role]int)}
	var events []model.Event

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		stats.Lines++
		ev, ok := Classify(sc.Text(), table)
		if !ok {
			stats.Dropped++
			continue
		}
		ev.Line = stats.Lines
		stats.ByRole[ev.Role]++
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return events, stats, fmt.Errorf("lecture du log ligne %d : %w", stats.Lines+1, err)
	}
	return events, stats, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
