// Package irclog classifie les lignes brutes d'un log IRC en événements typés,
// à partir d'une table de règles (expressions régulières nommées) chargée en YAML.
package irclog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/patrickprogramme/drivein/pkg/model"
	"gopkg.in/yaml.v3"
)

// TimeRule est le nom réservé de la règle qui extrait l'heure d'une ligne.
const TimeRule = "time"

var (
	ErrNoTimeRule   = errors.New("rule table has no time rule")
	ErrUnknownTable = errors.New("unknown rule table")
)

// Rule associe un rôle à une expression régulière.
type Rule struct {
	Name    string
	Role    model.Role // vide pour la règle "time"
	Pattern *regexp.Regexp
}

// RuleTable est un ensemble ordonné de règles ; l'ordre de déclaration compte.
type RuleTable struct {
	Name  string
	Rules []Rule
	time  *regexp.Regexp
}

// rawRuleTable est la forme YAML d'une table de règles.
type rawRuleTable struct {
	Name  string `yaml:"name"`
	Rules []struct {
		Name    string `yaml:"name"`
		Role    string `yaml:"role"`
		Pattern string `yaml:"pattern"`
	} `yaml:"rules"`
}

// ParseRuleTable décode et compile une table de règles YAML.
// Une regex invalide ou l'absence de règle "time" est une erreur de configuration.
func ParseRuleTable(data []byte) (RuleTable, error) {
	var raw rawRuleTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RuleTable{}, fmt.Errorf("analyse de la table de règles impossible : %w", err)
	}

	table := RuleTable{Name: strings.TrimSpace(raw.Name)}
	for i, r := range raw.Rules {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return RuleTable{}, fmt.Errorf("règle #%d sans nom dans la table %q", i, table.Name)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return RuleTable{}, fmt.Errorf("règle %q : regex invalide : %w", name, err)
		}
		if name == TimeRule {
			table.time = re
			continue
		}
		role, err := model.ParseRole(r.Role)
		if err != nil {
			return RuleTable{}, fmt.Errorf("règle %q : %w", name, err)
		}
		table.Rules = append(table.Rules, Rule{Name: name, Role: role, Pattern: re})
	}

	if table.time == nil {
		return RuleTable{}, fmt.Errorf("table %q : %w", table.Name, ErrNoTimeRule)
	}
	return table, nil
}

// LoadRuleTable lit <dir>/<name>.yaml depuis fsys (embed.FS ou os.DirFS).
func LoadRuleTable(fsys fs.FS, dir, name string) (RuleTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RuleTable{}, fmt.Errorf("%w: nom vide", ErrUnknownTable)
	}
	p := path.Join(dir, name+".yaml")
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RuleTable{}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
		}
		return RuleTable{}, fmt.Errorf("lecture de la table %s impossible : %w", p, err)
	}
	table, err := ParseRuleTable(data)
	if err != nil {
		return RuleTable{}, err
	}
	if table.Name == "" {
		table.Name = name
	}
	return table, nil
}
