package model

import "fmt"

// Role est le type d'une ligne de log classifiée.
type Role string

const (
	RoleIgnore Role = "ignore"
	RoleSplit  Role = "split" // début d'un nouveau fichier de log (rotation)
	RoleSaid   Role = "said"
	RoleJoin   Role = "join"
	RolePart   Role = "part"
	RoleQuit   Role = "quit"
	RoleAction Role = "action"
	RoleNotice Role = "notice"
)

// Roles liste les rôles connus, dans l'ordre de déclaration.
var Roles = []Role{RoleIgnore, RoleSplit, RoleSaid, RoleJoin, RolePart, RoleQuit, RoleAction, RoleNotice}

// ParseRole valide un nom de rôle venant d'une table de règles.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("rôle inconnu: %q", s)
}

// Event représente une ligne de log classifiée.
// Nickname et Words sont vides quand la règle ne les capture pas ;
// les autres captures nommées (source, reason, action...) sont dans Fields.
type Event struct {
	Role     Role
	Hours    int
	Minutes  int
	Seconds  int
	HasTime  bool // false si la ligne n'a pas d'horodatage lisible
	Nickname string
	Words    string
	Fields   map[string]string
	Line     int // numéro de ligne (1-based) dans le log source
}

// SecondsOfDay retourne l'heure de l'événement en secondes depuis minuit.
func (e Event) SecondsOfDay() int {
	return e.Hours*3600 + e.Minutes*60 + e.Seconds
}

// HasWords indique si l'événement porte du texte libre.
func (e Event) HasWords() bool {
	return e.Words != ""
}

// Field retourne une capture nommée annexe, ou "" si absente.
func (e Event) Field(name string) string {
	if e.Fields == nil {
		return ""
	}
	return e.Fields[name]
}

func (e Event) String() string {
	return fmt.Sprintf("Event[%s %02d:%02d:%02d nick=%q words=%q line=%d]",
		e.Role, e.Hours, e.Minutes, e.Seconds, e.Nickname, e.Words, e.Line)
}
