package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validate vérifie la config avant un rendu.
// Retourne warnings (non-fataux) et une erreur si c'est critique.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	if c.Intermission < 0 {
		return warnings, fmt.Errorf("durée d'entracte invalide : %d (secondes, >= 0 attendu)", c.Intermission)
	}

	p := strings.TrimSpace(c.LogFile)
	if p == "" {
		return warnings, fmt.Errorf("aucun fichier de log configuré (log_file ou %s)", EnvLogFile)
	}
	// une URL sera vérifiée au téléchargement
	if !IsURL(p) {
		if info, serr := os.Stat(p); serr != nil {
			if os.IsNotExist(serr) {
				return warnings, fmt.Errorf("fichier de log introuvable : %s", p)
			}
			return warnings, fmt.Errorf("erreur lors du test du fichier %s : %w", p, serr)
		} else if info.IsDir() {
			return warnings, fmt.Errorf("le chemin du log est un répertoire : %s", p)
		}
	}

	if c.FormatsDir != "" {
		table := filepath.Join(c.FormatsDir, c.LogFormat+".yaml")
		if _, serr := os.Stat(table); serr != nil {
			warnings = append(warnings, fmt.Sprintf("table de règles %s absente : utilisation de la table embarquée", table))
		}
	}

	if c.Identities.Translucent == "" {
		warnings = append(warnings, "aucun pseudo translucide configuré")
	}

	if c.SaveToFile {
		if st, serr := os.Stat(c.OutputDir); serr == nil && !st.IsDir() {
			return warnings, fmt.Errorf("le dossier de sortie n'est pas un répertoire : %s", c.OutputDir)
		}
	}

	return warnings, nil
}
