package bootstrap

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/patrickprogramme/drivein/internal/fsutil"
)

// EnsureConfigPresent copie un fichier embarqué (assetPath dans fsys) vers dstPath
// si dstPath n'existe pas encore.
// - dstPath : chemin complet sur disque (ex: binDir/drivein.yaml)
// - assetPath : chemin dans fsys vers l'asset (ex: "drivein.example.yaml")
// Idempotent, ne remplace jamais un fichier existant. Retourne true si le fichier a été créé.
func EnsureConfigPresent(dstPath string, fsys fs.FS, assetPath string) (bool, error) {
	parent := filepath.Dir(dstPath)
	if st, err := os.Stat(parent); err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("échec test parent %s: %w", parent, err)
		}
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return false, fmt.Errorf("échec création répertoire parent %s: %w", parent, err)
		}
	} else if !st.IsDir() {
		return false, fmt.Errorf("le parent existe mais n'est pas un répertoire : %s", parent)
	}

	// si le fichier existe déjà -> ne rien faire
	if _, err := os.Stat(dstPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("échec stat fichier cible %s: %w", dstPath, err)
	}

	data, err := fs.ReadFile(fsys, filepath.ToSlash(assetPath))
	if err != nil {
		return false, fmt.Errorf("lecture asset embarqué %s: %w", assetPath, err)
	}

	if err := fsutil.WriteFileAtomic(dstPath, data, 0o644); err != nil {
		return false, fmt.Errorf("échec écriture config %s: %w", dstPath, err)
	}
	return true, nil
}
