package bootstrap

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/patrickprogramme/drivein/internal/fsutil"
)

// Status d'un fichier exporté par ExportDefaults.
const (
	StatusWritten     = "written"
	StatusUnchanged   = "unchanged"
	StatusSkipped     = "skipped (different)"
	StatusOverwritten = "overwritten"
)

// ExportDefaults copie récursivement tous les fichiers sous srcPrefix (dans fsys)
// vers destDir/srcPrefix en préservant la hiérarchie relative.
//   - force : si true, écrase les fichiers modifiés (avec backup)
//
// Retourne une map[embeddedPath]status et une erreur globale si Walk échoue.
func ExportDefaults(fsys fs.FS, srcPrefix, destDir string, force bool) (map[string]string, error) {
	status := make(map[string]string)

	err := fs.WalkDir(fsys, srcPrefix, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		destPath := filepath.Join(destDir, filepath.FromSlash(p))

		if d.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			status[p] = "error: read embedded failed"
			return err
		}

		// si le fichier existe déjà : comparer
		if existing, err := os.ReadFile(destPath); err == nil {
			if bytes.Equal(existing, data) {
				status[p] = StatusUnchanged
				return nil
			}
			if !force {
				status[p] = StatusSkipped
				return nil
			}
			backup := destPath + ".bak." + time.Now().Format("20060102T150405")
			if err := fsutil.WriteFileAtomic(backup, existing, 0o644); err != nil {
				status[p] = "error: backup failed"
				return fmt.Errorf("backup failed for %s: %w", destPath, err)
			}
			if err := fsutil.WriteFileAtomic(destPath, data, 0o644); err != nil {
				status[p] = "error: overwrite failed"
				return err
			}
			status[p] = StatusOverwritten
			return nil
		}

		if err := fsutil.WriteFileAtomic(destPath, data, 0o644); err != nil {
			status[p] = "error: write failed"
			return err
		}
		status[p] = StatusWritten
		return nil
	})

	return status, err
}

// EnsureFilesPresent s'assure que les fichiers listés (tables de règles, templates)
// existent dans dir : crée dir si besoin et copie depuis fsys les fichiers manquants.
// Ne remplace jamais un fichier existant : l'utilisateur peut les modifier.
//
// Les chemins de srcFiles doivent être utilisables avec fs.ReadFile(fsys, path) ;
// seul leur basename est conservé sur disque.
func EnsureFilesPresent(dir string, fsys fs.FS, srcFiles []string) error {
	if st, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("échec lors du test du répertoire %s : %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("échec de création du répertoire %s : %w", dir, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%s existe mais n'est pas un répertoire", dir)
	}

	for _, src := range srcFiles {
		dest := filepath.Join(dir, path.Base(src))
		if _, err := os.Stat(dest); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("échec lors du test du fichier %s : %w", dest, err)
		}
		data, rerr := fs.ReadFile(fsys, src)
		if rerr != nil {
			return fmt.Errorf("fichier embarqué introuvable %s : %w", src, rerr)
		}
		if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
			return fmt.Errorf("échec d'écriture du fichier %s : %w", dest, err)
		}
	}
	return nil
}
