package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteFileAtomic écrit data dans destPath de manière atomique : écriture dans
// un fichier temporaire du même répertoire puis os.Rename(tmp -> dest).
// Crée les répertoires parents si nécessaire.
//
// destPath : chemin complet vers le fichier cible.
// data : contenu à écrire.
// perm : permissions POSIX (ex: 0o644).
func WriteFileAtomic(destPath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(destPath)
	if dir == "" {
		dir = "."
	}
	// repertoire parent existe ?
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	// creation fichier temp
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// cleanup si échec
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	// écriture
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	// best-effort : l'échec de Sync n'empêche pas le rename
	_ = tmp.Sync()

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// set permission (best-effort)
	_ = os.Chmod(tmpName, perm)

	// rename
	if err := os.Rename(tmpName, destPath); err != nil {
		return fmt.Errorf("rename tmp -> dest: %w", err)
	}
	return nil
}

// UniquePath retourne dir/base+ext, ou dir/base_1+ext, base_2... si le fichier existe déjà.
func UniquePath(dir, base, ext string) string {
	final := filepath.Join(dir, base+ext)
	if _, err := os.Stat(final); err != nil {
		return final
	}
	const maxAttempts = 1000
	for i := 1; i <= maxAttempts; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
	// fallback timestamp
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, time.Now().Unix(), ext))
}
