// Package templates charge les gabarits text/template (en-tête ASS) depuis
// l'embed ou depuis le dossier "templates" à côté du binaire.
package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
	"text/template"

	"github.com/patrickprogramme/drivein/internal/assets"
)

// Renderer parse ses gabarits au premier rendu, une seule fois.
type Renderer struct {
	fsys  fs.FS
	files []string // chemins dans fsys

	once sync.Once
	set  *template.Template
	err  error
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
}

// Embedded retourne un Renderer sur les gabarits embarqués dans le binaire.
func Embedded() *Renderer {
	return &Renderer{fsys: assets.Embedded, files: assets.DefaultTemplatePaths}
}

// FromDir lit les gabarits par défaut (par nom de fichier) dans tplDir.
// Le parsing est immédiat : un gabarit absent ou invalide est signalé ici
// pour que l'appelant puisse revenir aux gabarits embarqués.
func FromDir(tplDir string) (*Renderer, error) {
	files := make([]string, 0, len(assets.DefaultTemplatePaths))
	for _, p := range assets.DefaultTemplatePaths {
		files = append(files, path.Base(p))
	}
	r := &Renderer{fsys: os.DirFS(tplDir), files: files}
	if err := r.parse(); err != nil {
		return nil, fmt.Errorf("templates de %s : %w", tplDir, err)
	}
	return r, nil
}

func (r *Renderer) parse() error {
	r.once.Do(func() {
		set := template.New("drivein").Funcs(funcs)
		for _, f := range r.files {
			if _, err := set.ParseFS(r.fsys, f); err != nil {
				r.err = fmt.Errorf("parse %q: %w", f, err)
				return
			}
		}
		r.set = set
	})
	return r.err
}

// Render exécute le gabarit nommé (nom de fichier, ex. "ass_header.tmpl").
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer is nil")
	}
	if err := r.parse(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.set.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
