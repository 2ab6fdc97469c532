package subtitles

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/patrickprogramme/drivein/internal/fsutil"
	"github.com/patrickprogramme/drivein/pkg/model"
)

// Document est un fichier de sous-titres rendu pour une séance.
type Document struct {
	Viewing model.Viewing
	Format  model.Format
	Body    string
	Lines   int                // lignes de dialogue
	Ratings []model.QuoteEntry // notes de la séance, dans l'ordre de première note
}

// NewDocument enchaîne Build et Render.
func NewDocument(events []model.Event, v model.Viewing, start model.Event, opts RenderOptions) (Document, error) {
	tl := Build(events, v, start, opts)
	body, err := Render(tl, v, opts)
	if err != nil {
		return Document{}, err
	}
	format := opts.Format
	if format == "" {
		format = model.FormatAdvanced
	}
	return Document{
		Viewing: v,
		Format:  format,
		Body:    body,
		Lines:   len(tl.Entries),
		Ratings: tl.Quotes,
	}, nil
}

// Filename compose le nom du fichier à partir du film : "Alien (1979).ass"
func (d Document) Filename() string {
	base := fsutil.SanitizeFilename(strings.TrimSpace(d.Viewing.Label()))
	return base + d.Format.Extension()
}

// SaveAs écrit le document dans dir (écriture atomique) et retourne le chemin final.
// Sans overwrite, un fichier existant n'est pas remplacé : suffixe _1, _2, ...
func (d Document) SaveAs(dir string, overwrite bool) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, d.Filename())
	if !overwrite {
		base := fsutil.SanitizeFilename(strings.TrimSpace(d.Viewing.Label()))
		path = fsutil.UniquePath(dir, base, d.Format.Extension())
	}
	if err := fsutil.WriteFileAtomic(path, []byte(d.Body+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("échec écriture fichier %s : %w", path, err)
	}
	return path, nil
}
