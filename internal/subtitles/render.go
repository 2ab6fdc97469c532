package subtitles

import (
	"fmt"
	"strings"

	"github.com/patrickprogramme/drivein/internal/templates"
	"github.com/patrickprogramme/drivein/pkg/model"
)

const (
	headerTemplate = "ass_header.tmpl"
	DefaultChannel = "#drive-in"

	quoteSeconds = 5.0  // durée d'affichage de chaque note
	closingDelay = 5.0  // début de la ligne de clôture après la dernière note
	closingEnd   = 15.0 // fin de la ligne de clôture

	anchorTop    = `{\an8}`
	anchorMiddle = `{\an5}`
)

// HeaderRenderer produit l'en-tête du document ASS à partir d'un template nommé.
type HeaderRenderer interface {
	Render(tmplName string, data any) ([]byte, error)
}

// RenderOptions est passé explicitement à Build et Render.
type RenderOptions struct {
	Format       model.Format
	Positional   bool // balises {\an8}/{\an5} dans le format simple
	Intermission int  // secondes ajoutées à chaque entracte
	Identities   model.Identities
	Channel      string
	Templates    HeaderRenderer // nil = templates embarqués
}

// DefaultRenderOptions retourne les options de #drive-in (ASS, entracte de 10 minutes).
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Format:       model.FormatAdvanced,
		Positional:   true,
		Intermission: DefaultIntermission,
		Identities:   model.DefaultIdentities(),
		Channel:      DefaultChannel,
	}
}

func (o RenderOptions) identities() model.Identities {
	if o.Identities == (model.Identities{}) {
		return model.DefaultIdentities()
	}
	return o.Identities
}

func (o RenderOptions) channel() string {
	if o.Channel == "" {
		return DefaultChannel
	}
	return o.Channel
}

// headerData alimente le template d'en-tête ASS.
type headerData struct {
	Channel  string
	Title    string
	Year     string
	PTP      string
	Picker   string
	Honcho   string
	Director string
}

// Render sérialise la timeline dans le format demandé.
func Render(tl Timeline, v model.Viewing, opts RenderOptions) (string, error) {
	switch opts.Format {
	case model.FormatSimple:
		return renderSimple(tl, opts), nil
	case model.FormatAdvanced, "":
		return renderAdvanced(tl, v, opts)
	default:
		return "", fmt.Errorf("format de sortie inconnu : %q", opts.Format)
	}
}

func renderAdvanced(tl Timeline, v model.Viewing, opts RenderOptions) (string, error) {
	tpl := opts.Templates
	if tpl == nil {
		tpl = templates.Embedded()
	}
	header, err := tpl.Render(headerTemplate, headerData{
		Channel:  opts.channel(),
		Title:    v.Title,
		Year:     v.Year,
		PTP:      v.PTP,
		Picker:   v.Nickname,
		Honcho:   v.Honcho,
		Director: v.Director,
	})
	if err != nil {
		return "", fmt.Errorf("en-tête ASS : %w", err)
	}

	var b strings.Builder
	b.Write(header)
	for _, e := range tl.Entries {
		fmt.Fprintf(&b, `Dialogue: 0,%s,%s,#drive-in,,0,0,0,,{\4c&H%s&}<%s>{\rIRC} %s%s`,
			ASSTime(e.Start), ASSTime(e.End), BGR(ColorOf(e.Nickname)), e.Nickname, alphaTag(e.Alpha), e.Text)
		b.WriteByte('\n')
	}

	last := tl.LastEnd
	for _, q := range tl.Quotes {
		fmt.Fprintf(&b, `Dialogue: 0,%s,%s,#drive-in,,0,0,0,,{\4c&H%s&}<%s>{\rIRC}\N%s/10\N{\rQuotes}“{\i1}%s{\i0}”`,
			ASSTime(last), ASSTime(last+quoteSeconds), BGR(ColorOf(q.Nickname)), q.Nickname, q.Rating, q.Quote)
		b.WriteByte('\n')
		last += quoteSeconds
	}

	fmt.Fprintf(&b, `Dialogue: 0,%s,%s,#drive-in,,0,0,0,,{\i1}Join us in %s`,
		ASSTime(last+closingDelay), ASSTime(last+closingEnd), opts.channel())
	return strings.TrimSpace(b.String()), nil
}

func renderSimple(tl Timeline, opts RenderOptions) string {
	top, middle := anchorTop, anchorMiddle
	if !opts.Positional {
		top, middle = "", ""
	}

	var b strings.Builder
	n := 0
	for _, e := range tl.Entries {
		n++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s<font color=\"#%s\">%s</font>: %s\n\n",
			n, SRTTime(e.Start), SRTTime(e.End), top, ColorOf(e.Nickname), e.Nickname, e.Text)
	}

	last := tl.LastEnd
	for _, q := range tl.Quotes {
		n++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s<font color=\"#%s\">%s</font>\n%s/10\n“<i>%s</i> ”\n\n",
			n, SRTTime(last), SRTTime(last+quoteSeconds), middle, ColorOf(q.Nickname), q.Nickname, q.Rating, q.Quote)
		last += quoteSeconds
	}

	n++
	fmt.Fprintf(&b, "%d\n%s --> %s\n%s<i>Join us in %s</i>",
		n, SRTTime(last+closingDelay), SRTTime(last+closingEnd), top, opts.channel())
	return strings.TrimSpace(b.String())
}

// alphaTag traduit une opacité (0-100) en balise ASS {\alpha&HXX&}.
func alphaTag(alpha *int) string {
	if alpha == nil {
		return ""
	}
	return fmt.Sprintf(`{\alpha&H%02X&}`, 255**alpha/100)
}
