package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickprogramme/drivein/internal/config"
	"github.com/patrickprogramme/drivein/internal/subtitles"
	"github.com/patrickprogramme/drivein/internal/telemetry"
	"github.com/patrickprogramme/drivein/internal/ui"
	"github.com/patrickprogramme/drivein/internal/viewing"
	"github.com/patrickprogramme/drivein/pkg/model"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultFetchTimeout = 30 * time.Second
	filePerm            = 0o644
)

// CLIFlags contient les informations venant des flags de l'app
type CLIFlags struct {
	ConfigPath   string
	Viewing      int  // 1-based
	HasViewing   bool // false = lister les films
	SRT          bool
	NoSRTPos     bool
	Intermission *int // nil = valeur de la config
	Out          string
	Clipboard    bool
	Archive      string
	MetricsFile  string
	LastRatings  bool // affiche les notes archivées au lieu de rendre
	ExportAssets bool
	Quiet        bool
}

// Failure est un échec destiné à l'utilisateur : Error() est affiché tel quel.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }
func (f *Failure) Unwrap() error { return f.Err }

// App orchestre les différentes dépendances (UI, config, templates...)
type App struct {
	cfg       *config.Config
	ui        ui.Interface
	flags     *CLIFlags
	templates subtitles.HeaderRenderer
	log       *slog.Logger

	// copy écrit dans le presse-papier (remplacé dans les tests)
	copy func(string) error
}

// New construit l'application en initialisant les dépendances par défaut.
// templates peut être nil : les templates embarqués sont alors utilisés.
func New(cfg *config.Config, uiClient ui.Interface, flags *CLIFlags, templates subtitles.HeaderRenderer) *App {
	if flags == nil {
		flags = &CLIFlags{}
	}
	return &App{
		cfg:       cfg,
		ui:        uiClient,
		flags:     flags,
		templates: templates,
		log:       slog.Default(),
		copy:      copyToClipboard,
	}
}

// Run exécute le flux principal : log -> événements -> film -> séance -> document.
// Sans film sélectionné, liste les films annoncés.
func (a *App) Run(ctx context.Context) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "drivein.run",
		attribute.Int("viewing", a.flags.Viewing),
		attribute.Bool("srt", a.flags.SRT),
	)
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetSpanSuccess(span)
		}
		span.End()
		telemetry.RunResult(result)
		a.exportMetrics(ctx)
	}()

	events, err := a.loadEvents(ctx)
	if err != nil {
		return err
	}

	if !a.flags.HasViewing {
		a.listViewings(ctx, events)
		return nil
	}

	ids := a.cfg.Identities
	v, err := viewing.Select(events, a.flags.Viewing, ids)
	if err != nil {
		if errors.Is(err, viewing.ErrInvalidViewing) {
			return &Failure{Message: "Invalid viewing", Err: err}
		}
		return err
	}
	a.log.Debug("viewing selected", slog.String("label", v.Label()), slog.String("honcho", v.Honcho))

	if a.flags.LastRatings {
		return a.showLastRatings(ctx, v)
	}

	start, lines, err := viewing.Slice(events, v, ids)
	if err != nil {
		if errors.Is(err, viewing.ErrNoLines) {
			return &Failure{Message: "Could not find lines for " + v.Label(), Err: err}
		}
		return err
	}

	doc, err := a.render(ctx, lines, v, start)
	if err != nil {
		return err
	}
	a.ui.PrintDocument(ctx, doc.Body)

	return a.deliver(ctx, doc)
}

// RenderOptions assemble les options du rendu : flags > config.
func (a *App) RenderOptions() subtitles.RenderOptions {
	opts := subtitles.RenderOptions{
		Format:       model.FormatAdvanced,
		Positional:   a.cfg.SRTPositioning && !a.flags.NoSRTPos,
		Intermission: a.cfg.Intermission,
		Identities:   a.cfg.Identities,
		Channel:      a.cfg.Channel,
		Templates:    a.templates,
	}
	if a.flags.SRT {
		opts.Format = model.FormatSimple
	}
	if a.flags.Intermission != nil {
		opts.Intermission = *a.flags.Intermission
	}
	return opts
}

func (a *App) listViewings(ctx context.Context, events []model.Event) {
	idx := viewing.BuildIndex(events, a.cfg.Identities)
	telemetry.SetViewings(idx.Len())
	for i, v := range idx.Viewings() {
		a.ui.PrintDocument(ctx, fmt.Sprintf("%d %s", i+1, v.Label()))
	}
	if idx.Len() == 0 {
		a.ui.PrintInfo(ctx, "Aucun film annoncé dans ce log.")
	}
}

func (a *App) render(ctx context.Context, lines []model.Event, v model.Viewing, start model.Event) (subtitles.Document, error) {
	_, span := telemetry.StartSpan(ctx, "drivein.render", attribute.String("viewing", v.Label()))
	defer span.End()

	var (
		doc subtitles.Document
		err error
	)
	telemetry.Init()
	telemetry.TimeFunc(telemetry.RenderDuration, func() {
		doc, err = subtitles.NewDocument(lines, v, start, a.RenderOptions())
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return doc, fmt.Errorf("rendu de %s : %w", v.Label(), err)
	}
	telemetry.ObserveRender(doc.Lines, len(doc.Ratings))
	span.SetAttributes(attribute.Int("entries", doc.Lines), attribute.Int("quotes", len(doc.Ratings)))
	a.log.Debug("document rendered", slog.Int("entries", doc.Lines), slog.Int("quotes", len(doc.Ratings)))
	return doc, nil
}
