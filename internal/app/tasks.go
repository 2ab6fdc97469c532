package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/patrickprogramme/drivein/internal/archive"
	"github.com/patrickprogramme/drivein/internal/assets"
	"github.com/patrickprogramme/drivein/internal/clipboard"
	"github.com/patrickprogramme/drivein/internal/config"
	"github.com/patrickprogramme/drivein/internal/fetch"
	"github.com/patrickprogramme/drivein/internal/fsutil"
	"github.com/patrickprogramme/drivein/internal/irclog"
	"github.com/patrickprogramme/drivein/internal/subtitles"
	"github.com/patrickprogramme/drivein/internal/telemetry"
	"github.com/patrickprogramme/drivein/pkg/model"
	"go.opentelemetry.io/otel/attribute"
)

// LoadRuleTable charge la table nommée depuis formatsDir, sinon depuis l'embed.
func LoadRuleTable(formatsDir, name string) (irclog.RuleTable, error) {
	if formatsDir != "" {
		table, err := irclog.LoadRuleTable(os.DirFS(formatsDir), ".", name)
		if err == nil {
			return table, nil
		}
		if !errors.Is(err, irclog.ErrUnknownTable) {
			return irclog.RuleTable{}, err
		}
	}
	return irclog.LoadRuleTable(assets.Embedded, assets.FormatsDir, name)
}

// openLog ouvre la source du log : fichier local ou URL http(s).
func (a *App) openLog(ctx context.Context) (io.ReadCloser, error) {
	src := a.cfg.LogFile
	if config.IsURL(src) {
		data, err := fetch.FetchBytesWithTimeout(ctx, src, defaultFetchTimeout, 0)
		if err != nil {
			return nil, fmt.Errorf("téléchargement du log %s : %w", src, err)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("ouverture du log %s : %w", src, err)
	}
	return f, nil
}

// loadEvents lit et classifie tout le log.
func (a *App) loadEvents(ctx context.Context) ([]model.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "drivein.parse",
		attribute.String("log_format", a.cfg.LogFormat))
	defer span.End()

	table, err := LoadRuleTable(a.cfg.FormatsDir, a.cfg.LogFormat)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("table de règles %q : %w", a.cfg.LogFormat, err)
	}

	rc, err := a.openLog(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer rc.Close()

	var (
		events []model.Event
		stats  irclog.Stats
	)
	telemetry.Init()
	telemetry.TimeFunc(telemetry.ParseDuration, func() {
		events, stats, err = irclog.Parse(rc, table)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("lecture du log : %w", err)
	}

	byRole := make(map[string]int, len(stats.ByRole))
	for role, n := range stats.ByRole {
		byRole[string(role)] = n
	}
	telemetry.ObserveParse(byRole, stats.Dropped)
	span.SetAttributes(attribute.Int("lines", stats.Lines), attribute.Int("events", len(events)))
	a.log.Debug("log parsed",
		slog.String("source", a.cfg.LogFile),
		slog.Int("lines", stats.Lines),
		slog.Int("events", len(events)),
		slog.Int("dropped", stats.Dropped))
	return events, nil
}

// deliver écrit le document là où la config et les flags le demandent :
// fichier (--out ou save_to_file), presse-papier, archive.
func (a *App) deliver(ctx context.Context, doc subtitles.Document) error {
	switch {
	case a.flags.Out != "":
		if err := fsutil.WriteFileAtomic(a.flags.Out, []byte(doc.Body+"\n"), filePerm); err != nil {
			return fmt.Errorf("écriture de %s : %w", a.flags.Out, err)
		}
		a.ui.PrintInfo(ctx, "Sous-titres écrits dans "+a.flags.Out)
	case a.cfg.SaveToFile:
		path, err := doc.SaveAs(a.cfg.OutputDir, false)
		if err != nil {
			return err
		}
		a.ui.PrintInfo(ctx, "Sous-titres écrits dans "+path)
	}

	if a.flags.Clipboard || a.cfg.CopyToClipboard {
		// le presse-papier est un confort : un échec ne fait pas échouer le rendu
		if err := a.copy(doc.Body); err != nil {
			a.ui.PrintWarning(ctx, fmt.Sprintf("copie dans le presse-papier impossible : %v", err))
		} else {
			a.ui.PrintInfo(ctx, "Sous-titres copiés dans le presse-papier.")
		}
	}

	if archivePath := a.archivePath(); archivePath != "" {
		if err := a.archive(ctx, archivePath, doc); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) archive(ctx context.Context, path string, doc subtitles.Document) error {
	ctx, span := telemetry.StartSpan(ctx, "drivein.archive")
	defer span.End()

	arc, err := archive.Open(path)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	defer arc.Close()

	id, err := arc.Record(ctx, archive.Run{
		LogSource: a.cfg.LogFile,
		Viewing:   doc.Viewing,
		Format:    doc.Format,
		Entries:   doc.Lines,
		Quotes:    doc.Ratings,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("archivage dans %s : %w", path, err)
	}
	a.log.Debug("run archived", slog.String("id", id), slog.String("path", path))
	return nil
}

func (a *App) archivePath() string {
	if a.flags.Archive != "" {
		return a.flags.Archive
	}
	return a.cfg.ArchivePath
}

// showLastRatings affiche les notes du dernier rendu archivé pour ce film.
func (a *App) showLastRatings(ctx context.Context, v model.Viewing) error {
	path := a.archivePath()
	if path == "" {
		return &Failure{Message: "No ratings archive configured (--archive or archive_path)"}
	}
	arc, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer arc.Close()

	run, err := arc.Latest(ctx, v)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			return &Failure{Message: "No archived ratings for " + v.Label(), Err: err}
		}
		return err
	}
	if n, err := arc.CountRuns(ctx); err == nil {
		a.ui.PrintInfo(ctx, fmt.Sprintf("%d rendu(s) archivé(s), dernier pour ce film le %s",
			n, run.At.Local().Format("2006-01-02 15:04")))
	}
	for _, q := range run.Quotes {
		a.ui.PrintDocument(ctx, fmt.Sprintf("%s %s/10 “%s”", q.Nickname, q.Rating, q.Quote))
	}
	if len(run.Quotes) == 0 {
		a.ui.PrintInfo(ctx, "Aucune note pour "+v.Label()+".")
	}
	return nil
}

func (a *App) exportMetrics(ctx context.Context) {
	path := a.cfg.MetricsFile
	if a.flags.MetricsFile != "" {
		path = a.flags.MetricsFile
	}
	if strings.TrimSpace(path) == "" {
		return
	}
	if err := telemetry.WriteTextfile(path); err != nil {
		a.ui.PrintWarning(ctx, err.Error())
	}
}

func copyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return err
	}
	if !clipboard.ClipboardEquals(text) {
		return errors.New("le contenu du presse-papier ne correspond pas au document")
	}
	return nil
}
