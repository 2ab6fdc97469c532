package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/patrickprogramme/drivein/internal/app"
	"github.com/patrickprogramme/drivein/internal/assets"
	"github.com/patrickprogramme/drivein/internal/bootstrap"
	"github.com/patrickprogramme/drivein/internal/config"
	"github.com/patrickprogramme/drivein/internal/subtitles"
	"github.com/patrickprogramme/drivein/internal/telemetry"
	"github.com/patrickprogramme/drivein/internal/templates"
	"github.com/patrickprogramme/drivein/internal/ui"
)

var version = "dev"

func main() {
	// .env optionnel : DRIVEIN_*, LOG_LEVEL, OTEL_EXPORTER_OTLP_ENDPOINT
	_ = godotenv.Load()

	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	setupLogger()

	// déterminer exePath/binDir
	binDir := "."
	exePath, err := os.Executable()
	if err != nil {
		log.Printf("impossible de déterminer le chemin de l'executable: %v", err)
	} else {
		binDir = filepath.Dir(exePath)
		slog.Debug("starting", slog.String("exe", exePath), slog.String("version", version))
	}

	// emplacement config par défaut
	if flags.ConfigPath == config.DefaultConfigFile || flags.ConfigPath == "" {
		flags.ConfigPath = filepath.Join(binDir, config.DefaultConfigFile)
	}

	// s'assurer que le fichier config existe, si non on le crée
	if created, err := bootstrap.EnsureConfigPresent(flags.ConfigPath, assets.Embedded, assets.DefaultConfigAsset); err != nil {
		log.Printf("erreur: EnsureConfigPresent: %v", err)
	} else if created {
		log.Printf("info: configuration par défaut créée : %s", flags.ConfigPath)
	}

	// tables de règles et templates modifiables à côté du binaire
	formatsDir := filepath.Join(binDir, assets.FormatsDir)
	tplDir := filepath.Join(binDir, "templates")
	if flags.ExportAssets {
		exportAssets(binDir)
	}
	if err := bootstrap.EnsureFilesPresent(formatsDir, assets.Embedded, assets.DefaultFormatPaths); err != nil {
		log.Printf("warning: ensure formats present: %v", err)
	}
	if err := bootstrap.EnsureFilesPresent(tplDir, assets.Embedded, assets.DefaultTemplatePaths); err != nil {
		log.Printf("warning: ensure templates present: %v", err)
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if cfg.FormatsDir == "" {
		cfg.FormatsDir = formatsDir
	}

	tui := ui.NewTerminal(flags.Quiet)

	warnings, err := cfg.Validate()
	if err != nil {
		tui.PrintError(context.Background(), err.Error())
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Debug("config warning", slog.String("warning", w))
	}

	shutdown, err := telemetry.InitTracing("drivein", version)
	if err != nil {
		log.Printf("warning: tracing: %v", err)
		shutdown = func() {}
	}

	// templates du dossier à côté du binaire, sinon embarqués
	var header subtitles.HeaderRenderer
	if r, err := templates.FromDir(tplDir); err == nil {
		header = r
	} else {
		slog.Debug("using embedded templates", slog.Any("err", err))
	}

	// root context qui s'annule sur SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := app.New(cfg, tui, flags, header)
	runErr := a.Run(ctx)
	stop()
	shutdown()

	if runErr != nil {
		var f *app.Failure
		if errors.As(runErr, &f) {
			tui.PrintError(ctx, f.Error())
		} else {
			tui.PrintError(ctx, "erreur : "+runErr.Error())
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (*app.CLIFlags, error) {
	f := &app.CLIFlags{}
	fs := flag.NewFlagSet("drivein", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: drivein [flags] [viewing]")
		fmt.Fprintln(fs.Output(), "Sans viewing : liste les films annoncés dans le log.")
		fs.PrintDefaults()
	}
	fs.StringVar(&f.ConfigPath, "config", config.DefaultConfigFile, "path to config file")
	fs.BoolVar(&f.SRT, "srt", false, "sous-titres simples (.srt) au lieu de l'ASS")
	fs.BoolVar(&f.NoSRTPos, "no-srt-pos", false, "pas de balises de position dans le .srt")
	intermission := fs.Int("intermission", config.DefaultIntermission, "durée d'un entracte en secondes (défaut : config)")
	fs.StringVar(&f.Out, "out", "", "écrire le document dans ce fichier")
	fs.BoolVar(&f.Clipboard, "clipboard", false, "copier le document dans le presse-papier")
	fs.StringVar(&f.Archive, "archive", "", "archive SQLite des notes et citations")
	fs.StringVar(&f.MetricsFile, "metrics-file", "", "export des métriques Prometheus (textfile)")
	fs.BoolVar(&f.LastRatings, "last-ratings", false, "afficher les notes archivées du film au lieu de le rendre")
	fs.BoolVar(&f.ExportAssets, "export-assets", false, "réécrire formats/ et templates/ à côté du binaire (avec sauvegarde)")
	fs.BoolVar(&f.Quiet, "quiet", false, "n'afficher que le document et les erreurs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	// seul un --intermission explicite remplace la valeur de la config
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "intermission" {
			f.Intermission = intermission
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		// un viewing non numérique vaut 0 : l'app répond "Invalid viewing"
		n, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			n = 0
		}
		f.Viewing = n
		f.HasViewing = true
	default:
		return nil, fmt.Errorf("un seul viewing attendu, reçu : %s", strings.Join(fs.Args(), " "))
	}
	if f.Intermission != nil && *f.Intermission < 0 {
		return nil, fmt.Errorf("--intermission doit être positif ou nul : %d", *f.Intermission)
	}
	return f, nil
}

// setupLogger : diagnostics sur stderr (stdout est réservé au document), niveau via LOG_LEVEL.
func setupLogger() {
	lvl := slog.LevelWarn
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	case "warn", "":
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("unknown LOG_LEVEL, using warn", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
}

func exportAssets(binDir string) {
	for _, prefix := range []string{assets.FormatsDir, "templates"} {
		status, err := bootstrap.ExportDefaults(assets.Embedded, prefix, binDir, true)
		if err != nil {
			log.Printf("warning: export %s: %v", prefix, err)
		}
		for p, st := range status {
			log.Printf("info: %s : %s", p, st)
		}
	}
}
