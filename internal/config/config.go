package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/patrickprogramme/drivein/internal/assets"
	"github.com/patrickprogramme/drivein/internal/fsutil"
	"github.com/patrickprogramme/drivein/pkg/model"
	"gopkg.in/yaml.v3"
)

const CurrentConfigVersion = 1

const (
	DefaultConfigFile   = "drivein.yaml"
	DefaultLogFormat    = "hexchat"
	DefaultChannel      = "#drive-in"
	DefaultIntermission = 600
)

// variables d'environnement qui surchargent le fichier
const (
	EnvLogFile   = "DRIVEIN_LOG_FILE"
	EnvLogFormat = "DRIVEIN_LOG_FORMAT"
	EnvArchive   = "DRIVEIN_ARCHIVE"
)

// struct pour les paramètres de configuration
type Config struct {
	// Source du log
	LogFile    string `yaml:"log_file"`
	LogFormat  string `yaml:"log_format"`
	FormatsDir string `yaml:"formats_dir"`

	// Timeline
	Intermission int    `yaml:"intermission"`
	Channel      string `yaml:"channel"`

	// Sous-titres simples
	SRTPositioning bool `yaml:"srt_positioning"`

	// Sortie
	OutputDir       string `yaml:"output_dir"`
	SaveToFile      bool   `yaml:"save_to_file"`
	CopyToClipboard bool   `yaml:"copy_to_clipboard"`

	// Archive / métriques
	ArchivePath string `yaml:"archive_path"`
	MetricsFile string `yaml:"metrics_file"`

	// Pseudos réservés
	Identities model.Identities `yaml:"identities"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// Configuration par défaut (fallback si l'asset embarqué est manquant)
func defaultConfig() *Config {
	c := &Config{}

	// Source du log
	c.LogFile = "drive-in.log"
	c.LogFormat = DefaultLogFormat
	c.FormatsDir = ""

	// Timeline
	c.Intermission = DefaultIntermission
	c.Channel = DefaultChannel

	c.SRTPositioning = true

	// Sortie
	c.OutputDir = "."
	c.SaveToFile = false
	c.CopyToClipboard = false

	c.ArchivePath = ""
	c.MetricsFile = ""

	c.Identities = model.DefaultIdentities()

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default retourne la configuration par défaut, sans fichier.
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load lit la config; si le fichier n'existe pas, on copie l'exemple embarqué depuis internal/assets
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	// si le fichier n'existe pas -> essayer de créer à partir de l'asset embarqué
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfigFromEmbedded(path); err != nil {
			return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
		}
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// On déserialise dans cfg initialisé : les champs absents conservent les valeurs par défaut.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	cfg.normalizeConfig()

	// gestion de version : si le fichier est plus ancien -> orchestrer la mise à jour
	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
		cfg.normalizeConfig()
	}

	return cfg, nil
}

// Path retourne le chemin du fichier d'où la config a été lue.
func (c *Config) Path() string {
	return c.configFilePath
}

// ApplyEnv applique les surcharges DRIVEIN_* (déjà chargées depuis .env par godotenv).
// lookup vaut os.LookupEnv hors tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if c == nil || lookup == nil {
		return
	}
	if v, ok := lookup(EnvLogFile); ok && strings.TrimSpace(v) != "" {
		c.LogFile = v
	}
	if v, ok := lookup(EnvLogFormat); ok && strings.TrimSpace(v) != "" {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvArchive); ok {
		c.ArchivePath = v
	}
	c.normalizeConfig()
}

func createDefaultConfigFromEmbedded(dstPath string) error {
	b, err := assets.Embedded.ReadFile(assets.DefaultConfigAsset)
	if err != nil {
		return fmt.Errorf("lecture du modèle de configuration embarqué impossible : %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("échec mkdir pour la configuration %s : %w", filepath.Dir(dstPath), err)
	}

	// écrire atomiquement sur disque (évite les fichiers partiels)
	if err := fsutil.WriteFileAtomic(dstPath, b, 0o644); err != nil {
		return fmt.Errorf("échec d'écriture du fichier de configuration %s : %w", dstPath, err)
	}

	// stdout est réservé au document : info sur stderr
	fmt.Fprintf(os.Stderr, "info : fichier de configuration par défaut créé : %s\n", dstPath)
	return nil
}

func (c *Config) normalizeConfig() {
	// Nettoyage des chemins (une URL garde ses "//")
	c.LogFile = strings.TrimSpace(c.LogFile)
	if c.LogFile != "" && !IsURL(c.LogFile) {
		c.LogFile = filepath.Clean(c.LogFile)
	}
	c.OutputDir = strings.TrimSpace(c.OutputDir)
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	c.OutputDir = filepath.Clean(c.OutputDir)
	if c.FormatsDir = strings.TrimSpace(c.FormatsDir); c.FormatsDir != "" {
		c.FormatsDir = filepath.Clean(c.FormatsDir)
	}
	c.ArchivePath = strings.TrimSpace(c.ArchivePath)
	c.MetricsFile = strings.TrimSpace(c.MetricsFile)

	c.LogFormat = strings.TrimSpace(strings.ToLower(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}

	c.Channel = strings.TrimSpace(c.Channel)
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}

	// pseudos réservés : champ vide -> valeur par défaut
	def := model.DefaultIdentities()
	id := &c.Identities
	id.Announcer = orDefault(id.Announcer, def.Announcer)
	id.ConcessionBot = orDefault(id.ConcessionBot, def.ConcessionBot)
	id.Registration = orDefault(id.Registration, def.Registration)
	id.Translucent = strings.TrimSpace(id.Translucent)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// IsURL indique si la source du log doit être téléchargée.
func IsURL(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
