package config

import (
	"fmt"
	"os"
	"time"

	"github.com/patrickprogramme/drivein/internal/fsutil"
	"github.com/patrickprogramme/drivein/pkg/model"
	"gopkg.in/yaml.v3"
)

// orchestrateConfigUpgrade : sauvegarde, migration, écriture
func orchestrateConfigUpgrade(cfg *Config, fromVersion int) error {
	if cfg == nil {
		return fmt.Errorf("config nil lors de la migration")
	}
	if cfg.configFilePath == "" {
		return fmt.Errorf("chemin du fichier de configuration inconnu : impossible de faire une sauvegarde")
	}

	// 1) backup
	backupPath, err := backupConfig(cfg.configFilePath)
	if err != nil {
		return fmt.Errorf("échec de la sauvegarde du fichier de configuration avant migration : %w", err)
	}

	// 2) appliquer migrations successives
	if err := migrateConfig(cfg, fromVersion); err != nil {
		return fmt.Errorf("échec lors de la migration de la configuration (depuis %d) : %w", fromVersion, err)
	}
	cfg.normalizeConfig()

	cfg.ConfigVersion = CurrentConfigVersion

	// 3) sérialiser la config en YAML
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("échec d'encodage YAML de la configuration migrée : %w", err)
	}

	// 4) écrire atomiquement le YAML
	if err := fsutil.WriteFileAtomic(cfg.configFilePath, b, 0o644); err != nil {
		// tentative de restauration depuis la sauvegarde
		_ = fsutil.WriteFileAtomic(cfg.configFilePath, mustReadFileOrEmpty(backupPath), 0o644)
		return fmt.Errorf("échec d'écriture du fichier de configuration migré %s : %w", cfg.configFilePath, err)
	}

	fmt.Fprintf(os.Stderr, "info : configuration mise à jour de la version %d à %d (sauvegarde : %s)\n", fromVersion, CurrentConfigVersion, backupPath)
	return nil
}

// mustReadFileOrEmpty lit le contenu d'un fichier, et retourne un slice vide en cas d'erreur
func mustReadFileOrEmpty(path string) []byte {
	if path == "" {
		return []byte{}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return []byte{}
	}
	return b
}

// backupConfig : sauvegarde le fichier de config et retourne le chemin de la sauvegarde
func backupConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("lecture du fichier pour sauvegarde impossible : %w", err)
	}
	backup := path + ".bak." + time.Now().Format("20060102T150405")
	if err := fsutil.WriteFileAtomic(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("écriture de la sauvegarde %s impossible : %w", backup, err)
	}
	return backup, nil
}

// migrateConfig applique les transformations nécessaires entre versions.
func migrateConfig(cfg *Config, from int) error {
	if cfg == nil {
		return fmt.Errorf("pas de fichier config fourni")
	}
	for v := from; v < CurrentConfigVersion; v++ {
		switch v {
		case 0:
			// 0 -> 1 : pas d'identités dans les premiers fichiers
			if cfg.Identities == (model.Identities{}) {
				cfg.Identities = model.DefaultIdentities()
			}
		default:
		}
	}
	return nil
}
