package assets

import "embed"

//go:embed drivein.example.yaml
//go:embed formats/*.yaml
//go:embed templates/*.tmpl
var Embedded embed.FS

// Nom de l'asset de config par défaut (chemin DANS Embedded)
const DefaultConfigAsset = "drivein.example.yaml"

// FormatsDir est le dossier (dans Embedded) des tables de règles de classification.
const FormatsDir = "formats"

// DefaultFormatPaths : tables de règles embarquées, exportées à côté du binaire.
var DefaultFormatPaths = []string{
	"formats/hexchat.yaml",
}

// DefaultTemplatePaths : liste ordonnée des templates "par défaut" embarqués.
// Ce sont des chemins relatifs DANS Embedded (ex: "templates/ass_header.tmpl").
var DefaultTemplatePaths = []string{
	"templates/ass_header.tmpl",
}
