package ui

import "context"

// Interface sépare le document (stdout) des messages destinés à l'utilisateur (stderr).
type Interface interface {
	// PrintDocument écrit le document rendu (ou la liste des films) sur la sortie standard.
	PrintDocument(ctx context.Context, s string)

	PrintInfo(ctx context.Context, s string)
	PrintWarning(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)
}
