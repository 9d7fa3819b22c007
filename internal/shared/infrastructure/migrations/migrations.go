package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Run applies every embedded *.up.sql file for the connection's driver in
// name order. Statements are written to be idempotent, so Run is safe to
// call on every start.
func Run(ctx context.Context, conn database.Connection) error {
	dir := conn.Driver().String()
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations for %s: %w", dir, err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, file := range upFiles {
		body, err := files.ReadFile(dir + "/" + file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		for _, stmt := range splitStatements(string(body)) {
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", file, err)
			}
		}
	}
	return nil
}

// splitStatements splits a migration on semicolons that end a line and
// drops comment-only chunks.
func splitStatements(body string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			stmts = append(stmts, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
