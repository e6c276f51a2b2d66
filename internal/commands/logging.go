package commands

import (
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
)

// Group names the family of commands a handler belongs to.
type Group string

const (
	GroupDocuments Group = "documents"
	GroupRedirects Group = "redirects"
)

// CommandLogger returns the logger handlers of group write to, scoped under
// pagetree.commands.<group>.
func CommandLogger(provider interfaces.LoggerProvider, group Group) interfaces.Logger {
	if group == "" {
		group = GroupDocuments
	}
	logger := logging.ModuleLogger(provider, "pagetree.commands."+string(group))
	return logging.WithFields(logger, map[string]any{
		"component":     "command",
		"command_group": string(group),
	})
}
