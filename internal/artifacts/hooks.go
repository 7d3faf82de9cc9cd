package artifacts

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/kingrea/manualforge/internal/definition"
)

// hooksTemplate renders the hooks.py placed at the archive root. The Manual
// framework imports it at world-load time; the stubs below are the hook
// names it looks up, left as pass-throughs for the definition author to
// flesh out after unpacking.
var hooksTemplate = template.Must(template.New("hooks").Parse(`# Manual hooks for {{.Name}}.
{{- if .Description}}
# {{.Description}}
{{- end}}
# Generated by manualforge; edit to customize runtime behavior.


def before_create_items(item_pool, world, multiworld, player):
    return item_pool


def after_create_items(item_pool, world, multiworld, player):
    return item_pool


def before_set_rules(world, multiworld, player):
    pass


def after_set_rules(world, multiworld, player):
    pass
`))

func hooksArtifact(def definition.GameDefinition) (Artifact, error) {
	var buf bytes.Buffer
	if err := hooksTemplate.Execute(&buf, def); err != nil {
		return Artifact{}, fmt.Errorf("artifacts: render hooks: %w", err)
	}
	return Artifact{Kind: KindHooks, Path: archivePaths[KindHooks], Data: buf.Bytes()}, nil
}
