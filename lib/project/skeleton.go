// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"bytes"
	"text/template"
)

var skeletonTemplate = template.Must(template.New("skeleton").Parse(`# i3minator project: {{.Name}}
#
# Start it with:  i3minator start {{.Name}}
# Check it with:  i3minator validate {{.Name}}

description: ""

# Working directory for every window command.
root: ~/

# Exported to hooks and window commands.
# environment:
#   NODE_ENV: development

# Run through "i3-msg exec" before any workspace is touched.
# on_start:
#   - docker compose up -d
# on_stop:
#   - docker compose stop

workspaces:
  - name: "1:{{.Name}}"
    # Append an i3 layout file (see "i3minator save").
    # layout: {{.Name}}-1.json
    # Or set the container layout directly: splith, splitv, tabbed, stacked.
    split: splith
    windows:
      - name: shell
        command: $SHELL
        terminal: true
        # Regular expressions on i3 window properties. Windows that already
        # match are kept instead of launched again; without match, the
        # first new window after launch is taken.
        # match:
        #   class: "^URxvt$"
      # - name: editor
      #   command: emacs
      #   match: {class: "^Emacs$"}
      #   after: [shell]
      #   timeout: 20s
`))

// Skeleton returns the commented starter template "new" writes.
func Skeleton(name string) []byte {
	var buffer bytes.Buffer
	if err := skeletonTemplate.Execute(&buffer, struct{ Name string }{name}); err != nil {
		panic("project: skeleton template: " + err.Error())
	}
	return buffer.Bytes()
}
