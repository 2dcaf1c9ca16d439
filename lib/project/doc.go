// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package project defines i3minator project templates and the on-disk
// store that holds them.
//
// A project is a YAML file in the projects directory, one per project,
// named <name>.yml. It declares an ordered list of i3 workspaces; each
// workspace optionally references an i3 layout file (as written by
// i3-save-tree or "i3minator save") and lists the windows that belong
// on it, each with the command that launches it and the criteria that
// recognise it:
//
//	name: webdev
//	root: ~/src/shop
//	workspaces:
//	  - name: "1:code"
//	    layout: webdev-code.json
//	    windows:
//	      - name: editor
//	        command: emacs
//	        match: {class: "^Emacs$"}
//	      - name: server
//	        command: make serve
//	        terminal: true
//	        match: {title: "^make serve"}
//	  - name: "2:web"
//	    windows:
//	      - name: browser
//	        command: firefox --new-window http://localhost:8080
//	        match: {class: "^firefox$"}
//	        after: [server]
//
// [Parse] decodes strictly (unknown keys are errors), [Validate]
// reports every structural problem at once, and [Expand] resolves
// variables and relative paths. [Store] lists, loads, creates, copies
// and deletes template files.
package project
