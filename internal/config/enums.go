package config

import (
	"git.home.luguber.info/inful/docsite/internal/foundation/normalization"
)

// ExecutionMode controls when notebooks are executed during the build.
type ExecutionMode string

const (
	ExecutionOff    ExecutionMode = "off"
	ExecutionAuto   ExecutionMode = "auto"
	ExecutionForce  ExecutionMode = "force"
	ExecutionCache  ExecutionMode = "cache"
	ExecutionInline ExecutionMode = "inline"
)

var executionModeNormalizer = normalization.NewEnumNormalizer("notebook.execution_mode", map[string]ExecutionMode{
	"off":    ExecutionOff,
	"auto":   ExecutionAuto,
	"force":  ExecutionForce,
	"cache":  ExecutionCache,
	"inline": ExecutionInline,
}, ExecutionCache)

// StderrMode controls what happens to stderr output of executed cells.
type StderrMode string

const (
	StderrShow       StderrMode = "show"
	StderrRemove     StderrMode = "remove"
	StderrRemoveWarn StderrMode = "remove-warn"
	StderrWarn       StderrMode = "warn"
	StderrError      StderrMode = "error"
	StderrSevere     StderrMode = "severe"
)

var stderrModeNormalizer = normalization.NewEnumNormalizer("notebook.output_stderr", map[string]StderrMode{
	"show":        StderrShow,
	"remove":      StderrRemove,
	"remove-warn": StderrRemoveWarn,
	"warn":        StderrWarn,
	"error":       StderrError,
	"severe":      StderrSevere,
}, StderrRemove)

// NotebookInterface selects the launch UI for Binder.
type NotebookInterface string

const (
	InterfaceClassic    NotebookInterface = "classic"
	InterfaceJupyterLab NotebookInterface = "jupyterlab"
)

var notebookInterfaceNormalizer = normalization.NewEnumNormalizer("theme_options.launch_buttons.notebook_interface", map[string]NotebookInterface{
	"classic":    InterfaceClassic,
	"jupyterlab": InterfaceJupyterLab,
}, InterfaceJupyterLab)

// IconType is how the theme interprets IconLink.Icon.
type IconType string

const (
	IconURL         IconType = "url"
	IconFontAwesome IconType = "fontawesome"
	IconLocal       IconType = "local"
)

var iconTypeNormalizer = normalization.NewEnumNormalizer("icon link type", map[string]IconType{
	"url":         IconURL,
	"fontawesome": IconFontAwesome,
	"local":       IconLocal,
}, IconURL)

// MySTExtension names an optional MyST syntax extension.
type MySTExtension string

var mystExtensionNormalizer = normalization.NewEnumNormalizer("myst extension", map[string]MySTExtension{
	"amsmath":         "amsmath",
	"attrs_block":     "attrs_block",
	"attrs_inline":    "attrs_inline",
	"colon_fence":     "colon_fence",
	"deflist":         "deflist",
	"dollarmath":      "dollarmath",
	"fieldlist":       "fieldlist",
	"html_admonition": "html_admonition",
	"html_image":      "html_image",
	"linkify":         "linkify",
	"replacements":    "replacements",
	"smartquotes":     "smartquotes",
	"strikethrough":   "strikethrough",
	"substitution":    "substitution",
	"tasklist":        "tasklist",
}, "")
