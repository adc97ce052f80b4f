package internal

import (
	"path"
	"path/filepath"
	"strings"
)

// Category is the semantic class of a file, derived from its extension.
type Category int

const (
	CategoryOther Category = iota
	CategoryArchiveJar
	CategoryArchiveZipFamily
	CategorySource
	CategoryConfig
	CategoryScript
	CategoryMarkup
	CategoryText
)

// AllCategories lists every category in report order.
var AllCategories = []Category{
	CategoryArchiveJar, CategoryArchiveZipFamily, CategorySource, CategoryConfig,
	CategoryScript, CategoryMarkup, CategoryText, CategoryOther,
}

func (c Category) String() string {
	switch c {
	case CategoryArchiveJar:
		return "archive-jar"
	case CategoryArchiveZipFamily:
		return "archive-zip-family"
	case CategorySource:
		return "source"
	case CategoryConfig:
		return "config"
	case CategoryScript:
		return "script"
	case CategoryMarkup:
		return "markup"
	case CategoryText:
		return "text"
	default:
		return "other"
	}
}

// IsArchive reports whether files of this category are opened as containers.
func (c Category) IsArchive() bool {
	return c == CategoryArchiveJar || c == CategoryArchiveZipFamily
}

// by lowercased extension without the dot. O(1) map lookup
var categoryByExt = map[string]Category{
	"jar": CategoryArchiveJar,

	"zip": CategoryArchiveZipFamily, "war": CategoryArchiveZipFamily, "ear": CategoryArchiveZipFamily,

	"java": CategorySource, "kt": CategorySource, "kts": CategorySource, "scala": CategorySource,
	"groovy": CategorySource, "go": CategorySource, "c": CategorySource, "cc": CategorySource,
	"cpp": CategorySource, "h": CategorySource, "hpp": CategorySource, "cs": CategorySource,
	"js": CategorySource, "ts": CategorySource, "rs": CategorySource,

	"properties": CategoryConfig, "conf": CategoryConfig, "config": CategoryConfig,
	"cfg": CategoryConfig, "ini": CategoryConfig,

	"bat": CategoryScript, "cmd": CategoryScript, "sh": CategoryScript,
	"ps1": CategoryScript, "py": CategoryScript, "rb": CategoryScript,

	"xml": CategoryMarkup, "xsd": CategoryMarkup, "xsl": CategoryMarkup, "xslt": CategoryMarkup,

	"txt": CategoryText, "md": CategoryText, "log": CategoryText,
	"yaml": CategoryText, "yml": CategoryText, "json": CategoryText,
}

// Classify maps a path to exactly one category. Unknown and missing
// extensions are CategoryOther.
func Classify(p string) Category {
	return categoryByExt[extOf(filepath.Base(p))]
}

// extOf returns the lowercased extension of a base name, without the dot.
func extOf(base string) string {
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// EntryKind is the coarse type of an entry inside a container.
type EntryKind int

const (
	EntryOther EntryKind = iota
	EntryClass
	EntrySource
)

func (k EntryKind) String() string {
	switch k {
	case EntryClass:
		return "class"
	case EntrySource:
		return "source"
	default:
		return "other"
	}
}

const classSuffix = ".class"

// EntryKindOf classifies a container entry name (slash separated).
func EntryKindOf(name string) EntryKind {
	base := path.Base(name)
	if extOf(base) == "class" {
		return EntryClass
	}
	if categoryByExt[extOf(base)] == CategorySource {
		return EntrySource
	}
	return EntryOther
}

var tagByExt = map[string]string{
	"properties": "properties_config",
	"conf":       "configuration",
	"config":     "configuration",
	"cfg":        "configuration",
	"bat":        "batch_script",
	"cmd":        "batch_script",
	"sh":         "shell_script",
	"xml":        "xml_document",
	"xsd":        "xml_document",
	"xsl":        "xml_document",
	"xslt":       "xml_document",
	"json":       "json_data",
	"yaml":       "yaml_data",
	"yml":        "yaml_data",
	"ini":        "ini_config",
	"log":        "log_file",
	"txt":        "text_file",
	"md":         "markdown",
	"py":         "python_script",
	"rb":         "ruby_script",
	"ps1":        "powershell_script",
}

// MatchTag is the match category for a loose file.
func MatchTag(p string) string {
	ext := extOf(filepath.Base(p))
	if ext == "" {
		return "no_extension"
	}
	if tag, ok := tagByExt[ext]; ok {
		return tag
	}
	return ext
}

// EntryTag is the match category for text found inside a container entry.
func EntryTag(name string) string {
	base := path.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return "no_extension"
	}
	return base[i+1:]
}
