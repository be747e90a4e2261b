package bundle

import (
	"path/filepath"
	"strings"
)

// languageByExt maps file extensions to display language names for the file
// index table.
var languageByExt = map[string]string{
	// Code
	".py": "Python", ".pyi": "Python Stub", ".ipynb": "Jupyter Notebook",
	".js": "JavaScript", ".jsx": "JavaScript (React)", ".mjs": "JavaScript Module",
	".ts": "TypeScript", ".tsx": "TypeScript (React)",
	".c": "C", ".h": "C Header", ".cpp": "C++", ".hpp": "C++ Header", ".cc": "C++",
	".rs": "Rust", ".go": "Go", ".java": "Java", ".kt": "Kotlin", ".kts": "Kotlin Script", ".scala": "Scala",
	".rb": "Ruby", ".php": "PHP", ".swift": "Swift", ".cs": "C#",
	".m": "Objective-C", ".mm": "Objective-C++",
	".sh": "Shell", ".bash": "Shell", ".zsh": "Shell", ".fish": "Shell", ".ps1": "PowerShell",
	// Web, markup, config
	".html": "HTML", ".htm": "HTML", ".css": "CSS", ".scss": "SCSS",
	".json": "JSON", ".jsonc": "JSON with Comments",
	".yml": "YAML", ".yaml": "YAML", ".toml": "TOML", ".ini": "INI",
	".md": "Markdown", ".rst": "reStructuredText", ".sql": "SQL",
	".xml": "XML", ".xsl": "XSLT", ".xslt": "XSLT", ".svg": "SVG",
	".dockerfile": "Dockerfile", ".env": "Env",
	// Data
	".csv": "CSV", ".tsv": "TSV", ".txt": "Text", ".log": "Log",
	// Docs
	".tex": "LaTeX", ".cls": "LaTeX", ".sty": "LaTeX",
	// Templates
	".jinja": "Jinja", ".jinja2": "Jinja", ".tmpl": "Template",
}

// binaryExts are extensions classified as binary without sniffing.
var binaryExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true,
	".bmp": true, ".ico": true,
	".pdf": true, ".zip": true, ".gz": true, ".tar": true, ".tgz": true,
	".bz2": true, ".xz": true, ".7z": true,
	".so": true, ".dll": true, ".dylib": true, ".exe": true, ".bin": true,
	".class": true, ".o": true, ".a": true,
	".ttf": true, ".otf": true, ".woff": true, ".woff2": true,
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true,
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true,
}

// detectLanguage returns the display language for a path, defaulting to
// "Plain Text". Dockerfiles without an extension are special-cased.
func detectLanguage(path string) string {
	base := filepath.Base(path)
	if base == "Dockerfile" {
		return "Dockerfile"
	}
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "Plain Text"
}
