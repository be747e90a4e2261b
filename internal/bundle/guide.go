package bundle

import "strings"

// GuideMode selects the verbosity of the LLM usage guide embedded in the
// bundle header.
type GuideMode string

const (
	GuideNone    GuideMode = "none"
	GuideShort   GuideMode = "short"
	GuideVerbose GuideMode = "verbose"
)

// usageGuide renders the optional usage-guide block for the given mode.
// GuideNone yields an empty string.
func usageGuide(mode GuideMode) string {
	if mode == GuideNone {
		return ""
	}
	var b strings.Builder
	b.WriteString("## LLM USAGE GUIDE\n\n")
	b.WriteString("### QUICKSTART\n")
	b.WriteString("- **Search by file ID** (e.g., `F0007`) for an exact match. IDs are stable across runs if paths don't change.\n")
	b.WriteString("- Use the **FILE INDEX** table below to find IDs, paths, languages, byte sizes, and line counts.\n")
	b.WriteString("- Each file section is delimited by clear markers:\n")
	b.WriteString("  - `===== FILE FXXXX =====` (header and metadata)\n")
	b.WriteString("  - `----- BEGIN CONTENT FXXXX -----`\n")
	b.WriteString("  - `----- END CONTENT FXXXX -----`\n")
	b.WriteString("- If a file shows `NOTE: truncated ...`, ask the user for the original file if needed.\n")
	b.WriteString("- Binary files are **skipped** with a clear note to avoid parsing noise.\n")
	b.WriteString("\n### SEARCH TIPS\n")
	b.WriteString("- Prefer `FXXXX` IDs over ambiguous names like `control_panel`.\n")
	b.WriteString("- To anchor to a path, search for `PATH: some/dir/file.py` within file headers.\n")
	b.WriteString("- To jump through files quickly, grep for `===== FILE F` markers.\n")
	b.WriteString("\n")
	if mode == GuideVerbose {
		b.WriteString("### READING STRATEGY (FOR SMALL CONTEXT MODELS)\n")
		b.WriteString("1) Read **PROJECT MAP** to understand structure.\n")
		b.WriteString("2) Scan **FILE INDEX** to pick likely targets by path/language/size.\n")
		b.WriteString("3) Open the **smallest relevant files first** to save context.\n")
		b.WriteString("4) Use IDs consistently in your notes/responses (e.g., 'Changes in `F0012`').\n")
		b.WriteString("5) If instructions mention 'don't modify detection logic', keep logic untouched and add UI-only changes.\n")
		b.WriteString("\n### WHEN YOU NEED MORE CONTEXT\n")
		b.WriteString("- If a file is truncated or missing, mention the `ID` and ask the user for the original file.\n")
		b.WriteString("- If multiple files reference the same concept, list the relevant IDs before summarizing.\n")
		b.WriteString("\n")
	}
	b.WriteString("### PROMPT TEMPLATES\n")
	b.WriteString("- **Locate a file quickly:**\n")
	b.WriteString("  - \"Find `F0012` and summarize its purpose in 3 bullets.\"\n")
	b.WriteString("- **Apply a patch safely:**\n")
	b.WriteString("  - \"Open `F0012` (`PATH: gui/control_panel.py`). Add a checkbox + spinbox UI (no changes to detection logic). Preserve everything else. Provide a unified diff.\"\n")
	b.WriteString("- **Cross-file question:**\n")
	b.WriteString("  - \"Which files import `ModelLoader`? Return IDs and a one-line description for each.\"\n")
	b.WriteString("\n\n")
	return b.String()
}
