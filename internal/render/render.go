// Package render turns a solution analysis into the detail overlay, as
// Markdown or as HTML.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/solution-finder/internal/scoring"
)

const (
	noMatches = "No direct matches selected."
	noNeeds   = "No needs selected."
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

var escaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`, "!", `\!`, "~", `\~`,
)

func esc(s string) string { return escaper.Replace(s) }

// Markdown renders the overlay for a.
func Markdown(a scoring.Analysis) string {
	var b strings.Builder
	s := a.Solution

	fmt.Fprintf(&b, "# %s\n\n", esc(s.Name))
	fmt.Fprintf(&b, "%s · %d%% match\n\n", esc(s.Category), a.Score)
	if s.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", esc(s.Summary))
	}

	if s.Links != nil {
		var links []string
		if s.Links.Product != "" {
			links = append(links, fmt.Sprintf("[Official Product Page ↗](<%s>)", s.Links.Product))
		}
		if s.Links.Paperwork != "" {
			links = append(links, fmt.Sprintf("[Paperwork ↗](<%s>)", s.Links.Paperwork))
		}
		if len(links) > 0 {
			b.WriteString(strings.Join(links, " · ") + "\n\n")
		}
	}

	b.WriteString("## Matches\n\n")
	if len(a.Matches) == 0 {
		writeList(&b, []string{noMatches})
	} else {
		writeList(&b, a.Matches)
	}

	b.WriteString("## Misses\n\n")
	switch {
	case len(a.Matches)+len(a.Misses) == 0:
		writeList(&b, []string{noNeeds})
	case len(a.Misses) > 0:
		writeList(&b, a.Misses)
	}

	if len(a.Features) > 0 {
		b.WriteString("## All features\n\n")
		writeList(&b, a.Features)
	}

	if len(s.SpecialBlocks) > 0 {
		b.WriteString("## Special\n\n")
		for _, blk := range s.SpecialBlocks {
			fmt.Fprintf(&b, "### %s\n\n", esc(blk.Name))
			if blk.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", esc(blk.Description))
			}
			if blk.Link != "" {
				fmt.Fprintf(&b, "[View product ↗](<%s>)\n\n", blk.Link)
			}
		}
	}

	if len(s.Details) > 0 {
		b.WriteString("## Details\n\n")
		writeList(&b, s.Details)
	}
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", esc(it))
	}
	b.WriteString("\n")
}

// HTML renders the overlay for a as an HTML fragment. Raw HTML in catalog
// text is not passed through.
func HTML(a scoring.Analysis) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(a)), &buf); err != nil {
		return "", fmt.Errorf("rendering %s: %w", a.Solution.ID, err)
	}
	return buf.String(), nil
}
