// Package render lays out manual pages in man(7) macros from parser
// descriptions and completed page records.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quantmind-br/manbuild-go/internal/domain"
	"github.com/quantmind-br/manbuild-go/internal/spec"
)

// Format selects the page layout produced for a record.
type Format string

const (
	// FormatPretty is the default layout, giving every subcommand its own
	// OPTIONS section.
	FormatPretty Format = "pretty"
	// FormatSingleCommands folds all subcommands into one COMMANDS
	// section with a subsection per command.
	FormatSingleCommands Format = "single-commands-section"
	// FormatOld is the flat legacy layout; it is produced by LegacyWriter,
	// which owns its output file.
	FormatOld Format = "old"
)

// DefaultFormat applies when a record does not set a format.
const DefaultFormat = FormatPretty

const (
	defaultSection = "1"
	defaultManual  = "Generated Python Manual"
	dateLayout     = "2006-01-02"

	// SourceDateEpochEnv makes page dates reproducible across builds.
	SourceDateEpochEnv = "SOURCE_DATE_EPOCH"
)

// Renderer lays out manual pages for completed records.
type Renderer struct {
	// Dir resolves relative include paths.
	Dir string
	// Now supplies the date when neither the record nor SOURCE_DATE_EPOCH
	// provides one.
	Now func() time.Time
}

// NewRenderer returns a renderer rooted at the project directory.
func NewRenderer(dir string) *Renderer {
	return &Renderer{Dir: dir, Now: time.Now}
}

// Render produces the full man(7) text for one page.
func (r *Renderer) Render(info *domain.ParserInfo, format Format, page *spec.Page) (string, error) {
	switch format {
	case FormatPretty, FormatSingleCommands:
	default:
		return "", fmt.Errorf("renderer does not handle format %q", format)
	}

	doc := &roff{}
	doc.th(progName(info, page), headerSection(page), headerDate(page, r.Now), headerSource(page), headerTitle(page))

	writeName(doc, info, page)
	writeSynopsis(doc, info)
	writeDescription(doc, info, page)
	writeOptions(doc, info)

	switch format {
	case FormatPretty:
		writeSubcommandSections(doc, info.Subcommands, nil)
	case FormatSingleCommands:
		writeCommandsSection(doc, info.Subcommands)
	}

	if info.Epilog != "" {
		doc.sh("COMMENTS")
		doc.para(info.Epilog)
	}
	if err := r.writeInclude(doc, page); err != nil {
		return "", err
	}
	writeAuthors(doc, page)
	writeDistribution(doc, page)

	return doc.String(), nil
}

func writeName(doc *roff, info *domain.ParserInfo, page *spec.Page) {
	doc.sh("NAME")
	prog := escapeText(progName(info, page))
	short := page.Description
	if short == "" {
		short = firstLine(info.Description)
	}
	if short == "" {
		doc.raw(prog)
		return
	}
	doc.raw(prog + ` \- ` + escapeText(short))
}

func writeSynopsis(doc *roff, info *domain.ParserInfo) {
	usage := strings.TrimSpace(strings.TrimPrefix(info.Usage, "usage:"))
	if usage == "" {
		return
	}
	doc.sh("SYNOPSIS")
	switch {
	case usage == info.Prog:
		doc.raw(`\fB` + escapeText(info.Prog) + `\fR`)
	case strings.HasPrefix(usage, info.Prog+" "):
		rest := strings.TrimPrefix(usage, info.Prog+" ")
		doc.raw(`\fB` + escapeText(info.Prog) + `\fR ` + escapeText(rest))
	default:
		doc.text(usage)
	}
}

func writeDescription(doc *roff, info *domain.ParserInfo, page *spec.Page) {
	var parts []string
	if info.Description != "" {
		parts = append(parts, info.Description)
	}
	if page.LongDescription != "" {
		parts = append(parts, page.LongDescription)
	}
	if len(parts) == 0 {
		return
	}
	doc.sh("DESCRIPTION")
	for i, part := range parts {
		if i > 0 {
			doc.raw(".PP")
		}
		doc.para(part)
	}
}

func writeOptions(doc *roff, info *domain.ParserInfo) {
	if len(visibleGroups(info)) == 0 {
		return
	}
	doc.sh("OPTIONS")
	writeGroupBodies(doc, info)
}

// writeSubcommandSections gives every subcommand its own OPTIONS section
// titled with the command path, recursing into nested subparsers.
func writeSubcommandSections(doc *roff, subs []domain.Subcommand, path []string) {
	for _, sub := range subs {
		if sub.Parser == nil {
			continue
		}
		subPath := append(append([]string{}, path...), sub.Name)
		doc.sh("OPTIONS '" + strings.Join(subPath, " ") + "'")
		if intro := subIntro(sub); intro != "" {
			doc.para(intro)
		}
		writeGroupBodies(doc, sub.Parser)
		writeSubcommandSections(doc, sub.Parser.Subcommands, subPath)
	}
}

// writeCommandsSection folds every subcommand into one COMMANDS section.
func writeCommandsSection(doc *roff, subs []domain.Subcommand) {
	if len(subs) == 0 {
		return
	}
	doc.sh("COMMANDS")
	writeCommandEntries(doc, subs, nil)
}

func writeCommandEntries(doc *roff, subs []domain.Subcommand, path []string) {
	for _, sub := range subs {
		if sub.Parser == nil {
			continue
		}
		subPath := append(append([]string{}, path...), sub.Name)
		doc.ss(strings.Join(subPath, " "))
		if intro := subIntro(sub); intro != "" {
			doc.para(intro)
		}
		writeGroupBodies(doc, sub.Parser)
		writeCommandEntries(doc, sub.Parser.Subcommands, subPath)
	}
}

// defaultGroupTitles are argparse's built-in group names; their options
// appear without a subheading.
var defaultGroupTitles = map[string]bool{
	"":                     true,
	"positional arguments": true,
	"optional arguments":   true,
	"options":              true,
}

func writeGroupBodies(doc *roff, info *domain.ParserInfo) {
	for _, group := range visibleGroups(info) {
		if !defaultGroupTitles[strings.ToLower(group.Title)] {
			doc.ss(group.Title)
			if group.Description != "" {
				doc.para(group.Description)
			}
		}
		for _, opt := range group.Options {
			doc.tp(optionTag(opt))
			if help := optionHelp(opt); help != "" {
				doc.text(help)
			}
		}
	}
}

// optionTag renders the .TP tag for one option: bold flags with an
// italic metavar, or just the italic metavar for positionals.
func optionTag(opt domain.Option) string {
	metavar := opt.Metavar
	if metavar == "" && len(opt.Choices) > 0 {
		metavar = "{" + strings.Join(opt.Choices, ",") + "}"
	}
	if opt.Positional() {
		return `\fI` + escapeText(metavar) + `\fR`
	}
	flags := make([]string, len(opt.Flags))
	for i, flag := range opt.Flags {
		flags[i] = `\fB` + escapeText(flag) + `\fR`
		if metavar != "" {
			flags[i] += ` \fI` + escapeText(metavar) + `\fR`
		}
	}
	return strings.Join(flags, ", ")
}

func optionHelp(opt domain.Option) string {
	help := opt.Help
	if opt.Default != "" {
		if help != "" {
			help += " "
		}
		help += "(default: " + opt.Default + ")"
	}
	return help
}

func (r *Renderer) writeInclude(doc *roff, page *spec.Page) error {
	if page.Include == "" {
		return nil
	}
	path := page.Include
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read include file: %w", err)
	}
	doc.raw(strings.TrimRight(string(data), "\n"))
	return nil
}

func writeAuthors(doc *roff, page *spec.Page) {
	if len(page.Authors) == 0 {
		return
	}
	doc.sh("AUTHORS")
	for i, author := range page.Authors {
		if i > 0 {
			doc.raw(".br")
		}
		doc.text(author)
	}
}

func writeDistribution(doc *roff, page *spec.Page) {
	if page.ProjectName == "" || page.URL == "" {
		return
	}
	doc.sh("DISTRIBUTION")
	doc.text(fmt.Sprintf("The latest version of %s may be downloaded from", page.ProjectName))
	doc.raw(".UR " + page.URL)
	doc.raw(".UE")
}

func progName(info *domain.ParserInfo, page *spec.Page) string {
	if page.Prog != "" {
		return page.Prog
	}
	return info.Prog
}

func headerSection(page *spec.Page) string {
	if page.ManualSection != "" {
		return page.ManualSection
	}
	return defaultSection
}

func headerTitle(page *spec.Page) string {
	if page.ManualTitle != "" {
		return page.ManualTitle
	}
	return defaultManual
}

func headerSource(page *spec.Page) string {
	return strings.TrimSpace(page.ProjectName + " " + page.Version)
}

// headerDate picks the .TH date: the record's own date, then
// SOURCE_DATE_EPOCH for reproducible builds, then the current day.
func headerDate(page *spec.Page, now func() time.Time) string {
	if page.Date != "" {
		return page.Date
	}
	if epoch := os.Getenv(SourceDateEpochEnv); epoch != "" {
		if sec, err := strconv.ParseInt(epoch, 10, 64); err == nil {
			return time.Unix(sec, 0).UTC().Format(dateLayout)
		}
	}
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(dateLayout)
}

func subIntro(sub domain.Subcommand) string {
	if sub.Parser != nil && sub.Parser.Description != "" {
		return sub.Parser.Description
	}
	return sub.Help
}

func visibleGroups(info *domain.ParserInfo) []domain.OptionGroup {
	groups := make([]domain.OptionGroup, 0, len(info.Groups))
	for _, group := range info.Groups {
		if len(group.Options) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
