package render

import "strings"

// roff accumulates a man(7) document line by line.
type roff struct {
	b strings.Builder
}

func (r *roff) raw(line string) {
	r.b.WriteString(line)
	r.b.WriteString("\n")
}

func (r *roff) th(prog, section, date, source, manual string) {
	r.raw(".TH " + quote(prog) + " " + quote(section) + " " + quote(date) +
		" " + quote(source) + " " + quote(manual))
}

func (r *roff) sh(title string) {
	r.raw(".SH " + quote(title))
}

func (r *roff) ss(title string) {
	r.raw(".SS " + quote(title))
}

// tp starts a tagged paragraph; the tag line carries its own markup.
func (r *roff) tp(tag string) {
	r.raw(".TP")
	r.raw(tag)
}

// text writes escaped free text, splitting multi-line strings.
func (r *roff) text(s string) {
	for _, line := range strings.Split(s, "\n") {
		r.raw(protectLine(escapeText(line)))
	}
}

// para writes escaped text where blank lines become paragraph breaks.
func (r *roff) para(s string) {
	blank := false
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if strings.TrimSpace(line) == "" {
			blank = true
			continue
		}
		if blank {
			r.raw(".PP")
			blank = false
		}
		r.raw(protectLine(escapeText(line)))
	}
}

func (r *roff) String() string {
	return r.b.String()
}

// quote wraps a request argument in double quotes so embedded spaces
// survive.
func quote(arg string) string {
	return `"` + strings.ReplaceAll(arg, `"`, `\(dq`) + `"`
}

// escapeText protects roff control characters in free text. Dashes are
// escaped so they stay ASCII hyphen-minus in the output.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\e`)
	s = strings.ReplaceAll(s, "-", `\-`)
	return s
}

// protectLine keeps a text line from being read as a roff request.
func protectLine(line string) string {
	if strings.HasPrefix(line, ".") || strings.HasPrefix(line, "'") {
		return `\&` + line
	}
	return line
}
