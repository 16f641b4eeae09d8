package render

import (
	"fmt"
	"strings"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiGray  = "\x1b[90m"
	ansiBold  = "\x1b[1m"
)

// Text renders the screen for a terminal. With color, tones become ANSI colors.
func (s Screen) Text(color bool) string {
	paint := func(code, v string) string {
		if !color {
			return v
		}
		return code + v + ansiReset
	}

	switch s.Kind {
	case ScreenLoading:
		return "Loading...\n"
	case ScreenError:
		return paint(ansiRed, s.Message) + "\n"
	}

	var b strings.Builder
	b.WriteString(paint(ansiBold, s.Title) + "\n\n")

	for _, sel := range s.Selectors {
		b.WriteString(fmt.Sprintf("%-7s", sel.Name+":"))
		for i, o := range sel.Options {
			if i > 0 {
				b.WriteString("  ")
			}
			if o.Selected {
				b.WriteString(paint(ansiBold, "["+o.Label+"]"))
			} else {
				b.WriteString(o.Label)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, c := range s.Cards {
		b.WriteString(fmt.Sprintf("%-14s %s", c.Title, paint(toneColor(c.Tone), c.Value)))
		if c.Subtitle != "" {
			b.WriteString("  " + paint(ansiGray, c.Subtitle))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nTechnical Indicators\n")
	for _, ind := range s.Indicators {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", ind.Label, ind.Value))
	}

	if s.Debug != "" {
		b.WriteString("\n" + s.Debug + "\n")
	}
	return b.String()
}

func toneColor(t Tone) string {
	switch t {
	case TonePositive:
		return ansiGreen
	case ToneNegative:
		return ansiRed
	default:
		return ansiGray
	}
}
