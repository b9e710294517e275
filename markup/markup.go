package markup

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

const (
	Wakaba   = "wakaba"
	Markdown = "markdown"
)

// Engines lists the markup dialects Render understands.
var Engines = []string{Wakaba, Markdown}

func Valid(engine string) bool {
	for _, e := range Engines {
		if e == engine {
			return true
		}
	}
	return false
}

// Render turns post markup into an HTML fragment.  Raw HTML in the input is
// never passed through, whichever engine is in use.
func Render(engine, text string) (string, error) {
	switch engine {
	case Wakaba, "":
		return wakaba(text), nil
	case Markdown:
		return markdown(text), nil
	}
	return "", fmt.Errorf("unrecognized markup engine '%s'", engine)
}

var (
	reLink    = regexp.MustCompile(`https?://[^\s<>"\x00]+`)
	reRef     = regexp.MustCompile(`&gt;&gt;([0-9]+)`)
	reBold    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic  = regexp.MustCompile(`\*([^*]+)\*`)
	reSpoiler = regexp.MustCompile(`%%([^%]+)%%`)
	reCode    = regexp.MustCompile("`([^`]+)`")
	reQuote   = regexp.MustCompile(`^>(?:[^>]|>[^0-9]|$)`)
)

func wakaba(text string) string {
	text = strings.Replace(text, "\x00", "", -1)
	text = strings.Replace(text, "\r\n", "\n", -1)
	text = strings.TrimRight(text, "\n")

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := inline(html.EscapeString(raw))
		if reQuote.MatchString(raw) {
			line = `<span class="quote">` + line + `</span>`
		}
		lines[i] = line
	}
	return strings.Join(lines, "<br/>")
}

// inline applies the span-level rules to an already-escaped line.  Code
// spans and links are set aside first, so that nothing inside them is
// formatted.
func inline(line string) string {
	var held []string
	hold := func(html string) string {
		held = append(held, html)
		return fmt.Sprintf("\x00%d\x00", len(held)-1)
	}

	line = reCode.ReplaceAllStringFunc(line, func(s string) string {
		return hold("<code>" + s[1:len(s)-1] + "</code>")
	})
	line = reLink.ReplaceAllStringFunc(line, func(s string) string {
		return hold(fmt.Sprintf(`<a href="%s" rel="nofollow">%s</a>`, s, s))
	})

	line = reRef.ReplaceAllString(line, `<a href="#i$1" class="ref">&gt;&gt;$1</a>`)
	line = reBold.ReplaceAllString(line, `<b>$1</b>`)
	line = reItalic.ReplaceAllString(line, `<i>$1</i>`)
	line = reSpoiler.ReplaceAllString(line, `<span class="spoiler">$1</span>`)

	for i, h := range held {
		line = strings.Replace(line, fmt.Sprintf("\x00%d\x00", i), h, 1)
	}
	return line
}

func markdown(text string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML | blackfriday.SkipImages |
			blackfriday.Safelink | blackfriday.NofollowLinks,
	})
	out := blackfriday.Run([]byte(text),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak))
	return strings.TrimSpace(string(out))
}
