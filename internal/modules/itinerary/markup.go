// README: Prose-to-markup conversion for generator output that carries no stop array.
package itinerary

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// A link label such as "Maps Query:" or "youtube -". Group 1 is the character
// before the label, group 2 the label itself. Leading emphasis markers and the
// separator are swallowed with the label.
var (
	labelPattern = regexp.MustCompile(`(?i)(^|[^\w./*])\**(maps[ _]?query|youtube(?:[ _](?:link|url|video|search|query))?)[ \t"'*]*[:=\-][ \t"'*]*`)

	headingPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.*?)[ \t#]*$`)
	bulletPattern  = regexp.MustCompile(`^[ \t]*[-*+][ \t]+`)
	strongPattern  = regexp.MustCompile(`\*\*([^*\n]+?)\*\*|__([^_\n]+?)__`)
	emPattern      = regexp.MustCompile(`\*([^*\n]+?)\*`)
)

// MapsURL returns a Google Maps search link for the query.
func MapsURL(query string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// VideoURL returns ref unchanged when it is already a URL, otherwise a
// YouTube search link.
func VideoURL(ref string) string {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref
	}
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(ref)
}

type linkRule struct {
	caption string
	href    func(string) string
	// trailing characters dropped from the value
	trim string
}

var (
	mapsRule  = linkRule{caption: "Map", href: MapsURL, trim: " \t\"',;*."}
	videoRule = linkRule{caption: "YouTube", href: VideoURL, trim: " \t\"',;*"}
)

// MarkupText converts lightly formatted prose into display HTML. Headings,
// bold, italics and bullets are recognised; labelled map queries and video
// references become links. Everything else is escaped.
func MarkupText(raw string) string {
	var anchors []string
	stash := func(a string) string {
		anchors = append(anchors, a)
		return "\x00" + strconv.Itoa(len(anchors)-1) + "\x00"
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		line = linkLabels(line, stash)
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			level := len(m[1]) + 2
			if level > 6 {
				level = 6
			}
			out = append(out, fmt.Sprintf("<h%d>%s</h%d>", level, inline(m[2]), level))
			continue
		}
		line = bulletPattern.ReplaceAllString(line, "• ")
		line = inline(line)
		if i < len(lines)-1 {
			line += "<br>"
		}
		out = append(out, line)
	}

	result := strings.Join(out, "\n")
	for i, a := range anchors {
		result = strings.Replace(result, "\x00"+strconv.Itoa(i)+"\x00", a, 1)
	}
	return result
}

func inline(s string) string {
	s = html.EscapeString(s)
	s = strongPattern.ReplaceAllStringFunc(s, func(m string) string {
		inner := strongPattern.FindStringSubmatch(m)
		body := inner[1]
		if body == "" {
			body = inner[2]
		}
		return "<strong>" + body + "</strong>"
	})
	return emPattern.ReplaceAllString(s, "<em>$1</em>")
}

// linkLabels turns each labelled value on the line into a stashed anchor. A
// value runs until the next label or the end of the line.
func linkLabels(line string, stash func(string) string) string {
	locs := labelPattern.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 {
		return line
	}
	var b strings.Builder
	last := 0
	for i, loc := range locs {
		end := len(line)
		if i+1 < len(locs) {
			end = locs[i+1][3]
		}
		rule := videoRule
		if strings.HasPrefix(strings.ToLower(line[loc[4]:loc[5]]), "maps") {
			rule = mapsRule
		}
		value := trimValue(line[loc[1]:end], rule.trim)
		if value == "" {
			continue
		}
		b.WriteString(line[last:loc[3]])
		b.WriteString(stash(fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s: %s</a>`,
			html.EscapeString(rule.href(value)), rule.caption, html.EscapeString(value))))
		last = loc[1] + len(value)
	}
	b.WriteString(line[last:])
	return b.String()
}

// trimValue drops trailing punctuation and a closing parenthesis that has no
// opening partner inside the value.
func trimValue(v, cut string) string {
	for {
		v = strings.TrimRight(v, cut)
		if strings.HasSuffix(v, ")") && strings.Count(v, "(") < strings.Count(v, ")") {
			v = v[:len(v)-1]
			continue
		}
		return v
	}
}
