// README: Plain-text serialization of an itinerary for export.
package itinerary

import (
	"fmt"
	"strings"
)

// Display trims a field and blanks out the placeholder words some generators
// emit for missing values.
func Display(s string) string {
	t := strings.TrimSpace(s)
	switch strings.ToLower(t) {
	case "undefined", "null", "none", "n/a":
		return ""
	}
	return t
}

// DisplayType returns the stop category, or "" when it is not a known one.
func (s Stop) DisplayType() string {
	switch StopType(strings.ToLower(Display(string(s.Type)))) {
	case StopPlace:
		return string(StopPlace)
	case StopMeal:
		return string(StopMeal)
	case StopTravel:
		return string(StopTravel)
	}
	return ""
}

// DisplayDuration renders the duration as "90 min", or "" when absent.
func (s Stop) DisplayDuration() string {
	if s.DurationMinutes == nil || *s.DurationMinutes < 0 {
		return ""
	}
	return fmt.Sprintf("%d min", *s.DurationMinutes)
}

// MapsLink is the search link for the stop, or "" without a query.
func (s Stop) MapsLink() string {
	if q := Display(s.MapsQuery); q != "" {
		return MapsURL(q)
	}
	return ""
}

// VideoLink is the video URL or search link, or "" without a reference.
func (s Stop) VideoLink() string {
	if v := Display(s.Video); v != "" {
		return VideoURL(v)
	}
	return ""
}

// PlainText renders the itinerary under a title. The text shape is emitted
// verbatim.
func PlainText(title string, it Itinerary) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}

	if it.Shape() == ShapeText {
		if it.Text != nil {
			b.WriteString(it.Text.Original)
		}
		return b.String()
	}

	for i, s := range it.Stops {
		head := strings.TrimSpace(Display(s.Time) + "  " + Display(s.Name))
		var meta []string
		if t := s.DisplayType(); t != "" {
			meta = append(meta, t)
		}
		if d := s.DisplayDuration(); d != "" {
			meta = append(meta, d)
		}
		fmt.Fprintf(&b, "%d. %s", i+1, head)
		if len(meta) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(meta, ", "))
		}
		b.WriteString("\n")
		if notes := Display(s.Notes); notes != "" {
			fmt.Fprintf(&b, "   %s\n", notes)
		}
		if link := s.MapsLink(); link != "" {
			fmt.Fprintf(&b, "   Map: %s\n", link)
		}
		if link := s.VideoLink(); link != "" {
			fmt.Fprintf(&b, "   Video: %s\n", link)
		}
	}
	return b.String()
}
