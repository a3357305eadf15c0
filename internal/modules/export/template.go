package export

import (
	"bytes"
	"html/template"

	"voyage/internal/modules/itinerary"
)

type stopView struct {
	Time     string
	Name     string
	Meta     string
	Notes    string
	MapsURL  string
	VideoURL string
}

type emailData struct {
	Title  string
	Stops  []stopView
	Markup template.HTML
}

// The raw-text markup is produced by itinerary.MarkupText, which escapes the
// generator text before adding its own tags.
var itineraryHTML = template.Must(template.New("itinerary").Parse(`<!doctype html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif; color: #1e293b;">
  <h2>{{.Title}}</h2>
  {{- if .Markup}}
  <div>{{.Markup}}</div>
  {{- else}}
  <ol>
  {{- range .Stops}}
    <li style="margin-bottom: 12px;">
      <strong>{{.Time}} {{.Name}}</strong>{{if .Meta}} <span style="color: #64748b;">({{.Meta}})</span>{{end}}
      {{- if .Notes}}<br>{{.Notes}}{{end}}
      {{- if .MapsURL}}<br><a href="{{.MapsURL}}">Open in Maps</a>{{end}}
      {{- if .VideoURL}} | <a href="{{.VideoURL}}">Watch video</a>{{end}}
    </li>
  {{- end}}
  </ol>
  {{- end}}
</body>
</html>`))

func renderHTML(title string, it itinerary.Itinerary) (string, error) {
	data := emailData{Title: title}
	if it.Shape() == itinerary.ShapeText && it.Text != nil {
		data.Markup = template.HTML(it.Text.Markup)
	} else {
		for _, s := range it.Stops {
			meta := s.DisplayType()
			if d := s.DisplayDuration(); d != "" {
				if meta != "" {
					meta += ", "
				}
				meta += d
			}
			data.Stops = append(data.Stops, stopView{
				Time:     itinerary.Display(s.Time),
				Name:     itinerary.Display(s.Name),
				Meta:     meta,
				Notes:    itinerary.Display(s.Notes),
				MapsURL:  s.MapsLink(),
				VideoURL: s.VideoLink(),
			})
		}
	}

	var b bytes.Buffer
	if err := itineraryHTML.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
