package pdf

import (
	"fmt"
	"html/template"
	"strings"

	"artistone/internal/domain"
)

// epkTemplate is the styled page printed by the headless-browser path. Noto
// Sans is declared so Cyrillic form input renders; the browser falls back to
// system fonts when the files are not served.
var epkTemplate = template.Must(template.New("epk").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>EPK - {{.Data.Name}}</title>
<style>
{{if .FontsBaseURL}}
@font-face {
  font-family: 'Noto Sans';
  src: url('{{.FontsBaseURL}}/NotoSans-Regular.ttf') format('truetype');
  font-weight: 400;
}
@font-face {
  font-family: 'Noto Sans';
  src: url('{{.FontsBaseURL}}/NotoSans-Bold.ttf') format('truetype');
  font-weight: 700;
}
{{end}}
@page { size: A4; margin: 24mm; }
body {
  font-family: 'Noto Sans', system-ui, -apple-system, 'Segoe UI', sans-serif;
  font-size: 14px;
  color: #374151;
  position: relative;
}
.watermark {
  position: fixed;
  top: 45%;
  left: 0;
  width: 100%;
  text-align: center;
  font-size: 64px;
  font-weight: 700;
  color: rgba(59, 130, 246, 0.08);
  transform: rotate(-30deg);
  z-index: 0;
}
header { border-bottom: 3px solid #3b82f6; padding-bottom: 12px; margin-bottom: 20px; }
h1 { font-size: 32px; color: #1e3a8a; margin: 0; }
.meta { color: #3b82f6; font-size: 13px; margin-top: 4px; }
.photo { float: right; width: 160px; margin: 0 0 12px 16px; border-radius: 6px; }
h2 { font-size: 16px; color: #3b82f6; margin: 18px 0 6px; }
ul { margin: 0; padding-left: 18px; }
li { margin-bottom: 4px; }
.links { font-size: 12px; color: #4b5563; }
footer { margin-top: 28px; font-size: 10px; color: #8b9096; }
</style>
</head>
<body>
<div class="watermark">ARTISTONE</div>
<header>
<h1>{{.Data.Name}}</h1>
<div class="meta">{{.Data.City}} &bull; {{.Genres}}</div>
</header>
{{if .Data.PhotoURL}}<img class="photo" src="{{.Data.PhotoURL}}" alt="">{{end}}
<h2>Elevator Pitch</h2>
<p>{{.Data.Generated.Pitch}}</p>
<h2>Biography</h2>
<p>{{.Data.Generated.Bio}}</p>
<h2>Key Highlights</h2>
<ul>
{{range .Data.Generated.Highlights}}<li>{{.}}</li>
{{end}}</ul>
{{if .Data.Venues}}<h2>Venues &amp; Experience</h2>
<p>{{.Data.Venues}}</p>{{end}}
{{if .Links}}<h2>Links</h2>
<p class="links">{{range .Links}}{{.}}<br>{{end}}</p>{{end}}
<footer>Generated with ArtistOne</footer>
</body>
</html>`))

type templateData struct {
	Data         domain.ArtistData
	Genres       string
	Links        []string
	FontsBaseURL string
}

func renderHTML(data domain.ArtistData, fontsBaseURL string) (string, error) {
	var sb strings.Builder
	err := epkTemplate.Execute(&sb, templateData{
		Data:         data,
		Genres:       strings.Join(data.Genres, ", "),
		Links:        linkLines(data.Links),
		FontsBaseURL: strings.TrimRight(fontsBaseURL, "/"),
	})
	if err != nil {
		return "", fmt.Errorf("pdf: render template: %w", err)
	}
	return sb.String(), nil
}

func linkLines(links domain.SocialLinks) []string {
	var out []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			out = append(out, label+": "+value)
		}
	}
	add("Instagram", links.Instagram)
	add("SoundCloud", links.SoundCloud)
	add("Mixcloud", links.Mixcloud)
	add("Website", links.Website)
	return out
}
