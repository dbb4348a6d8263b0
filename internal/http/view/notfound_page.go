package view

import (
	"bytes"
	"html/template"
)

// NotFoundPageData provides the dynamic fields for the 404 page.
type NotFoundPageData struct {
	Code string
}

var notFoundPageTmpl = template.Must(template.New("notfound_page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>Link not found</title>
	<style>
		:root {
			--bg: #090a0f;
			--card: rgba(255, 255, 255, 0.05);
			--border: rgba(255, 255, 255, 0.15);
			--text: #e7ecff;
			--muted: #a1acc5;
			--accent: #7dd3fc;
			font-family: "Inter", -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
		}
		* { box-sizing: border-box; }
		body {
			margin: 0;
			min-height: 100vh;
			display: flex;
			align-items: center;
			justify-content: center;
			background: var(--bg);
			color: var(--text);
		}
		.card {
			background: var(--card);
			border: 1px solid var(--border);
			border-radius: 16px;
			padding: 48px 56px;
			text-align: center;
			max-width: 480px;
		}
		h1 {
			font-size: 64px;
			margin: 0 0 8px;
		}
		h2 {
			font-size: 20px;
			margin: 0 0 16px;
		}
		p {
			color: var(--muted);
			margin: 0 0 24px;
		}
		code {
			color: var(--accent);
		}
		a {
			color: var(--accent);
			text-decoration: none;
		}
	</style>
</head>
<body>
	<div class="card">
		<h1>404</h1>
		<h2>Link not found</h2>
		<p>{{if .Code}}The short link <code>{{.Code}}</code> does not exist or has been deleted.{{else}}The short link you are looking for does not exist.{{end}}</p>
		<a href="/">Back to home</a>
	</div>
</body>
</html>
`))

// RenderNotFoundPage renders the 404 experience for unknown short codes.
func RenderNotFoundPage(data NotFoundPageData) (string, error) {
	var buf bytes.Buffer
	if err := notFoundPageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
