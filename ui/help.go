package ui

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed docs/usage.md
var usageDoc []byte

var helpHTML = renderHelp(usageDoc)

func renderHelp(src []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(p.Parse(src), renderer)
}

const helpShell = `<!DOCTYPE html>
<html>
<head><title>vizboard — usage</title>
<style>
body { font-family: sans-serif; margin: 3rem auto; max-width: 46rem; line-height: 1.5; color: #333; padding: 0 1rem; }
code, pre { background: #f4f4f6; border-radius: 4px; }
code { padding: 0.1rem 0.3rem; }
pre { padding: 0.8rem; overflow-x: auto; }
pre code { padding: 0; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 0.3rem 0.6rem; text-align: left; }
a { color: #5470c6; }
</style>
</head>
<body>
%s
<p><a href="/dashboard">Back to the dashboard</a></p>
</body>
</html>
`

// handleHelp serves the usage guide, rendered from the embedded markdown
func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, helpShell, helpHTML)
}
