package web

import (
	"io"
	"strconv"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func writeEscaped(w io.Writer, text string) {
	_, _ = io.WriteString(w, templ.EscapeString(text))
}

func phaseLabel(phase string) string {
	switch phase {
	case "open":
		return "Waiting for players"
	case "in_progress":
		return "In progress"
	case "finished":
		return "Finished"
	case "abandoned":
		return "Abandoned"
	default:
		return phase
	}
}

const pageHead = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>BombParty</title>
    <style>
      body { font-family: system-ui, sans-serif; background: #1d1b26; color: #f3f0ff; margin: 0; }
      .shell { max-width: 720px; margin: 0 auto; padding: 2rem 1rem; }
      .panel { background: #2a2738; border-radius: 12px; padding: 1rem 1.25rem; margin-bottom: 1rem; }
      .tag { text-transform: uppercase; letter-spacing: .1em; color: #ffb347; font-size: .8rem; }
      input, button { font: inherit; padding: .45rem .7rem; border-radius: 8px; border: 0; }
      button { background: #ffb347; color: #1d1b26; cursor: pointer; }
      .prompt { font-size: 2.5rem; font-weight: 700; letter-spacing: .2em; text-transform: uppercase; }
      .log { font-family: ui-monospace, monospace; font-size: .85rem; max-height: 240px; overflow-y: auto; }
      .muted { color: #a8a3bd; }
      ul.lobbies { list-style: none; padding: 0; }
      ul.lobbies li { padding: .35rem 0; }
    </style>
  </head>
  <body>
    <main class="shell">
`

const pageFoot = `
    </main>
  </body>
</html>
`
