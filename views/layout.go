package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// The template sources were dropped when the site moved off a template
// engine that could not share logic with the services. Pages are plain
// components now: each builds its HTML into a builder and the layout wraps
// it, which keeps everything type-checked against the service structs.

const pageStyle = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f4f5f7; color: #1a1a2e; }
nav { background: #14213d; padding: 0.75rem 1.5rem; display: flex; gap: 1.25rem; align-items: center; }
nav a { color: #e5e5e5; text-decoration: none; font-weight: 500; }
nav a:hover { color: #fca311; }
nav .brand { color: #fca311; font-weight: 700; margin-right: 1rem; }
main { max-width: 72rem; margin: 1.5rem auto; padding: 0 1.5rem; }
table { border-collapse: collapse; width: 100%; background: #fff; }
th, td { text-align: left; padding: 0.5rem 0.75rem; border-bottom: 1px solid #e0e0e0; }
th { background: #14213d; color: #fff; }
tr:hover td { background: #fff7e8; }
.card { background: #fff; border-radius: 6px; padding: 1rem 1.25rem; margin-bottom: 1rem; box-shadow: 0 1px 2px rgba(0,0,0,0.08); }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; }
.cards .card { flex: 1; min-width: 10rem; text-align: center; }
.card .big { font-size: 2rem; font-weight: 700; }
.status-active { color: #1b7a3d; }
.status-pending { color: #b26a00; }
.status-out { color: #9a1b1b; }
.flash { background: #e7f5ee; border: 1px solid #1b7a3d; padding: 0.6rem 1rem; border-radius: 4px; white-space: pre-line; }
.flash-error { background: #fdecec; border-color: #9a1b1b; }
form.inline { display: inline; }
button, input[type=submit] { background: #fca311; border: none; padding: 0.45rem 1rem; border-radius: 4px; font-weight: 600; cursor: pointer; }
button.danger { background: #c0392b; color: #fff; }
label { display: block; margin: 0.5rem 0 0.15rem; font-weight: 600; }
input[type=text], input[type=password], input[type=number], select { padding: 0.4rem; border: 1px solid #bbb; border-radius: 4px; min-width: 14rem; }
.bracket { display: flex; gap: 1.5rem; overflow-x: auto; }
.bracket .round-col { min-width: 16rem; }
`

func layout(title string, admin bool, body *strings.Builder) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString("<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		writef(&b, "<title>%s · World Cup 2026 Tracker</title>\n", title)
		b.WriteString("<style>" + pageStyle + "</style>\n</head>\n<body>\n")

		b.WriteString("<nav><span class=\"brand\">WC2026</span>")
		b.WriteString("<a href=\"/\">Dashboard</a>")
		b.WriteString("<a href=\"/leaderboard\">Leaderboard</a>")
		b.WriteString("<a href=\"/matches\">Matches</a>")
		b.WriteString("<a href=\"/bracket\">Bracket</a>")
		b.WriteString("<a href=\"/statistics\">Statistics</a>")
		b.WriteString("<a href=\"/competition\">Competition</a>")
		if admin {
			b.WriteString("<a href=\"/admin\">Admin</a>")
			b.WriteString("<a href=\"/admin/logout\">Logout</a>")
		} else {
			b.WriteString("<a href=\"/admin/login\">Admin</a>")
		}
		b.WriteString("</nav>\n<main>\n")

		b.WriteString(body.String())
		b.WriteString("\n</main>\n</body>\n</html>\n")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeFlash(b *strings.Builder, flash string, isError bool) {
	if flash == "" {
		return
	}
	class := "flash"
	if isError {
		class += " flash-error"
	}
	writef(b, "<p class=\"%s\">%s</p>\n", class, flash)
}
