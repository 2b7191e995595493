package web

import (
	"fmt"
	"html"

	"readmeai/db"

	"github.com/rohanthewiz/element"
)

func renderIndexPage() string {
	b := element.NewBuilder()

	b.Html().R(
		b.Head().R(
			b.Title().T("readmeai"),
			b.Meta("charset", "UTF-8"),
			b.Meta("name", "viewport", "content", "width=device-width, initial-scale=1.0"),
			b.Style().T(pageCSS()),
		),
		b.Body().R(
			b.Header().R(
				b.H1().T("Repository analysis"),
			),
			b.Main().R(
				b.Form("method", "get", "action", "/report").R(
					b.Div("class", "form-group").R(
						b.Label("for", "repository").T("Repository path or URL"),
						b.Input("type", "text", "id", "repository", "name", "repository", "required", "required",
							"placeholder", "https://github.com/owner/repo"),
					),
					b.Div("class", "form-group").R(
						b.Label("for", "remote").T("Source"),
						b.Select("id", "remote", "name", "remote").R(
							b.Option("value", "").T("Detect"),
							b.Option("value", "true").T("Remote clone"),
							b.Option("value", "false").T("Local directory"),
						),
					),
					b.Button("type", "submit", "class", "btn-primary").T("Analyze"),
				),
			),
		),
	)
	return b.String()
}

// ReportComponent renders a stored run
type ReportComponent struct {
	Report       *db.Report
	Dependencies []string
}

// Render implements the element.Component interface.
// element writes text as-is, so dynamic values are escaped here.
func (r ReportComponent) Render(b *element.Builder) (x any) {
	rep := r.Report
	b.Section("class", "summary").R(
		b.H2().T(html.EscapeString(rep.Root)),
		b.P().T(fmt.Sprintf("%d files, %d tokens, %d dependencies", rep.Files, rep.Tokens, rep.Dependencies)),
		b.P("class", "run-id").T("Run "+html.EscapeString(rep.RunID)),
	)

	b.Section("class", "languages").R(
		b.H3().T("Languages"),
		element.ForEach(rep.Languages, func(l db.LanguageStat) {
			b.Div("class", "row").R(
				b.Span("class", "name").T(html.EscapeString(l.Language)),
				b.Span("class", "count").T(fmt.Sprintf("%d files", l.Files)),
				b.Span("class", "count").T(fmt.Sprintf("%d tokens", l.Tokens)),
			)
		}),
	)

	b.Section("class", "largest").R(
		b.H3().T("Largest files"),
		element.ForEach(rep.Largest, func(f db.FileStat) {
			b.Div("class", "row").R(
				b.Span("class", "name").T(html.EscapeString(f.Path)),
				b.Span("class", "count").T(fmt.Sprintf("%d tokens", f.Tokens)),
			)
		}),
	)

	b.Aside("class", "dependencies").R(
		b.H3().T("Dependencies"),
		func() (x any) {
			if len(r.Dependencies) == 0 {
				b.P("class", "empty").T("None found")
				return
			}
			element.ForEach(r.Dependencies, func(dep string) {
				b.Span("class", "dependency").T(html.EscapeString(dep))
			})
			return
		}(),
	)
	return
}

func renderReportPage(rep *db.Report, dependencies []string) string {
	b := element.NewBuilder()

	b.Html().R(
		b.Head().R(
			b.Title().T("Report - readmeai"),
			b.Meta("charset", "UTF-8"),
			b.Meta("name", "viewport", "content", "width=device-width, initial-scale=1.0"),
			b.Style().T(pageCSS()),
		),
		b.Body().R(
			b.Header().R(
				b.H1().T("Repository report"),
				b.Button("class", "btn-secondary", "onclick", "window.location.href='/'").T("New analysis"),
			),
			b.Main().R(
				element.RenderComponents(b, ReportComponent{Report: rep, Dependencies: dependencies}),
			),
		),
	)
	return b.String()
}

func pageCSS() string {
	return `
		:root {
			--bg-primary: #1a1a1a;
			--bg-secondary: #2a2a2a;
			--text-primary: #ffffff;
			--text-secondary: #b0b0b0;
			--accent: #4a9eff;
			--border: #404040;
		}
		body {
			margin: 0;
			font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
			background: var(--bg-primary);
			color: var(--text-primary);
		}
		header {
			display: flex;
			justify-content: space-between;
			align-items: center;
			padding: 1rem 2rem;
			border-bottom: 1px solid var(--border);
		}
		main {
			max-width: 960px;
			margin: 0 auto;
			padding: 2rem;
		}
		.form-group {
			display: flex;
			flex-direction: column;
			margin-bottom: 1rem;
		}
		input, select {
			padding: 0.5rem;
			background: var(--bg-secondary);
			color: var(--text-primary);
			border: 1px solid var(--border);
			border-radius: 4px;
		}
		.btn-primary, .btn-secondary {
			padding: 0.5rem 1rem;
			border: none;
			border-radius: 4px;
			cursor: pointer;
		}
		.btn-primary { background: var(--accent); color: white; }
		.btn-secondary { background: var(--bg-secondary); color: var(--text-primary); }
		section, aside { margin-bottom: 2rem; }
		.row {
			display: flex;
			gap: 1rem;
			padding: 0.25rem 0;
			border-bottom: 1px solid var(--border);
		}
		.row .name { flex: 1; }
		.count, .run-id, .empty { color: var(--text-secondary); }
		.dependency {
			display: inline-block;
			margin: 0 0.5rem 0.5rem 0;
			padding: 0.2rem 0.5rem;
			background: var(--bg-secondary);
			border-radius: 4px;
		}
	`
}
