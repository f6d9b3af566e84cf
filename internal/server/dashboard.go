package server

import (
	"fmt"
	"net/http"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/app"
	"github.com/immodash/immodash/pkg/ideas"
	"github.com/immodash/immodash/pkg/prospection"
	"github.com/immodash/immodash/pkg/settings"
)

var actionLabels = map[prospection.ActionType]string{
	prospection.Boitage:     "Boîtage",
	prospection.PorteAPorte: "Porte-à-porte",
	prospection.Courrier:    "Courrier",
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	// Goals first: a page opened in a new month must not show last month's counters.
	if _, err := s.App.Goals(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	st := s.App.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := DashboardPage(st, s.App.Now()).Render(w); err != nil {
		utils.Log.Warnf("Render dashboard: %v", err)
	}
}

// DashboardPage renders the whole dashboard for st.
func DashboardPage(st app.State, now time.Time) g.Node {
	return pageLayout("immodash", st.Theme,
		Main(Class("max-w-6xl mx-auto px-4 py-8 space-y-8"),
			header(st),
			goalsCard(st),
			countsRow(st.Prospection),
			prospectForm(),
			monthsSection(st.Prospection),
			coldZonesSection(st, now),
			archivesSection(st.Archives),
			ideasSection(st),
		),
	)
}

func pageLayout(title string, theme settings.Theme, content g.Node) g.Node {
	bodyClass := "bg-white text-slate-800 font-sans antialiased"
	if theme == settings.ThemeDark {
		bodyClass = "bg-slate-950 text-slate-300 font-sans antialiased"
	}
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(Lang("fr"),
			Head(
				Meta(Charset("UTF-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Script(Src("https://cdn.tailwindcss.com")),
			),
			Body(Class(bodyClass), content),
		),
	})
}

func header(st app.State) g.Node {
	return Header(Class("flex items-center justify-between"),
		H1(Class("text-2xl md:text-3xl font-bold"), g.Text("Tableau de bord")),
		Span(Class("text-sm text-slate-500"),
			g.Textf("%d entrées · %d archives", realEntries(st.Prospection), len(st.Archives)),
		),
	)
}

func statCard(label, value, color string) g.Node {
	return Div(Class("border border-slate-300/40 rounded-xl p-4 text-center"),
		Div(Class("text-2xl font-extrabold tabular-nums "+color), g.Text(value)),
		Div(Class("text-xs uppercase tracking-wider text-slate-500 mt-1 font-medium"), g.Text(label)),
	)
}

func goalsCard(st app.State) g.Node {
	boitage := "Non validé"
	if st.Goals.BoitageValidated {
		boitage = "Validé"
	}
	return Section(ID("goals"),
		H2(Class("text-lg font-semibold mb-3"), g.Textf("Objectifs du mois (%s)", st.Goals.Month)),
		Div(Class("grid grid-cols-2 md:grid-cols-4 gap-4"),
			statCard("Mandats", fmt.Sprint(st.Goals.Mandats), "text-emerald-500"),
			statCard("Courriers", fmt.Sprint(st.Goals.Courriers), "text-cyan-500"),
			statCard("Porte-à-porte", fmt.Sprint(st.Goals.PorteAPorte), "text-amber-500"),
			statCard("Boîtage", boitage, "text-violet-500"),
		),
	)
}

func countsRow(entries []prospection.Entry) g.Node {
	counts := prospection.Counts(entries)
	cards := make([]g.Node, 0, len(prospection.ActionTypes))
	for _, t := range prospection.ActionTypes {
		cards = append(cards, statCard(actionLabels[t], fmt.Sprint(counts[t]), "text-sky-500"))
	}
	return Section(ID("counts"), Div(Class("grid grid-cols-3 gap-4"), g.Group(cards)))
}

func prospectForm() g.Node {
	return Section(ID("prospect"),
		Form(ID("prospect-form"), Class("flex gap-2"),
			Input(Type("text"), Name("text"), ID("prospect-text"), Class("flex-grow border rounded-lg px-3 py-2 text-slate-800"),
				Placeholder("[ADD] 12 rue Foch boîtage")),
			Button(Type("submit"), Class("bg-sky-600 text-white rounded-lg px-4 py-2"), g.Text("Envoyer")),
		),
		P(ID("prospect-message"), Class("text-sm text-slate-500 mt-2")),
		Script(g.Raw(`
			document.getElementById('prospect-form').addEventListener('submit', async (e) => {
				e.preventDefault();
				const text = document.getElementById('prospect-text').value;
				const res = await fetch('/api/prospection/intent', {
					method: 'POST',
					headers: {'Content-Type': 'application/json'},
					body: JSON.stringify({text}),
				});
				const body = await res.json();
				if (!res.ok) {
					document.getElementById('prospect-message').textContent = body.error;
					return;
				}
				if (body.changed) {
					window.location.reload();
				} else {
					document.getElementById('prospect-message').textContent = body.message || '';
				}
			});
		`)),
	)
}

func monthsSection(entries []prospection.Entry) g.Node {
	groups := prospection.Group(entries)
	if len(groups) == 0 {
		return Section(ID("months"), P(Class("text-slate-500"), g.Text("Aucune action enregistrée.")))
	}
	return Section(ID("months"), Class("space-y-6"),
		g.Map(groups, monthBlock),
	)
}

func monthBlock(m prospection.MonthGroup) g.Node {
	if m.Empty {
		return Div(Class("month"),
			H2(Class("text-xl font-semibold"), g.Text(m.Label)),
			P(Class("text-sm text-slate-500"), g.Text("Mois démarré, aucune action pour l'instant.")),
		)
	}
	columns := make([]g.Node, 0, len(prospection.ActionTypes))
	for _, t := range prospection.ActionTypes {
		columns = append(columns, bucketColumn(t, m.Buckets[t]))
	}
	return Div(Class("month"),
		H2(Class("text-xl font-semibold mb-2"), g.Textf("%s (%d)", m.Label, m.Count())),
		Div(Class("grid grid-cols-1 md:grid-cols-3 gap-4"), g.Group(columns)),
	)
}

func bucketColumn(t prospection.ActionType, entries []prospection.Entry) g.Node {
	return Div(Class("border border-slate-300/40 rounded-lg p-3"),
		H3(Class("text-sm font-semibold uppercase tracking-wider mb-2"), g.Textf("%s (%d)", actionLabels[t], len(entries))),
		Ul(Class("space-y-1 text-sm"),
			g.Map(entries, func(e prospection.Entry) g.Node {
				return Li(Class("flex justify-between gap-2"),
					Span(g.Text(e.Zone)),
					Span(Class("text-slate-500 tabular-nums"), g.Text(e.Date)),
				)
			}),
		),
	)
}

func coldZonesSection(st app.State, now time.Time) g.Node {
	cold := prospection.ColdZones(st.Prospection, now)
	return Section(ID("cold-zones"),
		H2(Class("text-lg font-semibold mb-2"), g.Text("Zones à relancer")),
		g.If(len(cold) == 0, P(Class("text-sm text-slate-500"), g.Text("Aucune zone froide."))),
		Ul(Class("text-sm space-y-1"),
			g.Map(cold, func(e prospection.Entry) g.Node {
				return Li(g.Textf("%s · dernier passage le %s", e.Zone, e.Date))
			}),
		),
	)
}

func archivesSection(archives []prospection.Archive) g.Node {
	return Section(ID("archives"),
		H2(Class("text-lg font-semibold mb-2"), g.Textf("Archives (%d)", len(archives))),
		Ul(Class("text-sm space-y-1"),
			g.Map(archives, func(a prospection.Archive) g.Node {
				return Li(g.Textf("%s · %d entrées", a.ArchivedAt.Format("02/01/2006 15:04"), len(a.Data)))
			}),
		),
	)
}

func ideasSection(st app.State) g.Node {
	return Section(ID("ideas"),
		H2(Class("text-lg font-semibold mb-2"), g.Text("Boîte à idées")),
		Ul(Class("text-sm space-y-1 list-disc pl-5"),
			g.Map(st.Ideas, func(i ideas.Idea) g.Node {
				return Li(g.Text(i.Content))
			}),
		),
	)
}

func realEntries(entries []prospection.Entry) int {
	n := 0
	for _, e := range entries {
		if !e.IsSentinel() {
			n++
		}
	}
	return n
}
