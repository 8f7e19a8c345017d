// Package templates holds the dashboard views. They are html/template
// sources exposed as templ components so handlers render every page and
// fragment the same way.
package templates

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/csg33k/people-indicators/internal/domain"
)

// Tab names as they appear in /tabs/{name}.
const (
	TabDemographics = "demografia"
	TabAgeTenure    = "idade"
	TabGeography    = "localizacao"
	TabTurnover     = "rotatividade"
	TabData         = "dados"
)

type Tab struct {
	Name  string
	Label string
}

// Tabs is the navigation order of the dashboard.
var Tabs = []Tab{
	{TabDemographics, "Demografia"},
	{TabAgeTenure, "Idade/Tempo de Casa"},
	{TabGeography, "Localização"},
	{TabTurnover, "Rotatividade"},
	{TabData, "Base de Dados"},
}

// IndexData feeds the full page. Session may be nil.
type IndexData struct {
	Session        *domain.Session
	Headline       domain.Headline
	MaxUploadBytes int64
	Tabs           []Tab
}

func (d IndexData) Loaded() bool { return d.Session.HasRoster() }

func (d IndexData) MaxUploadMB() int64 { return d.MaxUploadBytes >> 20 }

// GeographyData carries the location aggregates and, when the states outline
// could not be fetched, the reason the map is missing.
type GeographyData struct {
	Geography domain.Geography
	MapError  string
}

// DataPage is one page of the raw roster table.
type DataPage struct {
	FileName string
	Rows     domain.Roster
	Page     int
	Pages    int
	Total    int
}

// RowsPerPage bounds the roster table.
const RowsPerPage = 100

// NewDataPage slices roster into the requested 1-based page, clamped to the
// valid range.
func NewDataPage(roster domain.Roster, fileName string, page int) DataPage {
	pages := (len(roster) + RowsPerPage - 1) / RowsPerPage
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	lo := (page - 1) * RowsPerPage
	hi := min(lo+RowsPerPage, len(roster))
	return DataPage{FileName: fileName, Rows: roster[lo:hi], Page: page, Pages: pages, Total: len(roster)}
}

func Index(d IndexData) templ.Component { return component("index", d) }

// NoData is shown wherever a view needs a roster and none is loaded.
func NoData() templ.Component { return component("no-data", nil) }

func ErrorBanner(msg string) templ.Component { return component("error", msg) }

func UploadResult(r domain.LoadReport) templ.Component { return component("upload-result", r) }

func DemographicsTab(d domain.Demographics) templ.Component {
	return component("tab-demographics", d)
}

func AgeTenureTab(d domain.AgeTenure) templ.Component { return component("tab-age-tenure", d) }

func GeographyTab(d GeographyData) templ.Component { return component("tab-geography", d) }

func TurnoverTab(r domain.TurnoverReport) templ.Component { return component("tab-turnover", r) }

func DataTab(d DataPage) templ.Component { return component("tab-data", d) }

func component(name string, data any) templ.Component {
	return templ.FromGoHTML(views.Lookup(name), data)
}

var views = template.Must(template.New("views").Funcs(funcs).Parse(`
{{define "index"}}<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Indicadores de Pessoas</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js" charset="utf-8"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;600&family=IBM+Plex+Sans:wght@300;400;600&display=swap" rel="stylesheet">
<style>
  :root {
    --ink: #0d1117;
    --paper: #f5f0e8;
    --ledger: #e8e0cc;
    --accent: #c0392b;
    --accent2: #2c6e49;
    --muted: #6b5e4e;
    --rule: #b8a898;
  }
  * { box-sizing: border-box; }
  body { background: var(--paper); color: var(--ink); font-family: 'IBM Plex Sans', sans-serif; margin: 0; }
  main { max-width: 1180px; margin: 0 auto; padding: 24px; }
  .mono { font-family: 'IBM Plex Mono', monospace; }
  .card { background: rgba(255,255,255,0.7); border: 1px solid var(--ledger); border-left: 4px solid var(--ink); padding: 16px; margin-bottom: 16px; }
  .cards { display: grid; grid-template-columns: repeat(4, 1fr); gap: 12px; margin-bottom: 16px; }
  .metric { background: white; border: 1px solid var(--ledger); padding: 12px; }
  .metric .label { font-family: 'IBM Plex Mono', monospace; font-size: 0.65rem; letter-spacing: 0.1em; text-transform: uppercase; color: var(--muted); }
  .metric .value { font-size: 1.6rem; font-weight: 600; }
  .tabs { display: flex; gap: 4px; border-bottom: 2px solid var(--ink); margin-bottom: 16px; }
  .tabs button { background: var(--ledger); border: none; padding: 8px 14px; cursor: pointer; font-family: inherit; }
  .tabs button.active { background: var(--ink); color: white; }
  .btn { background: var(--ink); color: white; border: none; padding: 6px 14px; cursor: pointer; font-family: 'IBM Plex Mono', monospace; }
  .btn-danger { background: var(--accent); }
  .alert { border-left: 4px solid var(--accent); background: #fbeaea; padding: 10px 14px; margin: 8px 0; }
  .notice { border-left: 4px solid var(--muted); background: white; padding: 10px 14px; margin: 8px 0; }
  .ok { border-left: 4px solid var(--accent2); background: #eaf5ee; padding: 10px 14px; margin: 8px 0; }
  table { border-collapse: collapse; width: 100%; font-size: 0.8rem; }
  th, td { border: 1px solid var(--ledger); padding: 4px 8px; text-align: left; }
  th { background: var(--ink); color: white; }
  td.n { text-align: right; font-family: 'IBM Plex Mono', monospace; }
  .grid2 { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
  .grid3 { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
  .chart { min-height: 320px; }
  select { padding: 4px 8px; font-family: 'IBM Plex Mono', monospace; }
</style>
<script>
  document.addEventListener("htmx:beforeSwap", function (e) {
    var s = e.detail.xhr.status;
    if (s >= 400 && s < 500) { e.detail.shouldSwap = true; e.detail.isError = false; }
  });
</script>
</head>
<body>
<main>
  <h1>Indicadores de Pessoas</h1>
  <section class="card">
    <form hx-post="/upload" hx-encoding="multipart/form-data" hx-target="#upload-result" action="/upload" method="post" enctype="multipart/form-data">
      <label>Planilha (.xlsx ou .xls, aba "BD", até {{.MaxUploadMB}} MB)</label>
      <input type="file" name="file" accept=".xlsx,.xlsm,.xls" required>
      <button class="btn" type="submit">Carregar</button>
    </form>
    <div id="upload-result"></div>
  </section>
  <div id="dashboard" hx-get="/" hx-select="#dashboard" hx-swap="outerHTML" hx-trigger="roster-loaded from:body">
  {{if .Loaded}}
    <section class="card">
      <div style="display:flex;justify-content:space-between;align-items:center;">
        <div>Arquivo: <span class="mono">{{.Session.FileName}}</span></div>
        <button class="btn btn-danger" hx-post="/session/reset" hx-confirm="Descartar os dados carregados?">Encerrar sessão</button>
      </div>
    </section>
    {{with .Headline}}
    <div class="cards">
      <div class="metric"><div class="label">Ativos em {{date .AsOf}}</div><div class="value">{{.ActiveNow}}</div></div>
      <div class="metric"><div class="label">Rotatividade {{.Turnover.Year}}</div><div class="value">{{pct .Turnover.TurnoverRate}}</div></div>
      <div class="metric"><div class="label">Retenção {{.Turnover.Year}}</div><div class="value">{{pct .RetentionRate}}</div></div>
      <div class="metric"><div class="label">Admissões / Desligamentos</div><div class="value">{{.Turnover.Entries}} / {{.Turnover.Exits}}</div></div>
    </div>
    {{end}}
    <nav class="tabs">
      {{range $i, $t := .Tabs}}
      <button class="{{if eq $i 0}}active{{end}}" hx-get="/tabs/{{$t.Name}}" hx-target="#tab-content"
        onclick="document.querySelectorAll('.tabs button').forEach(function(b){b.classList.remove('active')});this.classList.add('active');">{{$t.Label}}</button>
      {{end}}
    </nav>
    <div id="tab-content" hx-get="/tabs/{{(index .Tabs 0).Name}}" hx-trigger="load"></div>
  {{else}}
    {{template "no-data"}}
  {{end}}
  </div>
</main>
</body>
</html>
{{end}}

{{define "no-data"}}<div class="notice">Nenhum dado carregado. Envie uma planilha com a aba "BD" para ver os indicadores.</div>{{end}}

{{define "error"}}<div class="alert" role="alert">{{.}}</div>{{end}}

{{define "upload-result"}}<div class="ok">
  <strong>{{.FileName}}</strong> carregado: {{.RowsRead}} registros
  {{- if .RowsSkipped}}, {{.RowsSkipped}} linhas em branco ignoradas{{end}}
  {{- if .InvalidDates}}, {{.InvalidDates}} datas inválidas tratadas como ausentes{{end}}.
</div>{{end}}

{{define "tab-demographics"}}<div class="grid3">
  <div><div id="chart-gender" class="chart"></div></div>
  <div><div id="chart-married" class="chart"></div></div>
  <div><div id="chart-children" class="chart"></div></div>
</div>
<script>
(function () {
  function pie(id, title, shares) {
    shares = shares || [];
    Plotly.newPlot(id, [{
      type: "pie", hole: 0.4,
      labels: shares.map(function (s) { return s.Label; }),
      values: shares.map(function (s) { return s.Count; })
    }], { title: title, margin: { t: 40, b: 10, l: 10, r: 10 } }, { responsive: true });
  }
  pie("chart-gender", "Sexo", {{.Gender}});
  pie("chart-married", "Estado civil", {{.Married}});
  pie("chart-children", "Filhos", {{.HasChildren}});
})();
</script>{{end}}

{{define "tab-age-tenure"}}<div class="cards">
  <div class="metric"><div class="label">Idade média</div><div class="value">{{num .MeanAge}}</div></div>
  <div class="metric"><div class="label">Mais novo / mais velho</div><div class="value">{{.MinAge}} / {{.MaxAge}}</div></div>
  <div class="metric"><div class="label">Tempo médio de casa (anos)</div><div class="value">{{num .MeanTenure}}</div></div>
  <div class="metric"><div class="label">Referência</div><div class="value mono" style="font-size:1rem;">{{date .AsOf}}</div></div>
</div>
<div class="grid2">
  <div id="chart-age" class="chart"></div>
  <div id="chart-tenure" class="chart"></div>
</div>
<script>
(function () {
  function bars(id, title, shares) {
    shares = shares || [];
    Plotly.newPlot(id, [{
      type: "bar",
      x: shares.map(function (s) { return s.Label; }),
      y: shares.map(function (s) { return s.Percent; }),
      text: shares.map(function (s) { return s.Count; })
    }], { title: title, yaxis: { title: "%" } }, { responsive: true });
  }
  bars("chart-age", "Faixa etária", {{.AgeBands}});
  bars("chart-tenure", "Tempo de casa", {{.TenureBands}});
})();
</script>{{end}}

{{define "tab-geography"}}{{if .MapError}}{{template "error" .MapError}}{{else}}<div id="chart-map" class="chart" style="min-height:480px;"></div>{{end}}
<div class="grid2">
  <table>
    <tr><th>Estado</th><th>UF</th><th>Colaboradores</th></tr>
    {{range .Geography.States}}<tr><td>{{.State}}</td><td class="mono">{{.Code}}</td><td class="n">{{.Count}}</td></tr>
    {{else}}<tr><td colspan="3">Sem dados</td></tr>{{end}}
  </table>
  <table>
    <tr><th>Cidade</th><th>Colaboradores</th></tr>
    {{range .Geography.TopCities}}<tr><td>{{.City}}</td><td class="n">{{.Count}}</td></tr>
    {{else}}<tr><td colspan="2">Sem dados</td></tr>{{end}}
  </table>
</div>
{{if not .MapError}}<script>
(function () {
  var states = ({{.Geography.States}} || []).filter(function (s) { return s.Code; });
  fetch("/geo/states.geojson").then(function (r) {
    if (!r.ok) { throw new Error(r.status); }
    return r.json();
  }).then(function (geo) {
    Plotly.newPlot("chart-map", [{
      type: "choropleth", geojson: geo, featureidkey: "properties.sigla",
      locations: states.map(function (s) { return s.Code; }),
      z: states.map(function (s) { return s.Count; }),
      text: states.map(function (s) { return s.State; }),
      colorscale: "Blues"
    }], { title: "Colaboradores por estado", geo: { fitbounds: "locations", visible: false } }, { responsive: true });
  }).catch(function (err) {
    document.getElementById("chart-map").innerHTML = '<div class="alert">Mapa indisponível: ' + err.message + '</div>';
  });
})();
</script>{{end}}{{end}}

{{define "tab-turnover"}}<div id="turnover">
  <form class="card" hx-get="/turnover" hx-target="#turnover" hx-swap="outerHTML" hx-trigger="change">
    <label>Sexo
      <select name="gender">
        <option value="all">Todos</option>
        {{range .Genders}}<option value="{{.}}" {{if eq . $.Filter.Gender}}selected{{end}}>{{.}}</option>{{end}}
      </select>
    </label>
    <label>Função
      <select name="role">
        <option value="all">Todos</option>
        {{range .Roles}}<option value="{{.}}" {{if eq . $.Filter.Role}}selected{{end}}>{{.}}</option>{{end}}
      </select>
    </label>
    <label>Ano
      <select name="year">
        {{range .Years}}<option value="{{.}}" {{if eq . $.Filter.Year}}selected{{end}}>{{.}}</option>{{end}}
      </select>
    </label>
    <a class="btn" href="/turnover/pdf?gender={{.Filter.Gender}}&role={{.Filter.Role}}&year={{.Filter.Year}}">Exportar PDF</a>
  </form>
  {{with .Result}}
  <div class="cards">
    <div class="metric"><div class="label">Taxa de rotatividade {{.Year}}</div><div class="value">{{pct .TurnoverRate}}</div></div>
    <div class="metric"><div class="label">Admissões</div><div class="value">{{.Entries}}</div></div>
    <div class="metric"><div class="label">Desligamentos</div><div class="value">{{.Exits}}</div></div>
    <div class="metric"><div class="label">Headcount médio</div><div class="value">{{num .AverageHeadcount}}</div></div>
  </div>
  <p class="mono" style="font-size:0.75rem;">Ativos em 01/01: {{.ActiveStart}} · Ativos em 31/12: {{.ActiveEnd}} · Sexo: {{label .GenderFilter}} · Função: {{label .RoleFilter}}</p>
  {{end}}
  <div class="{{if .Breakdown}}grid2{{end}}">
    <div id="chart-timeline" class="chart"></div>
    {{if .Breakdown}}<div id="chart-breakdown" class="chart"></div>{{end}}
  </div>
  <script>
  (function () {
    var months = {{months .Timeline}};
    var timeline = {{.Timeline}} || [];
    Plotly.newPlot("chart-timeline", [
      { type: "bar", name: "Admissões", x: months, y: timeline.map(function (m) { return m.Entries; }) },
      { type: "bar", name: "Desligamentos", x: months, y: timeline.map(function (m) { return m.Exits; }) }
    ], { title: "Movimentação mensal " + {{.Result.Year}}, barmode: "group" }, { responsive: true });
    var breakdown = {{.Breakdown}};
    if (breakdown) {
      var cats = breakdown.map(function (b) { return b.Category; });
      Plotly.newPlot("chart-breakdown", [
        { type: "bar", name: "Admissões", x: cats, y: breakdown.map(function (b) { return b.Entries; }) },
        { type: "bar", name: "Desligamentos", x: cats, y: breakdown.map(function (b) { return b.Exits; }) }
      ], { title: "Comparação por sexo", barmode: "group" }, { responsive: true });
    }
  })();
  </script>
</div>{{end}}

{{define "tab-data"}}<div id="roster">
  <p class="mono" style="font-size:0.75rem;">{{.FileName}} · {{.Total}} registros · página {{.Page}} de {{.Pages}}</p>
  <table>
    <tr><th>Linha</th><th>Contratado</th><th>Desligado</th><th>Sexo</th><th>Função</th><th>Nascimento</th><th>Casado</th><th>Filhos</th><th>Estado</th><th>Cidade</th></tr>
    {{range .Rows}}<tr>
      <td class="n">{{.Row}}</td><td>{{date .HireDate}}</td><td>{{date .TerminationDate}}</td><td>{{.Gender}}</td><td>{{.Role}}</td>
      <td>{{date .BirthDate}}</td><td>{{.Married}}</td><td>{{.HasChildren}}</td><td>{{.State}}</td><td>{{.City}}</td>
    </tr>{{else}}<tr><td colspan="10">A planilha não tem registros.</td></tr>{{end}}
  </table>
  <div style="margin-top:8px;">
    {{if gt .Page 1}}<button class="btn" hx-get="/data?page={{sub .Page 1}}" hx-target="#roster" hx-swap="outerHTML">Anterior</button>{{end}}
    {{if lt .Page .Pages}}<button class="btn" hx-get="/data?page={{add .Page 1}}" hx-target="#roster" hx-swap="outerHTML">Próxima</button>{{end}}
  </div>
</div>{{end}}
`))
