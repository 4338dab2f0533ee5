package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/fortune-button/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Fortune Button</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.bad { color: red; }
.warn { color: orange; }
pre.fortune { background: #f5f5f5; padding: 1em; white-space: pre-wrap; }
button { font-family: monospace; padding: 6px 14px; margin-right: 8px; }
</style>
</head>
<body>
<h1>Fortune Button</h1>

<h2>Last Session</h2>
<table>
<tr><th>Session</th><td>#{{.SessionCount}}</td></tr>
<tr><th>Print</th><td class="{{if .LastOutcome.Success}}ok{{else}}bad{{end}}">{{if .LastOutcome.Success}}ok ({{.LastOutcome.Method}}){{else}}failed{{end}}</td></tr>
<tr><th>Category</th><td>{{.LastContent.Category}}</td></tr>
<tr><th>Entropy</th><td>{{printf "%.4f" .LastContent.Metrics.Entropy}}</td></tr>
<tr><th>Intensity</th><td>{{printf "%.2f" .LastContent.Metrics.Intensity}}</td></tr>
<tr><th>Loops</th><td>{{.LastContent.Metrics.Loops}}</td></tr>
<tr><th>Fallback content</th><td>{{yesno .LastContent.FallbackUsed}}</td></tr>
</table>

{{if .LastContent.Lines}}<pre class="fortune">{{range .LastContent.Lines}}{{.}}
{{end}}</pre>{{end}}

<h2>Hardware</h2>
<table>
<tr><th>Button (GPIO {{.Config.Pin}})</th><td class="{{if .GPIOActive}}ok{{else}}warn{{end}}">{{if .GPIOActive}}active{{else}}not connected{{end}}</td></tr>
<tr><th>Printer</th><td class="{{if .PrinterConnected}}ok{{else}}warn{{end}}">{{if .PrinterConnected}}connected{{else}}not connected{{end}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}ok{{else}}bad{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
</table>

<h2>Press Counts</h2>
<table>
<tr><th>Presses</th><td>{{.Counts.Presses}}</td></tr>
<tr><th>Signals</th><td>{{.Counts.Signals}}</td></tr>
<tr><th>Short holds</th><td>{{.Counts.ShortHolds}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Min hold</th><td>{{.Config.HoldMs}}ms</td></tr>
<tr><th>Cooldown</th><td>{{.Config.CooldownMs}}ms</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
</table>

<p>
<button onclick="act('/trigger')">Synthetic press</button>
<button onclick="act('/print')">Print default</button>
</p>
<p><a href="/index.json">JSON</a> · <a href="/sessions.json">Sessions</a> · <a href="/metrics">Metrics</a></p>

<script>
function act(path) {
  fetch(path, { method: "POST" }).then(function(r) {
    if (!r.ok) { alert(path + ": " + r.status); }
  });
}
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
