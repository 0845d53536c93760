package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/swr-monitor/internal/status"
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
	"swr":       status.FormatSWR,
	"interlock": status.InterlockString,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>SWR Monitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.normal { color: green; font-weight: bold; }
.tripped { color: red; font-weight: bold; }
.idle { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>SWR Monitor</h1>

<h2>Measurements</h2>
<table>
<tr><th>SWR</th><td>{{swr .SWR}}</td></tr>
<tr><th>Forward power</th><td>{{.Power}} W</td></tr>
<tr><th>Interlock</th><td class="{{if .Interlocked}}tripped{{else}}normal{{end}}">{{interlock .Interlocked}}</td></tr>
<tr><th>Transmitting</th><td{{if not .Transmitting}} class="idle"{{end}}>{{if .Transmitting}}yes{{else}}no{{end}}</td></tr>
<tr><th>Displays</th><td>{{if .UserActive}}bright{{else}}dimmed{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Interlock Counts</h2>
<table>
<tr><th>Trips</th><td>{{.Counts.Trips}}</td></tr>
<tr><th>Releases</th><td>{{.Counts.Releases}}</td></tr>
</table>

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02 15:04:05 UTC"}}</td></tr>
<tr><th>Poll interval</th><td>{{.Config.PollMs}} ms</td></tr>
<tr><th>SWR threshold</th><td>{{swr .Config.SWRThreshold}}</td></tr>
<tr><th>ADC backend</th><td>{{.Config.ADCBackend}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render status page: %v", err)
	}
}
