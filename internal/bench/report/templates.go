package report

// htmlTemplate is the main HTML template for the report
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Benchmark}} - Benchmark Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
            --accent-primary: #3b82f6;
            --accent-success: #22c55e;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container { max-width: 1200px; margin: 0 auto; padding: 2rem; }

        header { margin-bottom: 2rem; }
        header h1 { font-size: 1.75rem; }
        header .meta { color: var(--text-secondary); font-size: 0.875rem; }

        .card {
            background: var(--bg-primary);
            border: 1px solid var(--border-color);
            border-radius: 0.5rem;
            box-shadow: var(--shadow);
            padding: 1.5rem;
            margin-bottom: 1.5rem;
        }

        .card h2 { font-size: 1.25rem; margin-bottom: 0.25rem; }
        .card .params { color: var(--text-secondary); font-size: 0.8rem; margin-bottom: 1rem; }

        table { width: 100%; border-collapse: collapse; font-size: 0.875rem; margin-bottom: 1rem; }
        th, td { padding: 0.5rem 0.75rem; text-align: right; border-bottom: 1px solid var(--border-color); }
        th:first-child, td:first-child { text-align: left; }
        th { color: var(--text-secondary); font-weight: 600; }

        pre.histogram {
            background: var(--bg-secondary);
            border-radius: 0.375rem;
            padding: 0.75rem;
            font-size: 0.75rem;
            overflow-x: auto;
        }

        details { margin-top: 0.75rem; }
        summary { cursor: pointer; color: var(--accent-primary); }
        .chart { height: 260px; }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>{{.Benchmark}}</h1>
        {{if .Description}}<p>{{.Description}}</p>{{end}}
        <p class="meta">Run {{.RunID}} &middot; {{.StartedAt.Format "2006-01-02 15:04:05"}} &middot; {{formatDuration .Duration}}</p>
    </header>

    {{range $i, $s := .Scenarios}}
    <section class="card">
        <h2>{{$s.Name}}</h2>
        <p class="params">
            {{if $s.Iterations}}iterations {{formatCount $s.Iterations}}{{else}}iterations unbounded{{end}}
            &middot; {{if $s.TimeLimit}}time limit {{formatDuration $s.TimeLimit}}{{else}}no time limit{{end}}
            {{if $s.PriorityCPU}}&middot; CPU time mode{{end}}
        </p>

        <table>
            <thead>
                <tr>
                    <th>Case</th><th>Iterations</th><th>Mean (ms)</th><th>Median (ms)</th>
                    <th>StdDev (ms)</th><th>P95 (ms)</th><th>P99 (ms)</th><th>CV (%)</th>
                    <th>Ops/sec</th><th>CPU (ms)</th><th>Peak Memory</th>
                </tr>
            </thead>
            <tbody>
            {{range $s.Cases}}
                <tr>
                    <td>{{.Summary.Name}}</td>
                    <td>{{formatCount .Count}}</td>
                    <td>{{formatMs .Statistics.Mean}}</td>
                    <td>{{formatMs .Statistics.Median}}</td>
                    <td>{{formatMs .Statistics.StdDev}}</td>
                    <td>{{formatMs .Statistics.P95}}</td>
                    <td>{{formatMs .Statistics.P99}}</td>
                    <td>{{printf "%.2f" (mul .Statistics.CV 100)}}</td>
                    <td>{{formatMs .Summary.OpsPerSec}}</td>
                    <td>{{formatMs .Resources.CPUTime}}</td>
                    <td>{{formatBytes .Resources.PeakMemory}}</td>
                </tr>
            {{end}}
            </tbody>
        </table>

        {{if gt (len $s.Cases) 1}}
        <div class="chart"><canvas id="chart-{{$i}}"></canvas></div>
        {{end}}

        {{range $s.Cases}}
        <details>
            <summary>{{.Summary.Name}} latency histogram</summary>
            <pre class="histogram">{{.Histogram}}</pre>
        </details>
        {{end}}
    </section>
    {{end}}
</div>

<script>
    const series = {{.ChartJSON}};
    series.forEach((s, i) => {
        const el = document.getElementById('chart-' + i);
        if (!el || typeof Chart === 'undefined') {
            return;
        }
        new Chart(el.getContext('2d'), {
            type: 'bar',
            data: {
                labels: s.cases,
                datasets: [
                    { label: 'Mean (ms)', data: s.mean, backgroundColor: '#3b82f6' },
                    { label: 'P95 (ms)', data: s.p95, backgroundColor: '#f59e0b' }
                ]
            },
            options: {
                responsive: true,
                maintainAspectRatio: false,
                plugins: {
                    tooltip: {
                        callbacks: {
                            footer: (items) => 'speedup ' + s.speedup[items[0].dataIndex].toFixed(2) + 'x'
                        }
                    }
                }
            }
        });
    });
</script>
</body>
</html>
`
