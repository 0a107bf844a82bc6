package visualize

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ title }}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem auto; max-width: 60rem; color: #202124; }
h1 { font-size: 1.4rem; }
.doc { border: 1px solid #dadce0; border-radius: 8px; padding: 1rem 1.5rem; margin-bottom: 2rem; }
.doc-id { color: #5f6368; font-size: .85rem; }
.text { white-space: pre-wrap; line-height: 1.7; }
mark { border-radius: 3px; padding: 0 2px; }
.legend span { display: inline-block; margin: 0 .5rem .5rem 0; padding: 2px 8px; border-radius: 3px; font-size: .85rem; }
table { border-collapse: collapse; width: 100%; font-size: .9rem; }
th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid #eee; vertical-align: top; }
</style>
</head>
<body>
<h1>{{ title }}</h1>
{% for doc in docs %}
<section class="doc">
<div class="doc-id">{{ doc.DocID }}</div>
<div class="legend">{% for l in doc.Legend %}<span style="background: {{ l.Color }}">{{ l.Class }} ({{ l.Count }})</span>{% endfor %}</div>
<div class="text">{% for seg in doc.Segments %}{% if seg.Class %}<mark class="ext" style="background: {{ seg.Color }}" title="{{ seg.Title }}">{{ seg.Text }}</mark>{% else %}{{ seg.Text }}{% endif %}{% endfor %}</div>
{% if doc.HasRows %}
<table>
<thead><tr><th>#</th><th>Class</th><th>Text</th><th>Position</th><th>Attributes</th></tr></thead>
<tbody>
{% for row in doc.Rows %}<tr><td>{{ row.Index }}</td><td><span style="background: {{ row.Color }}">{{ row.Class }}</span></td><td>{{ row.Text }}</td><td>{{ row.Position }}</td><td>{{ row.Attributes }}</td></tr>
{% endfor %}</tbody>
</table>
{% else %}
<p>No extractions found.</p>
{% endif %}
{% if doc.Unaligned > 0 %}<p class="doc-id">{{ doc.Unaligned }} extraction(s) could not be located in the text.</p>{% endif %}
</section>
{% endfor %}
</body>
</html>
`
