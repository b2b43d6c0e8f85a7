package render

import "html/template"

var fragmentTmpl = template.Must(template.New("fragment").Parse(`<div id="{{.ID}}" class="gviz-chart"></div>
<script>
google.charts.setOnLoadCallback(function () {
  var wrapper = new google.visualization.ChartWrapper({{.Spec}});
{{- if .Bridge}}
  var ev = google.visualization.events;
  var hooked = null;
  var send = window.gvizBridge({{.ID}}, function (m) {
    if (m.dataTable) { wrapper.setDataTable(new google.visualization.DataTable(m.dataTable)); }
    if (m.options) { wrapper.setOptions(m.options); }
    wrapper.draw();
  });
  ev.addListener(wrapper, 'ready', function () {
    var c = wrapper.getChart();
    if (c !== hooked) {
      hooked = c;
      ev.addListener(c, 'select', function () {
        send({type: 'select', selection: c.getSelection()});
      });
    }
    send({type: 'ready'});
  });
  ev.addListener(wrapper, 'error', function (e) {
    send({type: 'error', message: e.message, reason: e.id});
  });
{{- end}}
  wrapper.draw();
});
</script>
`))

var bridgeTmpl = template.Must(template.New("bridge").Parse(`<script>
(function () {
  var url = (location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + {{.}};
  var ws = new WebSocket(url);
  var queue = [];
  var redraw = {};
  ws.onopen = function () {
    queue.forEach(function (m) { ws.send(m); });
    queue = [];
  };
  ws.onmessage = function (e) {
    var m = JSON.parse(e.data);
    if (m.type === 'draw' && redraw[m.id]) { redraw[m.id](m); }
  };
  window.gvizBridge = function (id, onDraw) {
    redraw[id] = onDraw;
    return function (m) {
      m.id = id;
      var s = JSON.stringify(m);
      if (ws.readyState === 1) { ws.send(s); } else { queue.push(s); }
    };
  };
})();
</script>
`))

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.LoaderURL}}"></script>
<script>
google.charts.load('current', {packages: {{.Packages}}{{if .Language}}, language: {{.Language}}{{end}}});
</script>
</head>
<body>
{{if .Bridge}}{{.Bridge}}{{end}}
{{- range .Fragments}}
{{.}}
{{- end}}
</body>
</html>
`))
