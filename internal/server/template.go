package server

import (
	"html/template"

	"github.com/sells-group/landcover-cli/internal/model"
)

type indexData struct {
	Region     string
	Years      []model.Year
	Categories []model.Category
	CanView    bool
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Region}} Urban Analysis</title>
<style>
body { font-family: sans-serif; margin: 2em; }
fieldset { margin-bottom: 1em; width: 320px; }
</style>
</head>
<body>
<h1>{{.Region}} Urban Analysis</h1>
<form id="analysis" method="post" action="/analyze">
<fieldset>
<legend>Select Year</legend>
{{range $i, $y := .Years}}<label><input type="radio" name="year" value="{{$y}}"{{if eq $i 0}} checked{{end}}> {{$y}}</label><br>
{{end}}</fieldset>
<fieldset>
<legend>Select Features</legend>
{{range .Categories}}<label><input type="checkbox" name="{{.Key}}" value="on"> {{.Name}}</label><br>
{{end}}</fieldset>
<button type="submit" id="run">Perform Analysis</button>
<button type="button" id="view"{{if not .CanView}} disabled{{end}}>View Map</button>
</form>
<script>
document.getElementById("view").addEventListener("click", function () {
  window.open("/map", "_blank");
});
document.getElementById("analysis").addEventListener("submit", function (ev) {
  ev.preventDefault();
  var run = document.getElementById("run");
  run.disabled = true;
  fetch("/analyze", {method: "POST", body: new URLSearchParams(new FormData(ev.target))})
    .then(function (resp) { return resp.json().then(function (body) { return {ok: resp.ok, body: body}; }); })
    .then(function (r) {
      if (r.ok) {
        document.getElementById("view").disabled = false;
        alert(r.body.summary);
      } else {
        alert("Error: " + r.body.error);
      }
    })
    .catch(function (err) { alert("Error: " + err); })
    .finally(function () { run.disabled = false; });
});
</script>
</body>
</html>
`))
