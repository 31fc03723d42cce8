package webmap

import "html/template"

var pageTmpl = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body { width: 100%; height: 100%; margin: 0; padding: 0; }
#map { position: absolute; top: 0; bottom: 0; right: 0; left: 0; }
.legend-swatch { width: 10px; height: 10px; float: left; margin-right: 5px; }
</style>
</head>
<body>
<div id="map"></div>
<div id="legend" style="position: fixed; bottom: 150px; left: 50px; width: 250px; height: auto; background-color: white; z-index: 9999; font-size: 14px; border: 2px solid grey; padding: 10px;">
<strong>Legend</strong><br>
{{- range .Legend}}
<div class="legend-entry">{{if .Border}}<i class="legend-swatch" style="border: 2px solid {{.Color}};"></i>{{else}}<i class="legend-swatch" style="background: {{.Color}};"></i>{{end}} {{.Label}}</div>
{{- end}}
<img src="{{.ChartURL}}" alt="Area chart" style="width: 200px; margin: 10px;">
</div>
<script>
var map = L.map("map").setView({{.Center}}, {{.Zoom}});
L.tileLayer({{.TileURL}}, {maxZoom: 19, attribution: {{.Attribution}}}).addTo(map);
L.imageOverlay({{.OverlayURL}}, {{.Bounds}}, {opacity: {{.Opacity}}}).addTo(map);
L.geoJSON({{.Boundary}}, {style: function () { return {color: "yellow", weight: 3, fillOpacity: 0}; }}).addTo(map);
var markers = {{.Markers}};
markers.forEach(function (m) {
	var label = document.createElement("span");
	label.textContent = m.name;
	L.circleMarker([m.lat, m.lon], {radius: 5, color: "orange", fill: true, fillColor: "orange", fillOpacity: 0.8}).bindPopup(label).addTo(map);
});
</script>
</body>
</html>
`))
