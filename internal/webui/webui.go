package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"github.com/julienschmidt/httprouter"

	"transit.sullia.org/internal/appconf"
	"transit.sullia.org/internal/transit"
)

//go:embed map_index.html debug_index.html
var templateFS embed.FS

// WebUI serves the map page and, outside production, a debug data dump
type WebUI struct {
	TransitManager *transit.Manager
	Env            appconf.Environment
}

// SetWebUIRoutes registers the web pages on the given router
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/", http.HandlerFunc(webUI.mapHandler))
	if webUI.Env != appconf.Production {
		router.Handler(http.MethodGet, "/debug", http.HandlerFunc(webUI.debugIndexHandler))
	}
}

// mapHandler renders the Leaflet map page
func (webUI *WebUI) mapHandler(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(templateFS, "map_index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err := tmpl.Execute(w, nil); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	if err := tmpl.Execute(w, dataStruct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	ctx := r.Context()

	var data interface{}
	var title string

	switch dataType {
	case "stops":
		stops, err := webUI.TransitManager.TransitDB.Queries.ListStops(ctx)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = stops
		title = "Transit Graph - Stops"
	case "edges":
		edges, err := webUI.TransitManager.TransitDB.Queries.ListEdges(ctx)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = edges
		title = "Transit Graph - Edges"
	case "stats":
		stats, err := webUI.TransitManager.Statistics(ctx)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = stats
		title = "Transit Graph - Statistics"
	default:
		data = map[string]string{
			"error": "Please use one of the following: stops, edges, stats.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
