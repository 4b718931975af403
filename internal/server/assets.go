package server

import (
	_ "embed"
	"net/http"
)

//go:embed assets/sw.js
var workerScript []byte

//go:embed assets/index.html
var indexPage []byte

// WorkerPath is where the page registers its offline worker
const WorkerPath = "/sw.js"

func handleWorker(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Service-Worker-Allowed", "/")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(workerScript)
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}
