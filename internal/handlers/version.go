package handlers

import (
	"net/http"
	"runtime"
)

// Build metadata, injected at link time via -ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// VersionResponse describes the running build
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// VersionHandler handles the /version endpoint
func VersionHandler(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, VersionResponse{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	})
}
