package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"ghkeys/internal/diag"
	"ghkeys/internal/model"
	"ghkeys/internal/sshconf"
)

// StartServer starts a read-only JSON API on the given port (default 8080).
// It serves the same data as the report/JSON CLI modes; there is no mutation
// surface here.
func StartServer(p model.Paths, port string) error {
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		handleAccounts(w, r, p)
	})
	mux.HandleFunc("/api/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		handleDiagnostics(w, r, p)
	})
	mux.HandleFunc("/api/mode", func(w http.ResponseWriter, r *http.Request) {
		handleMode(w, r, p)
	})

	fmt.Printf("Starting ghkeys API server at http://localhost:%s\n", port)
	fmt.Printf("Endpoints: /api/accounts /api/diagnostics /api/mode\n")

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("Server error: %v", err)
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("Encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func handleAccounts(w http.ResponseWriter, _ *http.Request, p model.Paths) {
	dir, err := sshconf.Load(p)
	if err != nil {
		writeError(w, err)
		return
	}
	records := dir.List()
	if records == nil {
		records = []model.AccountRecord{}
	}
	writeJSON(w, records)
}

func handleDiagnostics(w http.ResponseWriter, _ *http.Request, p model.Paths) {
	res, err := diag.Run(p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func handleMode(w http.ResponseWriter, _ *http.Request, p model.Paths) {
	enabled, err := sshconf.SplitEnabled(p)
	if err != nil {
		writeError(w, err)
		return
	}
	mode := "unified"
	if enabled {
		mode = "split"
	}
	writeJSON(w, map[string]any{
		"mode":          mode,
		"split_enabled": enabled,
		"config_file":   p.ConfigFile,
		"split_dir":     p.SplitDir,
	})
}
