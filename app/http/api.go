package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type generateRequest struct {
	Persona string `json:"persona"`
	Text    string `json:"text"`
}

type generateResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}

type personasResponse struct {
	Default  string   `json:"default"`
	Personas []string `json:"personas"`
}

// apiGenerate always answers 200 once the body decodes; the outcome is in status.
func (h *Server) apiGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		h.log.Debug("Rejected generate request", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res := h.generator.Generate(r.Context(), req.Text, req.Persona)
	writeJSON(w, http.StatusOK, generateResponse{
		Status: res.Kind.String(),
		Text:   res.String(),
	})
}

func (h *Server) apiPersonas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, personasResponse{
		Default:  h.personas.Default().Label,
		Personas: h.personas.Labels(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
