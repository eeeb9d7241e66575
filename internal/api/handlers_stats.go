package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := map[string]any{
		"model": s.deps.Model,
		"stats": s.deps.Stats.Snapshot(),
	}
	if s.deps.Pipeline != nil {
		resp["queue_depth"] = s.deps.Pipeline.QueueDepth()
		resp["jobs"] = s.deps.Pipeline.JobCount()
	}
	writeJSON(w, http.StatusOK, resp)
}
