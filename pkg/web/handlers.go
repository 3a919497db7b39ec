package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/saberchat/saber/pkg/filestore"
)

const maxUploadBytes = 32 << 20

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, status(err), map[string]string{"error": err.Error()})
}

func (s *Server) handleListProviders(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"providers": s.bot.SupportedProviders(),
	})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models := s.bot.SupportedModels(r.PathValue("provider"))
	if models == nil {
		// Unknown providers yield an empty set, not an error.
		models = []string{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

type settingsResponse struct {
	ModelProvider    string          `json:"model_provider"`
	ModelName        string          `json:"model_name"`
	ModelTemperature float64         `json:"model_temperature"`
	SystemMessage    string          `json:"system_message"`
	APIKeys          map[string]bool `json:"api_keys"` // provider → key configured; never the key itself.
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	keys := make(map[string]bool)
	for _, p := range s.bot.SupportedProviders() {
		keys[p] = s.bot.APIKey(p) != ""
	}

	s.writeJSON(w, http.StatusOK, settingsResponse{
		ModelProvider:    s.bot.ModelProvider(),
		ModelName:        s.bot.ModelName(),
		ModelTemperature: s.bot.Temperature(),
		SystemMessage:    s.bot.SystemMessage(),
		APIKeys:          keys,
	})
}

// settingsRequest carries a partial settings update. Absent fields are left
// alone; an explicit empty provider or model name clears it.
type settingsRequest struct {
	ModelProvider    *string  `json:"model_provider"`
	ModelName        *string  `json:"model_name"`
	ModelTemperature *float64 `json:"model_temperature"`
	SystemMessage    *string  `json:"system_message"`
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.ModelProvider != nil {
		if *req.ModelProvider == "" {
			s.bot.ClearModelProvider()
		} else if err := s.bot.SetModelProvider(*req.ModelProvider); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if req.ModelName != nil {
		if *req.ModelName == "" {
			s.bot.ClearModelName()
		} else if err := s.bot.SetModelName(*req.ModelName); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if req.ModelTemperature != nil {
		if err := s.bot.SetTemperature(*req.ModelTemperature); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if req.SystemMessage != nil {
		if err := s.bot.SetSystemMessage(*req.SystemMessage); err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.handleGetSettings(w, r)
}

type keyRequest struct {
	Provider string `json:"provider"`
	Key      string `json:"key"`
}

func (s *Server) handlePutKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := s.bot.SetAPIKey(req.Provider, req.Key); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type historyMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func (s *Server) handleGetHistory(w http.ResponseWriter, _ *http.Request) {
	history := s.bot.History()

	msgs := make([]historyMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, historyMessage{Role: m.Role.String(), Text: m.Text})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleListFiles(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"files": s.bot.Files().List()})
}

func (s *Server) handleUploadFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	var files []filestore.File
	for _, headers := range r.MultipartForm.File {
		for _, h := range headers {
			f, err := h.Open()
			if err != nil {
				s.writeError(w, err)
				return
			}

			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				s.writeError(w, err)
				return
			}

			files = append(files, filestore.File{Name: h.Filename, Data: data})
		}
	}

	if err := s.bot.Files().Write(files); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{"files": s.bot.Files().List()})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.bot.Files().Delete([]string{r.PathValue("name")}); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
