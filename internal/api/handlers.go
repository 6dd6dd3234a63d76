package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/man-in-deep/sonic/internal/config"
	"github.com/man-in-deep/sonic/internal/model"
	"github.com/man-in-deep/sonic/internal/service"
	"github.com/man-in-deep/sonic/internal/storage"
	"github.com/man-in-deep/sonic/internal/ws"
)

type Handler struct {
	cfg      config.Config
	store    *storage.Store
	hub      *ws.Hub
	artSvc   *service.ArtService
	files    *service.FileService
	upgrader websocket.Upgrader
}

type apiError struct {
	Error string `json:"error"`
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, errors.New("websocket requires GET"))
		return
	}
	if !websocket.IsWebSocketUpgrade(r) {
		writeErr(w, http.StatusBadRequest, errors.New("websocket upgrade required"))
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: remote=%s err=%v", r.RemoteAddr, err)
		return
	}
	client := ws.NewClient(h.hub, conn)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

// GenerateArt accepts multipart form data (optionally with a reference
// image file) or a JSON body with image_b64, and runs the full generation
// pipeline.
func (h *Handler) GenerateArt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req service.GenerateRequest
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if strings.Contains(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.cfg.MaxUploadSizeBytes); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		req.UserID = firstOr(r.FormValue("user_id"), userIDFromRequest(r))
		req.Prompt = strings.TrimSpace(r.FormValue("prompt"))
		req.NegativePrompt = strings.TrimSpace(r.FormValue("negative_prompt"))
		req.ArtType = model.ArtType(r.FormValue("art_type"))
		req.MediumStyle = r.FormValue("medium_style")
		req.Seed = parseSeed(r.FormValue("seed"))

		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			if err := service.ValidateFilename(header.Filename); err != nil {
				writeErr(w, http.StatusBadRequest, err)
				return
			}
			data, err := io.ReadAll(file)
			if err != nil {
				writeErr(w, http.StatusBadRequest, err)
				return
			}
			path, err := h.files.SaveUpload(bytes.NewReader(data), header.Filename)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, err)
				return
			}
			req.Reference = data
			req.ReferenceImagePath = path
		}
	} else {
		var body struct {
			UserID         string `json:"user_id"`
			Prompt         string `json:"prompt"`
			NegativePrompt string `json:"negative_prompt"`
			ArtType        string `json:"art_type"`
			MediumStyle    string `json:"medium_style"`
			Seed           int64  `json:"seed"`
			ImageB64       string `json:"image_b64"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		req.UserID = firstOr(body.UserID, userIDFromRequest(r))
		req.Prompt = strings.TrimSpace(body.Prompt)
		req.NegativePrompt = strings.TrimSpace(body.NegativePrompt)
		req.ArtType = model.ArtType(body.ArtType)
		req.MediumStyle = body.MediumStyle
		req.Seed = body.Seed
		if body.ImageB64 != "" {
			data, err := base64.StdEncoding.DecodeString(body.ImageB64)
			if err != nil {
				writeErr(w, http.StatusBadRequest, err)
				return
			}
			req.Reference = data
		}
	}

	if req.Prompt == "" {
		writeErr(w, http.StatusBadRequest, errors.New("prompt required"))
		return
	}

	result, err := h.artSvc.Generate(r.Context(), req)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if !result.Success {
		writeJSON(w, http.StatusBadGateway, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PlanStrokes runs only the stroke core against an uploaded image and
// returns the sequence plus a rendered preview.
func (h *Handler) PlanStrokes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSizeBytes); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	artType := model.ArtType(r.FormValue("art_type"))
	mediumStyle := r.FormValue("medium_style")
	seed := parseSeed(r.FormValue("seed"))

	file, header, err := r.FormFile("image")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()
	if err := service.ValidateFilename(header.Filename); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	strokes, rendered, err := h.artSvc.PlanOnly(data, artType, mediumStyle, seed)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if err := h.files.EncodePNG(&buf, rendered); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"art_type":     string(artType),
		"medium_style": mediumStyle,
		"stroke_count": len(strokes),
		"strokes":      strokes,
		"preview_png":  base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

func (h *Handler) ArtworkHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if h.store == nil {
		writeErr(w, http.StatusServiceUnavailable, errors.New("artwork store not configured"))
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	limit := atoiDefault(r.URL.Query().Get("limit"), 10)
	artworks, err := h.store.History(r.Context(), userID, limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"artworks": artworks, "count": len(artworks)})
}

// QuantumState serves the cosmetic dashboard payload. Values are random by
// design; only the config-sourced fields are stable.
func (h *Handler) QuantumState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	state := model.QuantumState{
		Coherence:            0.7 + rand.Float64()*0.29,
		Entanglement:         0.5 + rand.Float64()*0.45,
		TunnelingProbability: h.cfg.TunnelingProbability,
		DecayRate:            h.cfg.DecayRate,
		Timestamp:            time.Now().Format(time.RFC3339),
		Particles:            50 + rand.Intn(151),
	}
	writeJSON(w, http.StatusOK, state)
}

// TrailData accepts pencil trail payloads from the landing page. The data
// is only logged for now.
func (h *Handler) TrailData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var body struct {
		Trails []json.RawMessage `json:"trails"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	log.Printf("trail data received: %d trails", len(body.Trails))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Trail data logged"})
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, apiError{Error: err.Error()})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func firstOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func userIDFromRequest(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if v != "" {
		return v
	}
	return "anonymous"
}

func parseSeed(v string) int64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func atoiDefault(v string, d int) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return d
	}
	return n
}
