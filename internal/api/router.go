package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/man-in-deep/sonic/internal/config"
	"github.com/man-in-deep/sonic/internal/service"
	"github.com/man-in-deep/sonic/internal/storage"
	"github.com/man-in-deep/sonic/internal/ws"
)

func NewRouter(
	cfg config.Config,
	store *storage.Store,
	hub *ws.Hub,
	artSvc *service.ArtService,
	files *service.FileService,
) http.Handler {
	h := &Handler{
		cfg:    cfg,
		store:  store,
		hub:    hub,
		artSvc: artSvc,
		files:  files,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/v1/ws", h.WebSocket)
	mux.HandleFunc("/api/artist/generate", h.GenerateArt)
	mux.HandleFunc("/api/artist/strokes", h.PlanStrokes)
	mux.HandleFunc("/api/artworks", h.ArtworkHistory)
	mux.HandleFunc("/api/quantum-state", h.QuantumState)
	mux.HandleFunc("/api/trail-data", h.TrailData)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("./static"))))

	return limitBody(cfg.MaxUploadSizeBytes, mux)
}

func limitBody(maxSize int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
		next.ServeHTTP(w, r)
	})
}
