package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/small-frappuccino/discordpager/pkg/log"
	"github.com/small-frappuccino/discordpager/pkg/storage"
)

const (
	defaultMaxBodyBytes = 256 * 1024
)

// Server exposes deck management for a running bot.
type Server struct {
	addr       string
	store      storage.DeckStore
	httpServer *http.Server
	listener   net.Listener
}

// NewServer returns nil if addr is empty.
func NewServer(addr string, store storage.DeckStore) *Server {
	addr = strings.TrimSpace(addr)
	if addr == "" || store == nil {
		return nil
	}

	s := &Server{
		addr:  addr,
		store: store,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(log.ApplicationLogger().Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1/guilds/{guildID}/decks", func(r chi.Router) {
		r.Get("/", s.handleListDecks)
		r.Get("/{name}", s.handleGetDeck)
		r.Put("/{name}", s.handlePutDeck)
		r.Delete("/{name}", s.handleDeleteDeck)
	})
	return r
}

// Handler returns the router, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start opens the control server listening socket.
func (s *Server) Start() error {
	if s == nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("bind control server: %w", err)
	}
	s.listener = ln

	log.ApplicationLogger().Info("Control server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ApplicationLogger().Error("Control server stopped unexpectedly", "err", err)
		}
	}()

	return nil
}

// Addr is the bound address once started, otherwise the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts down the control server.
func (s *Server) Stop(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown control server: %w", err)
	}

	log.ApplicationLogger().Info("Control server stopped", "addr", s.addr)
	return nil
}

type putDeckRequest struct {
	Pages []*discordgo.MessageEmbed `json:"pages"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.store.ListDecks(chi.URLParam(r, "guildID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if decks == nil {
		decks = []storage.DeckSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.store.GetDeck(chi.URLParam(r, "guildID"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if deck == nil {
		writeError(w, notFound(fmt.Errorf("deck %q not found", chi.URLParam(r, "name"))))
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (s *Server) handlePutDeck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, defaultMaxBodyBytes)
	defer r.Body.Close()

	var req putDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(fmt.Errorf("invalid payload: %w", err)))
		return
	}

	deck := storage.Deck{
		GuildID:   chi.URLParam(r, "guildID"),
		Name:      chi.URLParam(r, "name"),
		Pages:     req.Pages,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveDeck(deck); err != nil {
		if errors.Is(err, storage.ErrInvalidDeck) {
			err = badRequest(err)
		}
		writeError(w, err)
		return
	}

	deck.Name = storage.NormalizeDeckName(deck.Name)
	log.ApplicationLogger().Info("Deck saved", "guildID", deck.GuildID, "name", deck.Name, "pages", len(deck.Pages))
	writeJSON(w, http.StatusOK, deck.Summary())
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	guildID, name := chi.URLParam(r, "guildID"), chi.URLParam(r, "name")
	deleted, err := s.store.DeleteDeck(guildID, name)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, notFound(fmt.Errorf("deck %q not found", name)))
		return
	}
	log.ApplicationLogger().Info("Deck deleted", "guildID", guildID, "name", name)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ApplicationLogger().Error("Failed to encode control response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		status = httpErr.code
	}
	http.Error(w, err.Error(), status)
}

func badRequest(err error) error {
	return &httpError{
		code: http.StatusBadRequest,
		err:  err,
	}
}

func notFound(err error) error {
	return &httpError{
		code: http.StatusNotFound,
		err:  err,
	}
}

type httpError struct {
	code int
	err  error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }
