// Package http exposes the REST and SSE surface of the analysis service.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"sync"
	"time"

	"realm/internal/domain"
	"realm/internal/ports"
	"realm/internal/usecase"
)

// Server routes API requests to the analysis pipeline and the stores.
type Server struct {
	pipeline *usecase.Pipeline
	store    ports.ConversationStore
	files    ports.FileStore
	logger   *slog.Logger
	addr     string

	mu       sync.Mutex
	sessions map[int64]*conversationSession
}

// conversationSession pairs the session state with the lock that serializes
// requests for one conversation. The pipeline mutates the transcript and the
// analysis cache without internal locking, so the driver admits one analyze
// or chat request per conversation at a time.
type conversationSession struct {
	mu    sync.Mutex
	state *usecase.SessionContext
}

// NewServer constructs the HTTP driver.
func NewServer(addr string, pipeline *usecase.Pipeline, store ports.ConversationStore, files ports.FileStore, logger *slog.Logger) *Server {
	return &Server{
		pipeline: pipeline,
		store:    store,
		files:    files,
		logger:   logger,
		addr:     addr,
		sessions: make(map[int64]*conversationSession),
	}
}

// Handler builds the route table. Exposed separately from Start so tests can
// drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/conversations", s.handleListConversations)
	mux.HandleFunc("POST /api/conversations", s.handleCreateConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.handleDeleteConversation)
	mux.HandleFunc("GET /api/conversations/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/files", s.handleListFiles)
	mux.HandleFunc("GET /api/files/{name}", s.handleDownloadFile)

	return s.loggingMiddleware(mux)
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// No write timeout: analysis runs stream over SSE for minutes.
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("http server starting", "addr", s.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// session returns the conversation's session, creating it on first use.
func (s *Server) session(conversationID int64) *conversationSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[conversationID]
	if !ok {
		sess = &conversationSession{state: usecase.NewSession(conversationID)}
		s.sessions[conversationID] = sess
	}
	return sess
}

func (s *Server) dropSession(conversationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, conversationID)
}

type conversationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type messageResponse struct {
	ID      int64  `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toConversationResponse(c domain.Conversation) conversationResponse {
	return conversationResponse{ID: c.ID, Name: c.Name}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.store.ListConversations(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	payload := make([]conversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		payload = append(payload, toConversationResponse(conversation))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("conversation name is required"))
		return
	}

	conversation, err := s.store.CreateConversation(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, toConversationResponse(conversation))
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid conversation id"))
		return
	}

	existed, err := s.store.DeleteConversation(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !existed {
		s.writeError(w, http.StatusNotFound, errors.New("conversation not found"))
		return
	}
	s.dropSession(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid conversation id"))
		return
	}

	messages, err := s.store.ListMessages(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	payload := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		payload = append(payload, messageResponse{
			ID:      message.ID,
			Role:    string(message.Role),
			Content: message.Content,
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("read upload: %w", err))
		return
	}

	path, err := s.files.SaveUpload(header.Filename, data)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("saved uploaded file", "name", header.Filename, "bytes", len(data))
	writeJSON(w, http.StatusCreated, map[string]string{"file": header.Filename, "path": path})
}

type analyzeRequest struct {
	ConversationID int64    `json:"conversation_id"`
	File           string   `json:"file"`
	Categories     []string `json:"categories"`
}

// handleAnalyze streams one SSE event per analyzed category, then a final
// done event. Results are persisted by the pipeline before each event is
// sent, so a dropped connection loses no work.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.ConversationID == 0 || req.File == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("conversation_id and file are required"))
		return
	}

	selected := make([]domain.Category, 0, len(req.Categories))
	for _, name := range req.Categories {
		selected = append(selected, domain.Category(name))
	}
	if len(domain.CanonicalSubset(selected)) == 0 {
		s.writeError(w, http.StatusBadRequest, usecase.ErrNoCategories)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	session := s.session(req.ConversationID)
	path := s.files.UploadPath(req.File)

	session.mu.Lock()
	defer session.mu.Unlock()

	err := s.pipeline.AnalyzeDocument(r.Context(), session.state, path, selected, func(update usecase.AnalysisUpdate) {
		sendSSE(w, flusher, map[string]any{
			"category": update.Category,
			"message":  update.Message,
			"progress": update.Progress,
		})
	})
	if err != nil {
		sendSSE(w, flusher, map[string]any{"error": err.Error(), "done": true})
		return
	}
	sendSSE(w, flusher, map[string]any{"done": true})
}

type chatRequest struct {
	ConversationID int64  `json:"conversation_id"`
	Message        string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.ConversationID == 0 || req.Message == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("conversation_id and message are required"))
		return
	}

	session := s.session(req.ConversationID)

	session.mu.Lock()
	answer, err := s.pipeline.Ask(r.Context(), session.state, req.Message)
	session.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.files.ListContents()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := s.files.ReadContent(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, errors.New("file not found"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, data map[string]any) {
	encoded, _ := json.Marshal(data)
	fmt.Fprintf(w, "data: %s\n\n", encoded)
	flusher.Flush()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
