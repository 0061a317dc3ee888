// Package server exposes the QA agent over a WebSocket chat endpoint.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/atreyee-m/medTranscript-QA-agent/pkg/agent"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/docstore"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

type Message struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type WSServer struct {
	agent *agent.Agent
	docs  *docstore.Store
}

func New(a *agent.Agent, docs *docstore.Store) *WSServer {
	return &WSServer{
		agent: a,
		docs:  docs,
	}
}

// Run serves the chat endpoint until the listener fails.
func (s *WSServer) Run(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Printf("Starting WebSocket server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("Error reading message: %v", err)
			break
		}
		// Messages on one connection are handled in order: document
		// ingestion must finish before a query can see the document.
		s.handleMessage(conn, msg)
	}
}

func (s *WSServer) handleMessage(conn *websocket.Conn, msg Message) {
	ctx := context.Background()

	switch msg.Type {
	case "load":
		path := strings.TrimSpace(msg.Content)
		docID, err := s.ingestPDF(ctx, path)
		if err != nil {
			s.send(conn, "error", fmt.Sprintf("Failed to load PDF: %v", err))
			return
		}
		s.send(conn, "status", fmt.Sprintf("Loaded document %s", docID))

	case "pdf":
		result, err := s.docs.Search(ctx, msg.Content, "", 4)
		if err != nil {
			s.send(conn, "error", err.Error())
			return
		}
		s.send(conn, "response", result)

	default:
		result, err := s.agent.Respond(ctx, msg.Content)
		if err != nil {
			s.send(conn, "error", err.Error())
			return
		}
		s.send(conn, "response", result)
	}
}

func (s *WSServer) ingestPDF(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	return s.docs.IngestPDF(ctx, filepath.Base(path), f, info.Size())
}

func (s *WSServer) send(conn *websocket.Conn, msgType, content string) {
	msg := Message{
		Type:    msgType,
		Content: content,
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
