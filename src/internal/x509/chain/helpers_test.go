// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/H0llyW00dzZ/x509-trust-validator/src/logger"
)

const version = "1.3.3.7-testing"

// pkiServer serves certificates and CRLs from memory and counts requests per path.
type pkiServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string][]byte
	hits   map[string]int
	agents []string
}

func newPKIServer(t *testing.T) *pkiServer {
	t.Helper()
	s := &pkiServer{
		routes: make(map[string][]byte),
		hits:   make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		data, ok := s.routes[r.URL.Path]
		s.hits[r.URL.Path]++
		s.agents = append(s.agents, r.UserAgent())
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(s.Close)
	return s
}

// URLFor returns the absolute URL for path without registering content.
func (s *pkiServer) URLFor(path string) string { return s.Server.URL + path }

// Serve registers data at path.
func (s *pkiServer) Serve(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = data
}

func (s *pkiServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newBufferLogger() (*logger.CLILogger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.NewCLILogger()
	log.SetOutput(&buf)
	return log, &buf
}

func countLines(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}
