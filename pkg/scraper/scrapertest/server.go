// Package scrapertest provides an in-process fake of the scrape job backend.
package scrapertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"lead-scraper-go/pkg/models"

	"github.com/gin-gonic/gin"
)

// Recorded is one request received on POST /scrape
type Recorded struct {
	ContentType string
	RequestID   string
	RawBody     []byte
	Request     models.ScrapeRequest
}

// Reply is the canned answer for POST /scrape
type Reply struct {
	StatusCode int
	// Body is written verbatim when set; otherwise JSON is encoded as JSON.
	Body string
	JSON any
	// Block, when non-nil, holds the handler until it is closed.
	Block <-chan struct{}
}

// Server is a fake backend serving /scrape and /download/:filename
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	reply     Reply
	requests  []Recorded
	downloads []string
	files     map[string]string
}

// NewServer starts a fake backend. Callers must Close it.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		reply: Reply{StatusCode: http.StatusOK, JSON: gin.H{"status": "error", "message": "no reply configured"}},
		files: map[string]string{},
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/scrape", s.handleScrape)
	router.GET("/download/:filename", s.handleDownload)

	s.Server = httptest.NewServer(router)
	return s
}

// Reply sets the answer for subsequent /scrape calls.
func (s *Server) Reply(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.StatusCode == 0 {
		r.StatusCode = http.StatusOK
	}
	s.reply = r
}

// ReplySuccess answers /scrape with the success shape.
func (s *Server) ReplySuccess(message string, totalLeads int, filename string) {
	s.Reply(Reply{
		StatusCode: http.StatusOK,
		JSON: gin.H{
			"status":   models.StatusSuccess,
			"filename": filename,
			"summary": gin.H{
				"message":     message,
				"total_leads": totalLeads,
			},
		},
	})
}

// AddFile makes content available under /download/{name}.
func (s *Server) AddFile(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = content
}

// Requests returns the /scrape requests received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// Downloads returns the filenames requested on /download so far.
func (s *Server) Downloads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.downloads...)
}

func (s *Server) handleScrape(c *gin.Context) {
	raw, _ := io.ReadAll(c.Request.Body)

	rec := Recorded{
		ContentType: c.GetHeader("Content-Type"),
		RequestID:   c.GetHeader("X-Request-ID"),
		RawBody:     raw,
	}
	_ = json.Unmarshal(raw, &rec.Request)

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	reply := s.reply
	s.mu.Unlock()

	if reply.Block != nil {
		select {
		case <-reply.Block:
		case <-c.Request.Context().Done():
			return
		}
	}

	if reply.JSON == nil {
		c.Data(reply.StatusCode, "application/json", []byte(reply.Body))
		return
	}
	c.JSON(reply.StatusCode, reply.JSON)
}

func (s *Server) handleDownload(c *gin.Context) {
	filename := c.Param("filename")

	s.mu.Lock()
	s.downloads = append(s.downloads, filename)
	s.mu.Unlock()

	if strings.ContainsAny(filename, `/\`) {
		c.String(http.StatusBadRequest, "Invalid filename")
		return
	}

	s.mu.Lock()
	content, ok := s.files[filename]
	s.mu.Unlock()

	if !ok {
		c.String(http.StatusNotFound, "File not found")
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", []byte(content))
}
