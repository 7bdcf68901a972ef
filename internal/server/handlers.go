package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ukaji3/turni-go/pkg/turni"
	"github.com/ukaji3/turni-go/pkg/turni/aggregate"
	"github.com/ukaji3/turni-go/pkg/turni/output"
)

// upload saves the posted schedules into a new session directory, runs the
// analysis and writes the workbook next to them.
// POST /upload (multipart: files, optional employee_name, optional match)
func (s *Server) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadMB<<20)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("Upload exceeds %d MB", s.cfg.MaxUploadMB)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files selected"})
		return
	}

	employee := strings.TrimSpace(c.PostForm("employee_name"))
	opts := s.cfg.Options()
	opts.Employee = employee
	opts.Mode = aggregate.ModeEvents
	if match := c.PostForm("match"); match != "" {
		switch turni.MatchMode(match) {
		case turni.MatchResolver, turni.MatchSubstring:
			opts.Match = turni.MatchMode(match)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid match mode: %s", match)})
			return
		}
	}

	sessionID := uuid.NewString()
	sessionDir := filepath.Join(s.cfg.UploadDir, sessionID)
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	log := s.logger.With(zap.String("session", sessionID))

	used := make(map[string]bool)
	var inputs []turni.Input
	for _, fh := range files {
		original := originalFilename(fh)
		if !turni.IsScheduleFile(filepath.Base(original)) {
			log.Debug("upload ignored", zap.String("file", original))
			continue
		}
		storage := secureFilename(original)
		if storage == "" {
			storage = "document" + filepath.Ext(original)
		}
		storage = uniqueName(storage, func(n string) bool { return used[n] })
		used[storage] = true

		path := filepath.Join(sessionDir, storage)
		if err := c.SaveUploadedFile(fh, path); err != nil {
			os.RemoveAll(sessionDir)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
		inputs = append(inputs, turni.Input{Path: path, OriginalName: original})
		log.Debug("upload saved", zap.String("storage", storage), zap.String("original", original))
	}

	if len(inputs) == 0 {
		os.RemoveAll(sessionDir)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid .docx or .xlsx files uploaded"})
		return
	}

	opts.Cache = s.cache
	opts.Logger = log
	opts.Metrics = s.metrics
	result, err := turni.Extract(c.Request.Context(), inputs, opts)
	switch {
	case errors.Is(err, turni.ErrNoShiftsFound):
		s.dropSession(sessionDir)
		c.JSON(http.StatusNotFound, gin.H{
			"error":   notFoundMessage(employee),
			"summary": result.Summary,
		})
		return
	case err != nil:
		s.dropSession(sessionDir)
		log.Error("analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error processing files: %v", err)})
		return
	}

	reportName := ReportName(employee)
	wbOpts := output.WorkbookOptions{IncludeEmployee: opts.IsRoster()}
	if err := output.WriteWorkbook(filepath.Join(sessionDir, reportName), result.Events, wbOpts); err != nil {
		s.dropSession(sessionDir)
		log.Error("workbook failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error writing report: %v", err)})
		return
	}
	s.sessions.put(sessionID, sessionDir)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      foundMessage(len(result.Events), employee),
		"download_url": fmt.Sprintf("/download/%s/%s", sessionID, reportName),
		"session_dir":  sessionID,
		"summary":      result.Summary,
	})
}

// download serves a file of a live session.
// GET /download/:session/:file
func (s *Server) download(c *gin.Context) {
	dir, ok := s.sessionDir(c.Param("session"))
	name := c.Param("file")
	if !ok || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.FileAttachment(path, name)
}

// cleanup removes a session and its files.
// POST /cleanup/:session
func (s *Server) cleanup(c *gin.Context) {
	id := c.Param("session")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session"})
		return
	}
	if !s.sessions.remove(id) {
		// Unknown or already expired: the directory may still be on disk.
		s.dropSession(filepath.Join(s.cfg.UploadDir, id))
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) sessionDir(id string) (string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return s.sessions.get(id)
}

func (s *Server) dropSession(dir string) {
	os.RemoveAll(dir)
	s.cache.InvalidateDir(dir)
}

// ReportName returns the workbook file name for an employee, or for the whole roster.
func ReportName(employee string) string {
	name := secureFilename(employee)
	if name == "" {
		name = "roster"
	}
	return name + "_shifts.xlsx"
}

func foundMessage(n int, employee string) string {
	if employee == "" {
		return fmt.Sprintf("Found %d shifts", n)
	}
	return fmt.Sprintf("Found %d shifts for %s", n, employee)
}

func notFoundMessage(employee string) string {
	if employee == "" {
		return "No shifts found"
	}
	return fmt.Sprintf("No shifts found for employee: %s", employee)
}
