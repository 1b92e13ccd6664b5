package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nubank/chat-assistant/internal"
	"github.com/nubank/chat-assistant/internal/chat"
	"github.com/nubank/chat-assistant/internal/logger"
)

func (s *Server) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, internal.WelcomeResponse{Message: WelcomeMessage})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().Format(time.RFC3339)})
}

func (s *Server) models(c *gin.Context) {
	var ids []string
	if s.opts.Backends != nil {
		ids = s.opts.Backends.Models()
	}
	c.JSON(http.StatusOK, gin.H{
		"models":    ids,
		"default":   s.opts.Chat.DefaultModelID(),
		"generator": s.opts.Generator,
	})
}

func (s *Server) chat(c *gin.Context) {
	var req internal.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, internal.NewInvalidInputError(err.Error()))
		return
	}

	reply, err := s.opts.Chat.Handle(c.Request.Context(), chat.Turn{
		UserID:  *req.UserID,
		Message: *req.Message,
		Theme:   req.Theme,
		Model:   req.ModelChoice.Ptr(),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, internal.ChatResponse{Response: reply})
}

func (s *Server) history(c *gin.Context) {
	c.JSON(http.StatusOK, internal.ChatHistory{Messages: s.opts.Chat.History(c.Param("user_id"))})
}

func (s *Server) uploadFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		s.fail(c, internal.NewInvalidInputError("file is required: "+err.Error()))
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, internal.NewUploadFailureError(err))
		return
	}
	defer f.Close()

	n, err := s.opts.Uploads.Save(fh.Filename, f)
	if err != nil {
		s.fail(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("file uploaded", "filename", fh.Filename, "bytes", n)
	c.JSON(http.StatusOK, internal.UploadResponse{
		Filename: fh.Filename,
		Message:  "File uploaded successfully.",
	})
}

func (s *Server) listUploads(c *gin.Context) {
	files, err := s.opts.Uploads.List()
	if err != nil {
		s.fail(c, internal.NewInternalError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// fail renders err as {"detail": ...}. Malformed requests get 422, every
// other failure 500.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if internal.IsInvalidInput(err) {
		status = http.StatusUnprocessableEntity
	}
	logger.FromContext(c.Request.Context()).Debug("request failed", "status", status, "error", err)
	c.JSON(status, internal.ErrorResponse{Detail: internal.Detail(err)})
}
