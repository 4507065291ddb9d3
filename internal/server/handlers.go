package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/pleimann/stampcam/internal/content"
	"github.com/pleimann/stampcam/internal/display"
	"github.com/pleimann/stampcam/internal/watermark"
)

const mjpegBoundary = "stampcamframe"

func (s *Server) handleHealth(c *gin.Context) {
	src, _ := s.deps.Preview.Source()
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"running":      s.deps.Preview.Running(),
		"frames":       s.deps.Preview.Frames(),
		"source_ready": src != nil && src.Ready(),
	})
}

func (s *Server) handlePreviewFrame(c *gin.Context) {
	data, seq := s.deps.Frames.JPEG()
	if data == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No preview frame yet"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Header("X-Frame-Seq", strconv.FormatUint(seq, 10))
	c.Data(http.StatusOK, "image/jpeg", data)
}

func (s *Server) handlePreviewStream(c *gin.Context) {
	signal, unsubscribe := s.deps.Frames.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	var last uint64
	send := func() error {
		data, seq := s.deps.Frames.JPEG()
		if data == nil || seq == last {
			return nil
		}
		last = seq
		if _, err := fmt.Fprintf(c.Writer, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", mjpegBoundary, len(data)); err != nil {
			return err
		}
		if _, err := c.Writer.Write(data); err != nil {
			return err
		}
		if _, err := io.WriteString(c.Writer, "\r\n"); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	if err := send(); err != nil {
		return
	}
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-signal:
			if err := send(); err != nil {
				s.logger.Debug("preview stream closed", "err", err)
				return
			}
		}
	}
}

type sizeRequest struct {
	Width  int `json:"width" binding:"required,gt=0"`
	Height int `json:"height" binding:"required,gt=0"`
}

func (s *Server) handlePreviewSize(c *gin.Context) {
	var req sizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive integers"})
		return
	}

	size := s.deps.Preview.Resize(req.Width, req.Height)
	c.JSON(http.StatusOK, gin.H{"width": size.X, "height": size.Y})
}

func (s *Server) handleCapture(c *gin.Context) {
	src, mirror := s.deps.Preview.Source()
	s.deps.Capturer.CheckAspect(s.deps.Preview.Size())

	img, err := s.deps.Capturer.Capture(src, mirror, s.deps.Store.Load())
	if errors.Is(err, display.ErrSourceNotReady) {
		c.JSON(http.StatusConflict, gin.H{"error": "Background is not ready"})
		return
	}
	if err != nil {
		s.logger.Error("capture failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Capture failed"})
		return
	}

	path, err := s.deps.Exporter.Export(img, s.now())
	if err != nil {
		s.logger.Error("export failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save capture"})
		return
	}
	s.logger.Info("captured", "path", path)

	c.Header("X-Capture-Path", path)
	c.FileAttachment(path, filepath.Base(path))
}

func (s *Server) handleFrame(c *gin.Context) {
	// Frames are only accepted while the preview shows the live feed
	src, _ := s.deps.Preview.Source()
	if s.deps.Live == nil || src != s.deps.Live {
		c.JSON(http.StatusConflict, gin.H{"error": "Not in camera mode"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFrameSize)

	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, err := c.Request.FormFile("frame")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No frame uploaded"})
			return
		}
		defer file.Close()
		body = file
	}

	img, err := imaging.Decode(body, imaging.AutoOrientation(true))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Frame is not a decodable image"})
		return
	}
	s.deps.Live.Push(img)

	size := img.Bounds().Size()
	c.JSON(http.StatusOK, gin.H{"width": size.X, "height": size.Y})
}

type contentRequest struct {
	Time    *string `json:"time"`
	Date    *string `json:"date"`
	Day     *string `json:"day"`
	Address *string `json:"address"`
	Corner  *string `json:"corner"`
}

type contentResponse struct {
	Time    string `json:"time"`
	Date    string `json:"date"`
	Day     string `json:"day"`
	Address string `json:"address"`
	Corner  string `json:"corner"`
	Logo    bool   `json:"logo"`
}

func newContentResponse(snap content.Snapshot) contentResponse {
	return contentResponse{
		Time:    snap.Content.Time,
		Date:    snap.Content.Date,
		Day:     snap.Content.Day,
		Address: snap.Content.Address,
		Corner:  snap.Corner.String(),
		Logo:    snap.Content.Logo != nil,
	}
}

func (s *Server) handleGetContent(c *gin.Context) {
	c.JSON(http.StatusOK, newContentResponse(s.deps.Store.Load()))
}

func (s *Server) handlePutContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	var corner *watermark.Corner
	if req.Corner != nil {
		parsed, err := watermark.ParseCorner(*req.Corner)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		corner = &parsed
	}

	// With a clock, text fields become overrides; an empty string hands the field back
	if clock := s.deps.Clock; clock != nil {
		fixed := clock.Fixed()
		setIf(&fixed.Time, req.Time)
		setIf(&fixed.Date, req.Date)
		setIf(&fixed.Day, req.Day)
		clock.SetFixed(fixed)
	}

	now := s.now()
	snap := s.deps.Store.Update(func(snap *content.Snapshot) {
		if s.deps.Clock != nil {
			s.deps.Clock.Apply(snap, now)
		} else {
			setIf(&snap.Content.Time, req.Time)
			setIf(&snap.Content.Date, req.Date)
			setIf(&snap.Content.Day, req.Day)
		}
		setIf(&snap.Content.Address, req.Address)
		if corner != nil {
			snap.Corner = *corner
		}
	})

	c.JSON(http.StatusOK, newContentResponse(snap))
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
