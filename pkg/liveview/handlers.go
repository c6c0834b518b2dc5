package liveview

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
)

const boundary = "frame"

// PropertyView is one entry of the property listing.
type PropertyView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Display  string `json:"display"`
	ReadOnly bool   `json:"readOnly"`
}

// HistogramView is the histogram response.
type HistogramView struct {
	Channel string   `json:"channel"`
	Bins    []uint32 `json:"bins"`
}

var histogramChannels = map[string]camera.HistogramType{
	"luminance": camera.HistogramLuminance,
	"red":       camera.HistogramRed,
	"green":     camera.HistogramGreen,
	"blue":      camera.HistogramBlue,
}

func (s *Server) healthHandler(c *gin.Context) {
	frames, clients := s.hub.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"frames":  frames,
		"clients": clients,
	})
}

func (s *Server) snapshotHandler(c *gin.Context) {
	frame := s.hub.Latest()
	if frame == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "image/jpeg", frame)
}

// streamHandler writes frames as multipart/x-mixed-replace until the
// client leaves or the hub closes.
func (s *Server) streamHandler(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	frames, cancel := s.hub.Subscribe()
	defer cancel()

	c.Header("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	flusher.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return

		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := writePart(c.Writer, frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writePart(w gin.ResponseWriter, frame []byte) error {
	header := "--" + boundary + "\r\n" +
		"Content-Type: image/jpeg\r\n" +
		"Content-Length: " + strconv.Itoa(len(frame)) + "\r\n\r\n"
	if _, err := w.WriteString(header); err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return err
	}
	_, err := w.WriteString("\r\n")
	return err
}

func (s *Server) histogramHandler(c *gin.Context) {
	name := strings.ToLower(c.Param("channel"))
	channel, ok := histogramChannels[name]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown channel " + strconv.Quote(name)})
		return
	}
	if s.viewfinder == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	bins := s.viewfinder.GetHistogram(channel)
	if bins == nil {
		bins = []uint32{}
	}
	c.JSON(http.StatusOK, HistogramView{Channel: channel.String(), Bins: bins})
}

func (s *Server) propertiesHandler(c *gin.Context) {
	if s.props == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	ids, err := s.props.EnumImageProperties()
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	views := make([]PropertyView, 0, len(ids))
	for _, id := range ids {
		value, err := s.props.GetImageProperty(id)
		if err != nil {
			continue
		}
		view := PropertyView{
			ID:       "0x" + strconv.FormatUint(uint64(id), 16),
			Value:    value.Value.String(),
			ReadOnly: value.ReadOnly,
		}
		if s.names != nil {
			view.Name = s.names.PropertyName(id)
			view.Display = s.names.DisplayText(id, value.Value)
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}
