package gin

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fwojciec/pusula"
	"github.com/gin-gonic/gin"
)

// Messages returned in the "error" key of rejected requests.
const (
	MsgNoInput      = "Input verisi bulunamadı"
	MsgInvalidJSON  = "Geçersiz JSON"
	MsgBodyTooLarge = "İstek gövdesi çok büyük"
)

func (s *Server) handleRecommend(c *gin.Context) {
	req, status, msg := decodeRequest(c.Request.Body)
	if status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	stream, err := s.recommender.Recommend(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str(requestIDKey, c.GetString(requestIDKey)).Msg("recommend failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			if ctx.Err() == nil {
				s.log.Error().Err(err).Str(requestIDKey, c.GetString(requestIDKey)).Msg("stream read failed")
			}
			return false
		}
		_, _ = w.Write(chunk)
		return true
	})
}

// decodeRequest reads a request document. A non-zero status means the
// request is rejected with msg.
func decodeRequest(body io.Reader) (pusula.Request, int, string) {
	var req pusula.Request
	raw, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, http.StatusRequestEntityTooLarge, MsgBodyTooLarge
		}
		return req, http.StatusBadRequest, err.Error()
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return req, http.StatusBadRequest, MsgNoInput
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return req, http.StatusBadRequest, MsgInvalidJSON + ": " + err.Error()
	}
	if len(fields) == 0 {
		return req, http.StatusBadRequest, MsgNoInput
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, http.StatusBadRequest, MsgInvalidJSON + ": " + err.Error()
	}

	req.Sanitize()
	if err := req.Validate(); err != nil {
		return req, http.StatusBadRequest, err.Error()
	}
	return req, 0, ""
}
