package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ricardonunez-io/clausecat/internal/notify"
	"github.com/rs/zerolog/log"
)

const (
	msgNoClause       = "No clause provided."
	msgUpstreamFailed = "Upstream request failed."

	notifyTimeout = 10 * time.Second
	jsonMIME      = "application/json; charset=utf-8"
)

// Analyze answers 200 even when the upstream fails; the failure travels in
// the error envelope.
func (h *Handler) Analyze(c *gin.Context) {
	clause := c.PostForm("clause")
	if clause == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoClause})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), clause)
	if err != nil {
		log.Err(err).Int("clauseLength", len(clause)).Msg("Clause analysis failed")
		h.notify(notify.Failure{ClauseLength: len(clause), Err: err})
		c.JSON(http.StatusBadGateway, gin.H{"error": msgUpstreamFailed})
		return
	}

	payload, err := result.Payload()
	if err != nil {
		log.Err(err).Msg("Failed to build response payload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUpstreamFailed})
		return
	}

	if !result.OK() {
		log.Warn().
			Int("upstreamStatus", result.StatusCode).
			Msg("Upstream returned an error, relaying envelope")
		h.notify(notify.Failure{
			StatusCode:   result.StatusCode,
			Body:         string(result.Body),
			ClauseLength: len(clause),
		})
	}

	c.Data(http.StatusOK, jsonMIME, payload)
}

func (h *Handler) notify(f notify.Failure) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := h.notifier.UpstreamFailure(ctx, f); err != nil {
			log.Err(err).Msg("Failed to send upstream failure notification")
		}
	}()
}
