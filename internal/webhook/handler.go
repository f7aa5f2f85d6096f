package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"estateleads_backend/platform/config"
	"estateleads_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps webhook delivery bodies. Meta batches are small; anything
// larger is hostile.
const maxBodyBytes = 1 << 20

// signatureHeader carries Meta's HMAC of the delivery body.
const signatureHeader = "X-Hub-Signature-256"

// Handler handles Meta webhook HTTP requests.
type Handler struct {
	service *Service
	cfg     config.MetaConfig
}

// NewHandler creates a new webhook handler.
func NewHandler(service *Service, cfg config.MetaConfig) *Handler {
	return &Handler{service: service, cfg: cfg}
}

// HandleVerify answers Meta's subscription handshake.
// GET /webhook
func (h *Handler) HandleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.cfg.GetWebhookVerifyToken() {
		c.String(http.StatusOK, challenge)
		return
	}
	httpkit.Error(c, http.StatusForbidden, "Webhook verification failed")
}

// HandleReceive processes a signed lead delivery. The signature is checked
// against the exact raw bytes before anything is parsed or persisted.
// POST /webhook
func (h *Handler) HandleReceive(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Unreadable body")
		return
	}

	if err := VerifySignature(h.cfg.GetMetaAppSecret(), raw, c.GetHeader(signatureHeader)); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result := h.service.Process(c.Request.Context(), envelope)
	httpkit.OK(c, gin.H{"ok": true, "saved": result.Saved, "failed": result.Failed})
}
