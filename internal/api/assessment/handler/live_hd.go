package assessmentHandler

import (
	"time"

	"ProjectQuake/internal/api/assessment"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

// handleLiveWebSocket runs the analysis pipeline per streamed frame: binary
// JPEG in, scored detections out. Each frame is scored against the session's
// current magnitude.
func (h *AssessmentHandler) handleLiveWebSocket(c *websocket.Conn) {
	h.log.Info("Live analysis WebSocket client connected")
	defer h.log.Info("Live analysis WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		h.log.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Live analysis WebSocket error: %v", err)
			} else {
				h.log.Info("Live analysis WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		frameCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		detections, err := h.assessmentService.AnalyzeFrame(frameCtx, message, 0)
		cancel()

		if err != nil {
			h.log.Errorf("Error analyzing streamed frame: %v", err)
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(assessment.AnalyzeResponse{Detections: detections}); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}
