package voiceHandler

import (
	"context"
	"sync"
	"time"

	"PortfolioVoice/internal/api/voice"
	voiceService "PortfolioVoice/internal/api/voice/service"
	"PortfolioVoice/internal/entity"
	contextPkg "PortfolioVoice/pkg/context"
	"PortfolioVoice/pkg/log"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// wsConn serializes writes; outcomes arrive from command goroutines.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) writeJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return w.conn.WriteJSON(v)
}

// handleWebSocket runs one voice session. Each text frame is a command;
// outcomes of the session are pushed back unless a newer command of the same
// session has already been issued.
func (h *VoiceHandler) handleWebSocket(c *websocket.Conn) {
	session := c.Query("session")
	if session == "" {
		session = h.navigationService.NewSession()
	}

	logger := h.log.WithField("session", session)
	logger.Info("Voice navigation WebSocket client connected")
	defer logger.Info("Voice navigation WebSocket client disconnected")

	ws := &wsConn{conn: c}

	unsubscribe := h.navigationService.Subscribe(session, func(cmd entity.VoiceCommand) {
		if cmd.Superseded {
			return
		}
		if err := ws.writeJSON(voiceService.ToCommandResponse(cmd)); err != nil {
			logger.Warnf("Error sending command outcome: %v", err)
		}
	})
	defer unsubscribe()

	var inflight sync.WaitGroup
	defer inflight.Wait()

	for {
		if err := c.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Errorf("Voice navigation WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var frame voice.CommandFrame
		if err := jsoniter.Unmarshal(message, &frame); err != nil {
			if err := ws.writeJSON(voice.ErrorFrame{Error: voice.ErrInvalidFrame.Error()}); err != nil {
				break
			}
			continue
		}

		inflight.Add(1)
		go func(frame voice.CommandFrame) {
			defer inflight.Done()
			h.runFrame(ws, session, frame)
		}(frame)
	}
}

func (h *VoiceHandler) runFrame(ws *wsConn, session string, frame voice.CommandFrame) {
	requestID, _ := h.utils.NewULIDFromTimestamp(time.Now())
	ctx := contextPkg.WithSession(contextPkg.WithRequestID(context.Background(), requestID), session)
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	_, err := h.navigationService.ProcessCommand(ctx, voice.CommandRequest{
		Utterance:   frame.Utterance,
		CurrentPage: frame.CurrentPage,
		Session:     session,
	})
	if err != nil {
		if werr := ws.writeJSON(voice.ErrorFrame{Error: err.Error()}); werr != nil {
			log.WithSession(h.log, ctx).Warnf("Error sending error frame: %v", werr)
		}
	}
}
