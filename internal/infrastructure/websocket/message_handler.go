package websocket

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
)

// Client commands.
const (
	MessageTypePing               = "ping"
	MessageTypeSubscribeChannel   = "subscribe_channel"
	MessageTypeUnsubscribeChannel = "unsubscribe_channel"
	MessageTypeSubscribeInbox     = "subscribe_inbox"
	MessageTypeUnsubscribeInbox   = "unsubscribe_inbox"
	MessageTypeSendMessage        = "send_message"
	MessageTypeMarkSeen           = "mark_seen"
)

// Server events.
const (
	MessageTypePong        = "pong"
	MessageTypeAck         = "ack"
	MessageTypeError       = "error"
	MessageTypeMessages    = "messages"
	MessageTypeInbox       = "inbox"
	MessageTypeMessageSent = "message_sent"
	MessageTypeStreamEnded = "stream_ended"
)

const inboxKey = "inbox"

// ChatService is the part of the chat usecase a socket can drive.
type ChatService interface {
	SendMessage(ctx context.Context, session entity.Session, channelID, text string) (*entity.Message, error)
	MarkSeen(ctx context.Context, session entity.Session, channelID string) error
	SubscribeMessages(ctx context.Context, session entity.Session, channelID string) (*repository.Subscription[repository.MessageSnapshot], error)
	SubscribeInbox(ctx context.Context, session entity.Session) (*repository.Subscription[[]*usecase.InboxEntry], error)
}

// WSMessage is a frame in either direction. RequestID is echoed back on the
// reply to a command so clients can correlate.
type WSMessage struct {
	Type      string          `json:"type"`
	ChannelID string          `json:"channel_id,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

type SendMessageData struct {
	Text string `json:"text"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func channelKey(channelID string) string {
	return "channel:" + channelID
}

// HandleClientMessage decodes one command frame and executes it.
func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Warn("WebSocket: invalid frame from client %s: %v", client.ID, err)
		m.sendError(client, msg, errors.BadRequest("Invalid message format", err))
		return
	}

	switch msg.Type {
	case MessageTypePing:
		m.send(client, MessageTypePong, msg.ChannelID, msg.RequestID, nil)

	case MessageTypeSubscribeChannel:
		m.handleSubscribeChannel(client, msg)

	case MessageTypeUnsubscribeChannel:
		client.untrack(channelKey(msg.ChannelID))
		m.send(client, MessageTypeAck, msg.ChannelID, msg.RequestID, nil)

	case MessageTypeSubscribeInbox:
		m.handleSubscribeInbox(client, msg)

	case MessageTypeUnsubscribeInbox:
		client.untrack(inboxKey)
		m.send(client, MessageTypeAck, "", msg.RequestID, nil)

	case MessageTypeSendMessage:
		m.handleSendMessage(client, msg)

	case MessageTypeMarkSeen:
		m.handleMarkSeen(client, msg)

	default:
		m.sendError(client, msg, errors.BadRequest("Unknown message type: "+msg.Type, nil))
	}
}

func (m *Manager) handleSubscribeChannel(client *Client, msg WSMessage) {
	if msg.ChannelID == "" {
		m.sendError(client, msg, errors.BadRequest("channel_id is required", nil))
		return
	}

	ctx, cancel := context.WithCancel(client.ctx)
	sub, err := m.service.SubscribeMessages(ctx, client.Session, msg.ChannelID)
	if err != nil {
		cancel()
		m.sendError(client, msg, err)
		return
	}
	key := channelKey(msg.ChannelID)
	id, ok := client.track(key, cancel)
	if !ok {
		sub.Close()
		return
	}
	m.send(client, MessageTypeAck, msg.ChannelID, msg.RequestID, nil)

	go func() {
		defer client.release(key, id)
		defer sub.Close()

		timeline := usecase.NewTimeline(msg.ChannelID)
		err := timeline.Follow(ctx, sub, func(messages []*entity.Message) {
			m.send(client, MessageTypeMessages, msg.ChannelID, "", messages)
		})
		m.streamEnded(ctx, client, msg.ChannelID, err)
	}()
}

func (m *Manager) handleSubscribeInbox(client *Client, msg WSMessage) {
	ctx, cancel := context.WithCancel(client.ctx)
	sub, err := m.service.SubscribeInbox(ctx, client.Session)
	if err != nil {
		cancel()
		m.sendError(client, msg, err)
		return
	}
	id, ok := client.track(inboxKey, cancel)
	if !ok {
		sub.Close()
		return
	}
	m.send(client, MessageTypeAck, "", msg.RequestID, nil)

	go func() {
		defer client.release(inboxKey, id)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case entries, ok := <-sub.C:
				if !ok {
					m.streamEnded(ctx, client, "", sub.Err())
					return
				}
				m.send(client, MessageTypeInbox, "", "", entries)
			}
		}
	}()
}

// streamEnded tells the client a subscription it did not cancel has stopped.
func (m *Manager) streamEnded(ctx context.Context, client *Client, channelID string, err error) {
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Error("WebSocket: stream for client %s ended: %v", client.ID, err)
	}
	m.send(client, MessageTypeStreamEnded, channelID, "", nil)
}

func (m *Manager) handleSendMessage(client *Client, msg WSMessage) {
	var data SendMessageData
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			m.sendError(client, msg, errors.BadRequest("Invalid send_message payload", err))
			return
		}
	}

	sent, err := m.service.SendMessage(client.ctx, client.Session, msg.ChannelID, data.Text)
	if err != nil {
		m.sendError(client, msg, err)
		return
	}
	m.send(client, MessageTypeMessageSent, msg.ChannelID, msg.RequestID, sent)
}

func (m *Manager) handleMarkSeen(client *Client, msg WSMessage) {
	if err := m.service.MarkSeen(client.ctx, client.Session, msg.ChannelID); err != nil {
		m.sendError(client, msg, err)
		return
	}
	m.send(client, MessageTypeAck, msg.ChannelID, msg.RequestID, nil)
}

func (m *Manager) send(client *Client, msgType, channelID, requestID string, data interface{}) {
	out := WSMessage{
		Type:      msgType,
		ChannelID: channelID,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			logger.Error("WebSocket: failed to encode %s payload: %v", msgType, err)
			return
		}
		out.Data = payload
	}

	frame, err := json.Marshal(out)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s frame: %v", msgType, err)
		return
	}
	client.enqueue(frame)
}

func (m *Manager) sendError(client *Client, msg WSMessage, err error) {
	data := ErrorData{Code: errors.CodeInternal, Message: "Internal server error"}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		data.Code = appErr.Code
		data.Message = appErr.Message
	}
	m.send(client, MessageTypeError, msg.ChannelID, msg.RequestID, data)
}
