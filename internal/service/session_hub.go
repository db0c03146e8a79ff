package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/pkg/logger"
	"skillswap_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 白板数据可能较大
	sendBufferSize = 256
	onlineTTL      = 2 * time.Minute // 在线状态过期时间

	// ProtocolVersion 实时协议版本号，随信封下发
	ProtocolVersion = 1
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Envelope 实时消息信封
type Envelope struct {
	V       int             `json:"v"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func newEnvelope(msgType string, payload interface{}) []byte {
	data, _ := json.Marshal(payload)
	out, _ := json.Marshal(Envelope{V: ProtocolVersion, Type: msgType, Payload: data})
	monitoring.RealtimeMessageCounter.WithLabelValues(msgType, "out").Inc()
	return out
}

// SessionClient 一条 WebSocket 连接。身份在握手时由已校验的 JWT 绑定，
// 之后不可通过消息改写。
type SessionClient struct {
	Hub     *SessionHub
	Conn    *websocket.Conn
	ID      string // 连接 ID，connect 时下发
	UserID  uint
	Send    chan []byte
	Limiter *rate.Limiter
}

func (c *SessionClient) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			// 畸形消息只记录，不断开连接
			logger.Log.Warn("malformed realtime message", zap.Error(err), zap.String("connId", c.ID))
			continue
		}

		monitoring.RealtimeMessageCounter.WithLabelValues(env.Type, "in").Inc()
		c.Hub.handleMessage(c, &env)
	}
}

func (c *SessionClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// send 非阻塞投递，慢连接缓冲写满时丢弃，不拖累其他参与者
func (c *SessionClient) send(message []byte) {
	select {
	case c.Send <- message:
	default:
		logger.Log.Warn("dropping realtime message, client buffer full",
			zap.String("connId", c.ID), zap.Uint("userId", c.UserID))
	}
}

// SessionHub 实时会话协调器。进程内注册表，不落库，
// 只负责在线参与者之间的转发，重启后状态丢失是预期行为。
type SessionHub struct {
	mu           sync.RWMutex
	clients      map[string]*SessionClient          // connectionID -> client
	participants map[uint]map[string]*SessionClient // sessionID -> connectionID -> client

	register   chan *SessionClient
	unregister chan *SessionClient
	done       chan struct{}

	Redis       *redis.Client
	SessionRepo *repository.SessionRepository
	MessageRepo *repository.DirectMessageRepository
	UserRepo    *repository.UserRepository
	ctx         context.Context
}

func NewSessionHub(rdb *redis.Client, sessionRepo *repository.SessionRepository, messageRepo *repository.DirectMessageRepository, userRepo *repository.UserRepository) *SessionHub {
	return &SessionHub{
		clients:      make(map[string]*SessionClient),
		participants: make(map[uint]map[string]*SessionClient),
		register:     make(chan *SessionClient),
		unregister:   make(chan *SessionClient),
		done:         make(chan struct{}),
		Redis:        rdb,
		SessionRepo:  sessionRepo,
		MessageRepo:  messageRepo,
		UserRepo:     userRepo,
		ctx:          context.Background(),
	}
}

func (h *SessionHub) Run() {
	// 状态续期定时器 (Heartbeat)
	heartbeatTicker := time.NewTicker(1 * time.Minute)
	defer heartbeatTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

			h.setOnline(client.UserID)
			monitoring.RealtimeConnections.Inc()

			client.send(newEnvelope("connected", map[string]interface{}{
				"connectionId": client.ID,
			}))

		case client := <-h.unregister:
			h.dropClient(client)

		case <-heartbeatTicker.C:
			h.refreshOnlineStatus()

		case <-h.done:
			return
		}
	}
}

// dropClient 把连接从所有注册表清除，并通知其所在会话的剩余参与者
func (h *SessionHub) dropClient(client *SessionClient) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)

	var affected []uint
	for sessionID, conns := range h.participants {
		if _, ok := conns[client.ID]; ok {
			delete(conns, client.ID)
			if len(conns) == 0 {
				delete(h.participants, sessionID)
			} else {
				affected = append(affected, sessionID)
			}
		}
	}

	stillOnline := false
	for _, c := range h.clients {
		if c.UserID == client.UserID {
			stillOnline = true
			break
		}
	}
	h.mu.Unlock()

	close(client.Send)
	monitoring.RealtimeConnections.Dec()

	if !stillOnline {
		h.setOffline(client.UserID)
	}

	for _, sessionID := range affected {
		h.broadcastToSession(sessionID, newEnvelope("user-left", map[string]interface{}{
			"sessionId": sessionID,
			"userId":    client.UserID,
		}), client.ID)
	}
}

type joinPayload struct {
	SessionID uint `json:"sessionId"`
}

type chatPayload struct {
	SessionID uint   `json:"sessionId"`
	Message   string `json:"message"`
}

type whiteboardPayload struct {
	SessionID      uint   `json:"sessionId"`
	WhiteboardData string `json:"whiteboardData"`
}

type signalPayload struct {
	SessionID uint            `json:"sessionId"`
	Signal    json.RawMessage `json:"signal"`
}

type directMessagePayload struct {
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
}

func (h *SessionHub) handleMessage(c *SessionClient, env *Envelope) {
	switch env.Type {
	case "join-session":
		var p joinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.SessionID == 0 {
			h.sendError(c, "invalid join-session payload")
			return
		}
		h.JoinSession(c, p.SessionID)

	case "leave-session":
		var p joinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.SessionID == 0 {
			h.sendError(c, "invalid leave-session payload")
			return
		}
		h.LeaveSession(c, p.SessionID)

	case "chat-message":
		var p chatPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.SessionID == 0 {
			h.sendError(c, "invalid chat-message payload")
			return
		}
		// 发送方也收到回显，由服务端统一打时间戳
		h.broadcastToSession(p.SessionID, newEnvelope("chat-message", map[string]interface{}{
			"sessionId": p.SessionID,
			"userId":    c.UserID,
			"message":   p.Message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}), "")

	case "whiteboard-update":
		var p whiteboardPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.SessionID == 0 {
			h.sendError(c, "invalid whiteboard-update payload")
			return
		}
		// 后写覆盖先写，无冲突合并
		if err := h.SessionRepo.UpdateWhiteboard(p.SessionID, p.WhiteboardData); err != nil {
			logger.Log.Error("failed to persist whiteboard data", zap.Error(err), zap.Uint("sessionId", p.SessionID))
		}
		h.broadcastToSession(p.SessionID, newEnvelope("whiteboard-update", map[string]interface{}{
			"sessionId":      p.SessionID,
			"userId":         c.UserID,
			"whiteboardData": p.WhiteboardData,
		}), c.ID)

	case "video-signal":
		var p signalPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.SessionID == 0 {
			h.sendError(c, "invalid video-signal payload")
			return
		}
		// 信令内容对协调器透明
		h.broadcastToSession(p.SessionID, newEnvelope("video-signal", map[string]interface{}{
			"sessionId": p.SessionID,
			"userId":    c.UserID,
			"signal":    p.Signal,
		}), c.ID)

	case "direct-message":
		var p directMessagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.ReceiverID == 0 || p.Content == "" {
			h.sendError(c, "invalid direct-message payload")
			return
		}
		h.handleDirectMessage(c, p)

	default:
		h.sendError(c, fmt.Sprintf("unknown message type %q", env.Type))
	}
}

// JoinSession 连接加入会话，向其余参与者广播公开资料
func (h *SessionHub) JoinSession(c *SessionClient, sessionID uint) {
	h.mu.Lock()
	conns, ok := h.participants[sessionID]
	if !ok {
		conns = make(map[string]*SessionClient)
		h.participants[sessionID] = conns
	}
	conns[c.ID] = c
	h.mu.Unlock()

	profile := map[string]interface{}{"id": c.UserID}
	if user, err := h.UserRepo.FindByID(c.UserID); err == nil {
		profile = map[string]interface{}{
			"id":     user.ID,
			"name":   user.Name,
			"avatar": user.Avatar,
			"level":  user.Level,
		}
	}

	h.broadcastToSession(sessionID, newEnvelope("user-joined", map[string]interface{}{
		"sessionId": sessionID,
		"user":      profile,
	}), c.ID)
}

func (h *SessionHub) LeaveSession(c *SessionClient, sessionID uint) {
	h.mu.Lock()
	conns, ok := h.participants[sessionID]
	if ok {
		delete(conns, c.ID)
		if len(conns) == 0 {
			delete(h.participants, sessionID)
		}
	}
	h.mu.Unlock()

	if !ok {
		return
	}

	h.broadcastToSession(sessionID, newEnvelope("user-left", map[string]interface{}{
		"sessionId": sessionID,
		"userId":    c.UserID,
	}), c.ID)
}

// handleDirectMessage 私信先落库，再按 userId 投递给双方的全部在线连接
func (h *SessionHub) handleDirectMessage(c *SessionClient, p directMessagePayload) {
	msg := &model.DirectMessage{
		SenderID:   c.UserID,
		ReceiverID: p.ReceiverID,
		Content:    p.Content,
	}
	if err := h.MessageRepo.Create(msg); err != nil {
		logger.Log.Error("failed to persist direct message", zap.Error(err), zap.Uint("senderId", c.UserID))
		h.sendError(c, "failed to deliver direct message")
		return
	}

	out := newEnvelope("direct-message", msg)

	h.mu.RLock()
	for _, client := range h.clients {
		if client.UserID == msg.SenderID || client.UserID == msg.ReceiverID {
			client.send(out)
		}
	}
	h.mu.RUnlock()
}

// broadcastToSession 向会话参与者投递；excludeConnID 非空时跳过该连接
func (h *SessionHub) broadcastToSession(sessionID uint, message []byte, excludeConnID string) {
	h.mu.RLock()
	for connID, client := range h.participants[sessionID] {
		if connID == excludeConnID {
			continue
		}
		client.send(message)
	}
	h.mu.RUnlock()
}

func (h *SessionHub) sendError(c *SessionClient, message string) {
	c.send(newEnvelope("error", map[string]interface{}{"message": message}))
}

// ParticipantCount 会话当前在线参与连接数
func (h *SessionHub) ParticipantCount(sessionID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.participants[sessionID])
}

func (h *SessionHub) setOnline(userID uint) {
	if h.Redis == nil {
		return
	}
	h.Redis.Set(h.ctx, fmt.Sprintf("user:online:%d", userID), "true", onlineTTL)
}

func (h *SessionHub) setOffline(userID uint) {
	if h.Redis == nil {
		return
	}
	h.Redis.Del(h.ctx, fmt.Sprintf("user:online:%d", userID))
}

// refreshOnlineStatus 为本地在线用户批量续期
func (h *SessionHub) refreshOnlineStatus() {
	if h.Redis == nil {
		return
	}
	h.mu.RLock()
	userIDs := make(map[uint]bool, len(h.clients))
	for _, client := range h.clients {
		userIDs[client.UserID] = true
	}
	h.mu.RUnlock()

	if len(userIDs) == 0 {
		return
	}

	pipe := h.Redis.Pipeline()
	for userID := range userIDs {
		pipe.Expire(h.ctx, fmt.Sprintf("user:online:%d", userID), onlineTTL)
	}
	if _, err := pipe.Exec(h.ctx); err != nil {
		logger.Log.Error("Redis pipeline error", zap.Error(err))
	}
}

func (h *SessionHub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	for _, client := range h.clients {
		if client.UserID == userID {
			h.mu.RUnlock()
			return true
		}
	}
	h.mu.RUnlock()

	if h.Redis == nil {
		return false
	}
	val, err := h.Redis.Get(h.ctx, fmt.Sprintf("user:online:%d", userID)).Result()
	return err == nil && val == "true"
}

// Stop 关闭所有连接并清理在线状态
func (h *SessionHub) Stop() {
	logger.Log.Info("SessionHub stopping: clearing online status and closing connections...")

	close(h.done)

	h.mu.Lock()
	var userIDs []uint
	for id, client := range h.clients {
		userIDs = append(userIDs, client.UserID)
		close(client.Send)
		delete(h.clients, id)
	}
	h.participants = make(map[uint]map[string]*SessionClient)
	h.mu.Unlock()

	if h.Redis != nil && len(userIDs) > 0 {
		pipe := h.Redis.Pipeline()
		for _, userID := range userIDs {
			pipe.Del(h.ctx, fmt.Sprintf("user:online:%d", userID))
		}
		pipe.Exec(h.ctx)
	}

	monitoring.RealtimeConnections.Set(0)
	logger.Log.Info("SessionHub stopped", zap.Int("closedConnections", len(userIDs)))
}

// ServeWS 升级连接。userID 来自 HTTP 边界已校验的 JWT，
// 不存在旧版 authenticate 消息那种自报身份的通道。
func ServeWS(hub *SessionHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &SessionClient{
		Hub:     hub,
		Conn:    conn,
		ID:      uuid.New().String(),
		UserID:  userID,
		Send:    make(chan []byte, sendBufferSize),
		Limiter: rate.NewLimiter(rate.Limit(30), 50), // 每秒30条，允许突发50条
	}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
