package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Типы событий ленты ревью
const (
	EventQuestionStored   = "question:stored"
	EventQuestionReviewed = "question:reviewed"
)

// Event - событие ленты ревью, рассылаемое подписчикам
type Event struct {
	Type       string    `json:"type"`
	QuestionID string    `json:"question_id"`
	Status     string    `json:"status,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Hub управляет подписчиками ленты ревью и рассылает им события.
// Рассылка best-effort: медленный клиент отключается, а не тормозит
// остальных.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub создает новый хаб ленты ревью
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run запускает цикл обработки хаба. Блокирует до вызова Close.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			log.Printf("[ReviewFeed] Клиент подключен, всего: %d", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				log.Printf("[ReviewFeed] Клиент отключен, всего: %d", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Буфер клиента переполнен: отключаем, не блокируясь
					delete(h.clients, client)
					client.closeSend()
					log.Printf("[ReviewFeed] Клиент отключен из-за переполнения буфера")
				}
			}

		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				client.closeSend()
			}
			return
		}
	}
}

// Close останавливает хаб и отключает всех клиентов
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// NotifyQuestionReviewed рассылает событие смены статуса ревью
func (h *Hub) NotifyQuestionReviewed(questionID, status string) {
	h.publish(Event{
		Type:       EventQuestionReviewed,
		QuestionID: questionID,
		Status:     status,
		Timestamp:  time.Now(),
	})
}

// NotifyQuestionStored рассылает событие о новом сохраненном вопросе
func (h *Hub) NotifyQuestionStored(questionID string) {
	h.publish(Event{
		Type:       EventQuestionStored,
		QuestionID: questionID,
		Timestamp:  time.Now(),
	})
}

// publish сериализует событие и кладет его в канал рассылки без блокировки
func (h *Hub) publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ReviewFeed] Ошибка сериализации события: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("[ReviewFeed] Канал рассылки переполнен, событие отброшено")
	}
}
