package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/cadena/internal/chatbot"
	"github.com/ziadkadry99/cadena/internal/chess"
	"github.com/ziadkadry99/cadena/internal/db"
	"github.com/ziadkadry99/cadena/internal/generation"
	"github.com/ziadkadry99/cadena/internal/localmodel"
	"github.com/ziadkadry99/cadena/internal/storage"
)

type stubGenerator struct {
	mu      sync.Mutex
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, req generation.Request) (*generation.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, req.Prompt)
	return &generation.Response{Text: "Ana is leading.", FinishReason: generation.FinishCompleted}, nil
}

type stubPages struct{}

func (stubPages) FetchAll(_ context.Context, urls []string, _ int) []string {
	return make([]string, len(urls))
}

type stubBackend struct{}

func (stubBackend) Pull(context.Context, string, func(float64)) error { return nil }
func (stubBackend) Generate(_ context.Context, _ localmodel.GenerateParams, onToken func(string)) (string, error) {
	onToken("Hi")
	onToken("!")
	return "Hi!", nil
}
func (stubBackend) List(context.Context) ([]string, error) { return nil, nil }

type fixture struct {
	dash        *Dashboard
	gen         *stubGenerator
	bot         *chatbot.Chatbot
	transcripts *storage.TranscriptStore
}

func setupTest(t *testing.T) fixture {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	gen := &stubGenerator{}
	transcripts := storage.NewTranscriptStore(database)
	bot := chatbot.New(
		localmodel.NewSession(stubBackend{}),
		storage.NewModelStore(database),
		transcripts,
		storage.NewSettingsStore(database, storage.DefaultSettings()),
	)
	d := New(
		chess.NewAnalyst(gen, stubPages{}),
		chess.NewDetailsValidator([]string{"chess-results.com"}),
		bot,
		transcripts,
	)
	return fixture{dash: d, gen: gen, bot: bot, transcripts: transcripts}
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func dial(t *testing.T, r http.Handler) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	return conn
}

func TestServeIndex(t *testing.T) {
	f := setupTest(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	setupRouter(f.dash).ServeHTTP(w, req)

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/ws/chat") {
		t.Errorf("unexpected index response %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	f := setupTest(t)
	ctx := t.Context()

	f.transcripts.CreateConversation(ctx, storage.KindChess, "Open A")
	f.transcripts.CreateConversation(ctx, storage.KindChess, "Open B")
	if err := f.bot.SelectModel(ctx, "tinyllama", nil); err != nil {
		t.Fatalf("SelectModel: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	setupRouter(f.dash).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats statsResponse
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.ChessConversations != 2 || stats.ChatConversations != 0 {
		t.Errorf("unexpected counts %+v", stats)
	}
	if !stats.ModelLoaded || stats.ModelID != "tinyllama" {
		t.Errorf("expected loaded model in stats, got %+v", stats)
	}
}

func TestWebSocketAsk(t *testing.T) {
	f := setupTest(t)
	conn := dial(t, setupRouter(f.dash))

	msg := chatRequest{
		Type:    "ask",
		Name:    "Ben",
		Link:    "https://chess-results.com/tnr1.aspx?rd=2",
		Content: "Who is leading?",
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "response" || resp.Content != "Ana is leading." || resp.ConversationID == "" {
		t.Fatalf("unexpected response %+v", resp)
	}

	// The follow-up carries the first exchange as history.
	msg.ConversationID = resp.ConversationID
	msg.Content = "And who is second?"
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	f.gen.mu.Lock()
	second := f.gen.prompts[1]
	f.gen.mu.Unlock()
	if !strings.Contains(second, "User: Who is leading?\nAssistant: Ana is leading.") {
		t.Errorf("history missing from prompt:\n%s", second)
	}

	msgs, _ := f.transcripts.Messages(t.Context(), resp.ConversationID)
	if len(msgs) != 4 {
		t.Errorf("expected 4 stored messages, got %d", len(msgs))
	}
}

func TestWebSocketAskRejectsForeignLink(t *testing.T) {
	f := setupTest(t)
	conn := dial(t, setupRouter(f.dash))

	conn.WriteJSON(chatRequest{Type: "ask", Name: "Ben", Link: "https://example.com", Content: "hi there"})

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Content, "URL must be from") {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestWebSocketChat(t *testing.T) {
	f := setupTest(t)
	conn := dial(t, setupRouter(f.dash))

	conn.WriteJSON(chatRequest{Type: "chat", Content: "hello"})
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || resp.Content != "no local model loaded" {
		t.Fatalf("expected not-loaded error, got %+v", resp)
	}

	if err := f.bot.SelectModel(t.Context(), "tinyllama", nil); err != nil {
		t.Fatalf("SelectModel: %v", err)
	}
	conn.WriteJSON(chatRequest{Type: "chat", Content: "hello"})

	var types []string
	for {
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		types = append(types, resp.Type)
		if resp.Type != "token" {
			break
		}
	}
	if strings.Join(types, ",") != "token,token,response" || resp.Content != "Hi!" {
		t.Errorf("unexpected stream %v, final %+v", types, resp)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	f := setupTest(t)
	conn := dial(t, setupRouter(f.dash))

	conn.WriteJSON(chatRequest{Type: "shout", Content: "hi"})
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Content, "unknown message type") {
		t.Errorf("unexpected response %+v", resp)
	}
}
