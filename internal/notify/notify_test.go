package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"work-tracker.com/work-tracker/internal/constants"
	model "work-tracker.com/work-tracker/internal/models"
	"work-tracker.com/work-tracker/internal/queue"
)

type recordingSink struct {
	mu       sync.Mutex
	name     string
	fail     error
	received []Intent
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, intent Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, intent)
	return s.fail
}

func (s *recordingSink) intents() []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Intent(nil), s.received...)
}

func sampleIntent(item string) Intent {
	return Intent{
		UserIDs:     []string{"u1"},
		ItemID:      item,
		ItemTitle:   "Write docs",
		ProjectName: "Apollo",
		Reason:      constants.ReasonSequentialDependencyCompleted,
		IsSubtask:   true,
		ParentTitle: "Release",
	}
}

func TestPool_DeliversToEverySinkDespiteFailures(t *testing.T) {
	broken := &recordingSink{name: "broken", fail: errors.New("boom")}
	healthy := &recordingSink{name: "healthy"}
	pool := NewPool(nil, 2, 10, time.Second, broken, healthy)

	pool.Notify(sampleIntent("s1"))
	pool.Notify(sampleIntent("s2"))
	pool.Shutdown(context.Background())

	assert.Len(t, broken.intents(), 2)
	assert.Len(t, healthy.intents(), 2)
}

func TestPool_SkipsDuplicates(t *testing.T) {
	sink := &recordingSink{name: "rec"}
	pool := NewPool(queue.NewMemoryIntentGuard(time.Minute), 1, 10, time.Second, sink)

	pool.Notify(sampleIntent("s1"))
	pool.Notify(sampleIntent("s1"))
	pool.Notify(sampleIntent("s2"))
	pool.Shutdown(context.Background())

	assert.Len(t, sink.intents(), 2)
}

func TestPool_LaterVersionOfSameItemIsDelivered(t *testing.T) {
	sink := &recordingSink{name: "rec"}
	pool := NewPool(queue.NewMemoryIntentGuard(time.Minute), 1, 10, time.Second, sink)

	first := sampleIntent("s1")
	first.ItemVersion = 2
	again := first
	reassignedBack := first
	reassignedBack.ItemVersion = 4

	pool.Notify(first)
	pool.Notify(again)
	pool.Notify(reassignedBack)
	pool.Shutdown(context.Background())

	require.Len(t, sink.intents(), 2)
	assert.NotEqual(t, first.Key(), reassignedBack.Key())
}

func TestPool_DropsWhenFullOrClosed(t *testing.T) {
	sink := &recordingSink{name: "rec"}
	pool := NewPool(nil, 0, 1, time.Second, sink)

	pool.Notify(sampleIntent("s1"))
	pool.Notify(sampleIntent("s2"))
	assert.Len(t, pool.queue, 1)

	pool.Shutdown(context.Background())
	pool.Notify(sampleIntent("s3"))
	pool.Shutdown(context.Background())
}

func TestPool_IgnoresIntentWithoutRecipients(t *testing.T) {
	pool := NewPool(nil, 0, 1, time.Second)
	intent := sampleIntent("s1")
	intent.UserIDs = nil

	pool.Notify(intent)

	assert.Len(t, pool.queue, 0)
	pool.Shutdown(context.Background())
}

func TestIntentKeyIsOrderIndependent(t *testing.T) {
	a := sampleIntent("s1")
	a.UserIDs = []string{"u2", "u1"}
	b := sampleIntent("s1")
	b.UserIDs = []string{"u1", "u2"}

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, []string{"u2", "u1"}, a.UserIDs)
}

func TestMessage(t *testing.T) {
	msg := Message(sampleIntent("s1"))
	assert.Contains(t, msg, "previous step was approved")
	assert.Contains(t, msg, "Write docs")
	assert.Contains(t, msg, "Task: Release")
	assert.Contains(t, msg, "Project: Apollo")

	standalone := Intent{ItemTitle: "Fix login", Reason: constants.ReasonCreatedAvailable}
	assert.Equal(t, "New task assigned to you:\nFix login", Message(standalone))
}

type fakeBot struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	fail map[int64]error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := c.(tgbotapi.MessageConfig)
	b.sent = append(b.sent, msg)
	return tgbotapi.Message{}, b.fail[msg.ChatID]
}

type fakeDirectory map[string]model.User

func (d fakeDirectory) FindUsers(_ context.Context, ids []string) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := d[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestTelegramSink_Deliver(t *testing.T) {
	bot := &fakeBot{fail: map[int64]error{300: errors.New("chat not found")}}
	users := fakeDirectory{
		"u1": {ID: "u1", TelegramChatID: 100},
		"u2": {ID: "u2"},
		"u3": {ID: "u3", TelegramChatID: 300},
	}
	sink := NewTelegramSink(bot, users)

	intent := sampleIntent("s1")
	intent.UserIDs = []string{"u1", "u2", "u3", "ghost"}
	err := sink.Deliver(context.Background(), intent)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	require.Len(t, bot.sent, 2)
	assert.EqualValues(t, 100, bot.sent[0].ChatID)
	assert.Equal(t, Message(intent), bot.sent[0].Text)
	assert.Equal(t, "telegram", sink.Name())
}

func TestTelegramClientHasTimeout(t *testing.T) {
	client, err := telegramClient("", 7*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, client.Timeout)
	assert.Nil(t, client.Transport)

	proxied, err := telegramClient("http://proxy.local:3128", 7*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, proxied.Timeout)
	require.IsType(t, &http.Transport{}, proxied.Transport)

	_, err = telegramClient("://bad", time.Second)
	assert.Error(t, err)
}

func TestWebhookSink_Deliver(t *testing.T) {
	var got Intent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := NewWebhookSink(server.URL, server.Client())
	require.NoError(t, sink.Deliver(context.Background(), sampleIntent("s1")))
	assert.Equal(t, sampleIntent("s1"), got)
}

func TestWebhookSink_Non2xxIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewWebhookSink(server.URL, nil).Deliver(context.Background(), sampleIntent("s1"))
	assert.Error(t, err)
}
