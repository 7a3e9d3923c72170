package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAdminChatKeepsFirstChat(t *testing.T) {
	n := &TelegramNotifier{}

	assert.True(t, n.registerAdminChat(1001))
	assert.False(t, n.registerAdminChat(2002))
	assert.False(t, n.registerAdminChat(1001))
	assert.Equal(t, int64(1001), n.chatID.Load())
}

func TestRegisterAdminChatRespectsConfiguredChat(t *testing.T) {
	n := &TelegramNotifier{}
	n.chatID.Store(42)

	assert.False(t, n.registerAdminChat(7))
	assert.Equal(t, int64(42), n.chatID.Load())
}

func TestNotifyAdminWithoutChatDrops(t *testing.T) {
	// No bot is needed: an unknown chat returns before sending.
	(&TelegramNotifier{}).NotifyAdmin("spin settled")
}
