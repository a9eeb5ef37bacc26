package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/click-arena/internal/client"
	"github.com/palemoky/click-arena/internal/protocol"
	"github.com/palemoky/click-arena/internal/testutil"
)

func TestBindCore_ChatOverflowTriggersResync(t *testing.T) {
	t.Parallel()

	ctrl := client.NewController(&testutil.MockService{}, 0, time.Hour)
	ch := make(chan tea.Msg, 1)
	bindCore(ctrl, ch)

	rec := ctrl.Reconciler()

	// 第一条占满通道，第二条溢出
	rec.OnChatAppended(protocol.ChatEntry{Text: "第一条"})
	rec.OnChatAppended(protocol.ChatEntry{Text: "第二条"})

	first := <-ch
	appended, ok := first.(ChatAppendedMsg)
	require.True(t, ok)
	assert.Equal(t, "第一条", appended.Entry.Text)

	// 溢出不能静默吞掉聊天行，必须跟上补偿信号
	select {
	case msg := <-ch:
		_, ok := msg.(ChatResyncMsg)
		assert.True(t, ok, "溢出后应收到全量重同步信号")
	case <-time.After(time.Second):
		t.Fatal("未收到重同步信号")
	}
}

func TestBindCore_WholeStateDropIsHarmless(t *testing.T) {
	t.Parallel()

	ctrl := client.NewController(&testutil.MockService{}, 0, time.Hour)
	ch := make(chan tea.Msg, 1)
	bindCore(ctrl, ch)

	rec := ctrl.Reconciler()
	rec.OnHostChanged("p1")
	rec.OnHostChanged("p2") // 溢出丢弃，不产生补偿信号

	msg := <-ch
	host, ok := msg.(HostChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "p1", host.HostID)

	select {
	case extra := <-ch:
		t.Fatalf("全量类通知溢出不应触发补偿: %T", extra)
	case <-time.After(50 * time.Millisecond):
	}
}
