//go:build ci

package sound

const (
	CueChat = "chat"
	CueJoin = "join"
	CueHost = "host"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Init() error {
	return nil
}

func (m *Manager) Play(name string) {
	// No-op
}

func (m *Manager) Close() {
	// No-op
}
