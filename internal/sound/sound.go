//go:build !ci

// Package sound plays short event cues (chat, join, host change).
// Sounds are generated, not loaded from assets, so the binary is
// self-contained.
package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue names accepted by Play.
const (
	CueChat = "chat"
	CueJoin = "join"
	CueHost = "host"
)

type Manager struct {
	buffers map[string]*beep.Buffer
	enabled bool
}

func NewManager() *Manager {
	return &Manager{buffers: make(map[string]*beep.Buffer)}
}

// Init prepares the speaker and synthesizes the cue tones.
// Failure leaves the manager disabled; Play becomes a no-op.
func (m *Manager) Init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	m.enabled = true

	m.buffers[CueChat] = toneBuffer(880, 60*time.Millisecond)
	m.buffers[CueJoin] = toneBuffer(660, 120*time.Millisecond)
	m.buffers[CueHost] = toneBuffer(520, 180*time.Millisecond)
	return nil
}

func (m *Manager) Play(name string) {
	if !m.enabled {
		return
	}
	buffer, ok := m.buffers[name]
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

func (m *Manager) Close() {
	m.enabled = false
}

// toneBuffer renders a sine tone with a linear fade-out.
func toneBuffer(freq float64, dur time.Duration) *beep.Buffer {
	total := sampleRate.N(dur)
	pos := 0
	streamer := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			fade := 1 - float64(pos)/float64(total)
			v := 0.2 * fade * math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate))
			samples[i][0] = v
			samples[i][1] = v
			pos++
			n++
		}
		return n, pos < total
	})

	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4}
	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer
}
