package mock

import (
	"context"
	"sync"

	"github.com/callsimlabs/callsim/pkg/audio"
)

type PlayerConfig struct {
	Err error
}

// Player records playback without producing sound.
type Player struct {
	cfg    PlayerConfig
	mu     sync.Mutex
	played int
}

func NewPlayer(cfg PlayerConfig) *Player {
	return &Player{cfg: cfg}
}

func (p *Player) Name() string { return "mock_player" }

func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

func (p *Player) Play(ctx context.Context, clip *audio.Clip) error {
	p.mu.Lock()
	p.played++
	p.mu.Unlock()
	return p.cfg.Err
}

var _ audio.Player = (*Player)(nil)
