package synth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/callsimlabs/callsim/pkg/audio"
	"github.com/callsimlabs/callsim/pkg/errorsx"
	"github.com/callsimlabs/callsim/pkg/logging"
	"github.com/callsimlabs/callsim/pkg/resilience"
)

// Speaker is an explicit two-step synthesis strategy: try the primary
// synthesizer, degrade transparently to the fallback on any primary failure,
// then play the resulting clip. The clip is released on every exit path.
// A breaker skips a repeatedly failing primary until cooldown.
type Speaker struct {
	primary  Synthesizer
	fallback Synthesizer
	player   audio.Player
	breaker  *resilience.CircuitBreaker
	logger   *slog.Logger
}

func NewSpeaker(primary, fallback Synthesizer, player audio.Player) *Speaker {
	return &Speaker{
		primary:  primary,
		fallback: fallback,
		player:   player,
		breaker:  resilience.NewCircuitBreaker(3, 30*time.Second),
		logger:   logging.NewComponentLogger(slog.Default(), "speaker"),
	}
}

// Speak synthesizes and plays text, resolving when playback ends.
func (s *Speaker) Speak(ctx context.Context, text, lang string) error {
	clip, source, err := s.synthesize(ctx, text, lang)
	if err != nil {
		return err
	}
	defer clip.Release()

	if s.player == nil {
		return errorsx.Wrap(errors.New("no player configured"), errorsx.ReasonTTSPlayback)
	}
	if err := s.player.Play(ctx, clip); err != nil {
		s.logger.Error("playback failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return errorsx.Wrap(err, errorsx.ReasonTTSPlayback)
	}
	return nil
}

func (s *Speaker) synthesize(ctx context.Context, text, lang string) (*audio.Clip, string, error) {
	var primaryErr error
	if s.primary != nil {
		if s.breaker.Allow() {
			clip, err := s.primary.Synthesize(ctx, text, lang)
			if err == nil {
				s.breaker.OnSuccess()
				return clip, s.primary.Name(), nil
			}
			s.breaker.OnError(err)
			primaryErr = err
			s.logger.Warn("primary synthesis failed, falling back",
				slog.String("primary", s.primary.Name()),
				slog.String("error", err.Error()))
		} else {
			primaryErr = errors.New("primary synthesis circuit open")
			s.logger.Debug("primary synthesis skipped", slog.String("primary", s.primary.Name()))
		}
	}

	if s.fallback == nil {
		if primaryErr != nil {
			return nil, "", errorsx.Wrap(primaryErr, errorsx.ReasonTTSUnavailable)
		}
		return nil, "", errorsx.Wrap(errors.New("no synthesizer configured"), errorsx.ReasonTTSUnavailable)
	}
	clip, err := s.fallback.Synthesize(ctx, text, lang)
	if err != nil {
		return nil, "", errorsx.Wrap(err, errorsx.ReasonTTSUnavailable)
	}
	return clip, s.fallback.Name(), nil
}
