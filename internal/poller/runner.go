// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/tamzrod/deskheight/internal/digit"
	"github.com/tamzrod/deskheight/internal/framer"
)

// Run polls until ctx is done or the reader is gone, emitting every
// reading on out. It is the single producer for out.
//
// ReadPacket cannot be interrupted: cancelling ctx only takes effect once
// the reader returns, which the caller forces by closing the port.
func (p *Poller) Run(ctx context.Context, out chan Reading) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := p.PollOnce()

		if res.Err != nil && ctx.Err() != nil {
			// port closed under us during shutdown
			return ctx.Err()
		}
		if IsFatal(res.Err) {
			p.emit(ctx, out, res)
			return res.Err
		}

		p.emit(ctx, out, res)

		if res.Kind == KindError && isIOFailure(res.Err) && p.cfg.ErrorBackoff > 0 {
			sleep(ctx, p.cfg.ErrorBackoff)
		}
	}
}

func (p *Poller) emit(ctx context.Context, out chan Reading, res Reading) {
	if p.cfg.Coalesce && cap(out) > 0 {
		Offer(out, res)
		return
	}
	select {
	case out <- res:
	case <-ctx.Done():
	}
}

// Offer puts r into a buffered channel without blocking. If the channel
// is full the oldest pending reading is dropped, except that a pending
// height is never displaced by a non-height reading: r is dropped instead.
// Only safe with a single producer and cap(out) > 0.
func Offer(out chan Reading, r Reading) {
	for {
		select {
		case out <- r:
			return
		default:
		}
		select {
		case pending := <-out:
			if pending.Kind == KindHeight && r.Kind != KindHeight {
				r = pending
			}
		default:
		}
	}
}

// IsFatal reports whether the poller cannot make progress after err.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, framer.ErrUnknownRead) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}

// isIOFailure separates reader errors from typed framing/decode errors.
func isIOFailure(err error) bool {
	var fe *framer.Error
	var de *digit.Error
	return err != nil && !errors.As(err, &fe) && !errors.As(err, &de)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
