package outbox

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quietwire/quietwire/envelope"
	"github.com/quietwire/quietwire/pow"
)

var (
	// ErrEnvelopeConstruction indicates the logical message could not be
	// serialized into a transport envelope
	ErrEnvelopeConstruction = errors.New("envelope construction failed")
	// ErrProofOfWorkFailed indicates the proof-of-work search budget was
	// exhausted without a solution
	ErrProofOfWorkFailed = errors.New("proof of work calculation failed")
	// ErrBuildCancelled indicates the caller cancelled the build mid-flight
	ErrBuildCancelled = errors.New("build cancelled")
	// ErrBuilderClosed indicates the builder has been shut down
	ErrBuilderClosed = errors.New("builder closed")
)

// Solver searches for a proof-of-work nonce. *pow.Engine satisfies it.
type Solver interface {
	Solve(ctx context.Context, payload []byte, destination string, timestamp, ttl uint64) ([]byte, error)
}

// TimeProvider abstracts wall-clock reads for deterministic testing.
type TimeProvider interface {
	Now() time.Time
}

// systemTime uses the standard library clock.
type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// BuilderConfig configures a Builder. Zero fields fall back to defaults.
type BuilderConfig struct {
	// Workers is the size of the compute pool running proof-of-work
	// searches. Defaults to the number of CPUs: the search is CPU-bound
	// and must not share a pool with I/O-bound work.
	Workers int

	// QueueSize is the capacity of the pending-build queue.
	QueueSize int

	// Solver performs proof-of-work searches.
	// Defaults to pow.NewEngine(pow.DefaultConfig()).
	Solver Solver

	// Time supplies the wall clock used for proof-of-work timestamps.
	Time TimeProvider
}

// Builder orchestrates envelope construction and proof-of-work gating for
// outgoing messages. Builds run on an internal worker pool; concurrent
// builds are independent and complete in no guaranteed order.
type Builder struct {
	solver Solver
	time   TimeProvider

	jobs   chan *buildJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// buildJob carries one build through the worker pool.
type buildJob struct {
	ctx        context.Context
	future     *Future
	msg        *OutgoingMessage
	requirePoW bool
}

// NewBuilder creates a builder and starts its worker pool.
func NewBuilder(config BuilderConfig) *Builder {
	if config.Workers < 1 {
		config.Workers = runtime.NumCPU()
	}
	if config.QueueSize < 1 {
		config.QueueSize = 64
	}
	if config.Solver == nil {
		config.Solver = pow.NewEngine(pow.DefaultConfig())
	}
	if config.Time == nil {
		config.Time = systemTime{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Builder{
		solver: config.Solver,
		time:   config.Time,
		jobs:   make(chan *buildJob, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < config.Workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewBuilder",
		"workers":  config.Workers,
	}).Info("Message builder started")

	return b
}

// Build serializes the logical message against sendTimestamp (milliseconds
// since epoch) and schedules final assembly off the calling goroutine.
// Envelope construction errors are reported synchronously; everything else
// resolves through the returned Future. When requirePoW is set, the worker
// captures a fresh wall-clock timestamp, runs the proof-of-work search
// against it, and attaches the paired timestamp and nonce to the result.
//
// No retries happen internally: a caller that wants another attempt after
// ErrProofOfWorkFailed re-enters Build with a fresh sendTimestamp.
func (b *Builder) Build(msg *LogicalMessage, sendTimestamp uint64, requirePoW bool) (*Future, error) {
	if b.closed.Load() {
		return nil, ErrBuilderClosed
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrEnvelopeConstruction)
	}

	framed, err := envelope.Wrap(envelope.WrapRequest{
		Type:        msg.Type,
		Source:      msg.Source,
		Destination: msg.Destination,
		Content:     msg.Content,
	}, sendTimestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnvelopeConstruction, err)
	}

	out := &OutgoingMessage{
		ID:          uuid.New(),
		Destination: msg.Destination,
		Data:        base64.StdEncoding.EncodeToString(framed),
		TTL:         msg.effectiveTTL(),
	}

	jobCtx, jobCancel := context.WithCancel(b.ctx)
	future := newFuture(jobCancel)
	job := &buildJob{
		ctx:        jobCtx,
		future:     future,
		msg:        out,
		requirePoW: requirePoW,
	}

	select {
	case b.jobs <- job:
		return future, nil
	case <-b.ctx.Done():
		jobCancel()
		return nil, ErrBuilderClosed
	}
}

// Close shuts down the worker pool. In-flight proof-of-work searches are
// aborted and their futures resolve with ErrBuilderClosed.
func (b *Builder) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}

	b.cancel()
	b.wg.Wait()

	// Resolve anything still queued so no future is left hanging.
	for {
		select {
		case job := <-b.jobs:
			job.future.resolve(nil, ErrBuilderClosed)
		default:
			logrus.WithFields(logrus.Fields{
				"function": "Close",
			}).Info("Message builder stopped")
			return
		}
	}
}

// worker processes builds until the builder shuts down, draining the queue
// on exit so every accepted job resolves.
func (b *Builder) worker() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			for {
				select {
				case job := <-b.jobs:
					job.future.resolve(nil, ErrBuilderClosed)
				default:
					return
				}
			}
		case job := <-b.jobs:
			b.process(job)
		}
	}
}

// process finishes one build: optional proof-of-work, then final assembly.
func (b *Builder) process(job *buildJob) {
	defer job.future.cancel()

	if !job.requirePoW {
		job.future.resolve(job.msg, nil)
		return
	}

	select {
	case <-job.ctx.Done():
		job.future.resolve(nil, b.cancellationError(job.ctx))
		return
	default:
	}

	// The nonce is bound to the exact wall-clock timestamp captured here;
	// the pair travels together or not at all.
	powTimestamp := uint64(b.time.Now().UnixMilli())
	started := time.Now()

	nonce, err := b.solver.Solve(job.ctx, []byte(job.msg.Data), job.msg.Destination, powTimestamp, job.msg.TTL)
	if err != nil {
		if job.ctx.Err() != nil {
			job.future.resolve(nil, b.cancellationError(job.ctx))
			return
		}
		job.future.resolve(nil, fmt.Errorf("%w: %w", ErrProofOfWorkFailed, err))
		return
	}

	logrus.WithFields(logrus.Fields{
		"function":   "process",
		"message_id": job.msg.ID,
		"elapsed":    time.Since(started),
	}).Debug("Proof-of-work attached to outgoing message")

	encodedNonce := base64.StdEncoding.EncodeToString(nonce)
	job.msg.PoWTimestamp = &powTimestamp
	job.msg.Nonce = &encodedNonce
	job.future.resolve(job.msg, nil)
}

// cancellationError distinguishes builder shutdown from a caller cancelling
// one build.
func (b *Builder) cancellationError(jobCtx context.Context) error {
	if b.ctx.Err() != nil {
		return ErrBuilderClosed
	}
	return fmt.Errorf("%w: %w", ErrBuildCancelled, jobCtx.Err())
}
