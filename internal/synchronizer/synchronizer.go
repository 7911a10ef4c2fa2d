// Package synchronizer keeps a client's view of one session up to date. Requests from the UI are served
// on their own goroutines, a ticker refreshes the snapshot periodically, and every result is delivered
// to the requester's mailbox with the turn state derived from it.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/internal/turn"
)

const (
	DefaultInterval = 3 * time.Second
	mailboxSize     = 16
)

var (
	ErrClosed         = errors.New("synchronizer is closed")
	ErrUnknownRequest = errors.New("unknown request kind")
)

type Collaborator interface {
	FetchSnapshot(ctx context.Context, sessionID string) (*entity.Session, error)
	SubmitMove(ctx context.Context, sessionID, userID string, column int) (*entity.Session, error)
}

type Config struct {
	SessionID string
	UserID    string
	// Interval between periodic refreshes, DefaultInterval when zero.
	Interval time.Duration
	// RequestTimeout bounds every collaborator call, no bound when zero.
	RequestTimeout time.Duration
}

type Synchronizer struct {
	logger       *slog.Logger
	collaborator Collaborator
	cfg          Config

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	mailboxes map[RequesterID]chan Response
	latest    RequesterID
	hasLatest bool
	closed    bool

	// deliveryMu orders deliveries so a snapshot older than newest is never delivered after it.
	deliveryMu sync.Mutex
	newest     int64

	refreshing atomic.Bool
	requests   sync.WaitGroup
	loopDone   chan struct{}
	startOnce  sync.Once
}

func New(logger *slog.Logger, collaborator Collaborator, cfg Config) *Synchronizer {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Synchronizer{
		logger:       logger.With("component", "synchronizer", "sessionID", cfg.SessionID),
		collaborator: collaborator,
		cfg:          cfg,
		ctx:          ctx,
		cancel:       cancel,
		mailboxes:    make(map[RequesterID]chan Response),
		loopDone:     make(chan struct{}),
	}
}

// Start - launches the periodic refresh. Canceling ctx stops it and aborts outstanding requests.
func (that *Synchronizer) Start(ctx context.Context) {
	that.startOnce.Do(func() {
		go that.loop(ctx)
	})
}

// Close - stops the refresh, aborts outstanding requests and closes every mailbox.
func (that *Synchronizer) Close() {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}
	that.closed = true
	that.mu.Unlock()

	that.cancel()

	// A synchronizer closed before Start never runs its loop.
	that.startOnce.Do(func() { close(that.loopDone) })
	<-that.loopDone

	that.requests.Wait()

	that.mu.Lock()
	defer that.mu.Unlock()

	for _, mailbox := range that.mailboxes {
		close(mailbox)
	}
}

// Subscribe - returns the mailbox of a requester, creating it on first use.
func (that *Synchronizer) Subscribe(requester RequesterID) <-chan Response {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.mailbox(requester)
}

// Send - serves a request in the background. Its responses go to the requester's mailbox only.
func (that *Synchronizer) Send(req Request) error {
	var serve func(ctx context.Context) (*entity.Session, error)
	var kind ResponseKind

	switch req.Kind {
	case InitializeBoard:
		kind = DataFetched
		serve = func(ctx context.Context) (*entity.Session, error) {
			return that.collaborator.FetchSnapshot(ctx, that.cfg.SessionID)
		}
	case MakeMove:
		kind = MoveApplied
		serve = func(ctx context.Context) (*entity.Session, error) {
			return that.collaborator.SubmitMove(ctx, that.cfg.SessionID, that.cfg.UserID, req.Column)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownRequest, req.Kind)
	}

	that.mu.Lock()
	if that.closed || that.ctx.Err() != nil {
		that.mu.Unlock()
		return ErrClosed
	}
	mailbox := that.mailbox(req.Requester)
	that.latest = req.Requester
	that.hasLatest = true
	that.requests.Add(1)
	that.mu.Unlock()

	that.logger.Debug("request received", "kind", req.Kind, "requester", req.Requester, "column", req.Column)

	go func() {
		defer that.requests.Done()
		that.serve(mailbox, kind, serve)
	}()

	return nil
}

func (that *Synchronizer) loop(parent context.Context) {
	defer close(that.loopDone)

	ticker := time.NewTicker(that.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-parent.Done():
			that.cancel()
			return
		case <-that.ctx.Done():
			return
		case <-ticker.C:
			that.tick()
		}
	}
}

// tick - refreshes on behalf of the most recent requester. No-op until someone has sent a request,
// skipped while the previous refresh is still running. A refresh that read an older version than one
// already delivered is dropped.
func (that *Synchronizer) tick() {
	that.mu.Lock()
	if that.closed || !that.hasLatest {
		that.mu.Unlock()
		return
	}
	if !that.refreshing.CompareAndSwap(false, true) {
		that.mu.Unlock()
		that.logger.Debug("refresh still in flight, skipping tick")
		return
	}
	mailbox := that.mailboxes[that.latest]
	that.requests.Add(1)
	that.mu.Unlock()

	go func() {
		defer that.requests.Done()
		defer that.refreshing.Store(false)

		that.serve(mailbox, SnapshotRefreshed, func(ctx context.Context) (*entity.Session, error) {
			return that.collaborator.FetchSnapshot(ctx, that.cfg.SessionID)
		})
	}()
}

func (that *Synchronizer) serve(mailbox chan Response, kind ResponseKind, call func(ctx context.Context) (*entity.Session, error)) {
	ctx := that.ctx
	if that.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.cfg.RequestTimeout)
		defer cancel()
	}

	snapshot, err := call(ctx)
	if err != nil {
		that.logger.Info("request failed", "kind", kind, "error", err)
		that.deliver(mailbox, Response{Kind: Failed, Err: err})
		return
	}

	that.deliveryMu.Lock()
	defer that.deliveryMu.Unlock()

	if kind == SnapshotRefreshed && snapshot.Version < that.newest {
		that.logger.Debug("dropping stale snapshot", "version", snapshot.Version, "newest", that.newest)
		return
	}
	that.newest = max(that.newest, snapshot.Version)

	state := turn.Derive(snapshot, that.cfg.UserID)
	if !that.deliver(mailbox, Response{Kind: kind, Snapshot: snapshot, State: state}) {
		return
	}

	if state.IsOver() {
		that.deliver(mailbox, Response{Kind: GameOver, Snapshot: snapshot, State: state, WinnerID: state.WinnerID})
	}
}

func (that *Synchronizer) deliver(mailbox chan Response, resp Response) bool {
	select {
	case mailbox <- resp:
		return true
	case <-that.ctx.Done():
		return false
	}
}

// mailbox - must be called with mu held. A closed synchronizer hands out closed mailboxes.
func (that *Synchronizer) mailbox(requester RequesterID) chan Response {
	if mailbox, ok := that.mailboxes[requester]; ok {
		return mailbox
	}

	mailbox := make(chan Response, mailboxSize)
	if that.closed {
		close(mailbox)
		return mailbox
	}

	that.mailboxes[requester] = mailbox

	return mailbox
}
