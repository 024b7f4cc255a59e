package highlight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Caller sends a request to a worker and blocks for its response.
type Caller interface {
	Call(ctx context.Context, req Request) (Response, error)
}

// Bridge is the client side of a highlight worker. Call is safe for
// concurrent use; responses are matched to callers by request ID.
type Bridge struct {
	logger *slog.Logger

	writeMu sync.Mutex
	w       io.WriteCloser
	enc     *json.Encoder

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan Response
	err     error

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	stop      func() error
}

func newBridge(r io.Reader, w io.WriteCloser, stop func() error, logger *slog.Logger) *Bridge {
	b := &Bridge{
		logger:  logger,
		w:       w,
		enc:     json.NewEncoder(w),
		pending: map[uint64]chan Response{},
		done:    make(chan struct{}),
		stop:    stop,
	}
	go b.readLoop(r)
	return b
}

// StartProcess spawns name with args as the worker process, talking to it
// over its stdin and stdout. The worker's stderr is passed through.
func StartProcess(ctx context.Context, name string, args []string, logger *slog.Logger) (*Bridge, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("highlight worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("highlight worker stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start highlight worker: %w", err)
	}
	logger.Debug("highlight worker started", "pid", cmd.Process.Pid, "cmd", name, "args", args)

	return newBridge(stdout, stdin, cmd.Wait, logger), nil
}

// NewInline runs the worker loop in a goroutine connected by pipes.
func NewInline(ctx context.Context, logger *slog.Logger) *Bridge {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	served := make(chan error, 1)

	go func() {
		err := Serve(ctx, reqR, respW, logger)
		_ = reqR.CloseWithError(ErrWorkerClosed)
		_ = respW.CloseWithError(err)
		served <- err
	}()

	return newBridge(respR, reqW, func() error { return <-served }, logger)
}

// Call assigns req a fresh ID, sends it and blocks until the matching
// response arrives, ctx is done, or the worker goes away. A response that
// carries an error is returned as an error.
func (b *Bridge) Call(ctx context.Context, req Request) (Response, error) {
	b.mu.Lock()
	if b.err != nil {
		err := b.err
		b.mu.Unlock()
		return Response{}, err
	}
	b.nextID++
	req.ID = b.nextID
	ch := make(chan Response, 1)
	b.pending[req.ID] = ch
	b.mu.Unlock()

	b.writeMu.Lock()
	err := b.enc.Encode(req)
	b.writeMu.Unlock()
	if err != nil {
		b.forget(req.ID)
		return Response{}, fmt.Errorf("%w: send %s: %v", ErrWorkerClosed, req.Command, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return Response{}, b.failure()
		}
		if resp.Error != "" {
			return resp, fmt.Errorf("highlight %s: %w", req.Command, remoteError(resp.Error))
		}
		return resp, nil
	case <-ctx.Done():
		b.forget(req.ID)
		return Response{}, ctx.Err()
	}
}

// Close stops the worker and waits for it to exit.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.writeMu.Lock()
		_ = b.w.Close()
		b.writeMu.Unlock()
		<-b.done
		if b.stop != nil {
			b.closeErr = b.stop()
		}
	})
	return b.closeErr
}

func (b *Bridge) readLoop(r io.Reader) {
	dec := json.NewDecoder(r)
	for {
		var resp Response
		if err := dec.Decode(&resp); err != nil {
			b.fail(err)
			return
		}

		b.mu.Lock()
		ch, ok := b.pending[resp.ID]
		delete(b.pending, resp.ID)
		b.mu.Unlock()

		if !ok {
			b.logger.Warn("dropping uncorrelated highlight response", "id", resp.ID, "error", resp.Error)
			continue
		}
		ch <- resp
	}
}

func (b *Bridge) fail(cause error) {
	b.mu.Lock()
	if errors.Is(cause, io.EOF) || errors.Is(cause, ErrWorkerClosed) {
		b.err = ErrWorkerClosed
	} else {
		b.err = fmt.Errorf("%w: %v", ErrWorkerClosed, cause)
	}
	for id, ch := range b.pending {
		close(ch)
		delete(b.pending, id)
	}
	b.mu.Unlock()
	close(b.done)
}

func (b *Bridge) failure() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	return ErrWorkerClosed
}

func (b *Bridge) forget(id uint64) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

// remoteError restores the sentinel behind an error message that crossed
// the worker boundary so callers can still use errors.Is.
func remoteError(msg string) error {
	for _, sentinel := range []error{ErrUnknownLanguage, ErrUnknownTheme, ErrNotInitialized} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()); ok {
			return fmt.Errorf("%w%s", sentinel, rest)
		}
	}
	return errors.New(msg)
}
