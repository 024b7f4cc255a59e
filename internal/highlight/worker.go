package highlight

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Worker owns the highlighter state on the worker side of the bridge.
type Worker struct {
	highlighter *Highlighter
	logger      *slog.Logger
}

func NewWorker(logger *slog.Logger) *Worker {
	return &Worker{logger: logger}
}

// Handle executes one request.
func (w *Worker) Handle(req Request) Response {
	resp := Response{ID: req.ID}

	switch req.Command {
	case CommandGetHighlighter:
		h, err := NewHighlighter(req.Themes, req.Langs)
		if err != nil {
			resp.Error = err.Error()
			return resp
		}
		w.highlighter = h
		w.logger.Debug("highlighter loaded", "themes", req.Themes, "langs", req.Langs)
	case CommandCodeToHTML:
		if w.highlighter == nil {
			resp.Error = ErrNotInitialized.Error()
			return resp
		}
		out, err := w.highlighter.CodeToHTML(req.Code, req.Lang, req.Theme, req.LineOptions)
		if err != nil {
			resp.Error = err.Error()
			return resp
		}
		resp.HTML = out
	default:
		resp.Error = fmt.Sprintf("unknown command %q", req.Command)
	}
	return resp
}

// Serve reads one JSON request per line from r and writes one JSON
// response per line to out, in request order. It returns nil when r is
// exhausted.
func Serve(ctx context.Context, r io.Reader, out io.Writer, logger *slog.Logger) error {
	worker := NewWorker(logger)
	reader := bufio.NewReader(r)
	enc := json.NewEncoder(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)

		if len(line) > 0 {
			var req Request
			var resp Response
			if err := json.Unmarshal(line, &req); err != nil {
				logger.Warn("malformed highlight request", "error", err)
				resp = Response{Error: fmt.Sprintf("malformed request: %v", err)}
			} else {
				resp = worker.Handle(req)
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("write highlight response: %w", err)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read highlight request: %w", readErr)
		}
	}
}
