// Package highlight renders code blocks to themed HTML. Highlighting runs
// in a worker that speaks newline-delimited JSON; Bridge gives the
// synchronous Markdown renderer a blocking call into that worker.
package highlight

import "errors"

const (
	CommandGetHighlighter = "getHighlighter"
	CommandCodeToHTML     = "codeToHtml"
)

var (
	ErrUnknownLanguage = errors.New("language not loaded")
	ErrUnknownTheme    = errors.New("theme not found")
	ErrNotInitialized  = errors.New("highlighter not initialized")
	ErrWorkerClosed    = errors.New("highlight worker closed")
)

// Request is one call into the worker. Themes and Langs are used by
// getHighlighter; the remaining fields by codeToHtml.
type Request struct {
	ID          uint64   `json:"id"`
	Command     string   `json:"command"`
	Themes      []string `json:"themes,omitempty"`
	Langs       []string `json:"langs,omitempty"`
	Code        string   `json:"code,omitempty"`
	Lang        string   `json:"lang,omitempty"`
	Theme       string   `json:"theme,omitempty"`
	LineOptions []int    `json:"lineOptions,omitempty"`
}

// Response answers the request with the same ID. Error is set instead of
// HTML when the call failed.
type Response struct {
	ID    uint64 `json:"id"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}
