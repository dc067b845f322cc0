// Package cracker runs a wordlist attack against an encounter's hash
// target in the background while the player keeps playing. Results come
// back through a single pending slot the game loop polls once per tick;
// a token on each attempt keeps stale results from a previous encounter
// from being consumed.
package cracker

import (
	"bufio"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hashquest/internal/content"
	"hashquest/internal/hashcheck"
)

// Result is what one finished attempt leaves in the slot.
type Result struct {
	Token     string
	Found     bool
	Plaintext string
	Err       error
}

// Worker owns the pending-result slot. One attempt runs at a time from
// the game's point of view; a newer Start simply invalidates the token
// an older attempt will report under.
type Worker struct {
	log zerolog.Logger

	mu      sync.Mutex
	pending *Result
	token   string
}

// New returns an idle worker.
func New(log zerolog.Logger) *Worker {
	return &Worker{log: log}
}

// Start launches a wordlist attempt against the target and returns the
// token the result will carry. The attempt stops at the first match,
// the end of the wordlist, or the timeout, whichever comes first.
func (w *Worker) Start(target string, algo content.HashAlgo, wordlistPath string, timeout time.Duration) string {
	token := uuid.NewString()

	w.mu.Lock()
	w.token = token
	w.pending = nil
	w.mu.Unlock()

	go w.run(token, target, algo, wordlistPath, timeout)
	return token
}

func (w *Worker) run(token, target string, algo content.HashAlgo, wordlistPath string, timeout time.Duration) {
	res := Result{Token: token}
	deadline := time.Now().Add(timeout)

	f, err := os.Open(wordlistPath)
	if err != nil {
		res.Err = err
		w.deliver(res)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if time.Now().After(deadline) {
			break
		}
		word := scanner.Text()
		if word == "" {
			continue
		}
		if hashcheck.CheckHash(word, target, algo) {
			res.Found = true
			res.Plaintext = word
			break
		}
	}
	if err := scanner.Err(); err != nil && !res.Found {
		res.Err = err
	}
	w.deliver(res)
}

// deliver writes the slot exactly once per attempt. An attempt whose
// token was superseded is dropped on the floor.
func (w *Worker) deliver(res Result) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if res.Token != w.token {
		w.log.Debug().Str("token", res.Token).Msg("discarding stale crack result")
		return
	}
	w.pending = &res
}

// Poll consumes the pending result when its token matches the one the
// caller is waiting on. It returns nil while the attempt is still
// running or when only a stale result is present.
func (w *Worker) Poll(token string) *Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil || w.pending.Token != token {
		return nil
	}
	res := w.pending
	w.pending = nil
	return res
}
