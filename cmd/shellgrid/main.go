// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/shellgrid/main.go
// Summary: Reference CLI driver: one tab, one pane, raw-mode stdin loop.

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"shellgrid/config"
	"shellgrid/internal/history"
	"shellgrid/internal/outputbuffer"
	"shellgrid/internal/pane"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shellgrid: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Get()

	dataDir, err := dataDir()
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}

	histPath := cfg.GetString("history", "persist_path", "")
	if histPath == "" {
		histPath = filepath.Join(dataDir, "history.json")
	}
	hist, err := history.Load(histPath, cfg.GetInt("history", "max_entries", 0))
	if err != nil {
		log.Printf("shellgrid: failed to load history: %v", err)
	}
	if idx, err := history.OpenIndex(filepath.Join(dataDir, "history.db")); err != nil {
		log.Printf("shellgrid: history index unavailable: %v", err)
	} else {
		hist.AttachIndex(idx)
		defer idx.Close()
	}
	defer func() {
		if err := hist.Flush(histPath); err != nil {
			log.Printf("shellgrid: failed to persist history: %v", err)
		}
	}()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getwd: %w", err)
	}

	rows, cols := 24, 80
	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		cols, rows = w, h
	}

	p := pane.New("main", cwd, rows, cols, hist)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			p.SetEnv(k, v)
		}
	}

	if idx, err := outputbuffer.OpenIndex(filepath.Join(dataDir, "scrollback.db")); err != nil {
		log.Printf("shellgrid: scrollback index unavailable: %v", err)
	} else {
		p.Buffer().AttachIndex(idx)
		defer idx.Close()
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	sigWinch := make(chan os.Signal, 1)
	signal.Notify(sigWinch, syscall.SIGWINCH)

	keys := make(chan *tcell.EventKey, 64)
	go readKeys(os.Stdin, keys)

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	lastHistLen := hist.Len()
	flushHistory := func() {
		if n := hist.Len(); n != lastHistLen {
			lastHistLen = n
			if err := hist.Flush(histPath); err != nil {
				log.Printf("shellgrid: failed to persist history: %v", err)
			}
		}
	}

	render(out, p)
	for {
		select {
		case ev, ok := <-keys:
			if !ok {
				return nil
			}
			if ev.Key() == tcell.KeyCtrlD && p.Mode() == pane.ModeNative {
				return nil
			}
			p.HandleKey(ev)
			p.Poll()
			render(out, p)
			flushHistory()
		case <-sigWinch:
			if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
				p.Reflow(h, w)
			}
			render(out, p)
		case <-ticker.C:
			if p.Poll() {
				render(out, p)
			}
			flushHistory()
		}
	}
}

func dataDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "shellgrid")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
