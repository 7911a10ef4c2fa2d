// Command connectfive is the terminal client of the game server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsf/termbox-go"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/client"
	"github.com/rocketscienceinc/connectfive-backend/internal/config"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/internal/synchronizer"
)

const requester = synchronizer.RequesterID("terminal")

func main() {
	name := flag.String("name", "", "player name")
	color := flag.String("color", "X", "single character used for your pieces")
	flag.Parse()

	conf := config.MustLoadEnv()

	logger, closeLog, err := initLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err = run(logger, conf, *name, *color); err != nil {
		logger.Error("client stopped", "error", err)
		fmt.Fprintf(os.Stderr, "connectfive: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// initLogger - the terminal belongs to termbox, so logs go to a file or nowhere.
func initLogger(conf *config.Config) (*slog.Logger, func(), error) {
	if conf.Client.LogFile == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.OpenFile(conf.Client.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: conf.SlogLevel()}))

	return logger, func() { _ = file.Close() }, nil
}

func run(logger *slog.Logger, conf *config.Config, name, color string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(conf.Client.ServerURL, &http.Client{Timeout: conf.Client.RequestTimeout})

	player, err := api.RegisterPlayer(ctx, name, color)
	if err != nil {
		return err
	}

	session, err := matchmake(ctx, api, player.ID)
	if err != nil {
		return err
	}

	logger.Info("joined session", "sessionID", session.ID, "playerID", player.ID)

	syncer := synchronizer.New(logger, api, synchronizer.Config{
		SessionID:      session.ID,
		UserID:         player.ID,
		Interval:       conf.Client.PollInterval,
		RequestTimeout: conf.Client.RequestTimeout,
	})
	defer syncer.Close()

	if err = termbox.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer termbox.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	uiCtx, cancel := context.WithCancel(groupCtx)
	events := make(chan termbox.Event)

	group.Go(func() error {
		return pollEvents(uiCtx, events)
	})

	group.Go(func() error {
		defer termbox.Interrupt()
		defer cancel()
		return play(uiCtx, syncer, newView(player, session), events)
	})

	return group.Wait()
}

// matchmake - joins the most recent waiting session, or opens a new one when there is none.
func matchmake(ctx context.Context, api *client.Client, playerID string) (*entity.Session, error) {
	waiting, err := api.FindWaitingSession(ctx)
	switch {
	case err == nil:
		session, joinErr := api.JoinSession(ctx, waiting.ID, playerID)
		if joinErr == nil {
			return session, nil
		}
		if !errors.Is(joinErr, apperror.ErrSessionFull) {
			return nil, joinErr
		}
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, err
	}

	return api.CreateSession(ctx, playerID)
}

func pollEvents(ctx context.Context, events chan<- termbox.Event) error {
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventInterrupt:
			return nil
		case termbox.EventError:
			return fmt.Errorf("terminal error: %w", ev.Err)
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// play - the UI loop. Keyboard events and synchronizer responses are handled one at a time.
func play(ctx context.Context, syncer *synchronizer.Synchronizer, view *view, events <-chan termbox.Event) error {
	mailbox := syncer.Subscribe(requester)
	syncer.Start(ctx)

	if err := syncer.Send(synchronizer.Request{Kind: synchronizer.InitializeBoard, Requester: requester}); err != nil {
		return err
	}

	render(view)

	for {
		select {
		case <-ctx.Done():
			return nil
		case resp, ok := <-mailbox:
			if !ok {
				return nil
			}
			view.apply(resp)
		case ev := <-events:
			if ev.Type != termbox.EventKey {
				break
			}
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				return nil
			}
			if column, ok := view.column(ev.Ch); ok {
				if err := syncer.Send(synchronizer.Request{Kind: synchronizer.MakeMove, Requester: requester, Column: column}); err != nil {
					return err
				}
			}
		}

		render(view)
	}
}

func render(view *view) {
	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	for y, line := range view.lines() {
		for x, ch := range line {
			termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
		}
	}

	_ = termbox.Flush()
}
