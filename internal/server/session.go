package server

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/relictower/internal/antispam"
	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/command"
	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/logger"
)

// playerSession is one connection's run. It is owned by the goroutine
// running handleClient; only the line reader runs beside it.
type playerSession struct {
	server   *Server
	client   Client
	connID   string
	session  *game.Session
	recorded bool
	name     string // Chosen with the name command; kept across runs
	limiter  *antispam.Tracker
}

// handleClient runs the session loop for client until it disconnects, quits
// or the server shuts down.
func (s *Server) handleClient(client Client) {
	ps := &playerSession{
		server:  s,
		client:  client,
		connID:  uuid.NewString(),
		limiter: antispam.NewTracker(s.serverConfig.Connections.CommandRate.Limits()),
	}
	ps.newRun()

	s.addClient(ps.connID, client)
	defer s.removeClient(ps.connID)
	logger.Info("Client connected", "remote_addr", client.RemoteAddr(), "conn", ps.connID)

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go readLines(client, lines, readErr, done)

	ps.sendText(welcomeText)
	ps.sendState()

	ticker := time.NewTicker(s.serverConfig.WebSocket.FrameInterval())
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdown:
			ps.end("The server is shutting down. Your run has been recorded.")
			return
		case err := <-readErr:
			logger.Info("Client disconnected", "conn", ps.connID, "error", err)
			ps.end("")
			return
		case line := <-lines:
			if check := ps.limiter.Check(); !check.Allowed {
				ps.sendError(check.Reason)
				continue
			}
			if quit := ps.handleLine(line); quit {
				ps.end("")
				logger.Info("Client quit", "conn", ps.connID)
				return
			}
		case <-ticker.C:
			ps.tick()
		}
	}
}

// readLines forwards client input until a read fails or done is closed.
func readLines(client Client, lines chan<- string, errs chan<- error, done <-chan struct{}) {
	for {
		line, err := client.ReadLine()
		if err != nil {
			errs <- err
			return
		}
		select {
		case lines <- line:
		case <-done:
			return
		}
	}
}

func (ps *playerSession) newRun() {
	opts := ps.server.opts
	if ps.name != "" {
		opts.Player.Name = ps.name
	}
	ps.session = game.NewSession(ps.server.catalog, ps.server.newClock(), opts)
	ps.recorded = false
	logger.Debug("Run started", "conn", ps.connID, "session", ps.session.ID)
}

// tick advances a running battle to the current time and pushes a frame.
func (ps *playerSession) tick() {
	if ps.session.Phase() != game.PhaseBattle {
		return
	}

	outcome, err := ps.session.Step()
	if err != nil {
		logger.Error("Battle step failed", "session", ps.session.ID, "error", err)
		return
	}
	ps.sendState()

	switch outcome {
	case combat.Victory:
		ps.sendText("Victory! Type 'rewards' to see your rewards.")
	case combat.Defeat:
		ps.sendText(ps.session.Summary().String() + "\nType 'new' to start another run.")
		ps.record()
	}
}

// handleLine executes one command line and reports whether the client quit.
func (ps *playerSession) handleLine(line string) bool {
	res, err := command.ParseCommand(line).Execute(ps.session)
	if err != nil {
		if errors.Is(err, command.ErrUnknownCommand) {
			ps.sendError("Unknown command. Type 'help' for a list of commands.")
		} else {
			ps.sendError(err.Error())
		}
		return false
	}

	if res.Text != "" {
		ps.sendText(res.Text)
	}
	if res.Rename != "" {
		ps.rename(res.Rename)
	}
	if res.NewRun {
		ps.end("")
		ps.newRun()
		ps.sendState()
	}
	if ps.session.Over() {
		ps.record()
	}
	if res.ShowState {
		ps.sendState()
	}
	return res.Quit
}

// rename validates a requested name and applies it to the current run.
func (ps *playerSession) rename(name string) {
	check := ps.server.nameFilter.Check(name)
	if !check.Allowed {
		ps.sendError(check.Reason)
		return
	}
	if err := ps.session.Rename(check.Name); err != nil {
		ps.sendError(err.Error())
		return
	}
	ps.name = check.Name
	logger.Debug("Player renamed", "conn", ps.connID, "name", check.Name)
	ps.sendText("You are now known as " + check.Name + ".")
	ps.sendState()
}

// end abandons an unfinished run, records it and optionally says goodbye.
func (ps *playerSession) end(message string) {
	ps.session.Abandon()
	ps.record()
	if message != "" {
		ps.sendText(message)
		ps.sendState()
	}
}

// record writes a finished run to the history store once. Runs that never
// fought a floor are not recorded.
func (ps *playerSession) record() {
	db := ps.server.db
	if ps.recorded || db == nil || !ps.session.Over() || len(ps.session.History()) == 0 {
		return
	}
	ps.recorded = true

	sum := ps.session.Summary()
	if err := db.RecordRun(sum.Record()); err != nil {
		logger.Error("Failed to record run", "session", sum.ID, "error", err)
		return
	}
	logger.Info("Run recorded", "session", sum.ID, "floor", sum.Floor, "outcome", sum.Outcome)
}

func (ps *playerSession) sendText(text string) {
	ps.send(Message{Type: MessageText, Text: text})
}

func (ps *playerSession) sendError(text string) {
	ps.send(Message{Type: MessageError, Text: text})
}

func (ps *playerSession) sendState() {
	snap := ps.session.Snapshot()
	ps.send(Message{Type: MessageState, State: &snap})
}

func (ps *playerSession) send(msg Message) {
	if err := ps.client.WriteJSON(msg); err != nil {
		logger.Debug("Write failed", "conn", ps.connID, "error", err)
	}
}
