package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/relictower/data"
	"github.com/lawnchairsociety/relictower/internal/config"
	"github.com/lawnchairsociety/relictower/internal/database"
	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/gametime"
)

// fastClock runs game time 20 times faster than the wall clock.
type fastClock struct {
	start time.Time
}

func (c fastClock) Now() float64 {
	return float64(time.Since(c.start).Microseconds()) / 1000 * 20
}

func newTestServer(t *testing.T, cfg *config.ServerConfig) *Server {
	t.Helper()
	cat, err := game.LoadCatalog(data.FS, game.DefaultCatalogFiles())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	s := NewServer(cfg, cat)
	s.opts.Seed = 42
	s.newClock = func() gametime.Clock { return fastClock{start: time.Now()} }
	return s
}

func startHTTP(t *testing.T, s *Server) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Shutdown()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, line string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
}

// readUntil reads messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func textContaining(s string) func(Message) bool {
	return func(m Message) bool {
		return m.Type == MessageText && strings.Contains(m.Text, s)
	}
}

func stateIn(phase game.Phase) func(Message) bool {
	return func(m Message) bool {
		return m.Type == MessageState && m.State != nil && m.State.Phase == phase
	}
}

func TestServer_Shutdown_CalledTwice(t *testing.T) {
	s := newTestServer(t, nil)
	s.Shutdown()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Second Shutdown() call panicked: %v", r)
		}
	}()
	s.Shutdown()
}

func TestServer_Shutdown_Concurrent(t *testing.T) {
	s := newTestServer(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Shutdown()
		}()
	}
	wg.Wait()
}

func TestServer_ServeAfterShutdown(t *testing.T) {
	s := newTestServer(t, nil)
	s.Shutdown()
	if err := s.Start("127.0.0.1:0"); err != nil {
		t.Errorf("Start() after Shutdown = %v, want nil", err)
	}
}

func TestServer_NewServer_Defaults(t *testing.T) {
	s := newTestServer(t, nil)
	if s.GetServerConfig().WebSocket.FrameRate != 60 {
		t.Errorf("FrameRate = %d, want default 60", s.GetServerConfig().WebSocket.FrameRate)
	}
	if s.opts.MaxSkills != 6 || s.opts.Player.MaxHp != 100 {
		t.Errorf("session options = %+v, want defaults", s.opts)
	}
	if s.GetOnlineCount() != 0 {
		t.Errorf("GetOnlineCount() = %d, want 0", s.GetOnlineCount())
	}
	if s.GetUptime() < 0 {
		t.Error("GetUptime() should not be negative")
	}
}

func TestServer_WelcomeAndState(t *testing.T) {
	s := newTestServer(t, nil)
	conn := dial(t, startHTTP(t, s))

	readUntil(t, conn, textContaining("Welcome to Relic Tower"))
	msg := readUntil(t, conn, stateIn(game.PhaseIdle))
	if msg.State.Floor != 1 || msg.State.Player.Hp != 100 {
		t.Errorf("initial state = floor %d hp %d, want floor 1 hp 100", msg.State.Floor, msg.State.Player.Hp)
	}
	if msg.State.SessionID == "" {
		t.Error("state should carry the session id")
	}
	if s.GetOnlineCount() != 1 {
		t.Errorf("GetOnlineCount() = %d, want 1", s.GetOnlineCount())
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	s := newTestServer(t, nil)
	conn := dial(t, startHTTP(t, s))

	send(t, conn, "dance")
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == MessageError })
	if !strings.Contains(msg.Text, "Unknown command") {
		t.Errorf("error text = %q", msg.Text)
	}
}

func TestServer_RuleViolationIsAnError(t *testing.T) {
	s := newTestServer(t, nil)
	conn := dial(t, startHTTP(t, s))

	send(t, conn, "claim 0")
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == MessageError })
	if msg.Text != game.ErrNoRewards.Error() {
		t.Errorf("error text = %q, want %q", msg.Text, game.ErrNoRewards.Error())
	}
}

func TestServer_BattleToRewards(t *testing.T) {
	s := newTestServer(t, nil)
	conn := dial(t, startHTTP(t, s))

	send(t, conn, "start")
	readUntil(t, conn, textContaining("Floor 1: "))
	readUntil(t, conn, stateIn(game.PhaseBattle))
	readUntil(t, conn, textContaining("Victory!"))

	send(t, conn, "rewards")
	readUntil(t, conn, textContaining("Choose a reward:"))

	send(t, conn, "skip")
	msg := readUntil(t, conn, stateIn(game.PhaseIdle))
	if msg.State.Floor != 2 {
		t.Errorf("Floor after skip = %d, want 2", msg.State.Floor)
	}
}

func TestServer_RecordsAbandonedRun(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	s := newTestServer(t, nil)
	s.SetDatabase(db)
	srv := startHTTP(t, s)
	conn := dial(t, srv)

	send(t, conn, "start")
	readUntil(t, conn, textContaining("Victory!"))
	send(t, conn, "abandon")
	msg := readUntil(t, conn, stateIn(game.PhaseGameOver))
	if msg.State.Summary == nil || msg.State.Summary.Outcome != game.OutcomeAbandoned {
		t.Fatalf("game over summary = %+v", msg.State.Summary)
	}

	runID := msg.State.Summary.ID
	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.FloorReached != 1 || len(run.Floors) != 1 || run.Floors[0].Outcome != "victory" {
		t.Errorf("recorded run = %+v", run)
	}

	resp, err := http.Get(srv.URL + "/runs")
	if err != nil {
		t.Fatalf("GET /runs: %v", err)
	}
	defer resp.Body.Close()
	var body RunsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode /runs: %v", err)
	}
	if body.Total != 1 || body.BestFloor != 1 || len(body.Runs) != 1 || body.Runs[0].ID != runID {
		t.Errorf("/runs = %+v", body)
	}

	resp, err = http.Get(srv.URL + "/runs/" + runID)
	if err != nil {
		t.Fatalf("GET /runs/{id}: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /runs/{id} status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/runs/missing")
	if err != nil {
		t.Fatalf("GET /runs/missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /runs/missing status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_RunsDisabledWithoutDatabase(t *testing.T) {
	srv := startHTTP(t, newTestServer(t, nil))

	resp, err := http.Get(srv.URL + "/runs")
	if err != nil {
		t.Fatalf("GET /runs: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_NewRun(t *testing.T) {
	s := newTestServer(t, nil)
	conn := dial(t, startHTTP(t, s))

	first := readUntil(t, conn, stateIn(game.PhaseIdle)).State.SessionID
	send(t, conn, "new")
	readUntil(t, conn, textContaining("Starting a new run."))
	second := readUntil(t, conn, stateIn(game.PhaseIdle)).State.SessionID
	if first == second {
		t.Error("new should start a session with a fresh id")
	}
}

func TestServer_Rename(t *testing.T) {
	s := newTestServer(t, nil)
	conn := dial(t, startHTTP(t, s))
	isError := func(m Message) bool { return m.Type == MessageError }

	send(t, conn, "name   Aria ")
	readUntil(t, conn, textContaining("You are now known as Aria."))
	msg := readUntil(t, conn, stateIn(game.PhaseIdle))
	if msg.State.Player.Name != "Aria" {
		t.Errorf("player name = %q, want Aria", msg.State.Player.Name)
	}

	send(t, conn, "name x")
	if msg := readUntil(t, conn, isError); !strings.Contains(msg.Text, "characters long") {
		t.Errorf("short name error = %q", msg.Text)
	}
	send(t, conn, "name admin")
	if msg := readUntil(t, conn, isError); msg.Text != "That name is not allowed." {
		t.Errorf("reserved name error = %q", msg.Text)
	}

	// The chosen name carries over to the next run
	send(t, conn, "new")
	readUntil(t, conn, textContaining("Starting a new run."))
	msg = readUntil(t, conn, stateIn(game.PhaseIdle))
	if msg.State.Player.Name != "Aria" {
		t.Errorf("player name after new = %q, want Aria", msg.State.Player.Name)
	}

	send(t, conn, "start")
	readUntil(t, conn, stateIn(game.PhaseBattle))
	send(t, conn, "name Bran")
	if msg := readUntil(t, conn, isError); msg.Text != game.ErrRunStarted.Error() {
		t.Errorf("rename mid-run error = %q, want %q", msg.Text, game.ErrRunStarted.Error())
	}
}

func TestServer_CommandRateLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Connections.CommandRate = config.CommandRateConfig{Enabled: true, MaxCommands: 2, WindowSeconds: 60}
	s := newTestServer(t, cfg)
	conn := dial(t, startHTTP(t, s))

	for i := 0; i < 3; i++ {
		send(t, conn, "state")
	}
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == MessageError })
	if !strings.Contains(msg.Text, "too quickly") {
		t.Errorf("rate limit error = %q", msg.Text)
	}
}

func TestServer_ConnectionLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Connections.MaxPerIP = 1
	srv := startHTTP(t, newTestServer(t, cfg))

	dial(t, srv)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("second connection from the same IP should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("rejection response = %v, want 429", resp)
	}
}

func TestServer_OriginRejected(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WebSocket.AllowedOrigins = []string{"https://tower.example.com"}
	s := newTestServer(t, cfg)
	srv := startHTTP(t, s)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		t.Fatal("connection from a disallowed origin should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("rejection response = %v, want 403", resp)
	}
}

func TestServer_ShutdownEndsSessions(t *testing.T) {
	s := newTestServer(t, nil)
	conn := dial(t, startHTTP(t, s))
	readUntil(t, conn, stateIn(game.PhaseIdle))

	go s.Shutdown()

	readUntil(t, conn, textContaining("shutting down"))
	msg := readUntil(t, conn, stateIn(game.PhaseGameOver))
	if msg.State.Summary.Outcome != game.OutcomeAbandoned {
		t.Errorf("outcome = %q, want abandoned", msg.State.Summary.Outcome)
	}
}
