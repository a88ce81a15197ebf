package test

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/relictower/internal/game"
)

// TestBasicConnection tests that clients can connect and receive the first state frame
func TestBasicConnection(serverAddr string) TestResult {
	const testName = "Basic Connection"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	st, ok := client.WaitForPhase(game.PhaseIdle, MessageTimeout)
	logResult(testName, ok, "Waiting for the idle state frame")
	if !ok {
		return fail(testName, "No idle state frame received")
	}
	if st.Floor != 1 || st.Player.Hp != st.Player.MaxHp {
		return fail(testName, "Unexpected starting state: floor %d, hp %d/%d", st.Floor, st.Player.Hp, st.Player.MaxHp)
	}

	return pass(testName, fmt.Sprintf("Connected to session %s", st.SessionID))
}

// TestHelpCommand tests that help lists the commands
func TestHelpCommand(serverAddr string) TestResult {
	const testName = "Help Command"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	logAction(testName, "Sending 'help'...")
	client.SendCommand("help")
	if !client.WaitForMessage("claim <n>", MessageTimeout) {
		return fail(testName, "Help text missing the claim command: %v", client.GetMessages())
	}
	return pass(testName, "Help lists the commands")
}

// TestUnknownCommand tests that unknown input is rejected with an error message
func TestUnknownCommand(serverAddr string) TestResult {
	const testName = "Unknown Command"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	client.SendCommand("dance")
	text, ok := client.WaitForError(MessageTimeout)
	logResult(testName, ok, text)
	if !ok || !strings.Contains(text, "Unknown command") {
		return fail(testName, "Expected an unknown command error, got %q", text)
	}
	return pass(testName, "Unknown command rejected")
}

// TestMultipleClients tests that two connections get independent sessions
func TestMultipleClients(serverAddr string) TestResult {
	const testName = "Multiple Clients"

	a, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Client A failed to connect: %v", err)
	}
	defer a.Close()
	b, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Client B failed to connect: %v", err)
	}
	defer b.Close()

	logAction(testName, "Client A starts a battle, client B stays idle...")
	a.SendCommand("start")
	if _, ok := a.WaitForPhase(game.PhaseBattle, MessageTimeout); !ok {
		return fail(testName, "Client A never entered battle")
	}
	stB, ok := b.WaitForPhase(game.PhaseIdle, MessageTimeout)
	if !ok {
		return fail(testName, "Client B left the idle phase")
	}
	if stA := a.State(); stA.SessionID == stB.SessionID {
		return fail(testName, "Both clients share session %s", stA.SessionID)
	}
	return pass(testName, "Sessions are independent")
}
