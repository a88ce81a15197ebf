package test

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/testclient"
)

// startAndWin starts floor 1 and waits until the battle is over. It returns
// the phase the session ended in.
func startAndWin(testName string, client *testclient.TestClient) (game.Phase, error) {
	logAction(testName, "Starting floor 1...")
	if err := client.SendCommand("start"); err != nil {
		return "", err
	}
	if !client.WaitForMessage("Floor 1:", MessageTimeout) {
		return "", fmt.Errorf("no floor announcement")
	}

	logAction(testName, "Waiting for the battle to end...")
	seen, ok := client.WaitForAnyMessage([]string{"Victory!", "GAME OVER"}, BattleTimeout)
	if !ok {
		return "", fmt.Errorf("battle did not end within %s", BattleTimeout)
	}
	if seen == "GAME OVER" {
		return game.PhaseGameOver, nil
	}
	return game.PhaseRewards, nil
}

// TestStartBattle tests that 'start' spawns the floor enemy
func TestStartBattle(serverAddr string) TestResult {
	const testName = "Start Battle"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	client.SendCommand("start")
	st, ok := client.WaitForPhase(game.PhaseBattle, MessageTimeout)
	if !ok {
		return fail(testName, "Session never entered battle")
	}
	if st.Enemy == nil || st.Enemy.Hp <= 0 {
		return fail(testName, "Battle frame without a living enemy")
	}
	return pass(testName, fmt.Sprintf("Fighting %s (%d HP)", st.Enemy.Name, st.Enemy.Hp))
}

// TestBattleFrames tests that state frames stream while a battle runs
func TestBattleFrames(serverAddr string) TestResult {
	const testName = "Battle Frames"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	client.SendCommand("start")
	first, ok := client.WaitForPhase(game.PhaseBattle, MessageTimeout)
	if !ok {
		return fail(testName, "Session never entered battle")
	}
	before := client.FrameCount()

	// Wait for the next frames and make sure battle time moves forward
	if _, ok := client.WaitForAnyMessage([]string{"Victory!", "GAME OVER"}, MessageTimeout); ok {
		return pass(testName, "Battle ended before frames could be sampled")
	}
	after := client.FrameCount()
	last := client.State()
	logResult(testName, after > before, fmt.Sprintf("%d frames in %s", after-before, MessageTimeout))
	if after <= before {
		return fail(testName, "No frames arrived during the battle")
	}
	if last.Phase == game.PhaseBattle && last.Elapsed <= first.Elapsed {
		return fail(testName, "Battle time did not advance (%.0f -> %.0f)", first.Elapsed, last.Elapsed)
	}
	return pass(testName, fmt.Sprintf("%d frames received", after-before))
}

// TestStartDuringBattle tests that a second 'start' is rejected
func TestStartDuringBattle(serverAddr string) TestResult {
	const testName = "Start During Battle"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	client.SendCommand("start")
	client.WaitForPhase(game.PhaseBattle, MessageTimeout)
	client.SendCommand("start")

	text, ok := client.WaitForError(MessageTimeout)
	if !ok || text != game.ErrBattleInProgress.Error() {
		return fail(testName, "Expected %q, got %q", game.ErrBattleInProgress, text)
	}
	return pass(testName, "Second start rejected")
}

// TestFirstFloorVictory tests that the starting player beats floor 1
func TestFirstFloorVictory(serverAddr string) TestResult {
	const testName = "First Floor Victory"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	phase, err := startAndWin(testName, client)
	if err != nil {
		return fail(testName, "%v", err)
	}
	if phase != game.PhaseRewards {
		return fail(testName, "Run ended on floor 1: %s", strings.Join(client.GetMessages(), " | "))
	}

	st, ok := client.WaitForPhase(game.PhaseRewards, MessageTimeout)
	if !ok {
		return fail(testName, "No rewards frame after victory")
	}
	return pass(testName, fmt.Sprintf("Won floor 1 with %d/%d HP", st.Player.Hp, st.Player.MaxHp))
}
