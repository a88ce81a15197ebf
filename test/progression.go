package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lawnchairsociety/relictower/internal/database"
	"github.com/lawnchairsociety/relictower/internal/game"
)

// TestRewardsBeforeVictory tests that rewards are refused before a floor is won
func TestRewardsBeforeVictory(serverAddr string) TestResult {
	const testName = "Rewards Before Victory"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	client.SendCommand("rewards")
	text, ok := client.WaitForError(MessageTimeout)
	if !ok || text != game.ErrNoRewards.Error() {
		return fail(testName, "Expected %q, got %q", game.ErrNoRewards, text)
	}
	return pass(testName, "Rewards refused while idle")
}

// TestClaimReward tests claiming the first offer and reaching floor 2
func TestClaimReward(serverAddr string) TestResult {
	const testName = "Claim Reward"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	if phase, err := startAndWin(testName, client); err != nil || phase != game.PhaseRewards {
		return fail(testName, "Could not win floor 1: %v", err)
	}

	client.SendCommand("rewards")
	if !client.WaitForMessage("Choose a reward:", MessageTimeout) {
		return fail(testName, "No reward list: %v", client.GetMessages())
	}

	logAction(testName, "Claiming offer 0...")
	client.SendCommand("claim 0")
	time.Sleep(200 * time.Millisecond)
	switch st := client.State(); {
	case st == nil:
	case st.Phase == game.PhaseUpgrade:
		logAction(testName, "Owned skill offered, choosing upgrade 0...")
		client.SendCommand("upgrade 0")
	case st.Phase == game.PhaseRewards:
		logAction(testName, "Offer declined, skipping...")
		client.SendCommand("skip")
	}

	deadline := time.Now().Add(MessageTimeout)
	for time.Now().Before(deadline) {
		if st := client.State(); st != nil && st.Phase == game.PhaseIdle && st.Floor == 2 {
			return pass(testName, "Reward claimed, floor 2 reached")
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fail(testName, "Never reached floor 2: %v", client.GetMessages())
}

// TestSkipReward tests that skipping moves on to the next floor
func TestSkipReward(serverAddr string) TestResult {
	const testName = "Skip Reward"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	if phase, err := startAndWin(testName, client); err != nil || phase != game.PhaseRewards {
		return fail(testName, "Could not win floor 1: %v", err)
	}

	client.SendCommand("skip")
	if !client.WaitForMessage("Floor 2 awaits", MessageTimeout) {
		return fail(testName, "Skip not acknowledged: %v", client.GetMessages())
	}
	return pass(testName, "Rewards skipped")
}

// TestAbandonAndNewRun tests ending a run and starting over on the same connection
func TestAbandonAndNewRun(serverAddr string) TestResult {
	const testName = "Abandon And New Run"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	first, ok := client.WaitForPhase(game.PhaseIdle, MessageTimeout)
	if !ok {
		return fail(testName, "No initial state")
	}

	client.SendCommand("abandon")
	over, ok := client.WaitForPhase(game.PhaseGameOver, MessageTimeout)
	if !ok || over.Summary == nil || over.Summary.Outcome != game.OutcomeAbandoned {
		return fail(testName, "Run did not end as abandoned")
	}

	client.SendCommand("new")
	second, ok := client.WaitForPhase(game.PhaseIdle, MessageTimeout)
	if !ok || second.SessionID == first.SessionID {
		return fail(testName, "No fresh session after 'new'")
	}
	return pass(testName, "Run abandoned and restarted")
}

// TestRunHistory tests that a finished run shows up in the run history
func TestRunHistory(serverAddr string) TestResult {
	const testName = "Run History"

	client, err := connect(testName, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	if phase, err := startAndWin(testName, client); err != nil || phase != game.PhaseRewards {
		return fail(testName, "Could not win floor 1: %v", err)
	}
	client.SendCommand("abandon")
	over, ok := client.WaitForPhase(game.PhaseGameOver, MessageTimeout)
	if !ok {
		return fail(testName, "Run did not end")
	}

	url := fmt.Sprintf("http://%s/runs/%s", serverAddr, over.SessionID)
	logAction(testName, "Fetching "+url)
	resp, err := http.Get(url)
	if err != nil {
		return fail(testName, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return pass(testName, "Run history disabled on this server")
	}

	var run database.Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return fail(testName, "Bad run body: %v", err)
	}
	if run.Outcome != game.OutcomeAbandoned || len(run.Floors) == 0 {
		return fail(testName, "Unexpected run record: %+v", run)
	}
	return pass(testName, fmt.Sprintf("Run %s recorded with %d floors", run.ID, len(run.Floors)))
}
