// Package test holds integration scenarios that play against a running
// towerd server through the WebSocket test client.
package test

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lawnchairsociety/relictower/internal/testclient"
)

// Timeouts for the scenarios. A floor 1 battle runs in real time.
var (
	MessageTimeout = 2 * time.Second
	BattleTimeout  = 60 * time.Second
)

// uniqueCounter provides unique IDs for test players within a single run
var uniqueCounter uint64

func uniqueName(base string) string {
	return fmt.Sprintf("%s%d", base, atomic.AddUint64(&uniqueCounter, 1))
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func pass(name, msg string) TestResult {
	return TestResult{Name: name, Passed: true, Message: msg}
}

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

// wsURL returns the game endpoint for a host:port address.
func wsURL(serverAddr string) string {
	return "ws://" + serverAddr + "/ws"
}

// connect opens a client and waits for the welcome message.
func connect(testName, serverAddr string) (*testclient.TestClient, error) {
	name := uniqueName("Climber")
	logAction(testName, fmt.Sprintf("Connecting as '%s'...", name))
	client, err := testclient.NewTestClient(name, wsURL(serverAddr))
	if err != nil {
		return nil, err
	}
	if !client.WaitForMessage("Welcome to Relic Tower", MessageTimeout) {
		client.Close()
		return nil, fmt.Errorf("no welcome message")
	}
	client.ClearMessages()
	return client, nil
}

// testEntry holds a test function and its name
type testEntry struct {
	Name string
	Func func(string) TestResult
}

// getAllTests returns all test entries in order
func getAllTests() []testEntry {
	return []testEntry{
		// Connection
		{"BasicConnection", TestBasicConnection},
		{"HelpCommand", TestHelpCommand},
		{"UnknownCommand", TestUnknownCommand},
		{"MultipleClients", TestMultipleClients},

		// Battle
		{"StartBattle", TestStartBattle},
		{"BattleFrames", TestBattleFrames},
		{"StartDuringBattle", TestStartDuringBattle},
		{"FirstFloorVictory", TestFirstFloorVictory},

		// Progression
		{"RewardsBeforeVictory", TestRewardsBeforeVictory},
		{"ClaimReward", TestClaimReward},
		{"SkipReward", TestSkipReward},
		{"AbandonAndNewRun", TestAbandonAndNewRun},
		{"RunHistory", TestRunHistory},
	}
}

// GetTestNames returns the names of all scenarios.
func GetTestNames() []string {
	tests := getAllTests()
	names := make([]string, len(tests))
	for i, t := range tests {
		names[i] = t.Name
	}
	return names
}

// RunAllTests runs every scenario against serverAddr (host:port).
func RunAllTests(serverAddr string) []TestResult {
	return RunFilteredTests(serverAddr, "")
}

// RunFilteredTests runs the scenarios whose name contains filter (case-insensitive).
func RunFilteredTests(serverAddr string, filter string) []TestResult {
	filter = strings.ToLower(filter)
	results := make([]TestResult, 0)
	for _, t := range getAllTests() {
		if filter != "" && !strings.Contains(strings.ToLower(t.Name), filter) {
			continue
		}
		results = append(results, t.Func(serverAddr))
	}
	return results
}

// PrintResults prints all test results in a formatted way
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
