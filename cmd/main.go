package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/u1i/crewai-debate/pkg/config"
	"github.com/u1i/crewai-debate/pkg/debate"
	"github.com/u1i/crewai-debate/pkg/debatelog"
	"github.com/u1i/crewai-debate/pkg/llm"
	"github.com/u1i/crewai-debate/pkg/stream"
	"github.com/u1i/crewai-debate/pkg/types"
)

const defaultTopic = "Should artificial intelligence be regulated by governments?"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("AI Debate Crew: Role-Based Collaboration")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Printf("Maximum debate rounds: %d\n", cfg.MaxRounds)
	fmt.Println("The Moderator will decide when the debate is complete.")
	fmt.Println()

	topic := resolveTopic(os.Args[1:])
	sessionID := generateSessionID()

	session, err := debatelog.NewSession(cfg.LogDir, sessionID, topic, cfg.MaxRounds)
	if err != nil {
		return err
	}
	defer session.Close()

	sinks := debate.MultiSink{session, consoleSink{}}

	// Optional event stream: publish turns to Kafka when brokers are
	// configured. Failure to connect downgrades to file logging only.
	if cfg.Stream.Enabled() {
		eventSink, err := stream.NewSink(cfg.Stream, sessionID)
		if err != nil {
			session.Logger().Warnf("event stream disabled: %v", err)
		} else {
			defer eventSink.Close()
			sinks = append(sinks, eventSink)
			session.Logger().Infof("publishing events to %s", cfg.Stream.Topic)
		}
	}

	client := llm.NewClient(cfg.OpenRouter.APIKey, cfg.OpenRouter.BaseURL)
	controller := debate.NewController(
		client,
		[3]types.ParticipantConfig{cfg.Roles.Proponent, cfg.Roles.Opponent, cfg.Roles.Moderator},
		types.DebateConfig{Topic: topic, MaxRounds: cfg.MaxRounds},
		sinks,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nStarting debate on: %s\n\n", topic)
	fmt.Printf("Technical log: %s\n", session.LogPath())
	fmt.Printf("Conversation log: %s\n\n", session.ConversationPath())
	fmt.Println(strings.Repeat("-", 60))

	result, err := controller.Run(ctx)
	if err != nil {
		// Turns recorded before the failure are already in the logs.
		session.Logger().Errorf("debate aborted: %v", err)
		return err
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("DEBATE SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Println(result.Summary)
	fmt.Println()
	fmt.Printf("Total rounds: %d\n", result.Rounds)
	fmt.Printf("Technical log: %s\n", session.LogPath())
	fmt.Printf("Conversation log: %s\n", session.ConversationPath())

	return nil
}

// resolveTopic takes the topic from the single positional argument, or
// prompts for one interactively, falling back to a default topic.
func resolveTopic(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		topic := strings.TrimSpace(args[0])
		fmt.Printf("Debate topic: %s\n", topic)
		return topic
	}

	fmt.Print("Enter the debate topic: ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	topic := strings.TrimSpace(line)
	if topic == "" {
		topic = defaultTopic
		fmt.Printf("\nNo topic provided, using default: %s\n", topic)
	}
	fmt.Println()

	return topic
}

// generateSessionID generates a unique session ID
func generateSessionID() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("debate-%s", suffix)
}

// consoleSink prints round progress to stdout while the full text goes to
// the log files.
type consoleSink struct{}

func (consoleSink) RecordTurn(turn types.Turn, promptSummary string) {
	if turn.IsEvaluation() {
		fmt.Printf("\n[Round %d] Moderator decision: %s\n", turn.Round, turn.Decision)
		fmt.Println(strings.Repeat("-", 60))
		return
	}
	fmt.Printf("[Round %d] %s has responded (%d chars)\n", turn.Round, turn.Role, len(turn.Text))
}

func (consoleSink) RecordResult(result *types.DebateResult) {}

func (consoleSink) RecordAnomaly(round int, message string) {
	fmt.Printf("[Round %d] Warning: %s\n", round, message)
}
