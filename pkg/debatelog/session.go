package debatelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"

	"github.com/u1i/crewai-debate/pkg/types"
)

// Session is the file logging sink for one debate run. It maintains two
// files: a technical log with timestamped entries, and a human-readable
// markdown conversation log with every prompt and response. Implements
// debate.Sink.
type Session struct {
	ID        string
	topic     string
	maxRounds int

	logger   *logrus.Logger
	logFile  *os.File
	convFile *os.File
	logPath  string
	convPath string
}

// NewSession creates the log directory and both log files. Filenames
// carry a timestamp and a sanitized form of the topic.
func NewSession(logDir, sessionID, topic string, maxRounds int) (*Session, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	safe := SafeTopic(topic)
	logPath := filepath.Join(logDir, fmt.Sprintf("debate_%s_%s.log", stamp, safe))
	convPath := filepath.Join(logDir, fmt.Sprintf("conversation_%s_%s.md", stamp, safe))

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	convFile, err := os.OpenFile(convPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open conversation log: %w", err)
	}

	// Detailed entries go to the file; warnings and above also reach the
	// console so a quiet run stays quiet.
	logger := logrus.New()
	logger.SetOutput(logFile)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.AddHook(&writer.Hook{
		Writer: os.Stderr,
		LogLevels: []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
			logrus.WarnLevel,
		},
	})

	s := &Session{
		ID:        sessionID,
		topic:     topic,
		maxRounds: maxRounds,
		logger:    logger,
		logFile:   logFile,
		convFile:  convFile,
		logPath:   logPath,
		convPath:  convPath,
	}

	s.writeConversationHeader()
	logger.Info("debate session started")
	logger.Infof("session: %s", sessionID)
	logger.Infof("topic: %s", topic)
	logger.Infof("maximum rounds: %d", maxRounds)

	return s, nil
}

// Logger exposes the technical logger for progress reporting outside the
// core loop.
func (s *Session) Logger() *logrus.Logger {
	return s.logger
}

// LogPath returns the technical log filename.
func (s *Session) LogPath() string {
	return s.logPath
}

// ConversationPath returns the markdown conversation log filename.
func (s *Session) ConversationPath() string {
	return s.convPath
}

// RecordTurn writes one turn to both logs.
func (s *Session) RecordTurn(turn types.Turn, promptSummary string) {
	s.logger.Infof("round %d %s responded (%d chars)", turn.Round, turn.Role, len(turn.Text))

	if turn.IsEvaluation() {
		fmt.Fprintf(s.convFile, "## Round %d - Moderator Evaluation\n\n", turn.Round)
	} else {
		fmt.Fprintf(s.convFile, "## Round %d - %s\n\n", turn.Round, turn.Role)
	}

	fmt.Fprintf(s.convFile, "### Input (Prompt/Context)\n\n```\n%s\n```\n\n", promptSummary)
	fmt.Fprintf(s.convFile, "### Output (Response)\n\n")
	if turn.IsEvaluation() {
		fmt.Fprintf(s.convFile, "**Decision:** `%s`\n\n%s\n\n", turn.Decision, turn.Text)
	} else {
		fmt.Fprintf(s.convFile, "%s\n\n", turn.Text)
	}
	fmt.Fprintf(s.convFile, "---\n\n")
}

// RecordResult writes the final summary block and the session footer.
func (s *Session) RecordResult(result *types.DebateResult) {
	s.logger.Infof("debate complete after %d round(s), %d turns", result.Rounds, result.Transcript.Len())
	s.logger.Info("final summary:")
	s.logger.Info(result.Summary)

	fmt.Fprintf(s.convFile, "# Final Summary\n\n%s\n\n---\n\n", result.Summary)
	fmt.Fprintf(s.convFile, "**Ended:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(s.convFile, "**Total Rounds:** %d\n", result.Rounds)
}

// RecordAnomaly logs a recoverable oddity at warning level.
func (s *Session) RecordAnomaly(round int, message string) {
	s.logger.Warnf("round %d: %s", round, message)
}

// Close flushes and closes both log files.
func (s *Session) Close() error {
	if err := s.convFile.Close(); err != nil {
		s.logFile.Close()
		return err
	}
	return s.logFile.Close()
}

func (s *Session) writeConversationHeader() {
	fmt.Fprintf(s.convFile, "# Debate Conversation History\n\n")
	fmt.Fprintf(s.convFile, "**Topic:** %s\n\n", s.topic)
	fmt.Fprintf(s.convFile, "**Session:** %s\n\n", s.ID)
	fmt.Fprintf(s.convFile, "**Started:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(s.convFile, "**Maximum Rounds:** %d\n\n---\n\n", s.maxRounds)
}

// SafeTopic reduces a topic to a filename-friendly slug: the first 50
// characters, letters and digits kept, spaces collapsed to underscores.
func SafeTopic(topic string) string {
	if len(topic) > 50 {
		topic = topic[:50]
	}

	var sb strings.Builder
	for _, r := range topic {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ' ':
			sb.WriteRune(r)
		}
	}

	return strings.ReplaceAll(strings.TrimSpace(sb.String()), " ", "_")
}
