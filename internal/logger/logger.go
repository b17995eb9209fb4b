package logger

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/qtracelabs/qtrace/internal/redact"
)

// snippetLogLimit bounds how much analyzed source lands in the audit log.
const snippetLogLimit = 500

// ScanEvent is one analysis run as recorded in the JSONL audit log.
type ScanEvent struct {
	Timestamp    string             `json:"timestamp"`
	Language     string             `json:"language"`
	Snippet      string             `json:"snippet,omitempty"`
	SourceBytes  int                `json:"source_bytes"`
	BlockCount   int                `json:"block_count"`
	Tags         []string           `json:"tags"`
	Scores       map[string]float64 `json:"scores,omitempty"`
	Explanations int                `json:"explanations,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// AuditLogger appends ScanEvents to a JSONL file. Safe for concurrent use.
type AuditLogger struct {
	file *os.File
	mu   sync.Mutex
}

func New(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &AuditLogger{file: file}, nil
}

func (l *AuditLogger) Log(event ScanEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	// mask credential literals before the snippet hits disk
	event.Snippet = redact.Truncate(redact.Snippet(event.Snippet), snippetLogLimit)
	if event.Error != "" {
		event.Error = redact.Snippet(event.Error)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

func (l *AuditLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
