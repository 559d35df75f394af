package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const flushInterval = 2 * time.Second

// AsyncFileWriter queues log lines and writes them from a single goroutine. Lines are dropped
// when the queue is full so logging never blocks a request.
type AsyncFileWriter struct {
	writer    *bufio.Writer
	file      *os.File
	mu        sync.Mutex
	logChan   chan []byte
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewAsyncFileWriter(logFile string, bufferSize int) (*AsyncFileWriter, error) {
	safeLogFile := filepath.Clean(logFile)
	file, err := os.OpenFile(safeLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	aw := &AsyncFileWriter{
		writer:  bufio.NewWriterSize(file, bufferSize),
		file:    file,
		logChan: make(chan []byte, 1000),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go aw.processLogs()

	return aw, nil
}

func (aw *AsyncFileWriter) Write(p []byte) (n int, err error) {
	select {
	case aw.logChan <- append([]byte{}, p...):
		return len(p), nil
	default:
		return 0, nil
	}
}

func (aw *AsyncFileWriter) processLogs() {
	defer close(aw.stopped)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case logData := <-aw.logChan:
			aw.write(logData)

		case <-ticker.C:
			aw.mu.Lock()
			_ = aw.writer.Flush()
			aw.mu.Unlock()

		case <-aw.done:
			for {
				select {
				case logData := <-aw.logChan:
					aw.write(logData)
				default:
					aw.mu.Lock()
					_ = aw.writer.Flush()
					aw.mu.Unlock()
					return
				}
			}
		}
	}
}

func (aw *AsyncFileWriter) write(p []byte) {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	if _, err := aw.writer.Write(p); err != nil {
		fmt.Fprintln(os.Stderr, "error writing log data to file", err)
	}
}

// Close drains pending lines, flushes and closes the file.
func (aw *AsyncFileWriter) Close() {
	aw.closeOnce.Do(func() {
		close(aw.done)
		<-aw.stopped
		_ = aw.file.Close()
	})
}
