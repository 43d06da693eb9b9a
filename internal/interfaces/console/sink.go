package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"btcfeed/internal/application/port"
)

// Sink 把快照打印到终端（或任意 io.Writer）。
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewSink() port.Sink { return NewWriterSink(os.Stdout) }

func NewWriterSink(w io.Writer) *Sink { return &Sink{w: w} }

// 打印快照块：时间戳一行，之后每个 venue 一行，最后留一个空行
func (s *Sink) WriteSnapshot(ts time.Time, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "\n%s\n", ts.Format("2006-01-02 15:04:05")); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(s.w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(s.w, "\n")
	return err
}

func (s *Sink) NewLine() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprint(s.w, "\n")
	return err
}
