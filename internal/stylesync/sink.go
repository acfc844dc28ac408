package stylesync

import (
	"io"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/shapes-cli/api/schemas"
)

// JSONLinesSink writes each event as one JSON object per line.
type JSONLinesSink struct {
	mu  sync.Mutex
	enc *jsoniter.Encoder
}

// NewJSONLinesSink returns a sink writing to w.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	return &JSONLinesSink{enc: jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)}
}

func (s *JSONLinesSink) Write(ev schemas.ShapeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(ev)
}
