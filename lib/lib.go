package lib

import (
	"context"
	"os"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go"
)

var Commands = make(map[string]func())

var Args = make(map[string]any)

func ArgsDescription(args any) string {
	v := reflect.ValueOf(args)
	m := v.MethodByName("Description")
	if !m.IsValid() {
		return ""
	}
	out := m.Call(nil)
	return strings.Split(strings.TrimSpace(out[0].String()), "\n")[0]
}

var doDebug = strings.ToLower(os.Getenv("DEBUG")+" ")[:1] == "y"

var debugDepth int64

type Debug struct {
	start time.Time
	name  string
}

func (d *Debug) Start() {
	atomic.AddInt64(&debugDepth, 1)
}

func (d *Debug) End() {
	depth := atomic.AddInt64(&debugDepth, -1)
	Logger.Println("debug:", strings.Repeat(" ", int(depth)*2)+d.name, time.Since(d.start))
}

func (d *Debug) Log() {
	Logger.Println("debug:", d.name, time.Since(d.start))
}

func Retry(ctx context.Context, fn func() error) error {
	return RetryAttempts(ctx, 6, fn)
}

func RetryAttempts(ctx context.Context, attempts int, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.Attempts(uint(attempts)),
		retry.Delay(150*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.DelayType(retry.BackOffDelay),
	)
}

func Contains(parts []string, part string) bool {
	for _, p := range parts {
		if p == part {
			return true
		}
	}
	return false
}

func Last(xs []string) string {
	return xs[len(xs)-1]
}

func PreviewString(preview bool) string {
	if !preview {
		return ""
	}
	return "preview: "
}

func StringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
