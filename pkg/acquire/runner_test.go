package acquire

import "context"

// fakeRunner records every invocation and delegates to a per-test handler.
type fakeRunner struct {
	calls   [][]string
	handler func(name string, args []string) (string, error)
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	call := append([]string{name}, args...)
	r.calls = append(r.calls, call)
	if r.handler == nil {
		return "", nil
	}
	return r.handler(name, args)
}

func hasArg(call []string, want string) bool {
	for _, arg := range call {
		if arg == want {
			return true
		}
	}
	return false
}
