// Package runtime opens the configured storage backend and hands out the
// history built on it. Each caller opens one Runtime and closes it when done;
// there is no process-wide handle.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
//	defer rt.Close()
//	h := rt.History(history.DefaultOptions())
//	_, _ = h.Put(context.Background(), []byte("hello"))
package runtime
