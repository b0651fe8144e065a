package logging

import "time"

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Field helpers for the names the engines log with.

// Objective is "setup" or "hold".
func Objective(name string) Field {
	return String("objective", name)
}

// Mode is "incremental" or "full".
func Mode(mode string) Field {
	return String("mode", mode)
}

func Pass(n uint64) Field {
	return Uint64("pass", n)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Pins(n int) Field {
	return Int("pins", n)
}

func DomainPairs(n int) Field {
	return Int("domain_pairs", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Path(p string) Field {
	return String("path", p)
}
