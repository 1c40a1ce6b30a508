package dispatch

import (
	"encoding/json"
	"fmt"
	"math"
)

// Argument binding helpers. JSON decoding delivers every number as float64,
// so integer arguments accept integral floats (and json.Number from callers
// that decode with UseNumber).

func stringArg(command string, args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", &InvalidArgumentsError{
			Command: command,
			Arg:     name,
			Reason:  fmt.Sprintf("%s requires %q", command, name),
		}
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidArgumentsError{
			Command: command,
			Arg:     name,
			Reason:  fmt.Sprintf("%q must be a string", name),
		}
	}
	return s, nil
}

func valueArg(command string, args map[string]any, name string) (any, error) {
	v, ok := args[name]
	if !ok {
		return nil, &InvalidArgumentsError{
			Command: command,
			Arg:     name,
			Reason:  fmt.Sprintf("%s requires %q", command, name),
		}
	}
	return v, nil
}

// intArg binds an optional integer argument, returning def when absent.
func intArg(command string, args map[string]any, name string, def int64) (int64, error) {
	v, ok := args[name]
	if !ok {
		return def, nil
	}
	n, ok := coerceInt64(v)
	if !ok {
		return 0, &InvalidArgumentsError{
			Command: command,
			Arg:     name,
			Reason:  fmt.Sprintf("%q must be an integer", name),
		}
	}
	return n, nil
}

// requireIntArg binds a required integer argument.
func requireIntArg(command string, args map[string]any, name string) (int64, error) {
	if _, ok := args[name]; !ok {
		return 0, &InvalidArgumentsError{
			Command: command,
			Arg:     name,
			Reason:  fmt.Sprintf("%s requires %q", command, name),
		}
	}
	return intArg(command, args, name, 0)
}

// ttlArg binds a non-negative integer TTL, defaulting to def when absent.
func ttlArg(command string, args map[string]any, name string, def int64) (int64, error) {
	n, err := intArg(command, args, name, def)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &InvalidArgumentsError{
			Command: command,
			Arg:     name,
			Reason:  fmt.Sprintf("%q must not be negative", name),
		}
	}
	return n, nil
}

func coerceInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
