// Package dispatch translates a named command plus argument bag into a
// validated call against the store engine. Engine-raised error kinds pass
// through untouched; the dispatcher only adds CommandNotFound and
// InvalidArguments of its own.
package dispatch

import (
	"github.com/dotcommander/kvd/internal/protocol"
	"github.com/dotcommander/kvd/internal/store"
)

type handlerFunc func(args map[string]any) (any, error)

// Dispatcher routes protocol requests to engine operations. The engine is
// injected at construction; the dispatcher holds no state of its own beyond
// the handler table.
type Dispatcher struct {
	engine   *store.Engine
	handlers map[string]handlerFunc
}

// New returns a dispatcher bound to engine.
func New(engine *store.Engine) *Dispatcher {
	d := &Dispatcher{engine: engine}
	d.handlers = map[string]handlerFunc{
		protocol.CmdPing:   d.ping,
		protocol.CmdGet:    d.get,
		protocol.CmdSet:    d.set,
		protocol.CmdDelete: d.delete,
		protocol.CmdIncr:   d.increment,
		protocol.CmdDecr:   d.decrement,
		protocol.CmdTTL:    d.ttl,
		protocol.CmdExpire: d.expire,
	}
	return d
}

// Dispatch executes one request and always produces a response: failures of
// any kind become a single ERROR response and the session continues.
func (d *Dispatcher) Dispatch(req protocol.Request) protocol.Response {
	handler, ok := d.handlers[req.Command]
	if !ok {
		return protocol.Error(&CommandNotFoundError{Name: req.Command})
	}
	result, err := handler(req.Args)
	if err != nil {
		return protocol.Error(err)
	}
	return protocol.OK(result)
}

func (d *Dispatcher) ping(map[string]any) (any, error) {
	return protocol.Pong, nil
}

func (d *Dispatcher) get(args map[string]any) (any, error) {
	key, err := stringArg(protocol.CmdGet, args, "key")
	if err != nil {
		return nil, err
	}
	value, _ := d.engine.Get(key)
	return value, nil
}

func (d *Dispatcher) set(args map[string]any) (any, error) {
	key, err := stringArg(protocol.CmdSet, args, "key")
	if err != nil {
		return nil, err
	}
	value, err := valueArg(protocol.CmdSet, args, "value")
	if err != nil {
		return nil, err
	}
	ttl, err := ttlArg(protocol.CmdSet, args, "ttl", 0)
	if err != nil {
		return nil, err
	}
	if ttl > 0 {
		d.engine.Set(key, value, store.WithTTL(ttl))
	} else {
		d.engine.Set(key, value)
	}
	return nil, nil
}

func (d *Dispatcher) delete(args map[string]any) (any, error) {
	key, err := stringArg(protocol.CmdDelete, args, "key")
	if err != nil {
		return nil, err
	}
	d.engine.Delete(key)
	return nil, nil
}

func (d *Dispatcher) increment(args map[string]any) (any, error) {
	key, err := stringArg(protocol.CmdIncr, args, "key")
	if err != nil {
		return nil, err
	}
	by, err := intArg(protocol.CmdIncr, args, "increment_by", 1)
	if err != nil {
		return nil, err
	}
	return d.engine.Increment(key, by)
}

func (d *Dispatcher) decrement(args map[string]any) (any, error) {
	key, err := stringArg(protocol.CmdDecr, args, "key")
	if err != nil {
		return nil, err
	}
	return d.engine.Decrement(key)
}

func (d *Dispatcher) ttl(args map[string]any) (any, error) {
	key, err := stringArg(protocol.CmdTTL, args, "key")
	if err != nil {
		return nil, err
	}
	return d.engine.TTL(key)
}

func (d *Dispatcher) expire(args map[string]any) (any, error) {
	key, err := stringArg(protocol.CmdExpire, args, "key")
	if err != nil {
		return nil, err
	}
	ttl, err := requireIntArg(protocol.CmdExpire, args, "ttl")
	if err != nil {
		return nil, err
	}
	if ttl < 0 {
		return nil, &InvalidArgumentsError{
			Command: protocol.CmdExpire,
			Arg:     "ttl",
			Reason:  `"ttl" must not be negative`,
		}
	}
	if err := d.engine.Expire(key, ttl); err != nil {
		return nil, err
	}
	return nil, nil
}
