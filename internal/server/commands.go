package server

import (
	"errors"
	"strconv"

	"github.com/epokhe/rhino-rox/core"
	"github.com/epokhe/rhino-rox/internal/resp"
)

// commandSpec describes one verb's arity and handler. minArgs/maxArgs
// count arguments after the verb itself; maxArgs of -1 means unbounded.
type commandSpec struct {
	minArgs int
	maxArgs int
	handler func(ks *core.Keyspace, args [][]byte) resp.Reply
}

// commands is the verb table the router dispatches through. Verb
// lookup is case-insensitive; arity is checked before the handler
// runs so a bad call never reaches the engine.
var commands = map[string]commandSpec{
	"ping": {0, 1, cmdPing},
	"echo": {1, 1, cmdEcho},
	"info": {0, 0, cmdInfo},

	"len":    {0, 0, cmdLen},
	"del":    {1, -1, cmdDel},
	"exists": {1, 1, cmdExists},
	"type":   {1, 1, cmdType},

	"set": {2, 2, cmdSet},
	"get": {1, 1, cmdGet},

	"rset":    {3, 3, cmdRSet},
	"rget":    {2, 2, cmdRGet},
	"rdel":    {2, 2, cmdRDel},
	"rexists": {2, 2, cmdRExists},
	"rlen":    {1, 1, cmdRLen},
	"rkeys":   {1, 1, cmdRKeys},
	"rvalues": {1, 1, cmdRValues},
	"rgetall": {1, 1, cmdRGetAll},
	"rpget":   {2, 2, cmdRPGet},

	"qpush": {3, 3, cmdQPush},
	"qpop":  {1, 1, cmdQPop},
	"qpopn": {2, 2, cmdQPopN},
	"qpeek": {1, 1, cmdQPeek},
	"qlen":  {1, 1, cmdQLen},

	"dset":    {3, 3, cmdDSet},
	"dget":    {2, 2, cmdDGet},
	"ddel":    {2, 2, cmdDDel},
	"dlen":    {1, 1, cmdDLen},
	"dsearch": {2, 2, cmdDSearch},
}

// dispatch looks up argv[0] as a verb, validates arity, and runs its
// handler against ks. Unknown verbs and arity mismatches never reach
// core: they're reported directly as RESP errors.
func dispatch(ks *core.Keyspace, argv [][]byte) resp.Reply {
	name := asciiLower(string(argv[0]))
	spec, ok := commands[name]
	if !ok {
		return resp.Error("ERR unknown command '" + name + "'")
	}

	n := len(argv) - 1
	if n < spec.minArgs || (spec.maxArgs >= 0 && n > spec.maxArgs) {
		return resp.Error("ERR wrong number of arguments for '" + name + "' command")
	}
	return spec.handler(ks, argv[1:])
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// typeError renders a core engine type mismatch as the RESP error the
// wire contract specifies. Any other error yields ok == false, and
// errReply then sends it to the client as a plain "ERR <message>" line.
func typeError(err error) (resp.Reply, bool) {
	if errors.Is(err, core.ErrWrongType) {
		return resp.Error("ERR wrongtype: key holds a different kind of value"), true
	}
	return nil, false
}

func errReply(err error) resp.Reply {
	if r, ok := typeError(err); ok {
		return r
	}
	return resp.Error("ERR " + err.Error())
}

func cmdPing(_ *core.Keyspace, args [][]byte) resp.Reply {
	if len(args) == 1 {
		return resp.Bulk(string(args[0]))
	}
	return resp.SimpleString("PONG")
}

func cmdEcho(_ *core.Keyspace, args [][]byte) resp.Reply {
	return resp.Bulk(string(args[0]))
}

func cmdInfo(_ *core.Keyspace, _ [][]byte) resp.Reply {
	return resp.Bulk(infoBody())
}

func cmdLen(ks *core.Keyspace, _ [][]byte) resp.Reply {
	return resp.Integer(ks.Len())
}

func cmdDel(ks *core.Keyspace, args [][]byte) resp.Reply {
	keys := make([]string, len(args))
	for i, a := range args {
		keys[i] = string(a)
	}
	return resp.Integer(ks.Del(keys...))
}

func cmdExists(ks *core.Keyspace, args [][]byte) resp.Reply {
	if ks.Exists(string(args[0])) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

func cmdType(ks *core.Keyspace, args [][]byte) resp.Reply {
	return resp.SimpleString(string(ks.Type(string(args[0]))))
}

func cmdSet(ks *core.Keyspace, args [][]byte) resp.Reply {
	if err := ks.Set(string(args[0]), string(args[1])); err != nil {
		return errReply(err)
	}
	return resp.SimpleString("OK")
}

func cmdGet(ks *core.Keyspace, args [][]byte) resp.Reply {
	v, found, err := ks.Get(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	if !found {
		return resp.NullBulk()
	}
	return resp.Bulk(v)
}

func cmdRSet(ks *core.Keyspace, args [][]byte) resp.Reply {
	if err := ks.RSet(string(args[0]), string(args[1]), string(args[2])); err != nil {
		return errReply(err)
	}
	return resp.SimpleString("OK")
}

func cmdRGet(ks *core.Keyspace, args [][]byte) resp.Reply {
	v, found, err := ks.RGet(string(args[0]), string(args[1]))
	if err != nil {
		return errReply(err)
	}
	if !found {
		return resp.NullBulk()
	}
	return resp.Bulk(v)
}

func cmdRDel(ks *core.Keyspace, args [][]byte) resp.Reply {
	n, err := ks.RDel(string(args[0]), string(args[1]))
	if err != nil {
		return errReply(err)
	}
	return resp.Integer(n)
}

func cmdRExists(ks *core.Keyspace, args [][]byte) resp.Reply {
	found, err := ks.RExists(string(args[0]), string(args[1]))
	if err != nil {
		return errReply(err)
	}
	if found {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

func cmdRLen(ks *core.Keyspace, args [][]byte) resp.Reply {
	n, err := ks.RLen(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return resp.Integer(n)
}

func cmdRKeys(ks *core.Keyspace, args [][]byte) resp.Reply {
	keys, err := ks.RKeys(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return resp.BulkArray(keys)
}

func cmdRValues(ks *core.Keyspace, args [][]byte) resp.Reply {
	vals, err := ks.RValues(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return resp.BulkArray(vals)
}

func cmdRGetAll(ks *core.Keyspace, args [][]byte) resp.Reply {
	kvs, err := ks.RGetAll(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return kvArray(kvs)
}

func cmdRPGet(ks *core.Keyspace, args [][]byte) resp.Reply {
	kvs, err := ks.RPGet(string(args[0]), string(args[1]))
	if err != nil {
		return errReply(err)
	}
	return kvArray(kvs)
}

func cmdQPush(ks *core.Keyspace, args [][]byte) resp.Reply {
	priority, err := strconv.ParseFloat(string(args[1]), 64)
	if err != nil {
		return resp.Error("ERR value is not a valid float")
	}
	if err := ks.QPush(string(args[0]), priority, string(args[2])); err != nil {
		return errReply(err)
	}
	return resp.SimpleString("OK")
}

func cmdQPop(ks *core.Keyspace, args [][]byte) resp.Reply {
	v, found, err := ks.QPop(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	if !found {
		return resp.NullBulk()
	}
	return resp.Bulk(v)
}

func cmdQPopN(ks *core.Keyspace, args [][]byte) resp.Reply {
	n, err := strconv.Atoi(string(args[1]))
	if err != nil || n < 0 {
		return resp.Error("ERR value is not a valid integer")
	}
	vals, err := ks.QPopN(string(args[0]), n)
	if err != nil {
		return errReply(err)
	}
	return resp.BulkArray(vals)
}

func cmdQPeek(ks *core.Keyspace, args [][]byte) resp.Reply {
	v, found, err := ks.QPeek(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	if !found {
		return resp.NullBulk()
	}
	return resp.Bulk(v)
}

func cmdQLen(ks *core.Keyspace, args [][]byte) resp.Reply {
	n, err := ks.QLen(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return resp.Integer(n)
}

func cmdDSet(ks *core.Keyspace, args [][]byte) resp.Reply {
	if err := ks.DSet(string(args[0]), string(args[1]), string(args[2])); err != nil {
		return errReply(err)
	}
	return resp.SimpleString("OK")
}

func cmdDGet(ks *core.Keyspace, args [][]byte) resp.Reply {
	body, found, err := ks.DGet(string(args[0]), string(args[1]))
	if err != nil {
		return errReply(err)
	}
	if !found {
		return resp.NullBulk()
	}
	return resp.Bulk(body)
}

func cmdDDel(ks *core.Keyspace, args [][]byte) resp.Reply {
	n, err := ks.DDel(string(args[0]), string(args[1]))
	if err != nil {
		return errReply(err)
	}
	return resp.Integer(n)
}

func cmdDLen(ks *core.Keyspace, args [][]byte) resp.Reply {
	n, err := ks.DLen(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return resp.Integer(n)
}

func cmdDSearch(ks *core.Keyspace, args [][]byte) resp.Reply {
	kvs, err := ks.DSearch(string(args[0]), string(args[1]))
	if err != nil {
		return errReply(err)
	}
	return kvArray(kvs)
}

// kvArray interleaves a KV slice as [k1, v1, k2, v2, ...], the shape
// rgetall/rpget/dsearch all share.
func kvArray(kvs []core.KV) resp.Reply {
	items := make([]resp.Reply, 0, len(kvs)*2)
	for _, kv := range kvs {
		items = append(items, resp.Bulk(kv.Key), resp.Bulk(kv.Val))
	}
	return resp.Array(items...)
}
