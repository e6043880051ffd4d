package resp

import (
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Reply is anything that can be encoded as one RESP reply.
type Reply interface {
	encode(buf *bytebufferpool.ByteBuffer)
}

type simpleStringReply string

func (s simpleStringReply) encode(buf *bytebufferpool.ByteBuffer) {
	buf.WriteByte('+')
	buf.WriteString(string(s))
	buf.WriteString("\r\n")
}

type errorReply string

func (e errorReply) encode(buf *bytebufferpool.ByteBuffer) {
	buf.WriteByte('-')
	buf.WriteString(string(e))
	buf.WriteString("\r\n")
}

type integerReply int

func (n integerReply) encode(buf *bytebufferpool.ByteBuffer) {
	buf.WriteByte(':')
	buf.WriteString(strconv.Itoa(int(n)))
	buf.WriteString("\r\n")
}

type bulkReply struct {
	s    string
	null bool
}

func (b bulkReply) encode(buf *bytebufferpool.ByteBuffer) {
	if b.null {
		buf.WriteString("$-1\r\n")
		return
	}
	buf.WriteByte('$')
	buf.WriteString(strconv.Itoa(len(b.s)))
	buf.WriteString("\r\n")
	buf.WriteString(b.s)
	buf.WriteString("\r\n")
}

type arrayReply []Reply

func (a arrayReply) encode(buf *bytebufferpool.ByteBuffer) {
	buf.WriteByte('*')
	buf.WriteString(strconv.Itoa(len(a)))
	buf.WriteString("\r\n")
	for _, item := range a {
		item.encode(buf)
	}
}

// SimpleString builds a "+s\r\n" reply.
func SimpleString(s string) Reply { return simpleStringReply(s) }

// Error builds a "-msg\r\n" reply. msg should already carry an error
// code prefix such as "ERR ".
func Error(msg string) Reply { return errorReply(msg) }

// Integer builds a ":n\r\n" reply.
func Integer(n int) Reply { return integerReply(n) }

// Bulk builds a "$len\r\ns\r\n" reply.
func Bulk(s string) Reply { return bulkReply{s: s} }

// NullBulk builds the "$-1\r\n" null reply.
func NullBulk() Reply { return bulkReply{null: true} }

// Array builds a "*n\r\n"-prefixed array of the given replies.
func Array(items ...Reply) Reply { return arrayReply(items) }

// BulkArray builds an array of bulk-string replies from strs.
func BulkArray(strs []string) Reply {
	items := make(arrayReply, len(strs))
	for i, s := range strs {
		items[i] = Bulk(s)
	}
	return items
}

// EmptyArray is the "*0\r\n" reply.
func EmptyArray() Reply { return arrayReply(nil) }

var pool bytebufferpool.Pool

// WriteReply encodes r into a pooled buffer and writes it to w in a
// single call, avoiding a per-field syscall for array replies.
func WriteReply(w io.Writer, r Reply) error {
	buf := pool.Get()
	defer pool.Put(buf)

	r.encode(buf)
	_, err := w.Write(buf.B)
	return err
}
