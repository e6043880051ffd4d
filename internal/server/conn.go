package server

import (
	"bufio"
	goerrors "errors"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/epokhe/rhino-rox/core"
	"github.com/epokhe/rhino-rox/internal/resp"
)

// serveConn runs the read-dispatch-write loop for one accepted
// connection until the client disconnects or a framing error forces
// the connection closed. It never returns an error: everything short
// of a panic is logged and the connection is simply closed.
func serveConn(conn net.Conn, ks *core.Keyspace, log *zap.Logger) {
	id := uuid.New().String()
	log = log.With(zap.String("conn_id", id), zap.String("remote_addr", conn.RemoteAddr().String()))
	log.Debug("connection accepted")
	defer func() {
		conn.Close()
		log.Debug("connection closed")
	}()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	for {
		argv, err := resp.ReadRequest(r)
		if err != nil {
			if goerrors.Is(err, io.EOF) {
				return
			}
			log.Warn("framing error, closing connection", zap.Error(errors.Wrap(err, "read request")))
			// Best-effort: the client gets an error reply before the
			// connection drops, even though the stream is now desynced.
			_ = resp.WriteReply(w, resp.Error("ERR "+err.Error()))
			_ = w.Flush()
			return
		}
		if argv == nil {
			// blank inline line: nothing to reply to, read again
			continue
		}

		reply := dispatch(ks, argv)

		if err := resp.WriteReply(w, reply); err != nil {
			log.Debug("write error, closing connection", zap.Error(err))
			return
		}
		if err := w.Flush(); err != nil {
			log.Debug("flush error, closing connection", zap.Error(err))
			return
		}
	}
}
