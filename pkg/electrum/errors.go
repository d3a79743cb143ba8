package electrum

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
)

// ErrClientClosed is returned by calls made after Close.
var ErrClientClosed = errors.New("electrum client closed")

// RPCError is an error object returned by the server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("electrum error %d: %s", e.Code, e.Message)
}

// IsTxNotFound reports whether the server doesn't know the requested transaction.
// Fulcrum and ElectrumX both relay the node's message.
func (e *RPCError) IsTxNotFound() bool {
	return strings.Contains(e.Message, "No such mempool or blockchain transaction")
}

// collaboratorFailure marks err as errs.CollaboratorFailure, keeping the cause chain.
func collaboratorFailure(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), errs.CollaboratorFailure)
}
