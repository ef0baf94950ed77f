package protocol

import (
	"context"
	"errors"

	"github.com/park285/stripchess/internal/obslog"
	"github.com/park285/stripchess/internal/session"
	"go.uber.org/zap"
)

// Mover commits moves. *session.Controller satisfies it.
type Mover interface {
	Play(ctx context.Context, req session.MoveRequest) (session.MoveResult, error)
}

// Responder delivers one response to the device.
type Responder interface {
	Send(ctx context.Context, resp Response) error
}

// Handler turns one raw command payload into a session move and a response.
type Handler struct {
	mover     Mover
	responder Responder
	log       *zap.Logger
}

func NewHandler(mover Mover, responder Responder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = obslog.Named("protocol")
	}
	return &Handler{mover: mover, responder: responder, log: logger}
}

// Handle processes a payload. It reports false when the payload was dropped
// without a response.
func (h *Handler) Handle(ctx context.Context, data []byte) (Response, bool) {
	cmd, err := ParseCommand(data)
	if err != nil {
		h.log.Warn("protocol_decode_error", zap.ByteString("payload", data), zap.Error(err))
		return Response{}, false
	}

	resp := Rejected
	res, err := h.mover.Play(ctx, session.MoveRequest{
		Origin:        cmd.Origin,
		Destination:   cmd.Destination,
		Source:        session.SourceRemote,
		TimeRemaining: cmd.TimeRemaining,
		TimeControl:   cmd.TimeControl,
	})
	switch {
	case err == nil:
		resp = Response{Accepted: true, Outcome: res.Outcome}
		h.log.Info("protocol_command_accepted",
			zap.String("command", cmd.String()),
			zap.String("notation", res.Move.Notation),
			zap.String("outcome", res.Outcome.String()),
		)
	case errors.Is(err, session.ErrEmptyOrigin), errors.Is(err, session.ErrWrongTurn), errors.Is(err, session.ErrIllegalMove):
		h.log.Info("protocol_command_rejected", zap.String("command", cmd.String()), zap.String("reason", err.Error()))
	default:
		h.log.Error("protocol_command_error", zap.String("command", cmd.String()), zap.Error(err))
	}

	if h.responder != nil {
		if err := h.responder.Send(ctx, resp); err != nil {
			h.log.Warn("protocol_response_error", zap.String("response", resp.String()), zap.Error(err))
		}
	}
	return resp, true
}
