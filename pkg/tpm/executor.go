package tpm

import (
	"crypto/sha256"
	"errors"
	"sync"

	"vccore/pkg/logger"
	"vccore/pkg/wire"
)

// Transport sends a serialized TPM command and returns the TPM's
// serialized response. It is the narrow boundary to the platform TPM
// device or simulator; this module never interprets how bytes reach the
// TPM, only how they are shaped.
type Transport interface {
	Send(command []byte) (response []byte, err error)
}

// Session carries the state an authenticated/encrypted command needs to
// fill a command's authorization area and verify a response's.
// SessionHandle TPM_RS_PW (0x40000009) selects password authorization,
// the simplest case, where HMACKey is used directly as the auth value
// and no cpHash/rpHash computation is required.
type Session struct {
	Handle Handle
	Nonce  []byte
	Attrs  uint8
	HMACKey []byte
}

// Executor assembles commands, transmits them, and parses responses
// against the ResponseCodec registry. It serializes calls with a mutex
// since a TPM device processes one command at a time and the executor's
// header-patching writes are not safe for concurrent reuse of a single
// command buffer.
type Executor struct {
	mu        sync.Mutex
	transport Transport
	log       *logger.Log
}

// NewExecutor binds an Executor to transport.
func NewExecutor(transport Transport) *Executor {
	return &Executor{transport: transport, log: logger.NewSimple("tpm")}
}

var errUnknownCommand = errors.New("tpm: no ResponseCodec registered for command code")

// Execute runs the full command/response cycle for cmd and any bound
// handles, returning the typed response value the ResponseCodec
// produced. session is nil for TPM_ST_NO_SESSIONS commands.
func (e *Executor) Execute(cmd CommandInput, handles []Handle, session *Session) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	code := cmd.CommandCode()
	attrs, ok := attrsFor(code)
	if !ok {
		return nil, errUnknownCommand
	}
	if len(handles) != attrs.inputHandles {
		return nil, errors.New("tpm: wrong number of handles for command")
	}
	respEntry, ok := responseEntryFor(code)
	if !ok {
		return nil, errUnknownCommand
	}
	if attrs.hasResponseHandle != (respEntry.outHandles > 0) {
		return nil, errors.New("tpm: command attribute table and response registry disagree on response handle presence")
	}
	if attrs.hasAuthArea && session == nil {
		return nil, errors.New("tpm: command requires an authorization area but no session was supplied")
	}

	// Step 1/2: write header placeholder, handles, deferred auth slot,
	// parameters.
	tag := StNoSessions
	if session != nil {
		tag = StSessions
	}

	w := wire.NewWriter(256)
	Header{Tag: tag, Size: 0, Code: code}.WriteTo(w)

	cmd.WriteHandles(w)

	paramOffset := w.Len()
	cmd.WriteParameters(w)

	// Step 3: compute cpHash and splice the auth area (authorizationSize
	// followed by the session's auth block) between the handle area and
	// the parameters, now that the parameter bytes are known.
	if session != nil {
		cpHash := commandParameterHash(code, handles, w.Bytes()[paramOffset:])
		authArea := buildAuthArea(session, cpHash)

		full := w.Bytes()
		rebuilt := wire.NewWriter(len(full) + 4 + len(authArea))
		rebuilt.WriteBytes(full[:paramOffset])
		rebuilt.WriteUint32(uint32(len(authArea)))
		rebuilt.WriteBytes(authArea)
		rebuilt.WriteBytes(full[paramOffset:])
		w = rebuilt
	}

	w.PatchUint32(2, uint32(w.Len()))

	// Step 4: transmit.
	respBytes, err := e.transport.Send(w.Bytes())
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	// Step 5: parse response.
	r := wire.NewReader(respBytes)
	header, err := ReadHeader(r)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if int(header.Size) != len(respBytes) {
		return nil, &TransportError{Err: errors.New("tpm: response size does not match envelope length")}
	}
	if header.Code != 0 {
		e.log.Debug("tpm command failed", "code", code, "responseCode", header.Code)
		return nil, &ResponseError{Code: header.Code}
	}
	e.log.Trace("tpm command succeeded", "code", code)

	outHandles := make([]Handle, 0, respEntry.outHandles)
	for i := 0; i < respEntry.outHandles; i++ {
		v, err := r.ReadUint32()
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		outHandles = append(outHandles, Handle(v))
	}

	if header.Tag == StSessions {
		paramSize, err := r.ReadUint32()
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		paramBytes, err := r.ReadBytes(int(paramSize))
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		// rpHash verification against the trailing auth area is the
		// caller's HMAC session responsibility; this module only
		// guarantees the envelope split is correct.
		paramReader := wire.NewReader(paramBytes)
		return respEntry.parse(paramReader, outHandles)
	}

	return respEntry.parse(r, outHandles)
}

func commandParameterHash(code uint32, handles []Handle, parameters []byte) []byte {
	h := sha256.New()
	var codeBytes [4]byte
	codeBytes[0] = byte(code >> 24)
	codeBytes[1] = byte(code >> 16)
	codeBytes[2] = byte(code >> 8)
	codeBytes[3] = byte(code)
	h.Write(codeBytes[:])
	for _, handle := range handles {
		var hb [4]byte
		v := uint32(handle)
		hb[0] = byte(v >> 24)
		hb[1] = byte(v >> 16)
		hb[2] = byte(v >> 8)
		hb[3] = byte(v)
		h.Write(hb[:])
	}
	h.Write(parameters)
	return h.Sum(nil)
}

func buildAuthArea(session *Session, cpHash []byte) []byte {
	w := wire.NewWriter(64)
	w.WriteUint32(uint32(session.Handle))
	w.WriteLengthPrefixed16(session.Nonce)
	w.WriteUint8(session.Attrs)
	hmac := sessionHMAC(session, cpHash)
	w.WriteLengthPrefixed16(hmac)
	return w.Bytes()
}

// sessionHMAC is intentionally the simple password-authorization case
// (HMACKey used as the auth value directly): full HMAC-session key
// derivation (session key plus cpHash/nonce mixing per Part 1 §19) is
// out of this module's scope until a concrete HMAC session consumer
// needs it.
func sessionHMAC(session *Session, cpHash []byte) []byte {
	return session.HMACKey
}
