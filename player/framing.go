package player

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/oriumgames/wyvern/actor"
)

// compressionThreshold is the byte length at or above which an outbound
// frame is zlib-compressed, per spec.md §6.
const compressionThreshold = 128

// cfb8Stream wraps a cipher.Block in CFB8 mode for both directions, per
// spec.md §4.5's "AES/CFB8 encryption after key exchange".
type cfb8Stream struct {
	encrypt cipher.Stream
	decrypt cipher.Stream
}

func newCFB8Stream(key []byte) (*cfb8Stream, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &cfb8Stream{
		encrypt: newCFB8Encrypter(block, key),
		decrypt: newCFB8Decrypter(block, key),
	}, nil
}

// Framer owns a connection's transport-level byte-stream state: whether
// compression and encryption are active, and their parameters.
type Framer struct {
	compressionOn bool
	cipher        *cfb8Stream
}

// NewFramer returns a Framer with neither compression nor encryption
// active; both are switched on explicitly during the Login substage.
func NewFramer() *Framer {
	return &Framer{}
}

// EnableCompression switches on zlib compression for outbound frames ≥
// compressionThreshold bytes, per the LoginCompression packet's effect.
func (f *Framer) EnableCompression() {
	f.compressionOn = true
}

// EnableEncryption installs the AES/CFB8 cipher derived from the shared
// secret negotiated during the Login substage's key exchange.
func (f *Framer) EnableEncryption(sharedSecret []byte) error {
	stream, err := newCFB8Stream(sharedSecret)
	if err != nil {
		return err
	}
	f.cipher = stream
	return nil
}

// WriteFrame writes one outbound frame: (length: VarInt)(body), where body
// is either (dataLength=0)(raw) for uncompressed frames or
// (dataLength: VarInt)(zlib-compressed raw) once compression is on and raw
// is at least compressionThreshold bytes.
func (f *Framer) WriteFrame(w io.Writer, raw []byte) error {
	var body bytes.Buffer

	if f.compressionOn {
		if len(raw) >= compressionThreshold {
			if err := writeUVarInt(&body, int32(len(raw))); err != nil {
				return err
			}
			zw := zlib.NewWriter(&body)
			if _, err := zw.Write(raw); err != nil {
				return err
			}
			if err := zw.Close(); err != nil {
				return err
			}
		} else {
			if err := writeUVarInt(&body, 0); err != nil {
				return err
			}
			body.Write(raw)
		}
	} else {
		body.Write(raw)
	}

	var header bytes.Buffer
	if err := writeUVarInt(&header, int32(body.Len())); err != nil {
		return err
	}

	out := f.maybeEncrypt(append(header.Bytes(), body.Bytes()...))
	_, err := w.Write(out)
	return err
}

// ReadFrame reads one inbound frame and returns its decompressed,
// decrypted body (the part a stage handler decodes packet ids/fields
// from).
func (f *Framer) ReadFrame(r io.Reader) ([]byte, error) {
	dr := f.maybeDecryptReader(r)

	length, err := readUVarInt(dr)
	if err != nil {
		return nil, err
	}
	if length < 0 || length > 1<<21 {
		return nil, actor.NewError(actor.ErrBadRequest, "invalid frame length %d", length)
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(dr, raw); err != nil {
		return nil, err
	}

	if !f.compressionOn {
		return raw, nil
	}

	body := bytes.NewReader(raw)
	dataLength, err := readUVarInt(body)
	if err != nil {
		return nil, err
	}
	if dataLength == 0 {
		rest := make([]byte, body.Len())
		_, _ = io.ReadFull(body, rest)
		return rest, nil
	}
	zr, err := zlib.NewReader(body)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out := make([]byte, dataLength)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Framer) maybeEncrypt(data []byte) []byte {
	if f.cipher == nil {
		return data
	}
	out := make([]byte, len(data))
	f.cipher.encrypt.XORKeyStream(out, data)
	return out
}

// maybeDecryptReader wraps r so that each Read looks up f's cipher at the
// time the bytes arrive, not when the wrapper was made.
func (f *Framer) maybeDecryptReader(r io.Reader) io.Reader {
	return &decryptReader{r: r, framer: f}
}

type decryptReader struct {
	r      io.Reader
	framer *Framer
}

func (d *decryptReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 && d.framer.cipher != nil {
		d.framer.cipher.decrypt.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}
