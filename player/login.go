package player

import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/url"

	josecrypto "github.com/go-jose/go-jose/v4"

	"github.com/google/uuid"
)

const (
	packetLoginStart         = 0x00
	packetEncryptionResponse = 0x01
	packetLoginAcknowledged  = 0x03

	packetEncryptionRequest = 0x01
	packetLoginCompression  = 0x03
	packetLoginFinished     = 0x02
)

func (c *Connection) handleLoginPacket(id int32, r *bytes.Reader) {
	switch id {
	case packetLoginStart:
		c.handleLoginStart(r)
	case packetEncryptionResponse:
		c.handleEncryptionResponse(r)
	case packetLoginAcknowledged:
		c.stage = StageConfig
		c.beginConfig()
	default:
		c.conn.Close()
	}
}

func (c *Connection) handleLoginStart(r *bytes.Reader) {
	name, err := readString(r)
	if err != nil {
		c.conn.Close()
		return
	}
	id, err := readUUIDBytes(r)
	if err != nil {
		c.conn.Close()
		return
	}
	c.pendingName = name
	c.pendingUUID = id

	if c.onlineMode && c.keypair != nil {
		c.verifyToken = make([]byte, 4)
		_, _ = rand.Read(c.verifyToken)
		pub, err := x509.MarshalPKIXPublicKey(&c.keypair.PublicKey)
		if err != nil {
			c.conn.Close()
			return
		}
		c.write(encodeEncryptionRequest(pub, c.verifyToken))
		return
	}

	// Offline mode: trust the client-supplied uuid/username outright and
	// skip straight to compression + completion.
	c.finishLogin(c.pendingUUID, c.pendingName)
}

func (c *Connection) handleEncryptionResponse(r *bytes.Reader) {
	secretLen, err := readUVarInt(r)
	if err != nil {
		c.conn.Close()
		return
	}
	secretEnc := make([]byte, secretLen)
	if _, err := io.ReadFull(r, secretEnc); err != nil {
		c.conn.Close()
		return
	}
	tokenLen, err := readUVarInt(r)
	if err != nil {
		c.conn.Close()
		return
	}
	tokenEnc := make([]byte, tokenLen)
	if _, err := io.ReadFull(r, tokenEnc); err != nil {
		c.conn.Close()
		return
	}

	token, err := rsa.DecryptPKCS1v15(rand.Reader, c.keypair, tokenEnc)
	if err != nil || !bytes.Equal(token, c.verifyToken) {
		c.conn.Close()
		return
	}
	secret, err := rsa.DecryptPKCS1v15(rand.Reader, c.keypair, secretEnc)
	if err != nil || len(secret) != aes.BlockSize {
		c.conn.Close()
		return
	}
	if err := c.framer.EnableEncryption(secret); err != nil {
		c.conn.Close()
		return
	}

	profile, err := c.verifySession(c.pendingName, secret)
	if err != nil {
		c.log.WithError(err).Warn("session verification failed")
		c.conn.Close()
		return
	}
	c.finishLogin(profile.id, profile.name)
}

func (c *Connection) finishLogin(id uuid.UUID, name string) {
	c.write(encodeLoginCompression(compressionThreshold))
	c.framer.EnableCompression()
	c.write(encodeLoginFinished(id, name))
}

type sessionProfile struct {
	id   uuid.UUID
	name string
}

// verifySession performs the Mojang session-server "hasJoined" check: the
// server hash is derived from an empty server id, the shared secret, and
// the server's public key exactly as the protocol specifies. A signed
// textures property, if present, is only parsed as a JWS with jose; no key
// check is made, a parse failure is ignored, and the properties are not
// returned.
func (c *Connection) verifySession(name string, secret []byte) (sessionProfile, error) {
	pub, err := x509.MarshalPKIXPublicKey(&c.keypair.PublicKey)
	if err != nil {
		return sessionProfile{}, err
	}
	hash := mojangServerHash(secret, pub)

	q := url.Values{}
	q.Set("username", name)
	q.Set("serverId", hash)
	resp, err := http.Get("https://sessionserver.mojang.com/session/minecraft/hasJoined?" + q.Encode())
	if err != nil {
		return sessionProfile{}, err
	}
	defer resp.Body.Close()

	var body struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Properties []struct {
			Name      string `json:"name"`
			Value     string `json:"value"`
			Signature string `json:"signature"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return sessionProfile{}, err
	}

	for _, p := range body.Properties {
		if p.Name != "textures" || p.Signature == "" {
			continue
		}
		// The signature is parsed as a compact JWS; the parsed value is
		// discarded and no signature check against a public key follows.
		_, err := josecrypto.ParseSigned(p.Signature, []josecrypto.SignatureAlgorithm{josecrypto.RS256})
		if err != nil {
			// Some responses carry a bare signature rather than a JWS
			// envelope; a parse failure here is non-fatal since textures
			// aren't required for join to succeed.
			continue
		}
	}

	parsed, err := uuid.Parse(body.ID)
	if err != nil {
		// Mojang's hasJoined response omits dashes; retry with them
		// inserted.
		parsed, err = uuid.Parse(insertUUIDDashes(body.ID))
		if err != nil {
			return sessionProfile{}, err
		}
	}
	return sessionProfile{id: parsed, name: body.Name}, nil
}

func insertUUIDDashes(s string) string {
	if len(s) != 32 {
		return s
	}
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
}

// mojangServerHash implements the protocol's nonstandard signed-hex SHA-1,
// used as the serverId query parameter for session verification.
func mojangServerHash(secret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte{}) // empty server id
	h.Write(secret)
	h.Write(publicKey)
	sum := h.Sum(nil)

	negative := sum[0]&0x80 != 0
	if negative {
		for i := range sum {
			sum[i] = ^sum[i]
		}
		n := new(big.Int).SetBytes(sum)
		n.Add(n, big.NewInt(1))
		sum = n.Bytes()
	}
	hex := new(big.Int).SetBytes(sum).Text(16)
	if negative {
		return "-" + hex
	}
	return hex
}

func encodeEncryptionRequest(publicKey, verifyToken []byte) []byte {
	buf := newPacket(packetEncryptionRequest)
	writeString(buf, "") // server id, always empty per protocol
	_ = writeUVarInt(buf, int32(len(publicKey)))
	buf.Write(publicKey)
	_ = writeUVarInt(buf, int32(len(verifyToken)))
	buf.Write(verifyToken)
	return buf.Bytes()
}

func encodeLoginCompression(threshold int32) []byte {
	buf := newPacket(packetLoginCompression)
	_ = writeUVarInt(buf, threshold)
	return buf.Bytes()
}

func encodeLoginFinished(id uuid.UUID, name string) []byte {
	buf := newPacket(packetLoginFinished)
	writeUUIDBytes(buf, id)
	writeString(buf, name)
	_ = writeUVarInt(buf, 0) // no extra profile properties
	return buf.Bytes()
}
