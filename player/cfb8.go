package player

import "crypto/cipher"

// cfb8 implements 8-bit-feedback CFB mode, which Go's standard
// crypto/cipher.NewCFBEncrypter does not provide (it only supports
// full-block feedback). The Java-edition wire protocol's post-key-exchange
// encryption is specifically CFB8 with the shared secret reused as the IV,
// per spec.md §4.5.
type cfb8 struct {
	block     cipher.Block
	register  []byte
	tmp       []byte
	encrypter bool
}

func newCFB8Encrypter(block cipher.Block, iv []byte) cipher.Stream {
	return &cfb8{block: block, register: append([]byte{}, iv...), tmp: make([]byte, block.BlockSize()), encrypter: true}
}

func newCFB8Decrypter(block cipher.Block, iv []byte) cipher.Stream {
	return &cfb8{block: block, register: append([]byte{}, iv...), tmp: make([]byte, block.BlockSize()), encrypter: false}
}

func (c *cfb8) XORKeyStream(dst, src []byte) {
	for i := range src {
		c.block.Encrypt(c.tmp, c.register)
		out := src[i] ^ c.tmp[0]
		if c.encrypter {
			c.shift(out)
		} else {
			c.shift(src[i])
		}
		dst[i] = out
	}
}

// shift pushes fed into the feedback register, dropping the oldest byte.
func (c *cfb8) shift(fed byte) {
	copy(c.register, c.register[1:])
	c.register[len(c.register)-1] = fed
}
