package pager

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// cryptBlockInPlace XORs buf with an AES-CTR keystream keyed by the
// environment's 128-bit key, with address packed into the initial
// counter state (spec.md §4.5). CTR mode is symmetric, so the same
// function serves both encryption and decryption.
func cryptBlockInPlace(key [EncryptionKeySize]byte, address uint64, buf []byte) error {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return WrapError(ErrInvalid, err)
	}

	var iv [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(iv[:8], address)

	stream := cipher.NewCTR(block, iv[:])
	stream.XORKeyStream(buf, buf)
	return nil
}
