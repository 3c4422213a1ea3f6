// Copyright 2024 The Molecule Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"encoding/binary"
)

// getU32 reads a Number (spec.md §3.1): an explicit little-endian 4-byte
// unsigned integer, never the host's native encoding or alignment.
func getU32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// appendU32 appends v to buf as a little-endian Number.
func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// writeU32 writes v to w as a little-endian Number.
func writeU32(w *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.Write(tmp[:])
}

// writeZeros writes n zero padding bytes to w.
func writeZeros(w *bytes.Buffer, n int) {
	if n <= 0 {
		return
	}
	var zeros [8]byte
	for n > 0 {
		k := n
		if k > len(zeros) {
			k = len(zeros)
		}
		w.Write(zeros[:k])
		n -= k
	}
}

// checkPaddingZero verifies every byte of b is 0x00 (spec.md §3.1 "Padding
// byte"), returning a BytesNotPadded error named typeName otherwise.
func checkPaddingZero(typeName string, b []byte) error {
	for _, c := range b {
		if c != 0 {
			return &VerifyError{Kind: ErrBytesNotPadded, Type: typeName}
		}
	}
	return nil
}
