// Package hash provides the checksums used to verify persisted disk images.
//
// All checksums are CRC32-Castagnoli (CRC32C), which the standard library
// computes with SSE4.2 or the ARM CRC extension when available.
//
// For one-shot checksums:
//
//	sum := hash.CRC32C(img)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(header)
//	h.Write(payload)
//	sum := h.Sum32()
package hash
